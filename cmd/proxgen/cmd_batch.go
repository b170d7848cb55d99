package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gitrdm/proxgen/internal/metrics"
	"github.com/gitrdm/proxgen/internal/parallel"
	"github.com/gitrdm/proxgen/internal/ux"
	"github.com/gitrdm/proxgen/pkg/generalize"
	"github.com/gitrdm/proxgen/pkg/problem"
)

func (a *app) newBatchCmd() *cobra.Command {
	var workers int
	flags := newSolverFlags()

	batchCmd := &cobra.Command{
		Use:   "batch FILE",
		Short: "Solve every problem of a batch file",
		Long: `The batch command solves the problems listed under "problems" in a
        YAML file concurrently and prints the results in file order. Each
        problem gets its own solver; command line flags override the
        settings of every problem.

        $ proxgen batch problems.yaml --workers 4 --metrics
        `,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := problem.LoadBatchFile(args[0])
			if err != nil {
				return err
			}
			base, err := flags.options()
			if err != nil {
				return err
			}

			var m *metrics.Metrics
			reg := prometheus.NewRegistry()
			if flags.metrics {
				m = metrics.New(reg)
			}

			runLog := a.logger.WithField("run", uuid.New().String())
			runLog.Infof("solving %d problem(s)", len(b.Problems))

			results := make([]*problem.Result, len(b.Problems))
			errs := make([]error, len(b.Problems))
			pool := parallel.NewWorkerPool(workers)
			defer pool.Shutdown()
			err = pool.ForEach(cmd.Context(), len(b.Problems), func(i int) {
				p := b.Problems[i]
				flags.apply(&p)
				opts := *base
				opts.Logger = runLog.WithField("problem", problemName(&p, i))
				opts.Monitor = generalize.NewMonitor()
				results[i], errs[i] = p.Solve(&opts)
				if m != nil {
					m.Observe(opts.Monitor.GetStats())
					m.ObserveOutcome(errs[i])
				}
			})
			if err != nil {
				return errors.Wrap(err, "batch interrupted")
			}

			return a.printBatch(b, results, errs, runLog, func() error {
				if m == nil {
					return nil
				}
				return metrics.WriteText(a.out, reg)
			})
		},
	}

	batchCmd.Flags().IntVarP(&workers, "workers", "w", 0, "number of problems solved at once (0 means one per CPU)")
	batchCmd.Flags().AddFlagSet(flags.fs)

	return batchCmd
}

// printBatch writes the results in file order, followed by the metrics.
// It fails when any problem failed.
func (a *app) printBatch(b *problem.Batch, results []*problem.Result, errs []error, runLog log.FieldLogger, writeMetrics func() error) error {
	printer := ux.NewPrinter(a.out, a.color)
	failed := 0
	for i := range b.Problems {
		if i > 0 {
			fmt.Fprintln(a.out)
		}
		if errs[i] != nil {
			failed++
			runLog.WithField("problem", problemName(&b.Problems[i], i)).WithError(errs[i]).Warn("problem failed")
			printer.Error(errors.Wrapf(errs[i], "%s", problemName(&b.Problems[i], i)))
			continue
		}
		printer.Result(results[i])
	}
	if err := writeMetrics(); err != nil {
		return err
	}
	if failed > 0 {
		return errors.Errorf("%d of %d problems failed", failed, len(b.Problems))
	}
	return nil
}

func problemName(p *problem.Problem, i int) string {
	if p.Name != "" {
		return p.Name
	}
	return fmt.Sprintf("#%d", i+1)
}
