package main

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/gitrdm/proxgen/internal/metrics"
	"github.com/gitrdm/proxgen/internal/ux"
	"github.com/gitrdm/proxgen/pkg/generalize"
	"github.com/gitrdm/proxgen/pkg/problem"
)

func (a *app) newSolveCmd() *cobra.Command {
	var (
		relations string
		file      string
	)
	flags := newSolverFlags()

	solveCmd := &cobra.Command{
		Use:   "solve [EQUATION]",
		Short: "Solve one generalization problem",
		Long: `The solve command reads one problem, either as an equation with
        relations on the command line or from a YAML problem file, and prints
        its generalizations with their degrees and witnesses.

        $ proxgen solve "f(a, b) =^= f(b, a)"
        $ proxgen solve "a =^= b" -r "a b {} 0.8" -l 0.5
        $ proxgen solve -f problem.yaml --tnorm product
        `,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadSolveProblem(args, relations, file)
			if err != nil {
				return err
			}
			flags.apply(p)
			base, err := flags.options()
			if err != nil {
				return err
			}
			base.Logger = a.logger
			base.Monitor = generalize.NewMonitor()

			res, err := p.Solve(base)

			if flags.metrics {
				reg := prometheus.NewRegistry()
				m := metrics.New(reg)
				m.Observe(base.Monitor.GetStats())
				m.ObserveOutcome(err)
				defer func() {
					if werr := metrics.WriteText(a.out, reg); werr != nil {
						a.logger.WithError(werr).Error("writing metrics")
					}
				}()
			}
			if err != nil {
				return err
			}
			ux.NewPrinter(a.out, a.color).Result(res)
			return nil
		},
	}

	solveCmd.Flags().StringVarP(&relations, "relations", "r", "", "proximity relations, e.g. \"f g {(1,1)} 0.8; a b {} 0.7\"")
	solveCmd.Flags().StringVarP(&file, "file", "f", "", "YAML problem file")
	solveCmd.Flags().AddFlagSet(flags.fs)

	return solveCmd
}

// loadSolveProblem builds the problem from either the equation argument or
// a problem file. Relations given with -r are added to those of the file.
func loadSolveProblem(args []string, relations, file string) (*problem.Problem, error) {
	var p *problem.Problem
	switch {
	case file != "" && len(args) > 0:
		return nil, errors.Wrap(generalize.ErrInvalidArgument, "give either an equation or a problem file, not both")
	case file != "":
		var err error
		if p, err = problem.LoadFile(file); err != nil {
			return nil, err
		}
	case len(args) == 1:
		p = &problem.Problem{Equation: args[0]}
	default:
		return nil, errors.Wrap(generalize.ErrInvalidArgument, "missing equation or problem file")
	}
	if relations != "" {
		p.Relations = append(p.Relations, problem.Relation{Text: relations})
	}
	return p, nil
}
