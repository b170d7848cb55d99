// Command proxgen computes approximate generalizations of two first-order
// terms under a proximity relation.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gitrdm/proxgen/internal/ux"
	"github.com/gitrdm/proxgen/pkg/generalize"
)

// Set at link time with -ldflags "-X main.gitCommit=... -X main.buildDate=...".
var (
	gitCommit string
	buildDate string
)

// app is the state shared by every subcommand of one invocation.
type app struct {
	out, errOut io.Writer
	logger      *log.Logger
	color       bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command line args and returns the exit status: 0 on
// success, 2 for malformed input and 1 for any other failure.
func run(ctx context.Context, args []string, out, errOut io.Writer) int {
	a := &app{out: out, errOut: errOut, logger: log.StandardLogger()}
	a.logger.SetOutput(errOut)

	rootCmd := a.newRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		ux.NewPrinter(errOut, a.color).Error(err)
		if errors.Is(err, generalize.ErrInvalidArgument) {
			return 2
		}
		return 1
	}
	return 0
}

func (a *app) newRootCmd() *cobra.Command {
	var (
		debug   bool
		verbose bool
		color   string
	)
	rootCmd := &cobra.Command{
		Use:   "proxgen",
		Short: "Approximate anti-unification under proximity relations",
		Long: `proxgen computes the generalizations of two ground terms whose symbols
are related by a proximity relation cut at λ.

        $ proxgen solve "f(a, b) =^= g(a', c)" -r "f g {(1,1),(2,2)} 0.8; a a' {} 0.9" -l 0.5
        $ proxgen batch problems.yaml --workers 4`,

		SilenceErrors: true,
		SilenceUsage:  true,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.logger.SetLevel(log.WarnLevel)
			if verbose {
				a.logger.SetLevel(log.InfoLevel)
			}
			if debug {
				a.logger.SetLevel(log.DebugLevel)
			}
			enabled, err := ux.ColorEnabled(color, a.out)
			if err != nil {
				return errors.Wrap(generalize.ErrInvalidArgument, err.Error())
			}
			a.color = enabled
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log problem summaries")
	rootCmd.PersistentFlags().StringVar(&color, "color", ux.ColorAuto, "colorize output: auto, always or never")
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return errors.Wrap(generalize.ErrInvalidArgument, err.Error())
	})

	rootCmd.AddCommand(a.newSolveCmd())
	rootCmd.AddCommand(a.newBatchCmd())
	rootCmd.AddCommand(a.newVersionCmd())

	return rootCmd
}
