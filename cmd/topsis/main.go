// Command topsis ranks the rows of a CSV file with TOPSIS and writes the
// scored table to a new CSV file.
//
//	topsis data.csv "1,1,1,2,1" "+,+,+,-,+" result.csv
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/Topsis/internal/config"
	"github.com/MikeSquared-Agency/Topsis/internal/dataset"
	"github.com/MikeSquared-Agency/Topsis/internal/logging"
	"github.com/MikeSquared-Agency/Topsis/internal/topsis"
)

const usage = "Usage: topsis <InputDataFile> <Weights> <Impacts> <OutputResultFileName>"

var errArgumentCount = errors.New("incorrect number of parameters")

type options struct {
	precision    int
	tieTolerance float64
	verbose      bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := options{
		precision:    dataset.DefaultPrecision,
		tieTolerance: topsis.DefaultTieTolerance,
	}

	cmd := &cobra.Command{
		Use:   "topsis <InputDataFile> <Weights> <Impacts> <OutputResultFileName>",
		Short: "Rank alternatives in a CSV file with TOPSIS",
		Long: `topsis reads a CSV whose first column names each alternative and whose
remaining columns are numeric criteria. It writes the same table with
"Topsis Score" and "Rank" columns appended.

Weights are comma separated positive numbers, impacts are comma separated
"+" (benefit) or "-" (cost), one per criterion column.`,
		Example:       `  topsis data.csv "1,1,1,2,1" "+,+,+,-,+" result.csv`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 4 {
				return fmt.Errorf("%w: expected 4, got %d", errArgumentCount, len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts, args[0], args[1], args[2], args[3], stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	// Flags must precede the positional arguments so impacts such as "-,+,+"
	// are not read as shorthand flags.
	cmd.Flags().SetInterspersed(false)
	cmd.Flags().IntVar(&opts.precision, "precision", opts.precision, "decimal places for the Topsis Score column")
	cmd.Flags().Float64Var(&opts.tieTolerance, "tie-tolerance", opts.tieTolerance, "scores closer than this share a rank (0 for exact ties)")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "log computation details to stderr")
	return cmd
}

func run(opts options, input, weights, impacts, output string, stdout, stderr io.Writer) error {
	level := "warn"
	if opts.verbose {
		level = "debug"
	}
	logger := logging.New(config.LoggingConfig{Level: level, Format: "text"}, stderr)

	table, err := dataset.Load(input)
	if err != nil {
		return err
	}
	m, err := table.Matrix()
	if err != nil {
		return err
	}
	ws, is, err := dataset.ParseParams(weights, impacts, len(table.Criteria()))
	if err != nil {
		return err
	}
	logger.Debug("loaded input", "path", input, "alternatives", len(m), "criteria", table.Criteria())

	res, err := topsis.Compute(m, ws, is, topsis.WithTieTolerance(opts.tieTolerance))
	if err != nil {
		return err
	}
	logger.Debug("computed ranking", "scores", res.Scores(), "ideal_best", res.IdealBest, "ideal_worst", res.IdealWorst)

	if err := dataset.WriteFile(output, table, res, opts.precision); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "TOPSIS completed successfully! Result saved as '%s'\n", output)
	return nil
}

// describe turns an error into the message shown to the user.
func describe(err error) string {
	switch {
	case errors.Is(err, errArgumentCount):
		return err.Error() + "\n" + usage
	case errors.Is(err, dataset.ErrFileAccess):
		return "cannot access file: " + err.Error()
	case errors.Is(err, topsis.ErrDimensionMismatch):
		return "number of weights, impacts and criteria columns must be the same: " + err.Error()
	case errors.Is(err, topsis.ErrInvalidImpact):
		return "impacts must be either '+' or '-': " + err.Error()
	default:
		return err.Error()
	}
}

func execute(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(stderr, "Error:", describe(err))
		return 1
	}
	return 0
}

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}
