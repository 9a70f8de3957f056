// =============================================================================
// Cube Tally - Sum Command
// =============================================================================
//
// COMMAND USAGE:
//   tally sum [files...] [flags]
//
// FLAGS:
//   --red, --green, --blue : Override a per-color limit
//   --concurrency          : Parse lines with up to N goroutines
//   --report               : Write an "xml" or "xlsx" report per input
//   --input-dir            : Discover *.txt inputs when no files are given
//   --explain              : Print the records that exceed the limits
//
// PROCESSING PIPELINE (per input):
//   1. Parse all lines, failing on the first malformed one
//   2. Validate every record against the limits
//   3. Print the sum of identifiers of the valid records
//
// =============================================================================

package cmd

import (
	"context"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/cube-tally/internal/config"
	"github.com/ginjaninja78/cube-tally/internal/tally"
	"github.com/ginjaninja78/cube-tally/internal/validation"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	redLimit    uint64
	greenLimit  uint64
	blueLimit   uint64
	concurrency int
	reportFmt   string
	inputDir    string
	explain     bool
)

// =============================================================================
// SUM COMMAND DEFINITION
// =============================================================================

var sumCmd = &cobra.Command{
	Use:   "sum [files...]",
	Short: "Sum the identifiers of records within the limits",
	Long: `The sum command parses each input, keeps the records whose every revealed
quantity is within the limit for its color, and prints the sum of their
identifiers.

A malformed line aborts that input: no sum is printed for it and the command
exits with a non-zero status. With reporting enabled an error log is written
to the report directory.

When several inputs are given they are processed concurrently and printed in
the order given, one "source: sum" line each.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := sumConfig(cmd)
		if err != nil {
			return err
		}

		sources, err := resolveSources(args, inputDir)
		if err != nil {
			return err
		}

		runner := tally.New(cfg, logger)
		results := processSources(cmd, sources, func(ctx context.Context, source, input string) (string, error) {
			if source == stdinSource {
				source = "stdin"
			}
			summary, err := runner.Run(ctx, source, input)
			if err != nil {
				return "", err
			}

			out := strconv.FormatUint(summary.Sum, 10)
			if explain {
				out += "\n" + strings.TrimRight(validation.FormatViolations(summary.Outcomes), "\n")
			}
			return out, nil
		})

		return printResults(cmd, results)
	},
}

// sumConfig applies the command's flags on top of the loaded configuration.
func sumConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := *appConfig
	flags := cmd.Flags()

	if flags.Changed("red") {
		cfg.Limits.Red = redLimit
	}
	if flags.Changed("green") {
		cfg.Limits.Green = greenLimit
	}
	if flags.Changed("blue") {
		cfg.Limits.Blue = blueLimit
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency = concurrency
	}
	if flags.Changed("report") {
		cfg.Report.Format = reportFmt
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.AddCommand(sumCmd)

	flags := sumCmd.Flags()
	flags.Uint64Var(&redLimit, "red", 0, "Maximum red quantity (default from config, 12)")
	flags.Uint64Var(&greenLimit, "green", 0, "Maximum green quantity (default from config, 13)")
	flags.Uint64Var(&blueLimit, "blue", 0, "Maximum blue quantity (default from config, 14)")
	flags.IntVar(&concurrency, "concurrency", 1, "Number of goroutines parsing lines")
	flags.StringVar(&reportFmt, "report", "", `Write a report per input: "xml" or "xlsx"`)
	flags.StringVar(&inputDir, "input-dir", "", "Directory scanned for *.txt inputs when no files are given")
	flags.BoolVar(&explain, "explain", false, "Print the records that exceed the limits")
}
