// =============================================================================
// Cube Tally - Calibrate Command
// =============================================================================
//
// COMMAND USAGE:
//   tally calibrate [files...] [--spelled]
//
// For every line the first and last digit form a two-digit value; the
// command prints the total per input. --spelled also accepts "one" through
// "nine" (also settable as calibration.spelled_digits in the config file).
//
// =============================================================================

package cmd

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ginjaninja78/cube-tally/internal/calibration"
)

var spelled bool

var calibrateCmd = &cobra.Command{
	Use:   "calibrate [files...]",
	Short: "Sum the calibration values of each input",
	RunE: func(cmd *cobra.Command, args []string) error {
		sources, err := resolveSources(args, inputDir)
		if err != nil {
			return err
		}

		opts := calibration.Options{SpelledDigits: appConfig.Calibration.SpelledDigits}
		if cmd.Flags().Changed("spelled") {
			opts.SpelledDigits = spelled
		}

		results := processSources(cmd, sources, func(_ context.Context, source, input string) (string, error) {
			total := calibration.Sum(input, opts)
			logger.Debug("Calibrated",
				zap.String("source", source),
				zap.Bool("spelled", opts.SpelledDigits),
				zap.Uint64("total", total))
			return strconv.FormatUint(total, 10), nil
		})

		return printResults(cmd, results)
	},
}

func init() {
	rootCmd.AddCommand(calibrateCmd)
	calibrateCmd.Flags().BoolVar(&spelled, "spelled", false, "Count spelled-out digits (one..nine)")
	calibrateCmd.Flags().StringVar(&inputDir, "input-dir", "", "Directory scanned for *.txt inputs when no files are given")
}
