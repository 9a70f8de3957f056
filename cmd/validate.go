// =============================================================================
// Cube Tally - Validate Command
// =============================================================================
//
// COMMAND USAGE:
//   tally validate [files...]
//
// Parses every input without checking limits. Prints the record count per
// input, or the first malformed line with its error.
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ginjaninja78/cube-tally/internal/recordparser"
)

var validateCmd = &cobra.Command{
	Use:   "validate [files...]",
	Short: "Check that every line is a well-formed record",
	RunE: func(cmd *cobra.Command, args []string) error {
		sources, err := resolveSources(args, inputDir)
		if err != nil {
			return err
		}

		workers := appConfig.Concurrency
		results := processSources(cmd, sources, func(ctx context.Context, source, input string) (string, error) {
			records, err := recordparser.ParseBatchConcurrent(ctx, input, workers)
			if err != nil {
				logger.Debug("Validation failed", zap.String("source", source), zap.Error(err))
				return "", err
			}
			return fmt.Sprintf("%d record(s) OK", len(records)), nil
		})

		return printResults(cmd, results)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringVar(&inputDir, "input-dir", "", "Directory scanned for *.txt inputs when no files are given")
}
