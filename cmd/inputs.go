// =============================================================================
// Cube Tally - Input Handling
// =============================================================================
//
// Shared by the sum, validate and calibrate commands.
//
// INPUT RESOLUTION:
//   1. File arguments, in the order given
//   2. Otherwise every *.txt file in --input-dir, sorted by name
//   3. Otherwise standard input (shown as "-")
//
// Standard input can be read once, so "-" may appear at most once.
//
// Each input is processed in its own goroutine. Results are printed in input
// order: a single input prints its bare result, several inputs print
// "source: result" lines. Failures go to stderr and make the command fail.
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ginjaninja78/cube-tally/pkg/utils"
)

// stdinSource names standard input.
const stdinSource = "-"

// inputResult holds the outcome of processing one input.
type inputResult struct {
	source string
	output string
	err    error
}

// processFunc turns one input's contents into the text printed for it.
type processFunc func(ctx context.Context, source, input string) (string, error)

// resolveSources returns the inputs a command should process.
func resolveSources(args []string, inputDir string) ([]string, error) {
	if len(args) > 0 {
		stdinCount := 0
		for _, arg := range args {
			if arg == stdinSource {
				stdinCount++
			}
		}
		if stdinCount > 1 {
			return nil, fmt.Errorf("standard input (%q) given %d times; it can be read only once", stdinSource, stdinCount)
		}
		return args, nil
	}
	if inputDir != "" {
		files, err := utils.DiscoverInputFiles(inputDir, "*.txt")
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("no *.txt files found in %s", inputDir)
		}
		return files, nil
	}
	return []string{stdinSource}, nil
}

// readSource returns the trimmed contents of a file or of standard input.
func readSource(cmd *cobra.Command, source string) (string, error) {
	if source != stdinSource {
		return utils.ReadInput(source)
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read standard input: %w", err)
	}
	return utils.TrimInput(string(data)), nil
}

// processSources runs fn on every source concurrently and returns the
// results in source order. One failing input does not stop the others.
func processSources(cmd *cobra.Command, sources []string, fn processFunc) []inputResult {
	results := make([]inputResult, len(sources))

	g, ctx := errgroup.WithContext(cmd.Context())
	for i, source := range sources {
		i, source := i, source
		results[i].source = source
		g.Go(func() error {
			input, err := readSource(cmd, source)
			if err == nil {
				results[i].output, err = fn(ctx, source, input)
			}
			results[i].err = err
			return nil
		})
	}
	// Workers never return errors; failures are kept per input.
	_ = g.Wait()

	return results
}

// printResults writes results to the command's output streams.
func printResults(cmd *cobra.Command, results []inputResult) error {
	if len(results) == 1 {
		if results[0].err != nil {
			return results[0].err
		}
		fmt.Fprintln(cmd.OutOrStdout(), results[0].output)
		return nil
	}

	failed := 0
	for _, r := range results {
		if r.err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", r.source, r.err)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", r.source, r.output)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d inputs failed", failed, len(results))
	}
	return nil
}
