// =============================================================================
// Cube Tally - Line-Batch Parser
// =============================================================================
//
// This module applies the record parser to every line of an input block.
//
// FAILURE POLICY:
//   The batch fails as a whole. The first malformed line (lowest line number)
//   aborts the batch with a *LineError; no partial results are returned.
//
// CONCURRENCY:
//   ParseBatchConcurrent parses lines on a bounded pool of goroutines. Each
//   line writes only its own slot, and the first error is chosen by line
//   order after all workers finish, so the outcome is identical to
//   ParseBatch.
//
// =============================================================================

package recordparser

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/ginjaninja78/cube-tally/internal/types"
	"github.com/ginjaninja78/cube-tally/pkg/utils"
)

// ParseBatch parses input line by line.
//
// PARAMETERS:
//   - input: Newline-separated records. A trailing newline should already be
//     trimmed by the caller; a trailing '\r' on each line is ignored.
//
// RETURNS:
//   - The records in input order. Empty input yields an empty slice.
//   - A *LineError wrapping the *ParseError of the first malformed line.
func ParseBatch(input string) ([]types.Record, error) {
	lines := utils.SplitLines(input)
	records := make([]types.Record, 0, len(lines))

	for i, line := range lines {
		record, err := ParseRecord(line)
		if err != nil {
			return nil, &LineError{Line: i + 1, Text: line, Err: err}
		}
		records = append(records, record)
	}

	return records, nil
}

// ParseBatchConcurrent parses input with up to workers goroutines.
// workers <= 1 parses sequentially.
func ParseBatchConcurrent(ctx context.Context, input string, workers int) ([]types.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if workers <= 1 {
		return ParseBatch(input)
	}

	lines := utils.SplitLines(input)
	records := make([]types.Record, len(lines))
	lineErrs := make([]error, len(lines))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, line := range lines {
		i, line := i, line
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			record, err := ParseRecord(line)
			if err != nil {
				// Parse errors are not returned to the group: returning one
				// would cancel lines that may hold an earlier error.
				lineErrs[i] = &LineError{Line: i + 1, Text: line, Err: err}
				return nil
			}
			records[i] = record
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, err := range lineErrs {
		if err != nil {
			return nil, err
		}
	}

	return records, nil
}
