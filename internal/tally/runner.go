// =============================================================================
// Cube Tally - Run Orchestration
// =============================================================================
//
// This module runs the whole pipeline for one input source.
//
// PIPELINE:
//   1. Parse every line into a Record (fail fast on the first bad line)
//   2. Validate each Record against the configured limits
//   3. Sum the identifiers of the valid Records
//   4. Optionally write an XML or XLSX report
//
// On a parse failure no sum is produced. When reporting is enabled an error
// log naming the offending line is written to the report directory.
//
// CONCURRENCY:
//   A Runner holds only read-only configuration and may be shared by
//   goroutines processing different inputs.
//
// =============================================================================

package tally

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ginjaninja78/cube-tally/internal/config"
	"github.com/ginjaninja78/cube-tally/internal/recordparser"
	"github.com/ginjaninja78/cube-tally/internal/types"
	"github.com/ginjaninja78/cube-tally/internal/validation"
	"github.com/ginjaninja78/cube-tally/internal/xlsxwriter"
	"github.com/ginjaninja78/cube-tally/internal/xmlwriter"
	"github.com/ginjaninja78/cube-tally/pkg/utils"
)

// =============================================================================
// RUNNER STRUCTURE
// =============================================================================

// Runner processes input sources with one configuration.
type Runner struct {
	cfg       *config.Config
	validator *validation.Validator
	logger    *zap.Logger
}

// New creates a Runner. A nil logger disables logging.
func New(cfg *config.Config, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		cfg:       cfg,
		validator: validation.NewValidator(cfg.Limits),
		logger:    logger,
	}
}

// =============================================================================
// MAIN PROCESSING FUNCTIONS
// =============================================================================

// RunFile reads path and runs the pipeline on its contents.
func (r *Runner) RunFile(ctx context.Context, path string) (*types.Summary, error) {
	input, err := utils.ReadInput(path)
	if err != nil {
		return nil, err
	}
	return r.Run(ctx, path, input)
}

// Run executes the pipeline on input. source names the input in logs and
// reports.
//
// RETURNS:
//   - The run summary, including the sum of valid identifiers.
//   - An error wrapping a *recordparser.LineError when a line is malformed.
func (r *Runner) Run(ctx context.Context, source, input string) (*types.Summary, error) {
	startTime := time.Now()
	runID := uuid.NewString()
	logger := r.logger.With(zap.String("run", runID), zap.String("source", source))

	// =========================================================================
	// STEP 1: PARSE
	// =========================================================================

	records, err := recordparser.ParseBatchConcurrent(ctx, input, r.cfg.Concurrency)
	if err != nil {
		logger.Error("Parse failed", zap.Error(err))
		if r.cfg.Report.Enabled() {
			r.writeErrorLog(logger, runID, source, err)
		}
		return nil, fmt.Errorf("failed to parse %s: %w", source, err)
	}
	logger.Debug("Parsed records", zap.Int("records", len(records)))

	// =========================================================================
	// STEP 2: VALIDATE
	// =========================================================================

	outcomes := r.validator.EvaluateAll(records)
	summary := &types.Summary{
		RunID:    runID,
		Source:   source,
		Limits:   r.validator.Limits(),
		Outcomes: outcomes,
	}

	for _, o := range outcomes {
		summary.Stats.Records++
		summary.Stats.Groups += len(o.Record.Groups)
		summary.Stats.Leaves += o.Record.LeafCount()
		if o.Valid {
			summary.Stats.Valid++
			continue
		}
		summary.Stats.Invalid++
		logger.Debug("Record exceeds limits", zap.Error(o.Violation))
	}

	// =========================================================================
	// STEP 3: AGGREGATE
	// =========================================================================

	sum, err := Sum(records, r.validator.Valid)
	if err != nil {
		return nil, fmt.Errorf("failed to sum %s: %w", source, err)
	}
	summary.Sum = sum
	summary.Stats.Duration = time.Since(startTime)

	// =========================================================================
	// STEP 4: REPORT
	// =========================================================================

	if r.cfg.Report.Enabled() {
		path, err := r.writeReport(summary)
		if err != nil {
			return nil, fmt.Errorf("failed to write report: %w", err)
		}
		summary.ReportPath = path
		logger.Info("Wrote report", zap.String("path", path))
	}

	logger.Info("Run complete",
		zap.Uint64("sum", summary.Sum),
		zap.Int("records", summary.Stats.Records),
		zap.Int("valid", summary.Stats.Valid),
		zap.Duration("elapsed", summary.Stats.Duration))

	return summary, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// writeReport writes the configured report format for summary.
func (r *Runner) writeReport(summary *types.Summary) (string, error) {
	settings := r.cfg.Report
	if err := utils.EnsureDir(settings.Dir); err != nil {
		return "", err
	}

	fileName := utils.GenerateOutputFileName(settings.NameFormat, map[string]string{
		"source": utils.BaseName(summary.Source),
		"uuid":   summary.RunID,
	}, "."+settings.Format)
	path := filepath.Join(settings.Dir, fileName)
	if utils.FileExists(path) {
		return "", fmt.Errorf("report %s already exists", path)
	}

	switch settings.Format {
	case config.FormatXML:
		data, err := xmlwriter.Generate(*summary)
		if err != nil {
			return "", err
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return "", fmt.Errorf("failed to write file: %w", err)
		}
	case config.FormatXLSX:
		if err := xlsxwriter.WriteFile(*summary, path); err != nil {
			return "", err
		}
	default:
		return "", fmt.Errorf("unknown report format %q", settings.Format)
	}

	return path, nil
}

// writeErrorLog records a parse failure in the report directory. Failures
// to write the log are logged and otherwise ignored; the parse error is what
// the caller needs to see.
func (r *Runner) writeErrorLog(logger *zap.Logger, runID, source string, parseErr error) {
	entry := utils.ErrorLogEntry{
		Timestamp:    time.Now(),
		RunID:        runID,
		FileName:     source,
		ErrorType:    recordparser.Kind(parseErr).String(),
		ErrorMessage: parseErr.Error(),
	}

	var lineErr *recordparser.LineError
	if errors.As(parseErr, &lineErr) {
		entry.LineNumber = lineErr.Line
		entry.LineText = lineErr.Text
	}

	path, err := utils.WriteErrorLog([]utils.ErrorLogEntry{entry}, r.cfg.Report.Dir)
	if err != nil {
		logger.Warn("Failed to write error log", zap.Error(err))
		return
	}
	logger.Info("Wrote error log", zap.String("path", path))
}
