// =============================================================================
// Cube Tally - XLSX Report Writer
// =============================================================================
//
// This module renders a run summary as an Excel workbook, and reads the
// record rows back from one.
//
// WORKBOOK LAYOUT:
//   Sheet "Records" (one row per record, header in row 1):
//     | ID | Groups                      | Valid | Violation                |
//     | 1  | 3 blue, 4 red; 1 red        | TRUE  |                          |
//     | 3  | 20 red, 8 blue; 4 blue      | FALSE | record 3, group 1: ...   |
//
//   Sheet "Summary" (key/value pairs):
//     | Run ID | Source | Sum | Records | Valid | Invalid | Limits (red/green/blue) |
//
// =============================================================================

package xlsxwriter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/cube-tally/internal/types"
)

// Sheet names.
const (
	RecordsSheet = "Records"
	SummarySheet = "Summary"
)

var recordHeaders = []interface{}{"ID", "Groups", "Valid", "Violation"}

// =============================================================================
// WRITER FUNCTIONS
// =============================================================================

// Generate builds the workbook for a summary. The caller must Close it.
func Generate(summary types.Summary) (*excelize.File, error) {
	f := excelize.NewFile()

	// A new file starts with "Sheet1"; rename it rather than leave it empty.
	if err := f.SetSheetName(f.GetSheetName(0), RecordsSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	if err := writeRecords(f, summary); err != nil {
		f.Close()
		return nil, err
	}

	if _, err := f.NewSheet(SummarySheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := writeSummary(f, summary); err != nil {
		f.Close()
		return nil, err
	}

	return f, nil
}

// WriteFile generates the workbook and saves it to path.
func WriteFile(summary types.Summary, path string) error {
	f, err := Generate(summary)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeRecords(f *excelize.File, summary types.Summary) error {
	if err := f.SetSheetRow(RecordsSheet, "A1", &recordHeaders); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetCellStyle(RecordsSheet, "A1", "D1", bold); err != nil {
		return fmt.Errorf("failed to style header row: %w", err)
	}

	for i, outcome := range summary.Outcomes {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}

		violation := ""
		if outcome.Violation != nil {
			violation = outcome.Violation.Error()
		}

		groups := make([]string, len(outcome.Record.Groups))
		for gi, group := range outcome.Record.Groups {
			groups[gi] = group.String()
		}

		row := []interface{}{
			outcome.Record.ID,
			strings.Join(groups, "; "),
			outcome.Valid,
			violation,
		}
		if err := f.SetSheetRow(RecordsSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write record %d: %w", outcome.Record.ID, err)
		}
	}

	return nil
}

func writeSummary(f *excelize.File, summary types.Summary) error {
	pairs := [][]interface{}{
		{"Run ID", summary.RunID},
		{"Source", summary.Source},
		{"Sum", summary.Sum},
		{"Records", summary.Stats.Records},
		{"Valid", summary.Stats.Valid},
		{"Invalid", summary.Stats.Invalid},
		{"Groups", summary.Stats.Groups},
		{"Leaves", summary.Stats.Leaves},
		{"Duration", summary.Stats.Duration.String()},
		{"Limit red", summary.Limits.Red},
		{"Limit green", summary.Limits.Green},
		{"Limit blue", summary.Limits.Blue},
	}

	for i, pair := range pairs {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &pair); err != nil {
			return fmt.Errorf("failed to write summary row %q: %w", pair[0], err)
		}
	}

	return nil
}

// =============================================================================
// READER FUNCTIONS
// =============================================================================

// RecordRow is one data row of the Records sheet.
type RecordRow struct {
	ID        uint64
	Groups    string
	Valid     bool
	Violation string
}

// ReadRecords opens a report workbook and returns its record rows.
func ReadRecords(path string) ([]RecordRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	// Raw values keep large IDs out of scientific notation; booleans read
	// back as "1" and "0".
	rows, err := f.GetRows(RecordsSheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	var records []RecordRow
	// Row 0 is the header.
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if len(row) < 3 {
			return nil, fmt.Errorf("row %d: expected at least 3 columns, got %d", i+1, len(row))
		}

		id, err := strconv.ParseUint(row[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid ID %q: %w", i+1, row[0], err)
		}
		valid, err := strconv.ParseBool(row[2])
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid Valid flag %q: %w", i+1, row[2], err)
		}

		record := RecordRow{ID: id, Groups: row[1], Valid: valid}
		if len(row) > 3 {
			record.Violation = row[3]
		}
		records = append(records, record)
	}

	return records, nil
}
