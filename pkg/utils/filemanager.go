// =============================================================================
// Cube Tally - File Manager Utility
// =============================================================================
//
// This module provides the file handling the core pipeline leaves to its
// callers:
//   - Reading input text (trailing newline trimmed)
//   - Input file discovery
//   - Report file naming
//   - Error log generation
//   - Directory management
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// INPUT
// =============================================================================

// ReadInput reads a whole input file and trims trailing line breaks, so the
// result can be handed straight to the batch parser.
func ReadInput(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read input file: %w", err)
	}
	return TrimInput(string(data)), nil
}

// TrimInput removes trailing "\n" and "\r\n" sequences.
func TrimInput(s string) string {
	return strings.TrimRight(s, "\r\n")
}

// SplitLines splits input on '\n' and drops a trailing '\r' from each line.
// Empty input has no lines.
func SplitLines(input string) []string {
	if input == "" {
		return nil
	}
	lines := strings.Split(input, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// DiscoverInputFiles lists regular files in dir matching a glob pattern,
// sorted by name.
//
// PARAMETERS:
//   - dir: The directory to scan.
//   - pattern: A glob pattern (e.g., "*.txt"). If empty, defaults to "*.txt".
//
// RETURNS:
//   - A slice of file paths.
//   - An error if the pattern is invalid.
func DiscoverInputFiles(dir, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = "*.txt"
	}

	files, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("failed to scan input directory: %w", err)
	}

	var result []string
	for _, file := range files {
		info, err := os.Stat(file)
		if err != nil {
			continue
		}
		if !info.IsDir() {
			result = append(result, file)
		}
	}
	sort.Strings(result)

	return result, nil
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDir creates dir and its parents if they don't exist.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// GenerateOutputFileName expands a name format into a file name.
//
// PARAMETERS:
//   - format: The format string for the file name.
//             Placeholders:
//               {uuid}      - params["uuid"], or a random UUID
//               {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//               {date}      - Current date (YYYYMMDD)
//               {time}      - Current time (HHMMSS)
//               {<key>}     - Any key from params
//   - params: Placeholder values.
//   - ext: Extension appended when the name lacks it (e.g., ".xml").
//
// EXAMPLE:
//   format: "{source}_{timestamp}_{uuid}"
//   params: {"source": "games"}
//   ext:    ".xlsx"
//   output: "games_20240115_143022_a1b2c3d4-e5f6-7890-abcd-ef1234567890.xlsx"
func GenerateOutputFileName(format string, params map[string]string, ext string) string {
	now := time.Now()

	replacements := map[string]string{
		"{uuid}":      uuid.New().String(),
		"{timestamp}": now.Format("20060102_150405"),
		"{date}":      now.Format("20060102"),
		"{time}":      now.Format("150405"),
	}
	for key, value := range params {
		replacements["{"+key+"}"] = value
	}

	result := format
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	if ext != "" && !strings.HasSuffix(strings.ToLower(result), strings.ToLower(ext)) {
		result += ext
	}

	return result
}

// BaseName returns the file name of path without its extension.
func BaseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// =============================================================================
// ERROR LOG GENERATION
// =============================================================================

// ErrorLogEntry represents a single error log entry.
type ErrorLogEntry struct {
	Timestamp    time.Time
	RunID        string
	FileName     string
	ErrorType    string
	ErrorMessage string
	LineNumber   int
	LineText     string
}

// WriteErrorLog writes error entries to a log file in outputDir.
//
// RETURNS:
//   - The path to the error log file, or "" when there is nothing to write.
//   - An error if writing fails.
func WriteErrorLog(entries []ErrorLogEntry, outputDir string) (string, error) {
	if len(entries) == 0 {
		return "", nil
	}

	if err := EnsureDir(outputDir); err != nil {
		return "", err
	}

	logFileName := GenerateOutputFileName("error_log_{timestamp}_{uuid}", nil, ".txt")
	logPath := filepath.Join(outputDir, logFileName)

	file, err := os.Create(logPath)
	if err != nil {
		return "", fmt.Errorf("failed to create error log: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	fmt.Fprintf(writer, "Cube Tally - Error Log\n"+
		"Generated: %s\n"+
		"Total Errors: %d\n"+
		"================================================================================\n\n",
		time.Now().Format("2006-01-02 15:04:05"),
		len(entries))

	for i, entry := range entries {
		fmt.Fprintf(writer, "Error #%d\n"+
			"  Timestamp:  %s\n"+
			"  File:       %s\n"+
			"  Error Type: %s\n"+
			"  Message:    %s\n",
			i+1,
			entry.Timestamp.Format("2006-01-02 15:04:05"),
			entry.FileName,
			entry.ErrorType,
			entry.ErrorMessage)

		if entry.RunID != "" {
			fmt.Fprintf(writer, "  Run ID:     %s\n", entry.RunID)
		}
		if entry.LineNumber > 0 {
			fmt.Fprintf(writer, "  Line:       %d\n", entry.LineNumber)
			fmt.Fprintf(writer, "  Text:       %s\n", entry.LineText)
		}
		writer.WriteString("\n")
	}

	writer.WriteString("================================================================================\n" +
		"End of Error Log\n")

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush error log: %w", err)
	}

	return logPath, nil
}
