// =============================================================================
// Cube Tally - Configuration Module
// =============================================================================
//
// This module loads the application configuration from a YAML file.
//
// CONFIGURATION FILE (tally.yaml):
//   limits:
//     red: 12
//     green: 13
//     blue: 14
//   concurrency: 1
//   log_level: info
//   report:
//     dir: ./reports
//     format: xml
//     name_format: "{source}_{timestamp}_{uuid}"
//   calibration:
//     spelled_digits: false
//
// Every setting has a default, so the file is optional. Values are fixed for
// the duration of a run and shared read-only by all components.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/cube-tally/internal/types"
)

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the global application configuration.
type Config struct {
	// Limits is the maximum quantity allowed per category.
	// Default: 12 red, 13 green, 14 blue
	Limits types.Limits `yaml:"limits"`

	// Concurrency is the number of goroutines used to parse the lines of one
	// input. Set to 1 for sequential parsing.
	// Default: 1
	Concurrency int `yaml:"concurrency"`

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// Report controls the optional per-run report.
	Report ReportSettings `yaml:"report"`

	// Calibration controls the digit-extraction utility.
	Calibration CalibrationSettings `yaml:"calibration"`
}

// ReportSettings controls where and how run reports are written.
type ReportSettings struct {
	// Dir is the directory reports and error logs are written to.
	// Default: "./reports"
	Dir string `yaml:"dir"`

	// Format selects the report type: "xml", "xlsx" or "" for no report.
	Format string `yaml:"format"`

	// NameFormat is the report file name without extension.
	// Placeholders:
	//   {uuid}      - The run ID
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	//   {date}      - Current date (YYYYMMDD)
	//   {source}    - Input file name without extension
	// Default: "{source}_{timestamp}_{uuid}"
	NameFormat string `yaml:"name_format"`
}

// Enabled reports whether a report format is configured.
func (r ReportSettings) Enabled() bool {
	return r.Format != ""
}

// CalibrationSettings controls the calibration command.
type CalibrationSettings struct {
	// SpelledDigits also recognizes "one" through "nine" as digits.
	// Default: false
	SpelledDigits bool `yaml:"spelled_digits"`
}

// Report formats.
const (
	FormatXML  = "xml"
	FormatXLSX = "xlsx"
)

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{Limits: types.DefaultLimits()}
	applyDefaults(cfg)
	return cfg
}

// Load loads the configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the configuration file.
//   - optional: When true, a missing file yields Default() instead of an
//     error.
//
// RETURNS:
//   - A pointer to the Config struct.
//   - An error if the file cannot be read, parsed or validated.
func Load(configPath string, optional bool) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes configuration from YAML bytes, applying defaults and
// validating the result.
func Parse(data []byte) (*Config, error) {
	// Limits start from the defaults so a file may override one color only.
	cfg := Config{Limits: types.DefaultLimits()}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	if cfg.Concurrency == 0 {
		cfg.Concurrency = 1
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Report.Dir == "" {
		cfg.Report.Dir = "./reports"
	}
	if cfg.Report.NameFormat == "" {
		cfg.Report.NameFormat = "{source}_{timestamp}_{uuid}"
	}
}

// Validate checks the configuration for values the application cannot use.
func (c *Config) Validate() error {
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}

	switch c.Report.Format {
	case "", FormatXML, FormatXLSX:
	default:
		return fmt.Errorf("unknown report format %q", c.Report.Format)
	}

	return nil
}
