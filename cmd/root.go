// =============================================================================
// Cube Tally - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (tally)
//   ├── sumCmd       (tally sum)
//   ├── validateCmd  (tally validate)
//   ├── calibrateCmd (tally calibrate)
//   └── versionCmd   (tally version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose)
//   2. Loading the configuration before any subcommand runs
//   3. Building the logger handed to the subcommands
//
// Results go to stdout. Logs go to stderr.
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ginjaninja78/cube-tally/internal/config"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
var cfgFile string

// verbose forces debug logging.
var verbose bool

// appConfig and logger are set by the root command's PersistentPreRunE.
var (
	appConfig *config.Config
	logger    = zap.NewNop()
)

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

var rootCmd = &cobra.Command{
	Use:   "tally",
	Short: "Cube Tally - parse game records and sum the ones within limits",
	Long: `Cube Tally reads game records of the form

  Game 1: 3 blue, 4 red; 1 red, 2 green, 6 blue; 2 green

checks every revealed quantity against a per-color limit and prints the sum
of the identifiers of the games that stay within the limits.

Example Usage:
  tally sum games.txt                     # Sum with the default limits (12/13/14)
  tally sum --red 20 games.txt            # Override one limit
  tally sum --report xlsx a.txt b.txt     # Sum two files and write reports
  tally validate games.txt                # Check the input is well-formed
  tally calibrate --spelled notes.txt     # Sum calibration values`,

	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The default path is optional; an explicit --config must exist.
		cfg, err := config.Load(cfgFile, !cmd.Flags().Changed("config"))
		if err != nil {
			return err
		}

		l, err := newLogger(cfg.LogLevel, verbose)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}

		appConfig = cfg
		logger = l
		logger.Debug("Configuration loaded",
			zap.String("config", cfgFile),
			zap.Int("concurrency", cfg.Concurrency),
			zap.String("report_format", cfg.Report.Format))
		return nil
	},

	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		// Sync on stderr fails on some platforms; nothing useful to do then.
		_ = logger.Sync()
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newLogger builds a production zap logger writing to stderr.
func newLogger(level string, verbose bool) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.ErrorOutputPaths = []string{"stderr"}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}
	zcfg.Level = zap.NewAtomicLevelAt(lvl)

	return zcfg.Build()
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"tally.yaml",
		"Path to the configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)
}
