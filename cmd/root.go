// =============================================================================
// Grocery List Converter - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. All other commands
// are attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (grocer)
//   ├── processCmd (grocer process)
//   ├── verifyCmd  (grocer verify)
//   ├── serveCmd   (grocer serve)
//   ├── submitCmd  (grocer submit)
//   └── versionCmd (grocer version)
//
// CONFIGURATION:
//   Before any subcommand runs, the root command:
//   1. Loads config.yaml (plus .env and GROCER_* overrides)
//   2. Sets up the zerolog root logger
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/grocery-list-converter/internal/config"
	"github.com/ginjaninja78/grocery-list-converter/internal/logger"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
var cfgFile string

// verbose forces debug logging.
var verbose bool

// mainConfig is loaded once per invocation by the root command.
var mainConfig *config.MainConfig

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "grocer",
	Short: "Grocery List Converter - Turn free-form grocery lists into records",
	Long: `Grocery List Converter reads loosely formatted grocery lists (category
header lines followed by item lines with optional quantities such as "(2x)" or
"3x") and turns them into category, item, quantity records.

Key Features:
  - Tolerant line-oriented parsing of hand-written lists
  - CSV, XLSX and XML output
  - Verification of converted files
  - A demo form server and a client that replays records against it
  - Concurrent processing of many list files

Example Usage:
  grocer process                         # Convert every list in the input directory
  grocer process --file items.txt        # Convert a single list
  grocer verify output/items.csv         # Check a converted file
  grocer serve & grocer submit output/items.csv`,

	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == versionCmd.Name() {
			return nil
		}
		return initConfig(cmd)
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

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// initConfig loads the configuration and sets up logging. The default
// config.yaml may be absent; a file named with --config must exist.
func initConfig(cmd *cobra.Command) error {
	required := cmd.Flags().Changed("config")

	cfg, err := config.LoadMainConfig(cfgFile, required)
	if err != nil {
		return fmt.Errorf("failed to load main config: %w", err)
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	logger.Init(logger.Options{Level: level, Format: cfg.LogFormat})

	logger.Get().Debug().
		Str("config", cfgFile).
		Str("input_dir", cfg.InputDir).
		Str("output_dir", cfg.OutputDir).
		Str("output_format", cfg.OutputFormat).
		Msg("configuration loaded")

	mainConfig = cfg
	return nil
}
