package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/huangsam/testpulse/core"
	"github.com/huangsam/testpulse/internal/contract"
	"github.com/huangsam/testpulse/internal/iostore"
	"github.com/huangsam/testpulse/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// rootCmd parses a results directory and produces every report.
var rootCmd = &cobra.Command{
	Use:   "testpulse [results-dir]",
	Short: "Turn per-program test result files into reports, trends and history.",
	Long: `TestPulse reads the <SUBJECT>_results.txt files that a CI job leaves behind and
turns them into an analysis report, an HTML dashboard and a terminal summary.

Every run is appended to a capped metrics history so coverage and quality trends
can be followed over time, and the raw result files are archived in a
timestamped directory.

Examples:
  # Analyze ./test_results
  testpulse

  # Analyze a specific directory without archiving
  testpulse build/results --no-archive

  # Only look at two programs and flag coverage below 90%
  testpulse --subjects NUMBERS,STRINGS --coverage-threshold 90

  # Write the summary as JSON for another CI step
  testpulse --output json --output-file summary.json`,
	Version:            version,
	Args:               cobra.MaximumNArgs(1),
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	PreRunE:            sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecutePipeline(rootCtx, cfg, iostore.Manager); err != nil {
			if core.IsInputError(err) {
				contract.LogFatal("Nothing to analyze", err)
			}
			contract.LogFatal("Cannot generate reports", err)
		}
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Check if a specific config file is provided
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		// Set config file name and paths
		viper.SetConfigName(".testpulse") // Name of config file (without extension)
		viper.SetConfigType("yaml")       // We'll use YAML format
		viper.AddConfigPath(".")          // Look in the current directory
		viper.AddConfigPath("$HOME")      // Look in the home directory
	}

	// Set environment variable prefix
	viper.SetEnvPrefix("TESTPULSE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("history-limit", contract.DefaultHistoryLimit)
	viper.SetDefault("coverage-threshold", contract.DefaultCoverageThreshold)
	viper.SetDefault("summary-file", contract.DefaultSummaryFile)
	viper.SetDefault("chart-url", contract.DefaultChartURL)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("tracking-backend", schema.NoneBackend)
	viper.SetDefault("tracking-db-connect", "")
	viper.SetDefault("color", "yes")
}

// sharedSetup unmarshals config and runs validation.
func sharedSetup(_ context.Context, _ *cobra.Command, args []string) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Handle positional arguments (which Viper doesn't do).
	if len(args) == 1 {
		input.ResultsDirStr = args[0]
	} else {
		input.ResultsDirStr = contract.DefaultResultsDir
	}

	// 4. Run all validation and complex parsing.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}

	// 5. Initialize run tracking with validated config
	if err := iostore.InitTracking(cfg.TrackingBackend, cfg.TrackingDBConnect); err != nil {
		return err
	}

	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// loadConfigFile handles config file loading logic common to all setup functions.
func loadConfigFile() error {
	// Handle config file
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".testpulse")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
	}

	// Load config file if present
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
