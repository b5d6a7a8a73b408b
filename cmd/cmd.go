// Package cmd defines the command-line interface for testpulse.
package cmd

import (
	"github.com/huangsam/testpulse/internal/contract"
	"github.com/huangsam/testpulse/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(trackingCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyExportCmd)

	// Add the tracking subcommands to the parent tracking command
	trackingCmd.AddCommand(trackingStatusCmd)
	trackingCmd.AddCommand(trackingClearCmd)
	trackingCmd.AddCommand(trackingExportCmd)
	trackingCmd.AddCommand(trackingMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("subjects", "", "Comma-separated list of programs to analyze (default: every *_results.txt file)")
	rootCmd.PersistentFlags().String("summary-file", contract.DefaultSummaryFile, "Run-level summary file that is never treated as a program")
	rootCmd.PersistentFlags().String("history-file", "", "Path to the metrics history (default: <results-dir>/"+contract.DefaultHistoryFile+")")
	rootCmd.PersistentFlags().Int("history-limit", contract.DefaultHistoryLimit, "Number of runs kept in the metrics history")
	rootCmd.PersistentFlags().String("archive-dir", "", "Directory for archived result files (default: <results-dir>/"+contract.DefaultArchiveDir+")")
	rootCmd.PersistentFlags().Bool("no-archive", false, "Skip archiving the raw result files")
	rootCmd.PersistentFlags().Bool("print-report", false, "Also print the text analysis report to the console")
	rootCmd.PersistentFlags().String("text-report", "", "Path to the text report (default: <results-dir>/"+contract.DefaultTextReport+")")
	rootCmd.PersistentFlags().String("html-report", "", "Path to the HTML dashboard (default: <results-dir>/"+contract.DefaultHTMLReport+")")
	rootCmd.PersistentFlags().String("chart-url", contract.DefaultChartURL, "Script URL of the chart library used by the HTML dashboard")
	rootCmd.PersistentFlags().Int("coverage-threshold", contract.DefaultCoverageThreshold, "Coverage percent below which a program is flagged")
	rootCmd.PersistentFlags().Int("trend-window", 0, "Number of recent runs used for trends (0 = all stored runs)")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("tracking-backend", string(schema.NoneBackend), "Run tracking backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("tracking-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of trackingMigrateCmd to Viper
	trackingMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(trackingMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding tracking migrate flags", err)
	}
}
