package cmd

import (
	"os"

	"github.com/huangsam/testpulse/core"
	"github.com/huangsam/testpulse/internal/contract"
	"github.com/spf13/cobra"
)

// historyCmd focused on the stored metrics history.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect the stored metrics history",
	Long: `Inspect the metrics history that every run appends to.

The history keeps one snapshot per run (per-program counters and run totals),
oldest first, capped by --history-limit.

Subcommands:
  show   - Print the stored runs and their trend
  status - Summarize the history file
  export - Write the stored runs as JSON, CSV or Parquet

Examples:
  # Show the history of ./test_results
  testpulse history show

  # Export for a notebook
  testpulse history export --output parquet --output-file history.parquet`,
}

// historyShowCmd prints the stored snapshots.
var historyShowCmd = &cobra.Command{
	Use:   "show [results-dir]",
	Short: "Print the stored runs and their trend",
	Long: `Print one row per stored run with its totals and the change in coverage
since the previous run, followed by the trend over the stored runs.

Examples:
  # Table output
  testpulse history show build/results

  # Only the last 10 runs feed the trend
  testpulse history show --trend-window 10`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteHistoryShow(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot show history", err)
		}
	},
}

// historyExportCmd exports the stored snapshots.
var historyExportCmd = &cobra.Command{
	Use:   "export [results-dir]",
	Short: "Write the stored runs as JSON, CSV or Parquet",
	Long: `Write the stored history to a file for other tools.

JSON keeps the snapshots as stored plus the computed trend. CSV and Parquet
flatten the history to one row per program per run.

Requires: --output json|csv|parquet and --output-file

Examples:
  testpulse history export --output csv --output-file history.csv
  duckdb -c "SELECT * FROM read_parquet('history.parquet')"`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteHistoryExport(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot export history", err)
		}
	},
}

// historyStatusCmd summarizes the history file.
var historyStatusCmd = &cobra.Command{
	Use:   "status [results-dir]",
	Short: "Summarize the history file",
	Long: `Show where the history lives, whether it could be read cleanly, how many
runs it holds and the totals of the most recent run.

Examples:
  testpulse history status build/results`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteHistoryStatus(rootCtx, cfg, os.Stdout); err != nil {
			contract.LogFatal("Cannot read history status", err)
		}
	},
}
