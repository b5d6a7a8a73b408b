package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/testpulse/internal/contract"
	"github.com/huangsam/testpulse/internal/iostore"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// trackingConfig reads and validates the tracking backend settings only.
func trackingConfig() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend, err := contract.ParseTrackingBackend(viper.GetString("tracking-backend"))
	if err != nil {
		return err
	}
	connStr := viper.GetString("tracking-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.TrackingBackend = backend
	cfg.TrackingDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// trackingSetup loads minimal configuration needed for tracking operations.
// This is used by commands that need the tracking store without full shared setup.
func trackingSetup() error {
	if err := trackingConfig(); err != nil {
		return err
	}
	if err := iostore.InitTracking(cfg.TrackingBackend, cfg.TrackingDBConnect); err != nil {
		return err
	}
	return nil
}

// trackingSetupWrapper wraps trackingSetup to provide PreRunE for tracking commands.
func trackingSetupWrapper(_ *cobra.Command, _ []string) error {
	return trackingSetup()
}

// trackingMigrateSetupWrapper loads the tracking settings without opening the store,
// so migrations can run against a fresh database.
func trackingMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return trackingConfig()
}

// trackingCmd focused on the optional run tracking database.
//
// Note: Tracking subcommands use minimal initialization (trackingSetup) instead of
// the full sharedSetup used by the pipeline. This avoids results directory
// validation for simple database operations.
var trackingCmd = &cobra.Command{
	Use:   "tracking",
	Short: "Manage the optional run tracking database",
	Long: `Manage the database that mirrors every pipeline run when tracking is enabled.

When --tracking-backend is set, each run stores:
- One run row (time, results directory, totals)
- One row per program with its counters, quality index and status

Supported backends: SQLite, MySQL, PostgreSQL, or None (default, disabled)

Subcommands:
  status  - Show tracking statistics
  export  - Export tracked runs to Parquet
  clear   - Remove all tracked runs
  migrate - Run database schema migrations

Examples:
  # Check tracking status
  testpulse tracking status --tracking-backend sqlite

  # MySQL via environment variables
  TESTPULSE_TRACKING_BACKEND=mysql TESTPULSE_TRACKING_DB_CONNECT="..." testpulse tracking status`,
}

// trackingStatusCmd shows tracking status.
var trackingStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display run tracking statistics and connection details",
	Long: `Show detailed information about the run tracking store.

Displays:
- Backend type and connection status
- Total number of tracked runs and program rows
- Last and oldest run timestamps
- Database table sizes`,
	PreRunE: trackingSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := iostore.Manager.GetTrackingStore()
		if store == nil {
			contract.LogFatal("Failed to get tracking status", fmt.Errorf("run tracking is disabled; set --tracking-backend"))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get tracking status", err)
		}
		iostore.PrintTrackingStatus(os.Stdout, status)
	},
}

// trackingClearCmd clears the tracking data.
var trackingClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all tracked runs",
	Long: `Delete all tracked runs and program rows.

WARNING: This action cannot be undone. Consider exporting data first.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the tracking tables

Examples:
  testpulse tracking export --tracking-backend sqlite --output-file backup
  testpulse tracking clear --tracking-backend sqlite`,
	PreRunE: trackingMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iostore.ClearTracking(cfg.TrackingBackend, cfg.TrackingDBConnect); err != nil {
			contract.LogFatal("Failed to clear tracking data", err)
		}
		fmt.Println("Tracking data cleared successfully.")
	},
}

// trackingExportCmd exports tracked runs to Parquet files.
var trackingExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export tracked runs to Parquet for BI tools and analytics",
	Long: `Export all tracked runs to Parquet format for use with analytics tools.

Exports two datasets next to --output-file:
- <output-file>.runs.parquet - one row per run
- <output-file>.subject_results.parquet - one row per program per run

Requires: --output-file parameter

Examples:
  testpulse tracking export --tracking-backend sqlite --output-file testpulse
  duckdb -c "SELECT * FROM read_parquet('testpulse.runs.parquet') LIMIT 10"`,
	PreRunE: trackingSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iostore.ExecuteTrackingExport(os.Stdout, iostore.Manager, cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export tracking data", err)
		}
	},
}

// trackingMigrateCmd runs database migrations for the tracking store.
var trackingMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the run tracking store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  testpulse tracking migrate --tracking-backend sqlite

  # Migrate to specific version
  testpulse tracking migrate --tracking-backend sqlite --target-version 2

  # Rollback to the initial state
  testpulse tracking migrate --tracking-backend sqlite --target-version 0`,
	PreRunE: trackingMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iostore.MigrateTracking(cfg.TrackingBackend, cfg.TrackingDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
