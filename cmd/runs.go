package cmd

import (
	"cmp"
	"fmt"
	"os"

	"github.com/huangsam/pathways/internal/contract"
	"github.com/huangsam/pathways/internal/iocache"
	"github.com/huangsam/pathways/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// runsBackendConfig reads the ledger backend. Unset means the ledger is off.
func runsBackendConfig() (schema.DatabaseBackend, string, error) {
	return storeConfig("runs-backend", "runs-db-connect", schema.NoneBackend)
}

// runsSetup opens only the run store.
func runsSetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := runsBackendConfig()
	if err != nil {
		return err
	}

	if err := iocache.InitCaching("", "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize run ledger: %w", err)
	}

	cfg.RunsBackend = backend
	cfg.RunsDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")

	return nil
}

// runsMigrateSetup loads minimal configuration needed for migrate operations.
// It does NOT initialize stores or create tables, allowing migrations to run
// on a fresh database.
func runsMigrateSetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := runsBackendConfig()
	if err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = iocache.GetRunsDBFilePath()
	}

	cfg.RunsBackend = backend
	cfg.RunsDBConnect = connStr

	return nil
}

// runsCmd groups run ledger maintenance.
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage the ledger of past runs and exports",
	Long: `Manage the run ledger used for trend tracking and reporting.

When enabled with --runs-backend, Pathways records every run:
- Run metadata (command, dataset digest, configuration, duration)
- Every ranked action of 'actions' runs with its impact, cost and efficiency

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled, default)

Subcommands:
  status  - Show ledger statistics
  export  - Export data to Parquet for analytics
  clear   - Remove all ledger data
  migrate - Run database schema migrations

Examples:
  # Check ledger status
  pathways runs status --runs-backend sqlite

  # Export for analysis in pandas/DuckDB
  pathways runs export --runs-backend sqlite --output-file ledger`,
}

// runsClearCmd clears the ledger.
var runsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded runs",
	Long: `Delete all stored runs and action scores.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  # Export before clearing
  pathways runs export --runs-backend sqlite --output-file backup
  pathways runs clear --runs-backend sqlite`,
	PreRunE: runsSetup,
	Run: func(cmd *cobra.Command, _ []string) {
		// Release the SQLite file before removing it
		iocache.CloseCaching()
		dbFile := cmp.Or(cfg.RunsDBConnect, iocache.GetRunsDBFilePath())
		if err := iocache.ClearRuns(cfg.RunsBackend, dbFile, cfg.RunsDBConnect); err != nil {
			contract.LogFatal("Failed to clear run ledger", err)
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Run ledger cleared successfully.")
	},
}

// runsStatusCmd shows ledger status.
var runsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display ledger statistics and connection details",
	Long: `Show detailed information about the run ledger.

Displays:
- Backend type and connection status
- Total number of runs stored
- Last and oldest run timestamps
- Total rows recorded across all runs
- Database table sizes

Examples:
  # Check ledger status
  pathways runs status --runs-backend sqlite`,
	PreRunE: runsSetup,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetRunStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get run ledger status", err)
		}
		iocache.PrintRunStatus(os.Stdout, status)
	},
}

// runsExportCmd exports ledger data to Parquet files.
var runsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the run ledger to Parquet files",
	Long: `Export all runs and action scores to two Parquet files named
<output-file>.runs.parquet and <output-file>.action_scores.parquet.

Requires: --output-file parameter

Examples:
  # Export all data
  pathways runs export --runs-backend sqlite --output-file ledger

  # Use with DuckDB for analysis
  duckdb -c "SELECT * FROM read_parquet('ledger.action_scores.parquet') LIMIT 10"`,
	PreRunE: runsSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteRunsExport(cacheManager, cfg.OutputFile, os.Stdout); err != nil {
			contract.LogFatal("Failed to export run ledger", err)
		}
	},
}

// runsMigrateCmd runs database migrations for the run ledger.
var runsMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the run ledger.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  pathways runs migrate --runs-backend sqlite

  # Migrate to specific version
  pathways runs migrate --runs-backend sqlite --target-version 1

  # Rollback to initial state
  pathways runs migrate --runs-backend sqlite --target-version 0`,
	PreRunE: runsMigrateSetup,
	Run: func(cmd *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		msg, err := iocache.MigrateRuns(cfg.RunsBackend, cfg.RunsDBConnect, targetVersion)
		if err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), msg)
	},
}
