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

// storeConfig reads one backend/connection pair from the merged config and
// validates it. An unset backend falls back to fallback.
func storeConfig(backendKey, connKey string, fallback schema.DatabaseBackend) (schema.DatabaseBackend, string, error) {
	if err := readConfigFile(); err != nil {
		return "", "", err
	}
	backend := schema.DatabaseBackend(cmp.Or(viper.GetString(backendKey), string(fallback)))
	connStr := viper.GetString(connKey)
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// cacheSetup opens only the memo store. Cache commands skip dataset validation.
func cacheSetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := storeConfig("cache-backend", "cache-db-connect", schema.SQLiteBackend)
	if err != nil {
		return err
	}
	if err := iocache.InitCaching(backend, connStr, "", ""); err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	cfg.CacheBackend, cfg.CacheDBConnect = backend, connStr
	return nil
}

// cacheCmd groups memo store maintenance.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage memoized results (improves performance)",
	Long: `Manage the memo store that speeds up repeated runs on the same dataset.

Pathways caches computed summaries, rankings and frames keyed by the dataset
contents and every parameter that affects the result. Editing the dataset
or changing a parameter naturally misses the cache.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status - Show cache statistics and connection info
  clear  - Remove all cached data

Examples:
  # Check cache status
  pathways cache status

  # Clear cache
  pathways cache clear`,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all memoized results",
	Long: `Delete all memoized results from the configured backend.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the memo table

Examples:
  # Clear SQLite cache (default)
  pathways cache clear

  # Clear MySQL cache (set connection string via env variable)
  PATHWAYS_CACHE_BACKEND=mysql PATHWAYS_CACHE_DB_CONNECT="..." pathways cache clear`,
	PreRunE: cacheSetup,
	Run: func(cmd *cobra.Command, _ []string) {
		// Release the SQLite file before removing it
		iocache.CloseCaching()
		dbFile := cmp.Or(cfg.CacheDBConnect, iocache.GetDBFilePath())
		if err := iocache.ClearCache(cfg.CacheBackend, dbFile, cfg.CacheDBConnect); err != nil {
			contract.LogFatal("Failed to clear cache", err)
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared successfully.")
	},
}

var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache statistics and connection details",
	Long: `Show detailed information about the memo store.

Displays:
- Backend type and connection status
- Total number of cached entries
- Last and oldest cache entry timestamps
- Cache database size

Examples:
  # Check cache status
  pathways cache status`,
	PreRunE: cacheSetup,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetMemoStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get cache status", err)
		}
		iocache.PrintCacheStatus(os.Stdout, status)
	},
}
