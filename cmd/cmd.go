// Package cmd defines the command-line interface for pathways.
package cmd

import (
	"github.com/huangsam/pathways/internal/contract"
	"github.com/huangsam/pathways/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(seriesCmd)
	rootCmd.AddCommand(actionsCmd)
	rootCmd.AddCommand(sankeyCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(mcpCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the runs subcommands to the parent runs command
	runsCmd.AddCommand(runsClearCmd)
	runsCmd.AddCommand(runsStatusCmd)
	runsCmd.AddCommand(runsExportCmd)
	runsCmd.AddCommand(runsMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringP("dataset", "d", "", "Path to the dataset file (json or yaml)")
	rootCmd.PersistentFlags().Int("start", 0, "First year of the window (0 = derive from data)")
	rootCmd.PersistentFlags().Int("end", 0, "Last year of the window (0 = derive from data)")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("runs-backend", "", "Run ledger backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("runs-db-connect", "", "Database connection string for the run ledger (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of seriesCmd to Viper
	seriesCmd.Flags().StringP("metric", "m", "", "Comma-separated metric ids (empty = all metrics)")
	if err := viper.BindPFlags(seriesCmd.Flags()); err != nil {
		contract.LogFatal("Error binding series flags", err)
	}

	// Bind all flags of actionsCmd to Viper
	actionsCmd.Flags().String("overview", "", "Impact overview id (empty = dataset actions)")
	actionsCmd.Flags().String("sort-by", string(schema.SortDefault), "Sort key: default or impact or cost or efficiency or name")
	actionsCmd.Flags().Bool("ascending", false, "Sort ascending instead of descending")
	actionsCmd.Flags().Float64("plot-limit", 0, "Exclude actions whose absolute efficiency exceeds this value. 0 leaves the cutoff unset, so the overview's own limit applies; a zero cutoff cannot be requested")
	actionsCmd.Flags().IntP("limit", "l", contract.DefaultResultLimit, "Number of actions to display (0 = all)")
	if err := viper.BindPFlags(actionsCmd.Flags()); err != nil {
		contract.LogFatal("Error binding actions flags", err)
	}

	// Bind all flags of sankeyCmd to Viper
	sankeyCmd.Flags().String("flow", "", "Flow id (empty = first flow)")
	sankeyCmd.Flags().Bool("all-years", false, "Build one frame per link year")
	sankeyCmd.Flags().String("theme-colors", "", "Comma-separated hex palette for node colors")
	if err := viper.BindPFlags(sankeyCmd.Flags()); err != nil {
		contract.LogFatal("Error binding sankey flags", err)
	}

	// Bind all flags of runsMigrateCmd to Viper
	runsMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(runsMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding runs migrate flags", err)
	}
}
