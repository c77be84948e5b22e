package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/pprof"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/pathways/core"
	"github.com/huangsam/pathways/internal/contract"
	"github.com/huangsam/pathways/internal/iocache"
	"github.com/huangsam/pathways/internal/outwriter"
	"github.com/huangsam/pathways/schema"
	"github.com/joho/godotenv"
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

var (
	// cfg is the validated configuration shared by all commands.
	cfg = &contract.Config{}

	// input receives viper's merged values before validation.
	input = &contract.ConfigRawInput{}

	profile = &contract.ProfileConfig{}

	// cacheManager owns the memo cache and run ledger stores.
	cacheManager contract.CacheManager
)

// writer renders results in the configured output format.
var writer contract.OutputWriter = outwriter.NewOutWriter()

// profilePaths names the CPU and heap profile files for the configured prefix.
func profilePaths() (cpu, mem string) {
	return profile.Prefix + ".cpu.prof", profile.Prefix + ".mem.prof"
}

// startProfiling begins CPU profiling. The heap profile is written on stop.
func startProfiling() error {
	cpuPath, memPath := profilePaths()
	cpuFile, err := os.Create(cpuPath)
	if err != nil {
		return fmt.Errorf("could not create CPU profile: %w", err)
	}
	if err := pprof.StartCPUProfile(cpuFile); err != nil {
		_ = cpuFile.Close()
		return fmt.Errorf("could not start CPU profiling: %w", err)
	}
	contract.Log().Info().Str("cpu", cpuPath).Str("mem", memPath).Msg("Profiling enabled")
	return nil
}

// stopProfiling flushes the CPU profile and writes a heap snapshot.
func stopProfiling() error {
	if !profile.Enabled {
		return nil
	}
	pprof.StopCPUProfile()

	cpuPath, memPath := profilePaths()
	memFile, err := os.Create(memPath)
	if err != nil {
		return fmt.Errorf("could not create memory profile: %w", err)
	}
	defer func() { _ = memFile.Close() }()
	if err := pprof.WriteHeapProfile(memFile); err != nil {
		return fmt.Errorf("could not write memory profile: %w", err)
	}

	contract.Log().Info().Msgf("Profiling complete. Use 'go tool pprof %s' to analyze.", cpuPath)
	return nil
}

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "pathways",
	Short:              "Prepare emission pathway data for charts and reports.",
	Long:               `Pathways turns climate model datasets into chart-ready summaries, action rankings and Sankey frames.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// configDefaults are the lowest-precedence values, below file, env and flags.
var configDefaults = map[string]any{
	"limit":            contract.DefaultResultLimit,
	"workers":          contract.DefaultWorkers,
	"precision":        contract.DefaultPrecision,
	"output":           schema.TextOut,
	"sort-by":          schema.SortDefault,
	"cache-backend":    schema.SQLiteBackend,
	"cache-db-connect": "",
	"runs-backend":     "",
	"runs-db-connect":  "",
	"color":            "yes",
	"log-level":        "info",
}

// initConfig reads in the .env file, config file and ENV variables if set.
func initConfig() {
	// A missing .env is fine
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		contract.LogWarn("Cannot load .env file", err)
	}

	setConfigFile()

	// PATHWAYS_CACHE_BACKEND maps to cache-backend
	viper.SetEnvPrefix("PATHWAYS")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	for key, value := range configDefaults {
		viper.SetDefault(key, value)
	}
}

// setConfigFile points viper at --config or the default .pathways.yaml locations.
func setConfigFile() {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		return
	}
	viper.SetConfigName(".pathways") // Name of config file (without extension)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME")
}

// readConfigFile merges the config file into viper. A missing file is not an error.
func readConfigFile() error {
	err := viper.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err == nil || errors.As(err, &notFound) {
		return nil
	}
	return fmt.Errorf("error reading config file: %w", err)
}

// sharedSetup resolves the configuration for analysis commands and opens the
// stores it names. Precedence is defaults, config file, env, then flags.
func sharedSetup(_ context.Context, _ *cobra.Command, _ []string) error {
	if err := contract.ProcessProfilingConfig(profile, viper.GetString("profile")); err != nil {
		return fmt.Errorf("failed to process profiling config: %w", err)
	}
	if profile.Enabled {
		if err := startProfiling(); err != nil {
			return fmt.Errorf("failed to start profiling: %w", err)
		}
	}

	if err := readConfigFile(); err != nil {
		return err
	}
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}

	contract.InitLogger(cfg.LogLevel)
	if !cfg.UseColors {
		color.NoColor = true
	}

	if err := iocache.InitCaching(cfg.CacheBackend, cfg.CacheDBConnect, cfg.RunsBackend, cfg.RunsDBConnect); err != nil {
		return fmt.Errorf("failed to initialize stores: %w", err)
	}
	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// requireDataset fails early when an analysis command has no dataset.
func requireDataset(cmd *cobra.Command, args []string) error {
	if err := sharedSetupWrapper(cmd, args); err != nil {
		return err
	}
	if cfg.DatasetPath == "" {
		return core.ErrNoDataset
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetCacheManager sets the global cache manager.
func SetCacheManager(mgr contract.CacheManager) {
	cacheManager = mgr
}

// StopProfiling stops profiling if enabled.
func StopProfiling() error {
	return stopProfiling()
}
