package contract

import (
	"cmp"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/huangsam/pathways/schema"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rs/zerolog"
)

// Default values for configuration.
const (
	DefaultResultLimit = 0 // all actions
	MaxResultLimit     = 1000
	DefaultPrecision   = 1
	MaxPrecision       = 4
	MinYear            = 1
	MaxYear            = 9999
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for a run.
// This struct remains the "final, validated" config.
type Config struct {
	DatasetPath string

	MetricIDs  []string
	OverviewID string
	FlowID     string

	// StartYear and EndYear are inclusive; zero means derive from the data
	StartYear int
	EndYear   int

	SortBy      schema.SortKey
	Ascending   bool
	PlotLimit   *float64 // overrides the overview cutoff when set
	ResultLimit int      // 0 keeps every action
	AllYears    bool
	ThemeColors []string

	Workers    int
	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	RunsBackend   schema.DatabaseBackend
	RunsDBConnect string // Please use env var as this is plaintext

	LogLevel string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Dataset        string  `mapstructure:"dataset"`
	Start          int     `mapstructure:"start"`
	End            int     `mapstructure:"end"`
	Workers        int     `mapstructure:"workers"`
	Precision      int     `mapstructure:"precision"`
	Output         string  `mapstructure:"output"`
	OutputFile     string  `mapstructure:"output-file"`
	Width          int     `mapstructure:"width"`
	Color          string  `mapstructure:"color"`
	ThemeColors    string  `mapstructure:"theme-colors"`
	CacheBackend   string  `mapstructure:"cache-backend"`
	CacheDBConnect string  `mapstructure:"cache-db-connect"`
	RunsBackend    string  `mapstructure:"runs-backend"`
	RunsDBConnect  string  `mapstructure:"runs-db-connect"`
	LogLevel       string  `mapstructure:"log-level"`
	Metric         string  `mapstructure:"metric"`
	Overview       string  `mapstructure:"overview"`
	Flow           string  `mapstructure:"flow"`
	SortBy         string  `mapstructure:"sort-by"`
	Ascending      bool    `mapstructure:"ascending"`
	PlotLimit      float64 `mapstructure:"plot-limit"`
	Limit          int     `mapstructure:"limit"`
	AllYears       bool    `mapstructure:"all-years"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.MetricIDs = slices.Clone(c.MetricIDs)
	clone.ThemeColors = slices.Clone(c.ThemeColors)
	if c.PlotLimit != nil {
		limit := *c.PlotLimit
		clone.PlotLimit = &limit
	}
	return &clone
}

// CloneWithWindow creates a copy of the Config and sets the new year window.
func (c *Config) CloneWithWindow(start, end int) *Config {
	clone := c.Clone()
	clone.StartYear = start
	clone.EndYear = end
	return clone
}

// ResolveWindow fills unset window bounds from the data bounds.
func (c *Config) ResolveWindow(first, last int) (int, int) {
	start, end := c.StartYear, c.EndYear
	if start == 0 {
		start = first
	}
	if end == 0 {
		end = last
	}
	return start, end
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processYearWindow(cfg, input); err != nil {
		return err
	}
	if err := processRanking(cfg, input); err != nil {
		return err
	}
	if err := processThemeColors(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	return resolveDatasetPath(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates memo and run ledger backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Memo Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if cfg.CacheBackend == "" {
		cfg.CacheBackend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return fmt.Errorf("cache: %w", err)
	}

	// --- Runs Backend Validation ---
	cfg.RunsBackend = schema.DatabaseBackend(strings.ToLower(input.RunsBackend))
	if cfg.RunsBackend == "" {
		return nil
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.RunsBackend]; !ok {
		return fmt.Errorf("invalid runs backend '%s'. must be sqlite, mysql, postgresql, none", input.RunsBackend)
	}
	cfg.RunsDBConnect = input.RunsDBConnect
	if err := ValidateDatabaseConnectionString(cfg.RunsBackend, cfg.RunsDBConnect); err != nil {
		return fmt.Errorf("runs: %w", err)
	}

	// Memo and runs must not share one SQLite file
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.RunsBackend == schema.SQLiteBackend {
		cacheDBPath := cmp.Or(cfg.CacheDBConnect, GetCacheDBFilePath())
		runsDBPath := cmp.Or(cfg.RunsDBConnect, GetRunsDBFilePath())
		if cacheDBPath == runsDBPath {
			return fmt.Errorf("cache and runs storage must use different SQLite database files. Both resolve to %q", cacheDBPath)
		}
	}
	return nil
}

// validateSimpleInputs processes and validates the output and execution fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.AllYears = input.AllYears
	cfg.OverviewID = strings.TrimSpace(input.Overview)
	cfg.FlowID = strings.TrimSpace(input.Flow)
	cfg.MetricIDs = SplitList(input.Metric)

	// Parse color flag
	colors := true
	if input.Color != "" {
		parsed, err := ParseBoolString(input.Color)
		if err != nil {
			return fmt.Errorf("invalid --color value: %w", err)
		}
		colors = parsed
	}
	cfg.UseColors = colors

	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	if input.Precision < 0 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 0 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if cfg.Output == "" {
		cfg.Output = schema.TextOut
	}
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	if input.LogLevel != "" {
		if _, err := zerolog.ParseLevel(input.LogLevel); err != nil {
			return fmt.Errorf("invalid log level '%s': %w", input.LogLevel, err)
		}
	}
	cfg.LogLevel = input.LogLevel

	return nil
}

// processYearWindow validates the inclusive year window.
func processYearWindow(cfg *Config, input *ConfigRawInput) error {
	for _, y := range []int{input.Start, input.End} {
		if y != 0 && (y < MinYear || y > MaxYear) {
			return fmt.Errorf("year %d is out of range [%d, %d]", y, MinYear, MaxYear)
		}
	}
	if input.Start != 0 && input.End != 0 && input.Start > input.End {
		return fmt.Errorf("start year (%d) cannot be after end year (%d)", input.Start, input.End)
	}
	cfg.StartYear = input.Start
	cfg.EndYear = input.End
	return nil
}

// processRanking validates sorting, the efficiency cutoff and the result cap.
func processRanking(cfg *Config, input *ConfigRawInput) error {
	cfg.SortBy = schema.SortKey(strings.ToLower(input.SortBy))
	if cfg.SortBy == "" {
		cfg.SortBy = schema.SortDefault
	}
	if _, ok := schema.ValidSortKeys[cfg.SortBy]; !ok {
		return fmt.Errorf("invalid sort key '%s'. must be default, impact, cost, efficiency, name", input.SortBy)
	}
	cfg.Ascending = input.Ascending

	if input.PlotLimit < 0 {
		return fmt.Errorf("plot-limit cannot be negative (received %g)", input.PlotLimit)
	}
	cfg.PlotLimit = nil
	if input.PlotLimit > 0 {
		limit := input.PlotLimit
		cfg.PlotLimit = &limit
	}

	if input.Limit < 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be between 0 and %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit
	return nil
}

// processThemeColors parses and validates the palette override.
func processThemeColors(cfg *Config, input *ConfigRawInput) error {
	cfg.ThemeColors = nil
	for _, c := range SplitList(input.ThemeColors) {
		if _, err := colorful.Hex(c); err != nil {
			return fmt.Errorf("invalid theme color '%s': %w", c, err)
		}
		cfg.ThemeColors = append(cfg.ThemeColors, c)
	}
	return nil
}

// resolveDatasetPath makes the dataset path absolute and checks that it exists.
// An empty path is allowed so that store maintenance commands can share the config.
func resolveDatasetPath(cfg *Config, input *ConfigRawInput) error {
	cfg.DatasetPath = ""
	if input.Dataset == "" {
		return nil
	}
	abs, err := filepath.Abs(input.Dataset)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("dataset: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("dataset %q is a directory", input.Dataset)
	}
	cfg.DatasetPath = abs
	return nil
}

// RevalidateDataset applies a dataset path supplied outside of viper, e.g. by
// an MCP tool call. An empty path keeps the current one.
func RevalidateDataset(cfg *Config, path string) error {
	if path == "" {
		return nil
	}
	return resolveDatasetPath(cfg, &ConfigRawInput{Dataset: path})
}

// RevalidateWindow applies and checks a year window supplied outside of viper.
func RevalidateWindow(cfg *Config, start, end int) error {
	return processYearWindow(cfg, &ConfigRawInput{Start: start, End: end})
}

// RevalidateRanking applies and checks ranking options supplied outside of viper.
func RevalidateRanking(cfg *Config, sortBy string, ascending bool, plotLimit float64, limit int) error {
	return processRanking(cfg, &ConfigRawInput{
		SortBy:    sortBy,
		Ascending: ascending,
		PlotLimit: plotLimit,
		Limit:     limit,
	})
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}
