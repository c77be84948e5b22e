package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// SortKey represents the field actions are ranked by.
	SortKey string

	// LinkKind represents the role of an edge in a Sankey frame.
	LinkKind string

	// DatabaseBackend represents the database backend for caching.
	DatabaseBackend string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All sort keys supported.
const (
	SortDefault    SortKey = "default" // input order
	SortImpact     SortKey = "impact"
	SortCost       SortKey = "cost"
	SortEfficiency SortKey = "efficiency"
	SortName       SortKey = "name"
)

// All Sankey link kinds.
const (
	FlowLinkKind      LinkKind = "flow"      // current-year edge between nodes
	RemainingLinkKind LinkKind = "remaining" // carried-over value
	ImpactLinkKind    LinkKind = "impact"    // tracked impact
	OtherLinkKind     LinkKind = "other"     // residual
	ThreadLinkKind    LinkKind = "thread"    // start snapshot to current snapshot
)

// All cache backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// Command names used for memo keys and the run ledger.
const (
	SeriesCommand  = "series"
	ActionsCommand = "actions"
	SankeyCommand  = "sankey"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidSortKeys lists all valid sort keys.
var ValidSortKeys = map[SortKey]struct{}{
	SortDefault:    {},
	SortImpact:     {},
	SortCost:       {},
	SortEfficiency: {},
	SortName:       {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
