// Package contract provides interfaces and shared utilities for the pathways internal architecture.
package contract

import (
	"time"

	"github.com/huangsam/pathways/schema"
)

// CacheManager defines the interface for managing stores.
// This allows the storage layer to be mocked for testing.
type CacheManager interface {
	GetMemoStore() CacheStore
	GetRunStore() RunStore
}

// CacheStore defines the interface for memoized result storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// RunStore defines the interface for the ledger of runs and their ranked actions.
type RunStore interface {
	// BeginRun creates a new run and returns its unique ID
	BeginRun(startTime time.Time, command, datasetDigest string, params schema.RunParams) (int64, error)

	// EndRun updates the run with completion data
	EndRun(runID int64, endTime time.Time, totalRows int) error

	// RecordActionScore stores one ranked action of a run
	RecordActionScore(runID int64, record schema.ActionScoreRecord) error

	// GetStatus returns status information about the run store
	GetStatus() (schema.RunStatus, error)

	// GetAllRuns returns every recorded run
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllActionScores returns every recorded action score
	GetAllActionScores() ([]schema.ActionScoreRecord, error)

	// Close closes the underlying connection
	Close() error
}

// OutputWriter renders command results in the configured output format.
type OutputWriter interface {
	WriteSeries(summaries []schema.SeriesSummary, cfg *Config, duration time.Duration) error
	WriteActions(ranking schema.ActionRanking, cfg *Config, duration time.Duration) error
	WriteSankey(frames []schema.SankeyFrame, cfg *Config, duration time.Duration) error
}
