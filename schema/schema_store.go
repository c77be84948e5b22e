package schema

import "time"

// RunRecord represents a row from the pathways_runs table.
type RunRecord struct {
	RunID         int64
	RunKey        string
	Command       string
	DatasetDigest string
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int32
	TotalRows     int32
	ConfigParams  *string
}

// ActionScoreRecord represents a row from the pathways_action_scores table.
type ActionScoreRecord struct {
	RunID      int64
	Rank       int32
	ActionID   string
	ActionName string
	GroupID    string
	StartYear  int32
	EndYear    int32
	Impact     float64
	Cost       float64
	Efficiency float64
	RecordTime time.Time
}

// RunParams is the configuration snapshot stored alongside a run.
type RunParams struct {
	Dataset   string  `json:"dataset"`
	Metric    string  `json:"metric,omitempty"`
	Overview  string  `json:"overview,omitempty"`
	Flow      string  `json:"flow,omitempty"`
	StartYear int     `json:"start_year"`
	EndYear   int     `json:"end_year"`
	SortBy    SortKey `json:"sort_by,omitempty"`
	Ascending bool    `json:"ascending,omitempty"`
	Limit     int     `json:"limit,omitempty"`
}
