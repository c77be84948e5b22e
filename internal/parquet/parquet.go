// Package parquet provides row types and writers for exporting pathways
// results and the run ledger with github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/pathways/schema"
	"github.com/parquet-go/parquet-go"
)

// Run maps to the pathways_runs table.
type Run struct {
	RunID         int64      `parquet:"run_id,snappy"`
	RunKey        string     `parquet:"run_key,snappy"`
	Command       string     `parquet:"command,snappy,dict"`
	DatasetDigest string     `parquet:"dataset_digest,snappy"`
	StartTime     time.Time  `parquet:"start_time,snappy"`
	EndTime       *time.Time `parquet:"end_time,optional,snappy"`
	RunDurationMs *int32     `parquet:"run_duration_ms,optional,snappy"`
	TotalRows     int32      `parquet:"total_rows,snappy"`

	// ConfigParams is the JSON-encoded run configuration
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// ActionScore maps to the pathways_action_scores table.
type ActionScore struct {
	RunID      int64     `parquet:"run_id,snappy"`
	Rank       int32     `parquet:"rank,snappy"`
	ActionID   string    `parquet:"action_id,snappy"`
	ActionName string    `parquet:"action_name,snappy"`
	GroupID    string    `parquet:"group_id,snappy,dict"`
	StartYear  int32     `parquet:"start_year,snappy"`
	EndYear    int32     `parquet:"end_year,snappy"`
	Impact     float64   `parquet:"impact,snappy"`
	Cost       float64   `parquet:"cost,snappy"`
	Efficiency float64   `parquet:"efficiency,snappy"`
	RecordTime time.Time `parquet:"record_time,snappy"`
}

// SeriesPoint is one resolved year of a summarized metric.
type SeriesPoint struct {
	MetricID string  `parquet:"metric_id,snappy,dict"`
	Year     int32   `parquet:"year,snappy"`
	Value    float64 `parquet:"value,snappy"`
	Forecast bool    `parquet:"forecast"`
}

// RankedAction is one bar of an action ranking.
type RankedAction struct {
	Rank       int32   `parquet:"rank,snappy"`
	ActionID   string  `parquet:"action_id,snappy"`
	ActionName string  `parquet:"action_name,snappy"`
	GroupID    string  `parquet:"group_id,snappy,dict"`
	Color      string  `parquet:"color,snappy,dict"`
	Label      string  `parquet:"label,snappy,dict"`
	StartYear  int32   `parquet:"start_year,snappy"`
	EndYear    int32   `parquet:"end_year,snappy"`
	Impact     float64 `parquet:"impact,snappy"`
	Cost       float64 `parquet:"cost,snappy"`
	Efficiency float64 `parquet:"efficiency,snappy"`
}

// SankeyLink is one edge of a Sankey frame with its endpoints resolved to labels.
type SankeyLink struct {
	FlowID    string  `parquet:"flow_id,snappy,dict"`
	StartYear int32   `parquet:"start_year,snappy"`
	Year      int32   `parquet:"year,snappy"`
	Source    int32   `parquet:"source,snappy"`
	Target    int32   `parquet:"target,snappy"`
	SourceTag string  `parquet:"source_label,snappy,dict"`
	TargetTag string  `parquet:"target_label,snappy,dict"`
	Value     float64 `parquet:"value,snappy"`
	Color     string  `parquet:"color,snappy,dict"`
	Kind      string  `parquet:"kind,snappy,dict"`
}

// WriteRows writes rows to w using the schema inferred from T.
func WriteRows[T any](rows []T, w io.Writer) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteFile creates outputPath and writes rows to it.
func WriteFile[T any](rows []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := WriteRows(rows, file); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// WriteRunsParquet writes runs to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	return WriteFile(data, outputPath)
}

// WriteActionScoresParquet writes action scores to a Parquet file.
func WriteActionScoresParquet(data []ActionScore, outputPath string) error {
	return WriteFile(data, outputPath)
}

// ConvertRunRecords converts ledger rows for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	result := make([]Run, len(records))
	for i, r := range records {
		result[i] = Run{
			RunID:         r.RunID,
			RunKey:        r.RunKey,
			Command:       r.Command,
			DatasetDigest: r.DatasetDigest,
			StartTime:     r.StartTime,
			EndTime:       r.EndTime,
			RunDurationMs: r.RunDurationMs,
			TotalRows:     r.TotalRows,
			ConfigParams:  r.ConfigParams,
		}
	}
	return result
}

// ConvertActionScoreRecords converts ledger rows for Parquet export.
func ConvertActionScoreRecords(records []schema.ActionScoreRecord) []ActionScore {
	result := make([]ActionScore, len(records))
	for i, r := range records {
		result[i] = ActionScore{
			RunID:      r.RunID,
			Rank:       r.Rank,
			ActionID:   r.ActionID,
			ActionName: r.ActionName,
			GroupID:    r.GroupID,
			StartYear:  r.StartYear,
			EndYear:    r.EndYear,
			Impact:     r.Impact,
			Cost:       r.Cost,
			Efficiency: r.Efficiency,
			RecordTime: r.RecordTime,
		}
	}
	return result
}

// ConvertSeriesSummaries flattens the points of every summary.
func ConvertSeriesSummaries(summaries []schema.SeriesSummary) []SeriesPoint {
	var result []SeriesPoint
	for _, s := range summaries {
		for _, p := range s.Points {
			result = append(result, SeriesPoint{
				MetricID: s.MetricID,
				Year:     int32(p.Year),
				Value:    p.Value,
				Forecast: p.Forecast,
			})
		}
	}
	return result
}

// ConvertActionRanking turns the chart arrays of a ranking into rows.
func ConvertActionRanking(ranking schema.ActionRanking) []RankedAction {
	enriched := schema.EnrichActions(ranking.Chart)
	result := make([]RankedAction, len(enriched))
	for i, a := range enriched {
		result[i] = RankedAction{
			Rank:       int32(a.Rank),
			ActionID:   a.ID,
			ActionName: a.Name,
			GroupID:    a.Group,
			Color:      a.Color,
			Label:      a.Label,
			StartYear:  int32(ranking.StartYear),
			EndYear:    int32(ranking.EndYear),
			Impact:     a.Impact,
			Cost:       a.Cost,
			Efficiency: a.Efficiency,
		}
	}
	return result
}

// ConvertSankeyFrames flattens the edges of every frame.
func ConvertSankeyFrames(frames []schema.SankeyFrame) []SankeyLink {
	var result []SankeyLink
	for _, f := range frames {
		labels := f.Trace.Node.Label
		link := f.Trace.Link
		for i := range link.Source {
			result = append(result, SankeyLink{
				FlowID:    f.FlowID,
				StartYear: int32(f.StartYear),
				Year:      int32(f.Year),
				Source:    int32(link.Source[i]),
				Target:    int32(link.Target[i]),
				SourceTag: labels[link.Source[i]],
				TargetTag: labels[link.Target[i]],
				Value:     link.Value[i],
				Color:     link.Color[i],
				Kind:      string(link.Kind[i]),
			})
		}
	}
	return result
}
