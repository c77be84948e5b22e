// Package outwriter renders series summaries, action rankings and Sankey
// frames as tables, CSV, JSON or Parquet.
package outwriter

import (
	"time"

	"github.com/huangsam/pathways/internal/contract"
	"github.com/huangsam/pathways/schema"
)

// OutWriter provides a unified interface for all output operations.
type OutWriter struct{}

var _ contract.OutputWriter = &OutWriter{} // Compile-time check

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteSeries prints metric summaries using the configured output format.
func (ow *OutWriter) WriteSeries(summaries []schema.SeriesSummary, cfg *contract.Config, duration time.Duration) error {
	return WriteSeriesResults(summaries, cfg, duration)
}

// WriteActions prints an action ranking using the configured output format.
func (ow *OutWriter) WriteActions(ranking schema.ActionRanking, cfg *contract.Config, duration time.Duration) error {
	return WriteActionResults(ranking, cfg, duration)
}

// WriteSankey prints Sankey frames using the configured output format.
func (ow *OutWriter) WriteSankey(frames []schema.SankeyFrame, cfg *contract.Config, duration time.Duration) error {
	return WriteSankeyResults(frames, cfg, duration)
}
