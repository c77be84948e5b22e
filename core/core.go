// Package core has the entry points that load a dataset, run the engines and
// hand the results to an output writer.
package core

import (
	"context"
	"time"

	"github.com/huangsam/pathways/internal/contract"
	"github.com/huangsam/pathways/schema"
)

// ExecutorFunc defines the function signature for executing a command.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, w contract.OutputWriter) error

// ExecuteSeries summarizes metrics and writes them.
// It serves as the main entry point for the 'series' command.
func ExecuteSeries(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, w contract.OutputWriter) error {
	start := time.Now()
	ds, err := loadDataset(cfg)
	if err != nil {
		return err
	}
	ctx = beginRun(ctx, cfg, mgr, schema.SeriesCommand, ds.Digest)
	summaries, err := seriesResults(ctx, cfg, mgr, ds)
	if err != nil {
		return err
	}
	endRun(ctx, mgr, len(summaries))
	duration := time.Since(start)
	return w.WriteSeries(summaries, cfg, duration)
}

// ExecuteActions ranks actions by cost efficiency and writes the ranking.
// It serves as the main entry point for the 'actions' command.
func ExecuteActions(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, w contract.OutputWriter) error {
	start := time.Now()
	ds, err := loadDataset(cfg)
	if err != nil {
		return err
	}
	ctx = beginRun(ctx, cfg, mgr, schema.ActionsCommand, ds.Digest)
	ranking, err := actionResults(ctx, cfg, mgr, ds)
	if err != nil {
		return err
	}
	recordActionScores(ctx, mgr, ranking)
	endRun(ctx, mgr, ranking.Chart.Len())
	duration := time.Since(start)
	return w.WriteActions(ranking, cfg, duration)
}

// ExecuteSankey builds the Sankey frames of a flow and writes them.
// It serves as the main entry point for the 'sankey' command.
func ExecuteSankey(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, w contract.OutputWriter) error {
	start := time.Now()
	ds, err := loadDataset(cfg)
	if err != nil {
		return err
	}
	ctx = beginRun(ctx, cfg, mgr, schema.SankeyCommand, ds.Digest)
	frames, err := sankeyResults(ctx, cfg, mgr, ds)
	if err != nil {
		return err
	}
	endRun(ctx, mgr, len(frames))
	duration := time.Since(start)
	return w.WriteSankey(frames, cfg, duration)
}
