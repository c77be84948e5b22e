package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/pathways/internal/contract"
	"github.com/huangsam/pathways/schema"
)

// runStore returns the run ledger of mgr, or nil when runs are not recorded.
func runStore(mgr contract.CacheManager) contract.RunStore {
	if mgr == nil {
		return nil
	}
	return mgr.GetRunStore()
}

// runParams snapshots the parts of cfg that shape a run.
func runParams(cfg *contract.Config) schema.RunParams {
	return schema.RunParams{
		Dataset:   cfg.DatasetPath,
		Metric:    strings.Join(cfg.MetricIDs, ","),
		Overview:  cfg.OverviewID,
		Flow:      cfg.FlowID,
		StartYear: cfg.StartYear,
		EndYear:   cfg.EndYear,
		SortBy:    cfg.SortBy,
		Ascending: cfg.Ascending,
		Limit:     cfg.ResultLimit,
	}
}

// beginRun opens a ledger entry and stores its ID in the returned context.
// Ledger failures are logged and never fail the run.
func beginRun(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, command, digest string) context.Context {
	store := runStore(mgr)
	if store == nil {
		return ctx
	}
	runID, err := store.BeginRun(time.Now(), command, digest, runParams(cfg))
	if err != nil {
		contract.LogWarn("Run tracking initialization failed", err)
		return ctx
	}
	return withRunID(ctx, runID)
}

// endRun finalizes the ledger entry of ctx.
func endRun(ctx context.Context, mgr contract.CacheManager, totalRows int) {
	runID, ok := getRunID(ctx)
	store := runStore(mgr)
	if !ok || store == nil {
		return
	}
	if err := store.EndRun(runID, time.Now(), totalRows); err != nil {
		contract.LogWarn("Failed to finalize run tracking", err)
	}
}

// recordActionScores stores one ledger row per ranked action in rank order.
func recordActionScores(ctx context.Context, mgr contract.CacheManager, ranking schema.ActionRanking) {
	runID, ok := getRunID(ctx)
	store := runStore(mgr)
	if !ok || store == nil {
		return
	}
	now := time.Now()
	for _, row := range schema.EnrichActions(ranking.Chart) {
		record := schema.ActionScoreRecord{
			RunID:      runID,
			Rank:       int32(row.Rank),
			ActionID:   row.ID,
			ActionName: row.Name,
			GroupID:    row.Group,
			StartYear:  int32(ranking.StartYear),
			EndYear:    int32(ranking.EndYear),
			Impact:     row.Impact,
			Cost:       row.Cost,
			Efficiency: row.Efficiency,
			RecordTime: now,
		}
		if err := store.RecordActionScore(runID, record); err != nil {
			contract.LogWarn(fmt.Sprintf("Run tracking failed for action %s", row.ID), err)
		}
	}
}
