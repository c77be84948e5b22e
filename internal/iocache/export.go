package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/pathways/internal/contract"
	"github.com/huangsam/pathways/internal/parquet"
)

// ExecuteRunsExport writes the run ledger to two Parquet files named after
// outputFile and reports progress to w.
func ExecuteRunsExport(mgr contract.CacheManager, outputFile string, w io.Writer) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	store := mgr.GetRunStore()
	if store == nil {
		return errors.New("run store is not initialized")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get run status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no run data found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(w, "Total action scores: %d\n", status.TableSizes[actionScoresTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	scores, err := store.GetAllActionScores()
	if err != nil {
		return fmt.Errorf("failed to retrieve action scores: %w", err)
	}

	parquetRuns := parquet.ConvertRunRecords(runs)
	runsFile := outputFile + ".runs.parquet"
	if err := parquet.WriteRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d runs to: %s\n", len(parquetRuns), runsFile)

	parquetScores := parquet.ConvertActionScoreRecords(scores)
	scoresFile := outputFile + ".action_scores.parquet"
	if err := parquet.WriteActionScoresParquet(parquetScores, scoresFile); err != nil {
		return fmt.Errorf("failed to write action scores: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d action scores to: %s\n", len(parquetScores), scoresFile)

	return nil
}
