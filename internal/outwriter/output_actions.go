package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/pathways/internal/contract"
	"github.com/huangsam/pathways/internal/parquet"
	"github.com/huangsam/pathways/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteActionResults outputs an action ranking, dispatching on the configured format.
func WriteActionResults(ranking schema.ActionRanking, cfg *contract.Config, duration time.Duration) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeActions(w, ranking, cfg, duration)
	}, "Wrote action ranking")
}

func writeActions(w io.Writer, ranking schema.ActionRanking, cfg *contract.Config, duration time.Duration) error {
	fmtFloat := createFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeActionsJSON(w, ranking); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeActionsCSV(w, ranking, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := parquet.WriteRows(parquet.ConvertActionRanking(ranking), w); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		if err := writeActionsTable(w, ranking, cfg, fmtFloat, duration); err != nil {
			return fmt.Errorf("error writing action table output: %w", err)
		}
	}
	return nil
}

// writeActionsTable prints the ranked bars with their labels.
func writeActionsTable(w io.Writer, ranking schema.ActionRanking, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Action", "Group", "Impact", "Cost", "Efficiency", "Label"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := GetMaxTableNameWidth(cfg, 75)
	var data [][]string
	for _, a := range schema.EnrichActions(ranking.Chart) {
		data = append(data, []string{
			strconv.Itoa(a.Rank),
			contract.TruncateText(a.Name, nameWidth),
			a.Group,
			fmtFloat(a.Impact),
			fmtFloat(a.Cost),
			fmtFloat(a.Efficiency),
			formatLabel(a.Impact, a.Efficiency, cfg.UseColors),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Ranked %d actions by %s for %d-%d (%d excluded). Efficiency axis: %s\n",
		ranking.Chart.Len(), ranking.SortBy, ranking.StartYear, ranking.EndYear, len(ranking.ExcludedIDs),
		formatRange(ranking.Range, fmtFloat)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Completed in %v. Cache backend: %s\n", duration, cfg.CacheBackend)
	return err
}

// writeActionsCSV writes one row per ranked bar.
func writeActionsCSV(w io.Writer, ranking schema.ActionRanking, fmtFloat func(float64) string) error {
	header := []string{
		"rank",
		"id",
		"name",
		"group",
		"color",
		"impact",
		"cost",
		"efficiency",
		"label",
		"start_year",
		"end_year",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, a := range schema.EnrichActions(ranking.Chart) {
			rec := []string{
				strconv.Itoa(a.Rank),
				a.ID,
				a.Name,
				a.Group,
				a.Color,
				fmtFloat(a.Impact),
				fmtFloat(a.Cost),
				fmtFloat(a.Efficiency),
				a.Label,
				strconv.Itoa(ranking.StartYear),
				strconv.Itoa(ranking.EndYear),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeActionsJSON writes the ranking with its chart arrays and ranked rows.
func writeActionsJSON(w io.Writer, ranking schema.ActionRanking) error {
	type jsonRanking struct {
		schema.ActionRanking
		Ranked []schema.EnrichedAction `json:"ranked"`
	}
	return writeJSON(w, jsonRanking{
		ActionRanking: ranking,
		Ranked:        schema.EnrichActions(ranking.Chart),
	})
}
