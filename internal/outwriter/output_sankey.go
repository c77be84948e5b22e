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

// WriteSankeyResults outputs Sankey frames, dispatching on the configured format.
func WriteSankeyResults(frames []schema.SankeyFrame, cfg *contract.Config, duration time.Duration) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeSankey(w, frames, cfg, duration)
	}, "Wrote Sankey frames")
}

func writeSankey(w io.Writer, frames []schema.SankeyFrame, cfg *contract.Config, duration time.Duration) error {
	fmtFloat := createFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSON(w, frames); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeSankeyCSV(w, frames, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := parquet.WriteRows(parquet.ConvertSankeyFrames(frames), w); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		if err := writeSankeyTable(w, frames, cfg, fmtFloat, duration); err != nil {
			return fmt.Errorf("error writing Sankey table output: %w", err)
		}
	}
	return nil
}

// writeSankeyTable prints every edge of every frame.
func writeSankeyTable(w io.Writer, frames []schema.SankeyFrame, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Year", "Source", "Target", "Kind", "Value"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	labelWidth := GetMaxTableNameWidth(cfg, 30) / 2
	var data [][]string
	edges := 0
	for _, row := range parquet.ConvertSankeyFrames(frames) {
		value := fmtFloat(row.Value)
		if row.Value < 0 && cfg.UseColors {
			value = contract.NegativeColor.Sprint(value)
		}
		data = append(data, []string{
			strconv.Itoa(int(row.Year)),
			contract.TruncateText(row.SourceTag, labelWidth),
			contract.TruncateText(row.TargetTag, labelWidth),
			row.Kind,
			value,
		})
		edges++
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if len(frames) > 0 {
		if _, err := fmt.Fprintf(w, "Built %d frames with %d edges for flow %s (start year %d)\n",
			len(frames), edges, frames[0].FlowID, frames[0].StartYear); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Completed in %v with %d workers. Cache backend: %s\n", duration, cfg.Workers, cfg.CacheBackend)
	return err
}

// writeSankeyCSV writes one row per edge.
func writeSankeyCSV(w io.Writer, frames []schema.SankeyFrame, fmtFloat func(float64) string) error {
	header := []string{
		"flow_id",
		"start_year",
		"year",
		"source",
		"target",
		"source_label",
		"target_label",
		"kind",
		"value",
		"color",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, row := range parquet.ConvertSankeyFrames(frames) {
			rec := []string{
				row.FlowID,
				strconv.Itoa(int(row.StartYear)),
				strconv.Itoa(int(row.Year)),
				strconv.Itoa(int(row.Source)),
				strconv.Itoa(int(row.Target)),
				row.SourceTag,
				row.TargetTag,
				row.Kind,
				fmtFloat(row.Value),
				row.Color,
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
