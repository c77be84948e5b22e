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

// WriteSeriesResults outputs metric summaries, dispatching on the configured format.
func WriteSeriesResults(summaries []schema.SeriesSummary, cfg *contract.Config, duration time.Duration) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeSeries(w, summaries, cfg, duration)
	}, "Wrote series results")
}

func writeSeries(w io.Writer, summaries []schema.SeriesSummary, cfg *contract.Config, duration time.Duration) error {
	fmtFloat := createFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSON(w, summaries); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeSeriesCSV(w, summaries, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := parquet.WriteRows(parquet.ConvertSeriesSummaries(summaries), w); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		if err := writeSeriesTable(w, summaries, cfg, fmtFloat, duration); err != nil {
			return fmt.Errorf("error writing series table output: %w", err)
		}
	}
	return nil
}

// writeSeriesTable prints one row per metric.
func writeSeriesTable(w io.Writer, summaries []schema.SeriesSummary, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Metric", "Unit", "Start", "End", "Change %", "Cumulative", "Share %", "Axis"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := GetMaxTableNameWidth(cfg, 70)
	var data [][]string
	for _, s := range summaries {
		data = append(data, []string{
			contract.TruncateText(s.Name, nameWidth),
			s.Unit,
			formatOptional(s.StartValue, fmtFloat),
			formatOptional(s.EndValue, fmtFloat),
			formatOptional(s.PercentChange, fmtFloat),
			fmtFloat(s.CumulativeSum),
			formatOptional(s.ShareOfTotal, fmtFloat),
			formatRange(s.Range, fmtFloat),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if len(summaries) > 0 {
		first := summaries[0]
		if _, err := fmt.Fprintf(w, "Summarized %d metrics for %d-%d\n", len(summaries), first.StartYear, first.EndYear); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Completed in %v. Cache backend: %s\n", duration, cfg.CacheBackend)
	return err
}

// writeSeriesCSV writes one summary row per metric.
func writeSeriesCSV(w io.Writer, summaries []schema.SeriesSummary, fmtFloat func(float64) string) error {
	header := []string{
		"metric_id",
		"name",
		"unit",
		"start_year",
		"end_year",
		"start_value",
		"end_value",
		"percent_change",
		"cumulative_sum",
		"share_of_total",
		"range_min",
		"range_max",
	}
	optional := func(v *float64) string {
		if v == nil {
			return ""
		}
		return fmtFloat(*v)
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, s := range summaries {
			rec := []string{
				s.MetricID,
				s.Name,
				s.Unit,
				strconv.Itoa(s.StartYear),
				strconv.Itoa(s.EndYear),
				optional(s.StartValue),
				optional(s.EndValue),
				optional(s.PercentChange),
				fmtFloat(s.CumulativeSum),
				optional(s.ShareOfTotal),
				fmtFloat(s.Range.Min()),
				fmtFloat(s.Range.Max()),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
