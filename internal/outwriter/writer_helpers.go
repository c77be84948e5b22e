package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/huangsam/pathways/core/algo"
	"github.com/huangsam/pathways/internal/contract"
	"github.com/huangsam/pathways/schema"
)

// writeWithFile opens the output target, runs writer on it and cleans up.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		contract.Log().Info().Str("file", outputFile).Msg(successMsg)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader writes a header and then the rows produced by writeRows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := writeRows(csvWriter); err != nil {
		return err
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// createFormatter returns a half-up float formatter for the given precision.
func createFormatter(precision int) func(float64) string {
	return func(v float64) string {
		return algo.FormatNumber(v, precision)
	}
}

// formatOptional renders a missing value as a dash.
func formatOptional(v *float64, fmtFloat func(float64) string) string {
	if v == nil {
		return "-"
	}
	return fmtFloat(*v)
}

// formatRange renders an axis range as [min, max].
func formatRange(r schema.AxisRange, fmtFloat func(float64) string) string {
	return fmt.Sprintf("[%s, %s]", fmtFloat(r.Min()), fmtFloat(r.Max()))
}

// formatLabel returns the action label, colored when the config asks for it.
func formatLabel(impact, efficiency float64, useColors bool) string {
	if useColors {
		return contract.GetColorLabel(impact, efficiency)
	}
	return schema.GetPlainLabel(impact, efficiency)
}
