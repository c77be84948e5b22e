package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/pathways/schema"
)

// Action label constants.
const (
	CounterproductiveValue = "Counterproductive"
	SavingValue            = "Saving"
	FreeValue              = "Free"
	CostlyValue            = "Costly"
)

// Color variables for console output.
var (
	CounterproductiveColor = color.New(color.FgRed, color.Bold)
	SavingColor            = color.New(color.FgGreen, color.Bold)
	FreeColor              = color.New(color.FgCyan)
	CostlyColor            = color.New(color.FgYellow)
	NegativeColor          = color.New(color.FgRed)
)

// GetColorLabel returns a colored action label for console output (table).
func GetColorLabel(impact, efficiency float64) string {
	text := schema.GetPlainLabel(impact, efficiency)

	switch text {
	case CounterproductiveValue:
		return CounterproductiveColor.Sprint(text)
	case SavingValue:
		return SavingColor.Sprint(text)
	case FreeValue:
		return FreeColor.Sprint(text)
	default:
		return CostlyColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It falls back to os.Stdout when the path is empty.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for memo storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".pathways_cache.db"
	}
	return filepath.Join(homeDir, ".pathways_cache.db")
}

// GetRunsDBFilePath returns the path to the SQLite DB file for the run ledger.
func GetRunsDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".pathways_runs.db"
	}
	return filepath.Join(homeDir, ".pathways_runs.db")
}

// TruncateText truncates text to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so there is room for the ellipsis and some content.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}

// SplitList splits a comma-separated list, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
