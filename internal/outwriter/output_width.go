package outwriter

import (
	"os"

	"github.com/huangsam/pathways/internal/contract"
	"golang.org/x/term"
)

// GetMaxTableNameWidth calculates the maximum width for names in table output
// based on terminal width. fixedWidth is the space the other columns take.
func GetMaxTableNameWidth(cfg *contract.Config, fixedWidth int) int {
	termWidth := cfg.Width
	if termWidth == 0 {
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // CI and pipes
		} else {
			termWidth = detectedWidth
		}
	}

	// Borders, separators and padding
	available := termWidth - fixedWidth - 20
	if available < 15 {
		return 15
	}
	if available > 60 {
		return 60
	}
	return available
}
