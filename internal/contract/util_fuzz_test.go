package contract

import (
	"testing"
	"unicode/utf8"
)

// FuzzTruncateText fuzzes TruncateText with random text and widths.
func FuzzTruncateText(f *testing.F) {
	f.Add("Bike lanes everywhere", 10)
	f.Add("", 0)
	f.Add("Wärmepumpen", 4)
	f.Add("x", -1)

	f.Fuzz(func(t *testing.T, text string, width int) {
		out := TruncateText(text, width)
		n := utf8.RuneCountInString(text)
		if width > 3 && n > width && utf8.RuneCountInString(out) != width {
			t.Errorf("TruncateText(%q, %d) = %q has wrong width", text, width, out)
		}
		if (width <= 3 || n <= width) && out != text {
			t.Errorf("TruncateText(%q, %d) changed text to %q", text, width, out)
		}
	})
}
