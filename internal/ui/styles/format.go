package styles

import (
	"fmt"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// FormatBytes renders a payload size for the status bar.
func FormatBytes(n int) string {
	switch {
	case n < 1<<10:
		return fmt.Sprintf("%d B", n)
	case n < 1<<20:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	}
}

// FitLeft truncates s to width cells with an ellipsis, or pads it with spaces.
func FitLeft(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = ansi.Truncate(s, width, "…")
	if w := ansi.StringWidth(s); w < width {
		s += runewidth.FillRight("", width-w)
	}
	return s
}
