package components

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// VisibleLen returns the terminal cell width of s. Escape sequences count
// as zero; CJK and emoji count as two.
func VisibleLen(s string) int {
	return ansi.StringWidth(s)
}

// Truncate clips s to at most width visible cells. Escape sequences open
// at the cut point are carried through, so styled card lines clip cleanly.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "")
}

// TruncateWithTail clips s to at most width visible cells, appending tail
// when a cut happens. The tail counts toward width.
func TruncateWithTail(s string, width int, tail string) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, tail)
}

// PadRight extends s with spaces to exactly width visible cells. Wider
// input comes back unchanged.
func PadRight(s string, width int) string {
	if gap := width - VisibleLen(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

// Wrap word-wraps s at width, breaking at spaces and hyphens, and returns
// the resulting lines.
func Wrap(s string, width int) []string {
	if width <= 0 {
		return []string{s}
	}
	return strings.Split(ansi.Wrap(s, width, ""), "\n")
}
