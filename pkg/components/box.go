// Package components provides the box frame, ANSI-aware text primitives,
// and the playback progress bar the presence card is drawn with.
package components

import (
	"strings"
)

// Align controls where a box title sits in the top border.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Box-drawing runes for the rounded single-line frame.
const (
	boxTL = "╭"
	boxTR = "╮"
	boxBL = "╰"
	boxBR = "╯"
	boxH  = "─"
	boxV  = "│"
)

// BoxStyle configures a frame drawn by RenderBox. FG is a hex color
// applied to the border runes; an empty value leaves them unstyled.
type BoxStyle struct {
	Title      string
	TitleAlign Align
	FG         string
}

// RenderBox frames content with rounded borders at exactly width x height
// outer cells. Content lines are clipped or padded to the interior width
// and missing lines render blank, so the frame never collapses when the
// widget draws short. Returns "" when the box cannot hold its own corners.
func RenderBox(content string, width, height int, style BoxStyle) string {
	if width < 2 || height < 2 {
		return ""
	}

	var pre, suf string
	if style.FG != "" {
		pre = Color(style.FG)
		suf = Reset()
	}
	paint := func(s string) string { return pre + s + suf }

	innerW := width - 2
	var lines []string
	if content != "" {
		lines = strings.Split(content, "\n")
	}

	var b strings.Builder
	b.WriteString(paint(boxTL))
	b.WriteString(titleBar(style.Title, style.TitleAlign, innerW, paint))
	b.WriteString(paint(boxTR))
	b.WriteByte('\n')

	for row := 0; row < height-2; row++ {
		b.WriteString(paint(boxV))
		if row < len(lines) {
			b.WriteString(PadRight(Truncate(lines[row], innerW), innerW))
		} else {
			b.WriteString(strings.Repeat(" ", innerW))
		}
		b.WriteString(paint(boxV))
		b.WriteByte('\n')
	}

	b.WriteString(paint(boxBL + strings.Repeat(boxH, innerW) + boxBR))
	return b.String()
}

// titleBar fills the run between the top corners, embedding the title
// between single spaces when there is room for it plus a border rune on
// each side. The title itself stays unpainted so the border color does
// not bleed into it.
func titleBar(title string, align Align, width int, paint func(string) string) string {
	if width <= 0 {
		return ""
	}
	room := width - 4
	if title == "" || room <= 0 {
		return paint(strings.Repeat(boxH, width))
	}
	if VisibleLen(title) > room {
		title = TruncateWithTail(title, room, "…")
	}
	seg := " " + title + " "
	rest := width - VisibleLen(seg)

	var left int
	switch align {
	case AlignCenter:
		left = rest / 2
	case AlignRight:
		left = rest - 1
	default:
		left = 1
	}
	right := rest - left
	return paint(strings.Repeat(boxH, left)) + seg + paint(strings.Repeat(boxH, right))
}
