package components

import (
	"math"
	"strings"
)

// Block characters for sub-cell precision (8 levels per cell).
var trackBlocks = [9]rune{
	' ',      // 0/8 empty
	'▏', // 1/8 ▏
	'▎', // 2/8 ▎
	'▍', // 3/8 ▍
	'▌', // 4/8 ▌
	'▋', // 5/8 ▋
	'▊', // 6/8 ▊
	'▉', // 7/8 ▉
	'█', // 8/8 █
}

// TrackBarStyle configures the appearance of a playback progress bar.
type TrackBarStyle struct {
	FilledColor string // hex color for the elapsed portion (default "#1DB954")
	EmptyColor  string // hex color for the remaining portion (default "#333333")
}

// DefaultTrackBarStyle returns a TrackBarStyle with Spotify-green fill.
func DefaultTrackBarStyle() TrackBarStyle {
	return TrackBarStyle{
		FilledColor: "#1DB954",
		EmptyColor:  "#333333",
	}
}

// TrackBar renders a horizontal playback progress bar with sub-cell
// precision. Each terminal cell encodes 8 fill levels via Unicode
// eighth-block characters, so a 20-cell bar resolves 160 positions.
type TrackBar struct {
	style TrackBarStyle
}

// NewTrackBar creates a TrackBar with the given style.
func NewTrackBar(style TrackBarStyle) *TrackBar {
	return &TrackBar{style: style}
}

// Render renders the bar at the given width in cells. elapsedMs and
// totalMs define the fill ratio; the ratio is clamped to [0, 1], and a
// non-positive total renders an empty bar.
func (t *TrackBar) Render(elapsedMs, totalMs int64, width int) string {
	if width <= 0 {
		return ""
	}

	ratio := 0.0
	if totalMs > 0 {
		ratio = float64(elapsedMs) / float64(totalMs)
	}
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}

	fillHex := t.style.FilledColor
	if fillHex == "" {
		fillHex = "#1DB954"
	}
	emptyHex := t.style.EmptyColor
	if emptyHex == "" {
		emptyHex = "#333333"
	}

	totalUnits := width * 8
	filledUnits := int(math.Round(ratio * float64(totalUnits)))
	if filledUnits > totalUnits {
		filledUnits = totalUnits
	}

	fullCells := filledUnits / 8
	partialEighths := filledUnits % 8
	emptyCells := width - fullCells
	if partialEighths > 0 {
		emptyCells--
	}
	if emptyCells < 0 {
		emptyCells = 0
	}

	fgFill := Color(fillHex)
	bgEmpty := BgColor(emptyHex)
	fgEmpty := Color(emptyHex)

	var b strings.Builder

	// Elapsed cells: fill-color foreground over remaining-color background
	// so the partial cell reads as a hard boundary.
	if fullCells > 0 {
		b.WriteString(fgFill)
		b.WriteString(bgEmpty)
		b.WriteString(strings.Repeat(string(trackBlocks[8]), fullCells))
		b.WriteString(Reset())
	}

	if partialEighths > 0 {
		b.WriteString(fgFill)
		b.WriteString(bgEmpty)
		b.WriteRune(trackBlocks[partialEighths])
		b.WriteString(Reset())
	}

	if emptyCells > 0 {
		b.WriteString(fgEmpty)
		b.WriteString(bgEmpty)
		b.WriteString(strings.Repeat(" ", emptyCells))
		b.WriteString(Reset())
	}

	return b.String()
}
