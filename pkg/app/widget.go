package app

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Widget is the interface every dashboard panel implements. Widgets are
// passive renderers: they receive messages through Update, keystrokes
// through HandleKey when focused, and draw themselves into the region the
// layout assigns them.
type Widget interface {
	// ID returns the widget's unique identifier, used for focus tracking
	// and data routing.
	ID() string

	// Title returns the human-readable title drawn in the widget's border.
	Title() string

	// Update processes a message and optionally returns a follow-up command.
	// All widgets receive all broadcast messages; each filters for what it
	// cares about.
	Update(msg tea.Msg) tea.Cmd

	// View renders the widget's content into a width x height cell region.
	// The returned string must contain at most height lines.
	View(width, height int) string

	// MinSize returns the minimum width and height the widget needs to
	// render anything useful.
	MinSize() (int, int)

	// HandleKey processes a keystroke while the widget holds focus.
	HandleKey(msg tea.KeyMsg) tea.Cmd
}
