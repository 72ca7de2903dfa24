// Package widgets holds the concrete widgets of the presence-pulse TUI:
// the Discord presence card, the album art panel, and the event log.
// Each implements app.Widget and gets its data through the
// Elm-architecture Update loop.
package widgets

// Shared palette. Border colors track focus; the rest style text.
const (
	ColorBorderDefault = "#6B7280" // unfocused border, muted gray
	ColorBorderFocus   = "#7C3AED" // focused border, purple
	ColorAccent        = "#A78BFA" // titles and highlights
	ColorDim           = "#9CA3AF" // de-emphasized text
	ColorError         = "#EF4444" // error lines
)
