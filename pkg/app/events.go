// Package app is the Elm-architecture core of the presence-pulse TUI:
// the root bubbletea model, the Widget interface, and the event types
// that flow through the update loop.
//
// Built against bubbletea v1.3.x. Nothing here depends on v1-only
// behavior, so a v2 move should stay an import-path change.
package app

import (
	"time"

	"gitlab.com/tinyland/lab/presence-pulse/pkg/prefs"
)

// DataUpdateEvent delivers one collector result into the update loop.
// Receivers type-assert Data based on Source.
type DataUpdateEvent struct {
	Source    string      // collector name, "presence" or "art"
	Data      interface{} // type-asserted by the receiver
	Err       error       // non-nil when the fetch failed
	Timestamp time.Time
}

// TickEvent is the periodic refresh heartbeat. Widgets use it for
// stale-data checks and relative timestamps.
type TickEvent struct {
	Time time.Time
}

// TrackTickEvent drives the once-per-second playback progress update while a
// track is playing. Gen identifies the tick chain it belongs to; the chain
// owner bumps its generation whenever the track changes or playback stops,
// and events carrying a stale Gen are discarded.
type TrackTickEvent struct {
	Gen  uint64
	Time time.Time
}

// PrefsChangedEvent notifies widgets that a display preference was toggled
// at runtime.
type PrefsChangedEvent struct {
	Prefs prefs.Preferences
}
