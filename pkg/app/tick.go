package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/presence-pulse/pkg/collectors"
)

// TickCmd schedules the next TickEvent, the heartbeat that drives
// periodic view refreshes. The model re-arms it on every tick.
func TickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return TickEvent{Time: t}
	})
}

// TrackTickCmd schedules a TrackTickEvent carrying gen after d. Widgets
// compare gen against their current chain generation and drop mismatches,
// so an abandoned chain dies on its next delivery.
func TrackTickCmd(gen uint64, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return TrackTickEvent{Gen: gen, Time: t}
	})
}

// DataFetchCmd wraps a one-off fetch in a Cmd. bubbletea runs fetchFn
// off the update loop and the result, error included, comes back as a
// DataUpdateEvent tagged with source.
func DataFetchCmd(source string, fetchFn func() (interface{}, error)) tea.Cmd {
	return func() tea.Msg {
		data, err := fetchFn()
		return DataUpdateEvent{
			Source:    source,
			Data:      data,
			Err:       err,
			Timestamp: time.Now(),
		}
	}
}

// ListenCmd bridges a collector update channel into the bubbletea loop.
// It blocks until one Update arrives and delivers it as a DataUpdateEvent;
// the model re-arms it after handling each event. A closed channel yields
// a nil Msg, which bubbletea discards, ending the chain.
func ListenCmd(updates <-chan collectors.Update) tea.Cmd {
	return func() tea.Msg {
		u, ok := <-updates
		if !ok {
			return nil
		}
		return DataUpdateEvent{
			Source:    u.Source,
			Data:      u.Data,
			Err:       u.Error,
			Timestamp: u.Timestamp,
		}
	}
}
