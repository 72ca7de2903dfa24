// Package collectors holds the data sources that feed the TUI and the
// machinery that runs them. A Collector produces snapshots on its own
// interval; the Runner schedules every registered collector and fans
// their results into one updates channel.
package collectors

import (
	"context"
	"time"
)

// Collector is a single data source, such as the Lanyard presence
// poller. Implementations register with a Registry at startup and are
// driven by the Runner.
type Collector interface {
	// Name identifies the collector, "presence" for example. Consumers
	// of Update type-assert Data based on this name.
	Name() string

	// Collect runs one cycle and returns whatever snapshot the source
	// produced.
	Collect(ctx context.Context) (interface{}, error)

	// Interval is how often the Runner should call Collect.
	Interval() time.Duration

	// Healthy reports whether the source is currently usable. Before
	// the first run a collector counts as healthy.
	Healthy() bool
}

// CollectorStatus is the Runner's bookkeeping for one collector,
// refreshed after every cycle.
type CollectorStatus struct {
	Name        string
	Healthy     bool
	LastRun     time.Time
	LastError   error
	RunCount    int64
	ErrorCount  int64
	LastLatency time.Duration
}

// Update is what a collection cycle delivers on the updates channel.
type Update struct {
	Source    string
	Data      interface{}
	Timestamp time.Time
	Error     error
}
