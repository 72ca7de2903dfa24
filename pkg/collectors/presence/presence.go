// Package presence provides a collector that polls the Lanyard API for
// a Discord user's live presence. Each cycle produces a Snapshot with a
// monotonically increasing sequence number, so the consumer can discard
// results that arrive out of order.
package presence

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"gitlab.com/tinyland/lab/presence-pulse/pkg/lanyard"
)

// Default configuration values.
const (
	DefaultInterval = 15 * time.Second
)

// Client abstracts the Lanyard API for testability. The real
// implementation is *lanyard.Client, whose Presence method satisfies
// this interface.
type Client interface {
	Presence(ctx context.Context, userID string) (*lanyard.Presence, error)
}

// Config holds the configuration for the presence collector.
type Config struct {
	// UserID is the Discord user to poll.
	UserID string

	// Interval is how often collection runs. Zero uses DefaultInterval.
	Interval time.Duration
}

// Snapshot is the data returned by a single Collect call.
type Snapshot struct {
	// Presence is the user's live presence. Nil when Tracked is false.
	Presence *lanyard.Presence

	// Tracked reports whether Lanyard knows the user. A user who never
	// joined the Lanyard Discord server returns success with no data.
	Tracked bool

	// Seq increases by one per completed cycle. Consumers keep the
	// highest Seq they have applied and drop anything not newer.
	Seq uint64

	// FetchedAt is when this snapshot was taken.
	FetchedAt time.Time
}

// Collector polls the Lanyard API on a fixed interval.
type Collector struct {
	client   Client
	userID   string
	interval time.Duration
	seq      atomic.Uint64

	mu      sync.Mutex
	healthy bool
}

// New creates a presence collector. If cfg.Interval is zero,
// DefaultInterval is used. The caller must provide a Client; in
// production this is a *lanyard.Client.
func New(cfg Config, client Client) *Collector {
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Collector{
		client:   client,
		userID:   cfg.UserID,
		interval: interval,
		healthy:  true, // healthy until first failure
	}
}

// Name returns the collector identifier.
func (c *Collector) Name() string {
	return "presence"
}

// Interval returns how often this collector should run.
func (c *Collector) Interval() time.Duration {
	return c.interval
}

// Healthy returns whether the last collection succeeded.
func (c *Collector) Healthy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.healthy
}

func (c *Collector) setHealthy(v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.healthy = v
}

// Collect fetches the user's presence and returns a *Snapshot. An
// untracked user is a successful cycle with Tracked false, not an
// error; only transport and API failures mark the collector unhealthy.
func (c *Collector) Collect(ctx context.Context) (interface{}, error) {
	p, err := c.client.Presence(ctx, c.userID)
	if err != nil {
		if errors.Is(err, lanyard.ErrUserNotTracked) {
			c.setHealthy(true)
			return &Snapshot{
				Tracked:   false,
				Seq:       c.seq.Add(1),
				FetchedAt: time.Now(),
			}, nil
		}
		c.setHealthy(false)
		return nil, fmt.Errorf("presence fetch for %s: %w", c.userID, err)
	}

	c.setHealthy(true)
	return &Snapshot{
		Presence:  p,
		Tracked:   true,
		Seq:       c.seq.Add(1),
		FetchedAt: time.Now(),
	}, nil
}
