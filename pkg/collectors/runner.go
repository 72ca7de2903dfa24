package collectors

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// DefaultUpdateBufferSize is the recommended capacity for the updates
// channel. Collection results are dropped rather than blocking the
// collector goroutine when the consumer falls behind.
const DefaultUpdateBufferSize = 32

// Runner drives every collector in a registry. Each collector gets its
// own goroutine with a ticker at the collector's interval; cycles for a
// given collector are serialized, so a slow fetch never overlaps the
// next one. Results fan into a single updates channel.
type Runner struct {
	registry *Registry
	updates  chan<- Update
	logger   *slog.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
}

// NewRunner creates a Runner that publishes collection results to updates.
func NewRunner(r *Registry, updates chan<- Update) *Runner {
	return &Runner{
		registry: r,
		updates:  updates,
		logger:   slog.Default(),
	}
}

// SetLogger replaces the runner's logger. Must be called before Start.
func (r *Runner) SetLogger(l *slog.Logger) {
	if l != nil {
		r.logger = l
	}
}

// Start launches one goroutine per registered collector. Each collector
// runs an immediate first cycle, then repeats at its interval until ctx
// is cancelled or Stop is called.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.started {
		return fmt.Errorf("runner already started")
	}
	r.started = true

	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	for _, name := range r.registry.List() {
		c, ok := r.registry.Get(name)
		if !ok {
			continue
		}
		r.wg.Add(1)
		go r.runCollector(runCtx, c)
	}
	return nil
}

// Stop cancels all collector goroutines and waits for them to exit.
// It is safe to call multiple times.
func (r *Runner) Stop() {
	r.mu.Lock()
	cancel := r.cancel
	r.cancel = nil
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	r.wg.Wait()
}

// RunOnce triggers a single collection cycle for the named collector,
// bypassing its schedule. The result is returned directly and also
// published to the updates channel.
func (r *Runner) RunOnce(ctx context.Context, name string) (interface{}, error) {
	c, ok := r.registry.Get(name)
	if !ok {
		return nil, fmt.Errorf("collector %q not registered", name)
	}
	return r.collect(ctx, c)
}

// Health returns the current health of every registered collector.
func (r *Runner) Health() map[string]bool {
	health := make(map[string]bool)
	for _, s := range r.registry.AllStatus() {
		health[s.Name] = s.Healthy
	}
	return health
}

// runCollector is the per-collector loop: one immediate cycle, then one
// per interval tick until the context is done.
func (r *Runner) runCollector(ctx context.Context, c Collector) {
	defer r.wg.Done()

	r.collect(ctx, c)

	ticker := time.NewTicker(c.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.collect(ctx, c)
		}
	}
}

// collect runs one cycle, records status, and publishes the update.
// The result is also returned so RunOnce can hand it back directly.
func (r *Runner) collect(ctx context.Context, c Collector) (interface{}, error) {
	name := c.Name()
	start := time.Now()

	data, err := c.Collect(ctx)
	latency := time.Since(start)

	r.registry.updateStatus(name, func(s *CollectorStatus) {
		s.LastRun = start
		s.LastLatency = latency
		s.RunCount++
		s.LastError = err
		if err != nil {
			s.ErrorCount++
			s.Healthy = false
		} else {
			s.Healthy = true
		}
	})

	if err != nil {
		r.logger.Debug("collection failed", "collector", name, "error", err, "latency", latency)
	}

	u := Update{
		Source:    name,
		Data:      data,
		Timestamp: time.Now(),
		Error:     err,
	}
	select {
	case r.updates <- u:
	default:
		r.logger.Warn("updates channel full, dropping result", "collector", name)
	}

	return data, err
}
