package collectors

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds the registered collectors together with their runtime
// status. Safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

type entry struct {
	collector Collector
	status    CollectorStatus
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

// Register adds a collector under its name. Registering the same name
// twice is an error.
func (r *Registry) Register(c Collector) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := c.Name()
	if _, dup := r.entries[name]; dup {
		return fmt.Errorf("collector %q already registered", name)
	}
	r.entries[name] = &entry{
		collector: c,
		status:    CollectorStatus{Name: name, Healthy: true},
	}
	return nil
}

// Get returns the collector registered under name.
func (r *Registry) Get(name string) (Collector, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[name]
	if !ok {
		return nil, false
	}
	return e.collector, true
}

// List returns the registered names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Status returns a copy of the named collector's runtime status.
func (r *Registry) Status(name string) (CollectorStatus, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[name]
	if !ok {
		return CollectorStatus{}, false
	}
	return e.status, true
}

// AllStatus returns a status copy for every collector, sorted by name.
func (r *Registry) AllStatus() []CollectorStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]CollectorStatus, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.status)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// updateStatus mutates the named status under the write lock.
func (r *Registry) updateStatus(name string, fn func(*CollectorStatus)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[name]; ok {
		fn(&e.status)
	}
}
