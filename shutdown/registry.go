package shutdown

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Func releases a resource during shutdown.
type Func func(ctx context.Context) error

type entry struct {
	name     string
	priority int
	fn       Func
}

// Registry runs cleanup functions in ascending priority order. Functions
// with the same priority run in registration order.
//
// The CLI registers, for example:
//
//	registry.Register("history", 30, func(ctx context.Context) error {
//	    return database.Close()
//	})
//	registry.Register("logger", 90, func(context.Context) error {
//	    return logger.Sync()
//	})
type Registry struct {
	mu      sync.Mutex
	entries []entry
	closed  bool
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds fn. Registration after Run is ignored.
func (r *Registry) Register(name string, priority int, fn Func) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed || fn == nil {
		return
	}
	r.entries = append(r.entries, entry{name: name, priority: priority, fn: fn})
}

// Run calls every registered function, even after failures, and returns
// the failures joined. Only the first call does anything.
func (r *Registry) Run(ctx context.Context) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	entries := r.sorted()
	r.mu.Unlock()

	var errs []error
	for _, e := range entries {
		if err := e.fn(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", e.name, err))
		}
	}
	return errors.Join(errs...)
}

// Names returns the registered names in the order Run would call them.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := r.sorted()
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.name
	}
	return names
}

// Count returns the number of registered functions.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// sorted must be called with r.mu held.
func (r *Registry) sorted() []entry {
	out := make([]entry, len(r.entries))
	copy(out, r.entries)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].priority < out[j].priority
	})
	return out
}
