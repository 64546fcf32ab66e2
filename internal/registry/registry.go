// Package registry provides the name-indexed capability store shared by
// the tool, prompt, and resource kinds. Entries are inserted during
// server initialization and are read-only afterwards; the registry is
// safe for concurrent lookups and for registration overlapping with
// lookups.
package registry

import (
	"fmt"
	"sync"
)

// Registry maps unique names to entries of one capability kind,
// preserving registration order for listings.
type Registry[T any] struct {
	mu      sync.RWMutex
	entries map[string]T
	order   []string
}

// New creates an empty registry
func New[T any]() *Registry[T] {
	return &Registry[T]{
		entries: make(map[string]T),
	}
}

// Register inserts an entry under the given name. Duplicate names are
// rejected so that configuration mistakes surface at startup instead
// of silently replacing a capability.
func (r *Registry[T]) Register(name string, entry T) error {
	if name == "" {
		return fmt.Errorf("capability name must not be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[name]; exists {
		return fmt.Errorf("capability %q is already registered", name)
	}

	r.entries[name] = entry
	r.order = append(r.order, name)
	return nil
}

// Lookup returns the entry registered under name. Absence is reported
// through the bool, never as an error.
func (r *Registry[T]) Lookup(name string) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[name]
	return entry, ok
}

// List returns all entries in registration order
func (r *Registry[T]) List() []T {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]T, 0, len(r.order))
	for _, name := range r.order {
		entries = append(entries, r.entries[name])
	}
	return entries
}

// Names returns all registered names in registration order
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Len returns the number of registered entries
func (r *Registry[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.order)
}
