package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Registry is a minimal, in-memory store for any named type.
type Registry[T any] struct {
	mu     sync.RWMutex
	byName map[string]T
}

// Add stores a value in memory by its name.
func (d *Registry[T]) Add(name string, a T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.byName[name] = a
}

// Names returns registered names in sorted order.
func (d *Registry[T]) Names() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	names := make([]string, 0, len(d.byName))
	for name := range d.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List retrieves all values ordered by name.
func (d *Registry[T]) List(ctx context.Context) ([]T, error) {
	names := d.Names()
	d.mu.RLock()
	defer d.mu.RUnlock()
	items := make([]T, 0, len(names))
	for _, name := range names {
		if item, ok := d.byName[name]; ok {
			items = append(items, item)
		}
	}
	return items, nil
}

// Lookup retrieves a value by its name from memory.
func (d *Registry[T]) Lookup(ctx context.Context, name string) (T, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if a, ok := d.byName[name]; ok {
		return a, nil
	}
	var zero T
	return zero, fmt.Errorf("item not found: %s", name)
}

// New creates a new Registry instance.
func New[T any]() *Registry[T] {
	return &Registry[T]{byName: make(map[string]T)}
}
