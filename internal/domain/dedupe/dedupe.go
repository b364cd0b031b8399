// Package dedupe collapses repeated identifiers within one batch of work.
package dedupe

import (
	"sync"
)

// Deduper records seen identifiers. The first occurrence of an id wins.
type Deduper interface {
	// SeenAndRecord reports whether id was already seen and records it if not.
	SeenAndRecord(id string) bool

	Size() int
}

type setDeduper struct {
	mu        sync.Mutex
	seen      map[string]struct{}
	normalize func(string) string
}

// New creates an empty Deduper.
func New(opts ...Option) Deduper {
	d := &setDeduper{
		seen:      make(map[string]struct{}),
		normalize: func(s string) string { return s },
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *setDeduper) SeenAndRecord(id string) bool {
	key := d.normalize(id)

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[key]; ok {
		return true
	}
	d.seen[key] = struct{}{}
	return false
}

func (d *setDeduper) Size() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}

// FirstWins returns items with later duplicates removed, preserving order.
// It also reports how many items were dropped.
func FirstWins[T any](items []T, key func(T) string, opts ...Option) ([]T, int) {
	d := New(opts...)
	out := make([]T, 0, len(items))
	for _, it := range items {
		if d.SeenAndRecord(key(it)) {
			continue
		}
		out = append(out, it)
	}
	return out, len(items) - len(out)
}
