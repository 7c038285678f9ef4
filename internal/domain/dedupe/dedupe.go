// Package dedupe defines the interface for idempotency tracking.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
)

// Default dedupe configuration constants.
const (
	defaultMaxSize = 50000
)

// Deduper records seen event IDs so each raw record is applied to the
// snapshot store at most once.
type Deduper interface {
	// SeenAndRecord atomically checks if id was seen and records it if not.
	// Returns true if id was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord removes an ID from the seen set, allowing a retry. Used
	// when an event was marked seen but failed to enqueue.
	Unrecord(ctx context.Context, id string)

	Size() int64
}

// inMemoryDeduper implements Deduper with a bounded set and FIFO
// eviction. The ring holds insertion order; entries removed via Unrecord
// leave a stale slot that is skipped during eviction.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	ring    []string
	head    int // next eviction candidate
	maxSize int // 0 or negative means unbounded
	size    atomic.Int64
}

// NewInMemoryDeduper creates an in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: defaultMaxSize,
	}

	for _, opt := range opts {
		opt(d)
	}

	d.seen = make(map[string]struct{})
	return d
}

// SeenAndRecord atomically checks if id was seen and records it if not.
func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[id]; exists {
		return true
	}

	if d.maxSize > 0 {
		for len(d.seen) >= d.maxSize {
			d.evictOldest()
		}
		d.ring = append(d.ring, id)
	}

	d.seen[id] = struct{}{}
	d.size.Add(1)
	return false
}

// Unrecord removes an ID from the seen set.
func (d *inMemoryDeduper) Unrecord(_ context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[id]; exists {
		delete(d.seen, id)
		d.size.Add(-1)
	}
}

// evictOldest drops the oldest live entry. Must hold d.mu.
func (d *inMemoryDeduper) evictOldest() {
	for d.head < len(d.ring) {
		id := d.ring[d.head]
		d.head++
		if _, live := d.seen[id]; live {
			delete(d.seen, id)
			d.size.Add(-1)
			break
		}
	}

	// Compact once the consumed prefix dominates the ring.
	if d.head > len(d.ring)/2 {
		d.ring = append([]string(nil), d.ring[d.head:]...)
		d.head = 0
	}
}

// Size returns the current number of tracked IDs.
func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}
