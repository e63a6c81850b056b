package live

import (
	"sync/atomic"
	"time"
)

// snapshot is one complete generation of the pool's contents.
type snapshot[T any] struct {
	items      []T
	loadedAt   time.Time
	generation uint64
}

// Pool holds the canonical in-memory record set for a session. It is replaced
// wholesale on each reload with a single pointer swap, so readers always see
// either the old or the new complete snapshot, never a partial one. Nothing
// mutates a snapshot in place.
type Pool[T any] struct {
	current atomic.Pointer[snapshot[T]]
}

// NewPool creates an empty pool at generation zero.
func NewPool[T any]() *Pool[T] {
	p := &Pool[T]{}
	p.current.Store(&snapshot[T]{})
	return p
}

// Items returns the current snapshot's records. Callers must not mutate the
// returned slice.
func (p *Pool[T]) Items() []T {
	return p.current.Load().items
}

// LoadedAt reports when the current snapshot was applied.
func (p *Pool[T]) LoadedAt() time.Time {
	return p.current.Load().loadedAt
}

// Generation reports the applied reload generation.
func (p *Pool[T]) Generation() uint64 {
	return p.current.Load().generation
}

// apply swaps in a new snapshot unless a newer generation already landed.
// Returns false when the candidate is stale and was discarded: a slow fetch
// must never overwrite a fresher reload.
func (p *Pool[T]) apply(items []T, loadedAt time.Time, generation uint64) bool {
	for {
		cur := p.current.Load()
		if generation <= cur.generation {
			return false
		}
		next := &snapshot[T]{items: items, loadedAt: loadedAt, generation: generation}
		if p.current.CompareAndSwap(cur, next) {
			return true
		}
	}
}
