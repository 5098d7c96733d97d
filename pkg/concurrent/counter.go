// Package concurrent holds the lock-free counter and sharded cache the rest
// of the tree builds on: pkg/metrics counts operations with Counter,
// pkg/embedder memoizes embeddings with ShardedLRUCache.
package concurrent

import (
	"sync/atomic"
)

// Counter is a lock-free, monotonically increasing operation counter. Every
// counter pkg/metrics.Collector tracks (transactions begun, inserts,
// conflicts, ...) only ever goes up, so unlike a general-purpose atomic
// integer this carries no decrement or compare-and-swap surface.
type Counter struct {
	value uint64
}

// NewCounter creates a new lock-free counter.
func NewCounter() *Counter {
	return &Counter{value: 0}
}

// Inc increments the counter by 1 and returns the new value.
func (c *Counter) Inc() uint64 {
	return atomic.AddUint64(&c.value, 1)
}

// Load returns the current value.
func (c *Counter) Load() uint64 {
	return atomic.LoadUint64(&c.value)
}

// Store sets the counter to a specific value, for test setup.
func (c *Counter) Store(value uint64) {
	atomic.StoreUint64(&c.value, value)
}
