package link

import (
	"weak"

	"github.com/tatolab/streamlib/schema"
)

// Instance is the runtime materialization of a Wired link: a bounded
// SPSC ring buffer of capacity C plus the strategy that governs how
// its reader drains backlog. It is
// attached as a component on the graph's Link entity by the compiler's
// Wire phase.
type Instance[T any] struct {
	ring     *ring[T]
	strategy schema.Strategy
}

// NewInstance allocates a new link instance with the given capacity
// and consumption strategy.
func NewInstance[T any](capacity int, strategy schema.Strategy) *Instance[T] {
	return &Instance[T]{ring: newRing[T](capacity), strategy: strategy}
}

// Writer mints a new writer handle over this instance. notify, if
// non-nil, is called after every successful push.
func (i *Instance[T]) Writer(notify func()) Writer[T] {
	return &ringWriter[T]{ring: weak.Make(i.ring), notify: notify}
}

// Reader mints a new reader handle over this instance.
func (i *Instance[T]) Reader() Reader[T] {
	return &ringReader[T]{ring: weak.Make(i.ring), strategy: i.strategy}
}

// DropCount returns the link's cumulative drop count.
func (i *Instance[T]) DropCount() uint64 { return i.ring.drops.Load() }

// Fill returns the number of items currently buffered.
func (i *Instance[T]) Fill() int { return i.ring.fill() }

// Capacity returns the instance's configured ring size.
func (i *Instance[T]) Capacity() int { return i.ring.capacity }

// Strategy returns the instance's consumption strategy.
func (i *Instance[T]) Strategy() schema.Strategy { return i.strategy }

// Close permanently empties the ring. Existing writer/reader handles
// degrade to plug-like behavior (push drops, read reports
// end-of-stream) without panicking, matching a dropped instance.
func (i *Instance[T]) Close() { i.ring.close() }

// Closed reports whether Close has been called.
func (i *Instance[T]) Closed() bool { return i.ring.isClosed() }
