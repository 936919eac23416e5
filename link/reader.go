package link

import (
	"weak"

	"github.com/tatolab/streamlib/schema"
)

// Reader is the target-side handle on a link instance. Read's behavior is dictated by the payload type's
// consumption strategy.
type Reader[T any] interface {
	Read() (T, bool)
}

// ringReader holds only a weak reference to the backing ring; once the
// owning Instance is no longer reachable, Read always reports
// end-of-stream.
type ringReader[T any] struct {
	ring     weak.Pointer[ring[T]]
	strategy schema.Strategy
}

func (rd *ringReader[T]) Read() (T, bool) {
	r := rd.ring.Value()
	if r == nil {
		var zero T
		return zero, false
	}
	if rd.strategy == schema.SkipToLatest {
		return r.popLatest()
	}
	return r.popOne()
}
