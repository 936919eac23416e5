package link

import "sync/atomic"

// DropCounter is a monotonically increasing count of payloads dropped
// on overflow, read through Instance.DropCount.
type DropCounter struct {
	n atomic.Uint64
}

// Add increments the counter by delta.
func (d *DropCounter) Add(delta uint64) { d.n.Add(delta) }

// Load returns the current count.
func (d *DropCounter) Load() uint64 { return d.n.Load() }
