package rhi

import (
	"sync"

	"github.com/google/uuid"
)

// PixelBufferPool wraps a platform recycling pool for buffers of one
// fixed shape. Acquire hands back a UUID pool id usable across
// process boundaries alongside the buffer itself.
type PixelBufferPool struct {
	width, height int
	format        PixelFormat

	mu   sync.Mutex
	free []*nativeBuffer
}

func NewPixelBufferPool(width, height int, format PixelFormat) *PixelBufferPool {
	return &PixelBufferPool{width: width, height: height, format: format}
}

// Acquire returns a fresh pool id and a buffer of the pool's shape,
// recycled from a previously released buffer when one is idle.
func (p *PixelBufferPool) Acquire() (poolID string, buf *PixelBuffer) {
	poolID = uuid.NewString()

	p.mu.Lock()
	if n := len(p.free); n > 0 {
		nb := p.free[n-1]
		p.free = p.free[:n-1]
		p.mu.Unlock()
		nb.refs.Store(1)
		nb.shares.Store(1)
		return poolID, &PixelBuffer{native: nb}
	}
	p.mu.Unlock()

	nb := &nativeBuffer{
		width:  p.width,
		height: p.height,
		format: p.format,
		data:   make([]byte, p.width*p.height*p.format.BytesPerPixel()),
	}
	nb.refs.Store(1)
	nb.shares.Store(1)
	nb.onZero = func() { p.recycle(nb) }
	return poolID, &PixelBuffer{native: nb}
}

func (p *PixelBufferPool) recycle(nb *nativeBuffer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.free = append(p.free, nb)
}

// Len reports the number of buffers currently idle in the pool.
func (p *PixelBufferPool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.free)
}
