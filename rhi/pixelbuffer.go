package rhi

import (
	"sync"
	"sync/atomic"
)

// nativeBuffer is the single backing allocation shared by every clone
// of a PixelBuffer. Exactly one platform-level retain brackets its
// lifetime: refs starts at 1 when the allocation is made and drops to
// 0 exactly once, when the last live wrapper releases — Clone never
// touches refs. shares counts the live wrappers themselves and is what
// Clone/Release actually move; refs only follows shares down to 0.
type nativeBuffer struct {
	width, height int
	format        PixelFormat
	data          []byte
	refs          atomic.Int32
	shares        atomic.Int32
	onZero        func()
}

// PixelBuffer is a refcounted wrapper over a native pixel buffer with
// cached width/height. Cloning a wrapper never retains the native
// allocation again — it only adds another wrapper sharing the one
// native retain, and RefCount reflects that single retain (1 while any
// wrapper is alive, 0 once the last one releases) rather than how many
// wrappers exist. This contract matters because buffers cross
// language and process boundaries: a caller must never assume that
// cloning a handle retains the native resource again.
type PixelBuffer struct {
	native   *nativeBuffer
	released sync.Once
}

// NewPixelBuffer wraps data as a fresh native buffer with a single
// native retain and one live wrapper. onZero, if non-nil, runs exactly
// once when the last wrapper releases — a pool uses it to reclaim the
// allocation.
func NewPixelBuffer(width, height int, format PixelFormat, data []byte, onZero func()) *PixelBuffer {
	nb := &nativeBuffer{width: width, height: height, format: format, data: data, onZero: onZero}
	nb.refs.Store(1)
	nb.shares.Store(1)
	return &PixelBuffer{native: nb}
}

func (b *PixelBuffer) Width() int          { return b.native.width }
func (b *PixelBuffer) Height() int         { return b.native.height }
func (b *PixelBuffer) Format() PixelFormat { return b.native.format }
func (b *PixelBuffer) Bytes() []byte       { return b.native.data }

// RefCount reports the native allocation's retain count: 1 for as
// long as any wrapper (original or clone) is alive, 0 once the last
// one has released. It exists for diagnostics and tests, not for
// callers to make release decisions on (Release already does that
// correctly).
func (b *PixelBuffer) RefCount() int32 { return b.native.refs.Load() }

// ShareCount reports how many live wrappers currently alias the
// native buffer — what Clone increments and Release decrements.
// Unlike RefCount this grows with every Clone.
func (b *PixelBuffer) ShareCount() int32 { return b.native.shares.Load() }

// Clone returns a new wrapper aliasing the same native buffer. It
// increments only the wrapper-level share count: the native retain
// count (RefCount) is unaffected, since no new native resource is
// acquired.
func (b *PixelBuffer) Clone() *PixelBuffer {
	b.native.shares.Add(1)
	return &PixelBuffer{native: b.native}
}

// Release drops this wrapper's share of the native buffer. Calling it
// more than once on the same wrapper is safe; only the first call has
// any effect, so callers never need to track whether they already
// released. Only the last live wrapper's Release brings the native
// retain count to 0 and runs onZero.
func (b *PixelBuffer) Release() {
	b.released.Do(func() {
		if b.native.shares.Add(-1) == 0 {
			if b.native.refs.Add(-1) == 0 && b.native.onZero != nil {
				b.native.onZero()
			}
		}
	})
}
