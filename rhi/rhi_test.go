package rhi

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveBackendPrecedence(t *testing.T) {
	t.Setenv(backendEnvVar, "")
	assert.Equal(t, BackendSoftware, resolveBackend(""))
	assert.Equal(t, BackendSoftware, resolveBackend(BackendSoftware))

	t.Setenv(backendEnvVar, "software")
	assert.Equal(t, BackendSoftware, resolveBackend(""))
}

func TestResolveBackendFallsBackOnUnavailable(t *testing.T) {
	t.Setenv(backendEnvVar, "")
	assert.Equal(t, BackendSoftware, resolveBackend(BackendMetal))
}

func TestResolveBackendEnvOverride(t *testing.T) {
	os.Unsetenv(backendEnvVar)
	t.Setenv(backendEnvVar, "metal")
	assert.Equal(t, BackendSoftware, resolveBackend(""), "unavailable env backend falls back to platform default")
}

func TestNewDeviceDefaultsToSoftware(t *testing.T) {
	dev, err := NewDevice("")
	require.NoError(t, err)
	assert.Equal(t, BackendSoftware, dev.Backend())
	require.NoError(t, dev.Close())
}

func TestSoftwareDeviceCreateTextureRejectsUnknownFormat(t *testing.T) {
	dev, err := NewDevice(BackendSoftware)
	require.NoError(t, err)
	_, err = dev.CreateTexture(TextureDescriptor{Width: 4, Height: 4, Format: "bogus"})
	require.Error(t, err)
}

func TestSoftwareCommandBufferCopiesTextureData(t *testing.T) {
	dev, err := NewDevice(BackendSoftware)
	require.NoError(t, err)

	src, err := dev.CreateTexture(TextureDescriptor{Width: 2, Height: 2, Format: Rgba8Unorm})
	require.NoError(t, err)
	dst, err := dev.CreateTexture(TextureDescriptor{Width: 2, Height: 2, Format: Rgba8Unorm})
	require.NoError(t, err)

	srcData := src.Handle.(softwareTextureHandle).data
	for i := range srcData {
		srcData[i] = byte(i + 1)
	}

	buf := dev.CommandQueue().NewCommandBuffer()
	require.NoError(t, buf.CopyTexture(src, dst))
	require.NoError(t, buf.Commit())

	dstData := dst.Handle.(softwareTextureHandle).data
	assert.Equal(t, srcData, dstData)
}

func TestSoftwareCommandBufferCommitAndWaitRespectsCancellation(t *testing.T) {
	dev, err := NewDevice(BackendSoftware)
	require.NoError(t, err)
	cb := dev.CommandQueue().NewCommandBuffer()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = cb.CommitAndWait(ctx)
	require.Error(t, err)
}

func TestPixelBufferCloneReleaseNativeRefcount(t *testing.T) {
	var released int
	buf := NewPixelBuffer(4, 4, Rgba8Unorm, make([]byte, 64), func() { released++ })
	assert.Equal(t, int32(1), buf.RefCount())
	assert.Equal(t, int32(1), buf.ShareCount())

	clones := make([]*PixelBuffer, 5)
	for i := range clones {
		clones[i] = buf.Clone()
	}
	assert.Equal(t, int32(1), buf.RefCount(), "native refcount stays pinned to 1 while any wrapper is alive")
	assert.Equal(t, int32(6), buf.ShareCount())

	for i := 0; i < 4; i++ {
		clones[i].Release()
	}
	assert.Equal(t, int32(1), buf.RefCount())
	assert.Equal(t, int32(2), buf.ShareCount())
	assert.Equal(t, 0, released, "native buffer must not be released while wrappers remain")

	clones[4].Release()
	assert.Equal(t, int32(1), buf.RefCount())
	assert.Equal(t, int32(1), buf.ShareCount())
	assert.Equal(t, 0, released)

	buf.Release()
	assert.Equal(t, int32(0), buf.RefCount())
	assert.Equal(t, int32(0), buf.ShareCount())
	assert.Equal(t, 1, released, "native buffer releases exactly once when the last wrapper drops")

	buf.Release()
	assert.Equal(t, 1, released, "releasing the same wrapper twice has no further effect")
}

func TestPixelBufferPoolRecyclesOnRelease(t *testing.T) {
	pool := NewPixelBufferPool(4, 4, Rgba8Unorm)
	id1, buf1 := pool.Acquire()
	assert.NotEmpty(t, id1)
	assert.Equal(t, 0, pool.Len())

	buf1.Release()
	assert.Equal(t, 1, pool.Len())

	id2, buf2 := pool.Acquire()
	assert.NotEqual(t, id1, id2, "each acquire mints its own pool id even when recycling")
	assert.Equal(t, 0, pool.Len())
	assert.Equal(t, int32(1), buf2.RefCount())
}

func TestFormatConverterRejectsMismatchedFormats(t *testing.T) {
	conv := NewFormatConverter(Rgba8Unorm, Bgra8Unorm)
	src := NewPixelBuffer(2, 2, Bgra8Unorm, make([]byte, 16), nil)
	dst := NewPixelBuffer(2, 2, Bgra8Unorm, make([]byte, 16), nil)
	err := conv.Convert(src, dst)
	require.Error(t, err)
}

func TestFormatConverterSwapsChannels(t *testing.T) {
	conv := NewFormatConverter(Bgra8Unorm, Rgba8Unorm)
	src := NewPixelBuffer(1, 1, Bgra8Unorm, []byte{10, 20, 30, 255}, nil)
	dst := NewPixelBuffer(1, 1, Rgba8Unorm, make([]byte, 4), nil)
	require.NoError(t, conv.Convert(src, dst))
	assert.Equal(t, []byte{30, 20, 10, 255}, dst.Bytes())
}

func TestFormatConverterCacheReturnsSameInstance(t *testing.T) {
	cache := NewFormatConverterCache()
	a := cache.Get(Rgba8Unorm, Bgra8Unorm)
	b := cache.Get(Rgba8Unorm, Bgra8Unorm)
	assert.Same(t, a, b)

	c := cache.Get(Bgra8Unorm, Rgba8Unorm)
	assert.NotSame(t, a, c)
}

func TestFormatConverterCacheConcurrentGetsConverge(t *testing.T) {
	cache := NewFormatConverterCache()
	const n = 32
	results := make([]*FormatConverter, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			results[i] = cache.Get(Rgba8Unorm, R8Unorm)
		}(i)
	}
	wg.Wait()
	for i := 1; i < n; i++ {
		assert.Same(t, results[0], results[i])
	}
}

func TestTextureCacheViewKeepsSourceAliveUntilFlush(t *testing.T) {
	dev, err := NewDevice(BackendSoftware)
	require.NoError(t, err)
	cache := NewTextureCache(dev)

	var released bool
	buf := NewPixelBuffer(2, 2, Rgba8Unorm, make([]byte, 16), func() { released = true })

	view, err := cache.CreateView(buf, false)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Len())

	buf.Release()
	assert.False(t, released, "the view's clone keeps the native buffer alive")

	cache.Flush()
	assert.Equal(t, 0, cache.Len())
	assert.True(t, released)

	view.Release()
}

func TestExternalHandleEqualComparesPlatformIdentifierOnly(t *testing.T) {
	a := ExternalHandle{Kind: ExternalHandleDmaBuf, Width: 1, DmaBuf: &DmaBufHandle{Fd: 7, Size: 100}}
	b := ExternalHandle{Kind: ExternalHandleDmaBuf, Width: 999, DmaBuf: &DmaBufHandle{Fd: 7, Size: 5}}
	assert.True(t, a.Equal(b))

	c := ExternalHandle{Kind: ExternalHandleDmaBuf, DmaBuf: &DmaBufHandle{Fd: 8}}
	assert.False(t, a.Equal(c))

	d := ExternalHandle{Kind: ExternalHandleIOSurface, IOSurface: &IOSurfaceHandle{ID: 7}}
	assert.False(t, a.Equal(d))
}
