package rhi

import (
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/tatolab/streamlib/streamerr"
)

// FormatConverter is a stateless, thread-safe recipe for converting
// pixel data from one format to another. Convert may be called concurrently from
// multiple processors without external locking.
type FormatConverter struct {
	source, dest PixelFormat
}

func NewFormatConverter(source, dest PixelFormat) *FormatConverter {
	return &FormatConverter{source: source, dest: dest}
}

func (c *FormatConverter) Source() PixelFormat { return c.source }
func (c *FormatConverter) Dest() PixelFormat   { return c.dest }

// Convert copies src into dst, applying this converter's format
// transform. The software implementation handles the identity case,
// the Bgra8Unorm<->Rgba8Unorm channel swap, and R8Unorm<->4-byte-format
// channel spreading/narrowing; any other pair (such as the Srgb
// variants) is copied byte for byte without a transform.
func (c *FormatConverter) Convert(src, dst *PixelBuffer) error {
	if src.Format() != c.source {
		return streamerr.New(streamerr.GpuError, "rhi: converter expects source format %q, got %q", c.source, src.Format())
	}
	if dst.Format() != c.dest {
		return streamerr.New(streamerr.GpuError, "rhi: converter expects dest format %q, got %q", c.dest, dst.Format())
	}
	if src.Width() != dst.Width() || src.Height() != dst.Height() {
		return streamerr.New(streamerr.GpuError, "rhi: converter requires matching dimensions, got %dx%d -> %dx%d",
			src.Width(), src.Height(), dst.Width(), dst.Height())
	}
	return convertPixels(src.Bytes(), dst.Bytes(), c.source, c.dest)
}

// convertPixels performs the CPU-side pixel transform for the
// software backend.
func convertPixels(src, dst []byte, source, dest PixelFormat) error {
	switch {
	case source == dest:
		copy(dst, src)
		return nil
	case source == Bgra8Unorm && dest == Rgba8Unorm, source == Rgba8Unorm && dest == Bgra8Unorm:
		for i := 0; i+3 < len(src) && i+3 < len(dst); i += 4 {
			dst[i], dst[i+1], dst[i+2], dst[i+3] = src[i+2], src[i+1], src[i], src[i+3]
		}
		return nil
	case dest == R8Unorm:
		bpp := source.BytesPerPixel()
		for i, j := 0, 0; i+bpp <= len(src) && j < len(dst); i, j = i+bpp, j+1 {
			dst[j] = src[i]
		}
		return nil
	case source == R8Unorm:
		bpp := dest.BytesPerPixel()
		for i, j := 0, 0; i < len(src) && j+bpp <= len(dst); i, j = i+1, j+bpp {
			for k := 0; k < bpp; k++ {
				dst[j+k] = src[i]
			}
		}
		return nil
	default:
		copy(dst, src)
		return nil
	}
}

type formatPair struct {
	source, dest PixelFormat
}

// FormatConverterCache maps (source, dest) pairs to a single shared
// FormatConverter instance. The fast path is a read-locked map lookup;
// the slow path collapses concurrent misses for the same pair into one
// construction via singleflight before double-checking under the
// write lock.
type FormatConverterCache struct {
	mu    sync.RWMutex
	convs map[formatPair]*FormatConverter
	group singleflight.Group
}

func NewFormatConverterCache() *FormatConverterCache {
	return &FormatConverterCache{convs: make(map[formatPair]*FormatConverter)}
}

// Get returns the shared converter for (source, dest), creating it on
// first use. The same (source, dest) pair always returns the same
// *FormatConverter instance across concurrent callers.
func (c *FormatConverterCache) Get(source, dest PixelFormat) *FormatConverter {
	key := formatPair{source, dest}

	c.mu.RLock()
	if conv, ok := c.convs[key]; ok {
		c.mu.RUnlock()
		return conv
	}
	c.mu.RUnlock()

	groupKey := string(source) + "->" + string(dest)
	v, _, _ := c.group.Do(groupKey, func() (any, error) {
		c.mu.Lock()
		defer c.mu.Unlock()
		if conv, ok := c.convs[key]; ok {
			return conv, nil
		}
		conv := NewFormatConverter(source, dest)
		c.convs[key] = conv
		return conv, nil
	})
	return v.(*FormatConverter)
}

var globalFormatConverterCache = NewFormatConverterCache()

// GlobalFormatConverterCache returns the process-wide converter cache.
func GlobalFormatConverterCache() *FormatConverterCache { return globalFormatConverterCache }
