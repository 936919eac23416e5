package rhi

import "sync"

// TextureView is an ephemeral texture created from a pixel buffer. It
// keeps a clone of the source buffer alive for its own lifetime, so
// the GPU-visible texture data stays valid even if every other
// reference to the source buffer is released.
type TextureView struct {
	source  *PixelBuffer
	texture *Texture

	mu       sync.Mutex
	released bool
}

func (v *TextureView) Texture() *Texture { return v.texture }

// Release lets go of the view's hold on its source buffer. Safe to
// call more than once.
func (v *TextureView) Release() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.released {
		return
	}
	v.released = true
	v.source.Release()
}

// TextureCache creates per-frame texture views from pixel buffers.
// Synchronization with the GPU is the Device's responsibility; Flush
// periodically releases every view the cache is still holding.
type TextureCache struct {
	device Device

	mu    sync.Mutex
	views []*TextureView
}

func NewTextureCache(device Device) *TextureCache {
	return &TextureCache{device: device}
}

// CreateView creates a texture backed by buf and retains a clone of
// buf for the view's lifetime.
func (c *TextureCache) CreateView(buf *PixelBuffer, shareable bool) (*TextureView, error) {
	tex, err := c.device.CreateTexture(TextureDescriptor{
		Width:     buf.Width(),
		Height:    buf.Height(),
		Format:    buf.Format(),
		Shareable: shareable,
	})
	if err != nil {
		return nil, err
	}
	view := &TextureView{source: buf.Clone(), texture: tex}
	c.mu.Lock()
	c.views = append(c.views, view)
	c.mu.Unlock()
	return view, nil
}

// Flush releases every view the cache is currently holding.
func (c *TextureCache) Flush() {
	c.mu.Lock()
	views := c.views
	c.views = nil
	c.mu.Unlock()
	for _, v := range views {
		v.Release()
	}
}

// Len reports how many views the cache is currently holding.
func (c *TextureCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.views)
}
