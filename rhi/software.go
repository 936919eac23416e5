package rhi

import (
	"context"

	"github.com/tatolab/streamlib/streamerr"
)

// The software backend emulates the RHI contract entirely on the CPU:
// a "texture" is a byte slice, "copy" is a slice copy, and "commit" is
// synchronous. It is the platform default everywhere this port runs
// (see resolveBackend in device.go) and exists so the full RHI
// contract — device, queue, command buffer, pixel buffer pool, format
// converter cache, texture cache — can be exercised without any real
// GPU binding.
type softwareTextureHandle struct {
	data []byte
}

func (softwareTextureHandle) isTextureHandle() {}

type softwareDevice struct{}

func newSoftwareDevice() *softwareDevice { return &softwareDevice{} }

func (d *softwareDevice) Backend() Backend { return BackendSoftware }

func (d *softwareDevice) CreateTexture(desc TextureDescriptor) (*Texture, error) {
	if !desc.Format.Valid() {
		return nil, streamerr.New(streamerr.TextureError, "rhi: unsupported pixel format %q", desc.Format)
	}
	return &Texture{
		Width:  desc.Width,
		Height: desc.Height,
		Format: desc.Format,
		Handle: softwareTextureHandle{data: make([]byte, desc.Width*desc.Height*desc.Format.BytesPerPixel())},
	}, nil
}

func (d *softwareDevice) CommandQueue() CommandQueue { return &softwareCommandQueue{} }

func (d *softwareDevice) Close() error { return nil }

type softwareCommandQueue struct{}

func (q *softwareCommandQueue) NewCommandBuffer() CommandBuffer {
	return &softwareCommandBuffer{}
}

// softwareCommandBuffer is single-use: operations are recorded and
// only applied on Commit/CommitAndWait, matching the real
// record-then-submit shape of a GPU command buffer.
type softwareCommandBuffer struct {
	ops []func() error
}

func (b *softwareCommandBuffer) CopyTexture(src, dst *Texture) error {
	srcHandle, ok := src.Handle.(softwareTextureHandle)
	if !ok {
		return streamerr.New(streamerr.TextureError, "rhi: source texture is not a software texture")
	}
	dstHandle, ok := dst.Handle.(softwareTextureHandle)
	if !ok {
		return streamerr.New(streamerr.TextureError, "rhi: destination texture is not a software texture")
	}
	b.ops = append(b.ops, func() error {
		if len(dstHandle.data) < len(srcHandle.data) {
			return streamerr.New(streamerr.TextureError, "rhi: destination texture smaller than source")
		}
		copy(dstHandle.data, srcHandle.data)
		return nil
	})
	return nil
}

func (b *softwareCommandBuffer) Commit() error {
	ops := b.ops
	b.ops = nil
	for _, op := range ops {
		if err := op(); err != nil {
			return err
		}
	}
	return nil
}

func (b *softwareCommandBuffer) CommitAndWait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.Commit()
}
