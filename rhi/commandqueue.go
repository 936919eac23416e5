package rhi

import "context"

// CommandQueue issues single-use CommandBuffers against a Device.
type CommandQueue interface {
	NewCommandBuffer() CommandBuffer
}

// CommandBuffer batches texture operations and submits them once.
type CommandBuffer interface {
	CopyTexture(src, dst *Texture) error
	Commit() error
	CommitAndWait(ctx context.Context) error
}
