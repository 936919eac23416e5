// Package frame defines the three native payload shapes StreamLib
// transports between processors.
package frame

// VideoFrame carries a GPU-owned image, not pixel bytes. The texture
// handle is opaque to the transport layer; only the rhi package knows
// how to resolve it into an rhi.Texture.
type VideoFrame struct {
	GPUTextureHandle string
	Width            int
	Height           int
	Format           string
	FrameNumber      uint64
	TimestampNs      int64
	Metadata         map[string]string
}

// AudioFrame carries interleaved f32 samples.
type AudioFrame struct {
	Samples     []float32
	Channels    int
	SampleRate  int
	FrameNumber uint64
	TimestampNs int64
}

// DataFrame carries an arbitrary structured payload described by a
// schema handle (see package schema).
type DataFrame struct {
	SchemaHandle string
	Bytes        []byte
	TimestampNs  int64
}

// SchemaName returns the schema handle this frame kind is natively
// registered under. DataFrame's schema is per-instance
// (SchemaHandle), so it is not included here.
func (VideoFrame) SchemaName() string { return "com.streamlib.videoframe" }
func (AudioFrame) SchemaName() string { return "com.streamlib.audioframe" }
