package compiler

import (
	"github.com/tatolab/streamlib/frame"
	"github.com/tatolab/streamlib/link"
	"github.com/tatolab/streamlib/schema"
)

// LinkHandle type-erases a link.Instance[T] so the compiler can store
// and manage it on a graph.Link's component store without knowing T
// at compile time; T is resolved once, at Wire time, from the link's
// payload schema (one of the three native frame shapes).
type LinkHandle interface {
	DropCount() uint64
	Fill() int
	Capacity() int
	Close()
	NewWriter(notify func()) any
	NewReader() any
}

type typedLinkHandle[T any] struct {
	inst *link.Instance[T]
}

func (h *typedLinkHandle[T]) DropCount() uint64           { return h.inst.DropCount() }
func (h *typedLinkHandle[T]) Fill() int                   { return h.inst.Fill() }
func (h *typedLinkHandle[T]) Capacity() int               { return h.inst.Capacity() }
func (h *typedLinkHandle[T]) Close()                      { h.inst.Close() }
func (h *typedLinkHandle[T]) NewWriter(notify func()) any { return h.inst.Writer(notify) }
func (h *typedLinkHandle[T]) NewReader() any              { return h.inst.Reader() }

// newLinkHandle constructs a type-erased link instance for the payload
// kind declared by def, at the given ring capacity.
func newLinkHandle(def *schema.Definition, capacity int) LinkHandle {
	switch def.PayloadKind {
	case schema.PayloadVideo:
		return &typedLinkHandle[frame.VideoFrame]{inst: link.NewInstance[frame.VideoFrame](capacity, def.Strategy)}
	case schema.PayloadAudio:
		return &typedLinkHandle[frame.AudioFrame]{inst: link.NewInstance[frame.AudioFrame](capacity, def.Strategy)}
	default:
		return &typedLinkHandle[frame.DataFrame]{inst: link.NewInstance[frame.DataFrame](capacity, def.Strategy)}
	}
}

// newPlugPair returns type-erased plug writer/reader handles matching
// def's payload kind, for a port side that is not (yet) wired. Used by
// bindUnboundPorts (compiler.go) to give every declared port a safe
// default before phaseWire connects any real links.
func newPlugPair(def *schema.Definition) (writer any, reader any) {
	switch def.PayloadKind {
	case schema.PayloadVideo:
		return link.NewPlugWriter[frame.VideoFrame](), link.NewPlugReader[frame.VideoFrame]()
	case schema.PayloadAudio:
		return link.NewPlugWriter[frame.AudioFrame](), link.NewPlugReader[frame.AudioFrame]()
	default:
		return link.NewPlugWriter[frame.DataFrame](), link.NewPlugReader[frame.DataFrame]()
	}
}
