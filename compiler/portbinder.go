package compiler

// PortBinder is the wiring contract a processor implementation may
// satisfy to receive live writer/reader handles as links connect and
// disconnect. Binding is per-link (not per-port), since one
// output port can fan out to several links and one input port can fan
// in from several.
//
// Processors that don't implement PortBinder simply receive no wiring
// notifications; concrete processor implementations are external
// collaborators outside this package's scope, but this is the
// interface they implement to participate in transport.
type PortBinder interface {
	// BindWriter is called once per outbound link wired to portName.
	// writer is a link.Writer[T] for whichever frame type the port's
	// schema declares.
	BindWriter(portName, linkID string, writer any)
	// UnbindWriter is called when the link identified by linkID is
	// torn down.
	UnbindWriter(portName, linkID string)
	// BindReader is called once per inbound link wired to portName.
	BindReader(portName, linkID string, reader any)
	// UnbindReader is called when the link identified by linkID is
	// torn down.
	UnbindReader(portName, linkID string)
}
