package compiler

import (
	"github.com/tatolab/streamlib/link"
	"github.com/tatolab/streamlib/processor"
)

// The following are the standard components the compiler hangs off
// processor nodes while they are running. ProcessorState
// itself lives on graph.ProcessorNode directly; everything else lives
// here as ECS components attached/detached by the compile phases.

// instanceComponent holds the live processor instance the compiler
// constructed in Phase 1 (Create). Value is either a processor.Processor
// or a processor.ManualProcessor.
type instanceComponent struct {
	Instance any
}

// threadHandleComponent marks a processor as having a running
// dedicated goroutine.
type threadHandleComponent struct {
	done <-chan struct{}
}

// shutdownComponent is the cooperative shutdown signal.
type shutdownComponent struct {
	cancel func()
}

// wakeupComponent is the Reactive wakeup notifier.
type wakeupComponent struct {
	notifier *link.Notifier
}

// execConfigComponent records the processor's declared execution
// discipline.
type execConfigComponent struct {
	Config processor.ExecutionConfig
}

// readyBarrierComponent holds the startup handshake barrier for the
// duration of Phase 3 (Setup); it is removed once setup completes.
type readyBarrierComponent struct {
	Barrier *ReadyBarrier
}

// linkInstanceComponent holds the type-erased runtime ring buffer for
// a Wired link.
type linkInstanceComponent struct {
	Handle LinkHandle
}
