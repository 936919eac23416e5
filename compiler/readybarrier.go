package compiler

import "sync"

// ReadyBarrier is the two-step startup handshake between the compiler
// and a newly spawned processor thread.
// Grounded on
// original_source/.../processor_ready_barrier_component.rs's
// crossbeam bounded(1) channel pair, translated to unbuffered Go
// channels that are each closed once via sync.Once.
//
//  1. compiler spawns the processor's goroutine
//  2. the goroutine constructs its instance, attaches it to the graph
//  3. the goroutine calls SignalReady
//  4. the compiler's WaitReady returns, wires the port handles
//  5. the compiler calls SignalContinue
//  6. the goroutine's WaitContinue returns, runs Setup and its process loop
type ReadyBarrier struct {
	ready   chan struct{}
	cont    chan struct{}
	readyFn sync.Once
	contFn  sync.Once
}

// NewReadyBarrier returns a barrier ready for one handshake.
func NewReadyBarrier() *ReadyBarrier {
	return &ReadyBarrier{
		ready: make(chan struct{}),
		cont:  make(chan struct{}),
	}
}

// SignalReady is called by the processor goroutine once its instance
// is constructed and attached.
func (b *ReadyBarrier) SignalReady() {
	b.readyFn.Do(func() { close(b.ready) })
}

// WaitReady is called by the compiler; it blocks until SignalReady
// has been called.
func (b *ReadyBarrier) WaitReady() {
	<-b.ready
}

// SignalContinue is called by the compiler once port handles are
// wired, releasing the processor goroutine to proceed into Setup.
func (b *ReadyBarrier) SignalContinue() {
	b.contFn.Do(func() { close(b.cont) })
}

// WaitContinue is called by the processor goroutine; it blocks until
// SignalContinue has been called.
func (b *ReadyBarrier) WaitContinue() {
	<-b.cont
}
