package compiler

import (
	"context"
	"fmt"
	"time"

	"github.com/tatolab/streamlib/graph"
	"github.com/tatolab/streamlib/link"
	streamliblog "github.com/tatolab/streamlib/log"
	"github.com/tatolab/streamlib/processor"
)

// spawnExecution dedicates a goroutine to node according to its
// declared scheduling discipline. A Go goroutine stands in for a
// dedicated OS thread; threadHintFor's priority is applied to that
// goroutine's locked OS thread via applyThreadPriority (best-effort —
// see scheduler_linux.go/scheduler_other.go) and logged under the
// node's own tagged logger, since Go exposes no portable
// per-goroutine priority API beyond the locked-thread nice value.
func (c *Compiler) spawnExecution(ctx context.Context, node *graph.ProcessorNode) {
	ic, ok := graph.GetComponent[instanceComponent](node.Components())
	if !ok {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	graph.SetComponent(node.Components(), shutdownComponent{cancel: cancel})
	graph.SetComponent(node.Components(), threadHandleComponent{done: done})
	hint := threadHintFor(node)

	switch inst := ic.Instance.(type) {
	case processor.ManualProcessor:
		go c.runManual(runCtx, node, inst, hint, done)
	case processor.Processor:
		ecc, _ := graph.GetComponent[execConfigComponent](node.Components())
		if ecc.Config.Mode == processor.ExecutionReactive {
			notifier := wakeupNotifierFor(node)
			go c.runReactive(runCtx, node, inst, notifier, hint, done)
		} else {
			go c.runContinuous(runCtx, node, inst, ecc.Config.IntervalMs, hint, done)
		}
	default:
		close(done)
		return
	}
	_ = c.g.SetProcessorState(node.ID, graph.ProcessorRunning)
}

// runContinuous loops process() on a fixed interval, sleeping between
// ticks relative to a monotonic clock. An interval of zero polls as
// fast as possible.
func (c *Compiler) runContinuous(ctx context.Context, node *graph.ProcessorNode, p processor.Processor, intervalMs uint32, hint processor.ThreadHint, done chan struct{}) {
	defer close(done)
	applyThreadPriority(hint.Priority)
	nodeLog(node, hint).Debug("continuous scheduling started: interval_ms=%d", intervalMs)
	interval := time.Duration(intervalMs) * time.Millisecond
	next := time.Now()
	const pausedPollInterval = 10 * time.Millisecond
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		if c.isPaused() {
			select {
			case <-ctx.Done():
				return
			case <-time.After(pausedPollInterval):
			}
			next = time.Now()
			continue
		}
		if err := p.Process(ctx); err != nil {
			streamliblog.GetDefaultLogger().Warn("compiler: %s process error: %v", node.ID, err)
		}
		if interval <= 0 {
			continue
		}
		next = next.Add(interval)
		sleep := time.Until(next)
		if sleep < 0 {
			next = time.Now()
			continue
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(sleep):
		}
	}
}

// runReactive blocks on the processor's coalesced wakeup channel and
// invokes process() once per wakeup.
func (c *Compiler) runReactive(ctx context.Context, node *graph.ProcessorNode, p processor.Processor, notifier *link.Notifier, hint processor.ThreadHint, done chan struct{}) {
	defer close(done)
	applyThreadPriority(hint.Priority)
	nodeLog(node, hint).Debug("reactive scheduling started")
	if notifier == nil {
		<-ctx.Done()
		return
	}
	const pausedPollInterval = 10 * time.Millisecond
	for {
		if c.isPaused() {
			select {
			case <-ctx.Done():
				return
			case <-time.After(pausedPollInterval):
			}
			continue
		}
		select {
		case <-ctx.Done():
			return
		case <-notifier.C():
			if err := p.Process(ctx); err != nil {
				streamliblog.GetDefaultLogger().Warn("compiler: %s process error: %v", node.ID, err)
			}
		}
	}
}

// runManual calls Start exactly once; the processor thereafter drives
// its own timing. Shutdown calls Stop and waits for Start to return.
func (c *Compiler) runManual(ctx context.Context, node *graph.ProcessorNode, p processor.ManualProcessor, hint processor.ThreadHint, done chan struct{}) {
	defer close(done)
	applyThreadPriority(hint.Priority)
	nodeLog(node, hint).Debug("manual scheduling started")
	if err := p.Start(ctx); err != nil {
		streamliblog.GetDefaultLogger().Warn("compiler: %s start error: %v", node.ID, err)
	}
}

// nodeLog returns node's default logger tagged with its resolved
// thread hint, for scheduling diagnostics that need the assigned
// priority and name alongside the usual component tag.
func nodeLog(node *graph.ProcessorNode, hint processor.ThreadHint) streamliblog.Logger {
	base := streamliblog.GetDefaultLogger()
	if g, ok := base.(*streamliblog.GologAdapter); ok {
		return g.WithComponent(fmt.Sprintf("%s/%s priority=%s", hint.Name, node.ID, hint.Priority))
	}
	return base
}
