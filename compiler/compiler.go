// Package compiler implements StreamLib's four-phase incremental
// graph compiler: Create, Wire, Setup, Start. It
// consumes graph.EventBus notifications, batches queued mutations
// into a Delta, and recompiles only the affected subset of the graph,
// leaving surviving processors untouched.
//
// Generalized from a one-shot compile step (turning a declarative
// graph into a runnable form) into a repeatable incremental one, with
// goroutine-per-unit-of-work phase fan-out built on
// golang.org/x/sync/errgroup for panic-safe concurrency.
package compiler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/tatolab/streamlib/graph"
	"github.com/tatolab/streamlib/link"
	streamliblog "github.com/tatolab/streamlib/log"
	"github.com/tatolab/streamlib/processor"
	"github.com/tatolab/streamlib/schema"
	"github.com/tatolab/streamlib/streamerr"
)

// ProcessorSpec names a processor type and its opaque config, as
// supplied by a caller of AddProcessor.
type ProcessorSpec struct {
	TypeName string
	Config   []byte
	// SchedulingOverride, if set, bypasses the type-tag priority
	// heuristic for this processor; see OverrideScheduling.
	SchedulingOverride *processor.ThreadHint
}

// Compiler owns the authoritative graph, the processor descriptor
// registry, and the queue of mutations awaiting the next compile pass.
type Compiler struct {
	g        *graph.Graph
	registry *processor.Registry

	queue *PendingQueue

	mu      sync.Mutex
	running bool
	paused  atomic.Bool

	unsubscribe func()
	changed     <-chan graph.Event
	stopLoop    chan struct{}
	loopDone    chan struct{}
}

// New returns a compiler over an empty graph, resolving processor
// types against registry (use processor.Global for the process-global
// default).
func New(registry *processor.Registry) *Compiler {
	return &Compiler{
		g:        graph.New(),
		registry: registry,
		queue:    NewPendingQueue(),
	}
}

// Graph returns the compiler's authoritative graph, for read-only
// observability use.
func (c *Compiler) Graph() *graph.Graph { return c.g }

// AddProcessor declares a new processor node and queues its Create.
func (c *Compiler) AddProcessor(spec ProcessorSpec, inputs, outputs []graph.Port) (string, error) {
	if _, ok := c.registry.Lookup(spec.TypeName); !ok {
		return "", streamerr.New(streamerr.Configuration, "unknown processor type %q", spec.TypeName)
	}
	node := c.g.AddV(spec.TypeName, spec.Config, inputs, outputs)
	if spec.SchedulingOverride != nil {
		OverrideScheduling(node, *spec.SchedulingOverride)
	}
	c.queue.Push(PendingOperation{Kind: OpAddProcessor, ProcessorID: node.ID})
	return node.ID, nil
}

// RemoveProcessor queues removal of an existing processor.
func (c *Compiler) RemoveProcessor(processorID string) error {
	if _, ok := c.g.Processor(processorID); !ok {
		return streamerr.New(streamerr.ProcessorNotFound, "processor %s not found", processorID)
	}
	c.queue.RemoveProcessorOperations(processorID)
	c.queue.Push(PendingOperation{Kind: OpRemoveProcessor, ProcessorID: processorID})
	return nil
}

// Connect declares a new link between an output and an input port and
// queues its Wire.
func (c *Compiler) Connect(source, target graph.PortRef, capacity int) (string, error) {
	link, err := c.g.AddE(source, target, capacity)
	if err != nil {
		return "", err
	}
	c.queue.Push(PendingOperation{Kind: OpAddLink, LinkID: link.ID})
	return link.ID, nil
}

// Disconnect queues removal of an existing link.
func (c *Compiler) Disconnect(linkID string) error {
	if _, ok := c.g.LinkByID(linkID); !ok {
		return streamerr.New(streamerr.LinkNotFound, "link %s not found", linkID)
	}
	c.queue.RemoveLinkOperations(linkID)
	c.queue.Push(PendingOperation{Kind: OpRemoveLink, LinkID: linkID})
	return nil
}

// UpdateProcessorConfig queues a live config update for a running
// processor.
func (c *Compiler) UpdateProcessorConfig(processorID string, newConfig []byte) error {
	if _, ok := c.g.Processor(processorID); !ok {
		return streamerr.New(streamerr.ProcessorNotFound, "processor %s not found", processorID)
	}
	c.queue.Push(PendingOperation{Kind: OpUpdateProcessorConfig, ProcessorID: processorID, NewConfig: newConfig})
	return nil
}

// Compile drains the pending queue, computes a Delta, and runs the
// four phases against it. It is safe to call Compile with an empty
// queue (a no-op). Per-entity failures mark that entity Failed/Error
// and never abort the compile for unrelated entities.
func (c *Compiler) Compile(ctx context.Context) error {
	ops := c.queue.TakeAll()
	if len(ops) == 0 {
		return nil
	}
	delta := computeDelta(ops)

	c.phaseCreate(ctx, delta)
	c.phaseWire(ctx, delta)
	if err := c.phaseSetup(ctx, delta); err != nil {
		return err
	}
	c.phaseStart(ctx, delta)
	c.phaseTeardownRemoved(ctx, delta)
	return nil
}

// phaseCreate resolves each new processor's type_name in the
// descriptor registry, instantiates it, and attaches the instance
// component. Every declared port is bound to a disconnected Plug
// handle up front, so a PortBinder implementation never observes a nil
// writer/reader; phaseWire overwrites the plug with a real link handle
// for whichever ports end up wired.
func (c *Compiler) phaseCreate(_ context.Context, delta *Delta) {
	for _, pid := range delta.ProcessorsToAdd {
		node, ok := c.g.Processor(pid)
		if !ok {
			continue
		}
		desc, ok := c.registry.Lookup(node.ProcessorType)
		if !ok {
			c.failNode(node, "no descriptor registered for type %q", node.ProcessorType)
			continue
		}
		instance, err := desc.New(node.Config)
		if err != nil {
			c.failNode(node, "construct %s: %v", node.ProcessorType, err)
			continue
		}
		graph.SetComponent(node.Components(), instanceComponent{Instance: instance})
		bindUnboundPorts(node, instance)

		if p, ok := instance.(processor.Processor); ok {
			cfg := p.ExecutionConfig()
			graph.SetComponent(node.Components(), execConfigComponent{Config: cfg})
			if cfg.Mode == processor.ExecutionReactive {
				graph.SetComponent(node.Components(), wakeupComponent{notifier: link.NewNotifier()})
			}
		}
	}
}

// bindUnboundPorts binds every one of node's declared ports to a
// plug writer or reader, matching the port's declared schema. Ports
// that phaseWire later connects to a real link get BindWriter/
// BindReader called again with the live handle, which a PortBinder
// implementation is expected to treat as replacing the plug.
func bindUnboundPorts(node *graph.ProcessorNode, instance any) {
	binder, ok := instance.(PortBinder)
	if !ok {
		return
	}
	for _, port := range node.Outputs {
		def, ok := schema.Global.Lookup(port.Schema)
		if !ok {
			continue
		}
		writer, _ := newPlugPair(def)
		binder.BindWriter(port.Name, "", writer)
	}
	for _, port := range node.Inputs {
		def, ok := schema.Global.Lookup(port.Schema)
		if !ok {
			continue
		}
		_, reader := newPlugPair(def)
		binder.BindReader(port.Name, "", reader)
	}
}

func (c *Compiler) failNode(node *graph.ProcessorNode, format string, args ...any) {
	streamliblog.GetDefaultLogger().Error("compiler: "+format, args...)
	_ = c.g.SetProcessorState(node.ID, graph.ProcessorFailed)
}

// phaseWire validates and wires each new link: creates a link
// instance at the declared capacity, binds a writer into the source
// port's writer set and a reader into the target's reader set, and
// tears down removed links symmetrically.
func (c *Compiler) phaseWire(_ context.Context, delta *Delta) {
	for _, lid := range delta.LinksToAdd {
		l, ok := c.g.LinkByID(lid)
		if !ok {
			continue
		}
		srcNode, ok := c.g.Processor(l.Source.ProcessorID)
		if !ok {
			c.failLink(l, "source processor %s missing", l.Source.ProcessorID)
			continue
		}
		dstNode, ok := c.g.Processor(l.Target.ProcessorID)
		if !ok {
			c.failLink(l, "target processor %s missing", l.Target.ProcessorID)
			continue
		}
		schemaName := portSchema(srcNode, l.Source.PortName, graph.DirectionOutput)
		def, ok := schema.Global.Lookup(schemaName)
		if !ok {
			c.failLink(l, "unknown payload schema %s", schemaName)
			continue
		}

		handle := newLinkHandle(def, l.Capacity)
		notifier := wakeupNotifierFor(dstNode)
		writer := handle.NewWriter(notifierNotify(notifier))
		reader := handle.NewReader()

		if binder, ok := portBinderOf(srcNode); ok {
			binder.BindWriter(l.Source.PortName, l.ID, writer)
		}
		if binder, ok := portBinderOf(dstNode); ok {
			binder.BindReader(l.Target.PortName, l.ID, reader)
		}

		graph.SetComponent(l.Components(), linkInstanceComponent{Handle: handle})
		_ = c.g.SetLinkState(l.ID, graph.LinkWired)
	}

	for _, lid := range delta.LinksToRemove {
		l, ok := c.g.LinkByID(lid)
		if !ok {
			continue
		}
		if lc, ok := graph.GetComponent[linkInstanceComponent](l.Components()); ok {
			if srcNode, ok := c.g.Processor(l.Source.ProcessorID); ok {
				if binder, ok := portBinderOf(srcNode); ok {
					binder.UnbindWriter(l.Source.PortName, l.ID)
				}
			}
			if dstNode, ok := c.g.Processor(l.Target.ProcessorID); ok {
				if binder, ok := portBinderOf(dstNode); ok {
					binder.UnbindReader(l.Target.PortName, l.ID)
				}
			}
			lc.Handle.Close()
			graph.RemoveComponent[linkInstanceComponent](l.Components())
		}
		_ = c.g.SetLinkState(l.ID, graph.LinkDisconnected)
		_ = c.g.RemoveE(l.ID)
	}
}

func (c *Compiler) failLink(l *graph.Link, format string, args ...any) {
	streamliblog.GetDefaultLogger().Error("compiler: " + fmt.Sprintf(format, args...))
	_ = c.g.SetLinkState(l.ID, graph.LinkError)
}

func portSchema(node *graph.ProcessorNode, portName string, dir graph.Direction) string {
	ports := node.Outputs
	if dir == graph.DirectionInput {
		ports = node.Inputs
	}
	for _, p := range ports {
		if p.Name == portName {
			return p.Schema
		}
	}
	return ""
}

func portBinderOf(node *graph.ProcessorNode) (PortBinder, bool) {
	ic, ok := graph.GetComponent[instanceComponent](node.Components())
	if !ok {
		return nil, false
	}
	binder, ok := ic.Instance.(PortBinder)
	return binder, ok
}

func wakeupNotifierFor(node *graph.ProcessorNode) *link.Notifier {
	wc, ok := graph.GetComponent[wakeupComponent](node.Components())
	if !ok {
		return nil
	}
	return wc.notifier
}

func notifierNotify(n *link.Notifier) func() {
	if n == nil {
		return nil
	}
	return n.Notify
}

// phaseSetup runs setup(ctx) for every newly created processor on its
// own goroutine, synchronized through a ReadyBarrier, and waits for
// all of them to finish before Start proceeds. A panic inside a processor's Setup never takes down the
// compiler: it is recovered and the node is marked Failed.
func (c *Compiler) phaseSetup(ctx context.Context, delta *Delta) error {
	group, gctx := errgroup.WithContext(ctx)
	for _, pid := range delta.ProcessorsToAdd {
		node, ok := c.g.Processor(pid)
		if !ok || node.State == graph.ProcessorFailed {
			continue
		}
		node := node
		barrier := NewReadyBarrier()
		graph.SetComponent(node.Components(), readyBarrierComponent{Barrier: barrier})

		group.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					c.failNode(node, "panic during setup: %v", r)
				}
			}()
			barrier.SignalReady()
			barrier.WaitContinue()

			ic, ok := graph.GetComponent[instanceComponent](node.Components())
			if !ok {
				return nil
			}
			if lc, ok := ic.Instance.(processor.Lifecycle); ok {
				if err := lc.Setup(gctx); err != nil {
					c.failNode(node, "setup %s: %v", node.ProcessorType, err)
					graph.RemoveComponent[readyBarrierComponent](node.Components())
					return nil
				}
			}
			graph.RemoveComponent[readyBarrierComponent](node.Components())
			_ = c.g.SetProcessorState(node.ID, graph.ProcessorStarted)
			return nil
		})

		barrier.WaitReady()
		barrier.SignalContinue()
	}
	return group.Wait()
}

// phaseStart spawns each new processor's execution goroutine
// according to its declared scheduling discipline, and applies live
// config updates in place for processors whose config changed without
// being re-created.
func (c *Compiler) phaseStart(ctx context.Context, delta *Delta) {
	for _, pid := range delta.ProcessorsToAdd {
		node, ok := c.g.Processor(pid)
		if !ok || node.State == graph.ProcessorFailed {
			continue
		}
		c.spawnExecution(ctx, node)
	}
	for pid, cfg := range delta.ConfigsToUpdate {
		node, ok := c.g.Processor(pid)
		if !ok {
			continue
		}
		ic, ok := graph.GetComponent[instanceComponent](node.Components())
		if !ok {
			continue
		}
		updater, ok := ic.Instance.(processor.ConfigUpdater)
		if !ok {
			continue
		}
		if err := updater.UpdateConfig(cfg); err != nil {
			streamliblog.GetDefaultLogger().Warn("compiler: update config for %s rejected: %v", node.ID, err)
		}
	}
}

// phaseTeardownRemoved tears down every processor queued for removal,
// in no particular cross-processor order (each processor's own
// shutdown is independent); see teardown.go for the shared stop path
// also used by full-runtime shutdown.
func (c *Compiler) phaseTeardownRemoved(ctx context.Context, delta *Delta) {
	for _, pid := range delta.ProcessorsToRemove {
		node, ok := c.g.Processor(pid)
		if !ok {
			continue
		}
		c.stopProcessor(ctx, node)
		_ = c.g.RemoveV(pid)
	}
}
