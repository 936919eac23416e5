package graph

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/tatolab/streamlib/internal/id"
	"github.com/tatolab/streamlib/schema"
	"github.com/tatolab/streamlib/streamerr"
)

// Graph is a directed multigraph of processor nodes and links. All
// structural reads and writes go through a single reader-writer lock.
type Graph struct {
	mu    sync.RWMutex
	nodes map[string]*ProcessorNode
	edges map[string]*Link
	state GraphState
	bus   *EventBus
}

// New returns an empty, Idle graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*ProcessorNode),
		edges: make(map[string]*Link),
		bus:   NewEventBus(),
	}
}

// Events returns the graph's GraphDidChange event bus.
func (g *Graph) Events() *EventBus { return g.bus }

// State returns the graph's current lifecycle state.
func (g *Graph) State() GraphState {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

// SetState transitions the graph's overall lifecycle state. The graph
// itself does not validate the Idle→Running→Paused→Stopping→Idle
// sequencing; that is the compiler's responsibility.
func (g *Graph) SetState(s GraphState) {
	g.mu.Lock()
	g.state = s
	g.mu.Unlock()
}

// AddV adds a new processor node with a freshly minted ProcessorId and
// state Created, and publishes GraphDidChange.
func (g *Graph) AddV(processorType string, config json.RawMessage, inputs, outputs []Port) *ProcessorNode {
	node := &ProcessorNode{
		ID:            id.NewProcessorId(),
		ProcessorType: processorType,
		Config:        config,
		Inputs:        append([]Port(nil), inputs...),
		Outputs:       append([]Port(nil), outputs...),
		State:         ProcessorCreated,
		components:    newComponentStore(),
	}

	g.mu.Lock()
	g.nodes[node.ID] = node
	g.mu.Unlock()

	g.bus.Publish(Event{Kind: EventProcessorAdded, ProcessorID: node.ID})
	return node
}

// findPort locates the named, directional port on a processor.
func (n *ProcessorNode) findPort(name string, dir Direction) (Port, bool) {
	ports := n.Outputs
	if dir == DirectionInput {
		ports = n.Inputs
	}
	for _, p := range ports {
		if p.Name == name {
			return p, true
		}
	}
	return Port{}, false
}

// legal reports whether a link between source and target is legal: the
// source port must exist and be an Output, the target port must exist
// and be an Input, and the two ports must carry the same payload
// schema.
func (g *Graph) legal(source, target PortRef) error {
	srcNode, ok := g.nodes[source.ProcessorID]
	if !ok {
		return streamerr.New(streamerr.ProcessorNotFound, "source processor %s not found", source.ProcessorID)
	}
	dstNode, ok := g.nodes[target.ProcessorID]
	if !ok {
		return streamerr.New(streamerr.ProcessorNotFound, "target processor %s not found", target.ProcessorID)
	}

	srcPort, ok := srcNode.findPort(source.PortName, DirectionOutput)
	if !ok {
		return streamerr.New(streamerr.PortError, "output port %s not found on %s", source.PortName, source.ProcessorID)
	}
	dstPort, ok := dstNode.findPort(target.PortName, DirectionInput)
	if !ok {
		return streamerr.New(streamerr.PortError, "input port %s not found on %s", target.PortName, target.ProcessorID)
	}

	if srcPort.Schema != dstPort.Schema {
		return streamerr.New(streamerr.InvalidLink, "schema mismatch: %s carries %s, %s expects %s",
			source.PortName, srcPort.Schema, target.PortName, dstPort.Schema)
	}
	if _, ok := schema.Global.Lookup(srcPort.Schema); !ok {
		return streamerr.New(streamerr.InvalidLink, "unknown payload schema %s", srcPort.Schema)
	}
	return nil
}

// AddE adds a new link between an output port and an input port, in
// state Pending, after validating legality. capacity <= 0 uses
// DefaultCapacity.
func (g *Graph) AddE(source, target PortRef, capacity int) (*Link, error) {
	source.Direction = DirectionOutput
	target.Direction = DirectionInput

	g.mu.Lock()
	if err := g.legal(source, target); err != nil {
		g.mu.Unlock()
		return nil, err
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	link := &Link{
		ID:         id.NewLinkId(),
		Source:     source,
		Target:     target,
		Capacity:   capacity,
		State:      LinkPending,
		components: newComponentStore(),
	}
	g.edges[link.ID] = link
	g.mu.Unlock()

	g.bus.Publish(Event{Kind: EventLinkAdded, LinkID: link.ID})
	return link, nil
}

// V returns the processor nodes named by ids, or every node if ids is
// empty.
func (g *Graph) V(ids ...string) []*ProcessorNode {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if len(ids) == 0 {
		out := make([]*ProcessorNode, 0, len(g.nodes))
		for _, n := range g.nodes {
			out = append(out, n)
		}
		return out
	}
	out := make([]*ProcessorNode, 0, len(ids))
	for _, id := range ids {
		if n, ok := g.nodes[id]; ok {
			out = append(out, n)
		}
	}
	return out
}

// E returns the links named by ids, or every link if ids is empty.
func (g *Graph) E(ids ...string) []*Link {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if len(ids) == 0 {
		out := make([]*Link, 0, len(g.edges))
		for _, e := range g.edges {
			out = append(out, e)
		}
		return out
	}
	out := make([]*Link, 0, len(ids))
	for _, id := range ids {
		if e, ok := g.edges[id]; ok {
			out = append(out, e)
		}
	}
	return out
}

// Processor looks up a single processor node by id.
func (g *Graph) Processor(pid string) (*ProcessorNode, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n, ok := g.nodes[pid]
	return n, ok
}

// LinkByID looks up a single link by id.
func (g *Graph) LinkByID(lid string) (*Link, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	e, ok := g.edges[lid]
	return e, ok
}

// LinksOf returns every link incident (as source or target) on the
// given processor.
func (g *Graph) LinksOf(pid string) []*Link {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var out []*Link
	for _, e := range g.edges {
		if e.Source.ProcessorID == pid || e.Target.ProcessorID == pid {
			out = append(out, e)
		}
	}
	return out
}

// SetProcessorState transitions a node's state field directly. Used by
// the compiler; the graph itself does not enforce the monotonic
// Created→Started→{Running|Paused}→Stopping→Stopped sequencing; state
// transitions are mediated by the compiler, never self-initiated.
func (g *Graph) SetProcessorState(pid string, s ProcessorState) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	n, ok := g.nodes[pid]
	if !ok {
		return streamerr.New(streamerr.ProcessorNotFound, "processor %s not found", pid)
	}
	n.State = s
	return nil
}

// SetLinkState transitions a link's state field directly.
func (g *Graph) SetLinkState(lid string, s LinkState) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	e, ok := g.edges[lid]
	if !ok {
		return streamerr.New(streamerr.LinkNotFound, "link %s not found", lid)
	}
	e.State = s
	return nil
}

// RemoveE removes a link from the graph structure outright (used once
// the compiler has finished tearing down its runtime instance).
func (g *Graph) RemoveE(lid string) error {
	g.mu.Lock()
	if _, ok := g.edges[lid]; !ok {
		g.mu.Unlock()
		return streamerr.New(streamerr.LinkNotFound, "link %s not found", lid)
	}
	delete(g.edges, lid)
	g.mu.Unlock()
	g.bus.Publish(Event{Kind: EventLinkRemoved, LinkID: lid})
	return nil
}

// RemoveV removes a processor node and marks every link incident on it
// Disconnecting. The links
// themselves are removed from the graph once the compiler finishes
// tearing down their instances, via RemoveE.
func (g *Graph) RemoveV(pid string) error {
	g.mu.Lock()
	if _, ok := g.nodes[pid]; !ok {
		g.mu.Unlock()
		return streamerr.New(streamerr.ProcessorNotFound, "processor %s not found", pid)
	}
	delete(g.nodes, pid)
	for _, e := range g.edges {
		if e.Source.ProcessorID == pid || e.Target.ProcessorID == pid {
			e.State = LinkDisconnecting
		}
	}
	g.mu.Unlock()
	g.bus.Publish(Event{Kind: EventProcessorRemoved, ProcessorID: pid})
	return nil
}

// Snapshot is a point-in-time, lock-free-to-read copy of graph
// structure, used by read-only observability callers.
type Snapshot struct {
	Nodes []*ProcessorNode
	Edges []*Link
	State GraphState
}

// Snapshot takes a consistent read-locked snapshot of the whole graph.
func (g *Graph) Snapshot() Snapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()
	nodes := make([]*ProcessorNode, 0, len(g.nodes))
	for _, n := range g.nodes {
		nodes = append(nodes, n)
	}
	edges := make([]*Link, 0, len(g.edges))
	for _, e := range g.edges {
		edges = append(edges, e)
	}
	return Snapshot{Nodes: nodes, Edges: edges, State: g.state}
}

// String satisfies fmt.Stringer with a compact structural summary,
// useful in error messages and logs.
func (g *Graph) String() string {
	snap := g.Snapshot()
	return fmt.Sprintf("Graph{state=%s, nodes=%d, edges=%d}", snap.State, len(snap.Nodes), len(snap.Edges))
}
