// Package observability exposes a read-only surface over a running
// graph: enumerate processors and links, query each entity's JSON
// state, and subscribe to graph-change events — optionally over a
// local websocket, a lightweight stand-in for a full broker service.
//
// The view structs follow an event-to-JSON shape, and Server wires
// net/http with a websocket upgrade for the streaming endpoint.
package observability

import (
	"encoding/json"

	"github.com/tatolab/streamlib/compiler"
	"github.com/tatolab/streamlib/graph"
)

// ProcessorView is a processor's observable state.
type ProcessorView struct {
	ID            string          `json:"id"`
	ProcessorType string          `json:"processor_type"`
	State         string          `json:"state"`
	Config        json.RawMessage `json:"config,omitempty"`
	Priority      string          `json:"priority"`
	ThreadName    string          `json:"thread_name,omitempty"`
	Inputs        []PortView      `json:"inputs,omitempty"`
	Outputs       []PortView      `json:"outputs,omitempty"`
}

// PortView is a processor port's observable shape.
type PortView struct {
	Name   string `json:"name"`
	Schema string `json:"schema"`
}

// LinkView is a link's observable state, including live ring-buffer
// occupancy where available.
type LinkView struct {
	ID         string `json:"id"`
	SourceID   string `json:"source_processor_id"`
	SourcePort string `json:"source_port"`
	TargetID   string `json:"target_processor_id"`
	TargetPort string `json:"target_port"`
	State      string `json:"state"`
	Capacity   int    `json:"capacity"`
	Fill       int    `json:"fill,omitempty"`
	DropCount  uint64 `json:"drop_count,omitempty"`
}

// GraphView is a point-in-time JSON view of the whole graph.
type GraphView struct {
	State      string          `json:"state"`
	Processors []ProcessorView `json:"processors"`
	Links      []LinkView      `json:"links"`
}

func portView(ports []graph.Port) []PortView {
	out := make([]PortView, 0, len(ports))
	for _, p := range ports {
		out = append(out, PortView{Name: p.Name, Schema: p.Schema})
	}
	return out
}

func processorView(c *compiler.Compiler, n *graph.ProcessorNode) ProcessorView {
	hint := c.Scheduling(n)
	return ProcessorView{
		ID:            n.ID,
		ProcessorType: n.ProcessorType,
		State:         n.State.String(),
		Config:        n.Config,
		Priority:      hint.Priority.String(),
		ThreadName:    hint.Name,
		Inputs:        portView(n.Inputs),
		Outputs:       portView(n.Outputs),
	}
}

func linkView(c *compiler.Compiler, l *graph.Link) LinkView {
	v := LinkView{
		ID:         l.ID,
		SourceID:   l.Source.ProcessorID,
		SourcePort: l.Source.PortName,
		TargetID:   l.Target.ProcessorID,
		TargetPort: l.Target.PortName,
		State:      l.State.String(),
		Capacity:   l.Capacity,
	}
	if stats, ok := c.Stats(l); ok {
		v.Fill = stats.Fill
		v.DropCount = stats.DropCount
	}
	return v
}

// Snapshot takes a consistent read-only view of c's graph.
func Snapshot(c *compiler.Compiler) GraphView {
	snap := c.Graph().Snapshot()
	view := GraphView{
		State:      snap.State.String(),
		Processors: make([]ProcessorView, 0, len(snap.Nodes)),
		Links:      make([]LinkView, 0, len(snap.Edges)),
	}
	for _, n := range snap.Nodes {
		view.Processors = append(view.Processors, processorView(c, n))
	}
	for _, e := range snap.Edges {
		view.Links = append(view.Links, linkView(c, e))
	}
	return view
}

// Processor returns the observable view of one processor, if present.
func Processor(c *compiler.Compiler, processorID string) (ProcessorView, bool) {
	n, ok := c.Graph().Processor(processorID)
	if !ok {
		return ProcessorView{}, false
	}
	return processorView(c, n), true
}

// Link returns the observable view of one link, if present.
func Link(c *compiler.Compiler, linkID string) (LinkView, bool) {
	l, ok := c.Graph().LinkByID(linkID)
	if !ok {
		return LinkView{}, false
	}
	return linkView(c, l), true
}
