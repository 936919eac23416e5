package compiler

import (
	"context"

	"github.com/tatolab/streamlib/graph"
	streamliblog "github.com/tatolab/streamlib/log"
	"github.com/tatolab/streamlib/processor"
)

// stopProcessor signals cooperative shutdown, calls Stop on a running
// Manual processor, joins the processor's goroutine, runs Teardown, and
// strips its runtime components. Safe to call on a processor with no running goroutine
// (e.g. one that failed Setup).
func (c *Compiler) stopProcessor(ctx context.Context, node *graph.ProcessorNode) {
	_ = c.g.SetProcessorState(node.ID, graph.ProcessorStopping)

	sc, hasShutdown := graph.GetComponent[shutdownComponent](node.Components())
	th, hasThread := graph.GetComponent[threadHandleComponent](node.Components())
	ic, hasInstance := graph.GetComponent[instanceComponent](node.Components())
	if hasShutdown {
		sc.cancel()
	}
	if hasThread && hasInstance {
		if mp, ok := ic.Instance.(processor.ManualProcessor); ok {
			if err := mp.Stop(ctx); err != nil {
				streamliblog.GetDefaultLogger().Warn("compiler: %s stop error: %v", node.ID, err)
			}
		}
	}
	if hasThread {
		<-th.done
	}

	if hasInstance {
		if lc, ok := ic.Instance.(processor.Lifecycle); ok {
			if err := lc.Teardown(ctx); err != nil {
				streamliblog.GetDefaultLogger().Warn("compiler: %s teardown error: %v", node.ID, err)
			}
		}
	}

	graph.RemoveComponent[shutdownComponent](node.Components())
	graph.RemoveComponent[threadHandleComponent](node.Components())
	graph.RemoveComponent[wakeupComponent](node.Components())
	graph.RemoveComponent[execConfigComponent](node.Components())
	graph.RemoveComponent[instanceComponent](node.Components())

	_ = c.g.SetProcessorState(node.ID, graph.ProcessorStopped)
}

// Shutdown tears down every running processor in reverse dependency
// order — sinks (no outbound links) stop first, sources last — then
// removes every remaining link and processor from the graph. It
// does not itself enforce a timeout; callers that require bounded
// shutdown should derive ctx with their own deadline.
func (c *Compiler) Shutdown(ctx context.Context) error {
	snap := c.g.Snapshot()
	order := reverseDependencyOrder(snap)
	for _, node := range order {
		c.stopProcessor(ctx, node)
	}
	for _, e := range snap.Edges {
		_ = c.g.RemoveE(e.ID)
	}
	for _, n := range snap.Nodes {
		_ = c.g.RemoveV(n.ID)
	}
	c.g.SetState(graph.GraphIdle)
	return nil
}

// reverseDependencyOrder orders nodes so that sinks (nodes with no
// outbound links, whatever their state) are torn down before the sources feeding them,
// via a simple Kahn's-algorithm topological sort over the reversed
// edge relation.
func reverseDependencyOrder(snap graph.Snapshot) []*graph.ProcessorNode {
	outDegree := make(map[string]int, len(snap.Nodes))
	dependents := make(map[string][]string)
	byID := make(map[string]*graph.ProcessorNode, len(snap.Nodes))
	for _, n := range snap.Nodes {
		outDegree[n.ID] = 0
		byID[n.ID] = n
	}
	for _, e := range snap.Edges {
		if _, ok := byID[e.Source.ProcessorID]; !ok {
			continue
		}
		if _, ok := byID[e.Target.ProcessorID]; !ok {
			continue
		}
		outDegree[e.Source.ProcessorID]++
		dependents[e.Target.ProcessorID] = append(dependents[e.Target.ProcessorID], e.Source.ProcessorID)
	}

	var queue []string
	for id, deg := range outDegree {
		if deg == 0 {
			queue = append(queue, id)
		}
	}

	var order []*graph.ProcessorNode
	visited := make(map[string]bool)
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if visited[id] {
			continue
		}
		visited[id] = true
		order = append(order, byID[id])
		for _, dep := range dependents[id] {
			outDegree[dep]--
			if outDegree[dep] == 0 {
				queue = append(queue, dep)
			}
		}
	}
	// Any node left unvisited (a cycle, which the graph's link
	// legality rules don't prevent at the port level) is appended in
	// snapshot order so teardown still makes progress.
	for _, n := range snap.Nodes {
		if !visited[n.ID] {
			order = append(order, n)
		}
	}
	return order
}
