package compiler

import (
	"context"

	"github.com/tatolab/streamlib/graph"
	"github.com/tatolab/streamlib/processor"
)

func (c *Compiler) isPaused() bool { return c.paused.Load() }

// Pause suspends every running processor's execution discipline: a
// Reactive processor's wakeup channel is not consumed and a Continuous
// processor's loop yields without calling Process; link instances are
// retained.
func (c *Compiler) Pause(ctx context.Context) error {
	c.paused.Store(true)
	for _, node := range c.g.V() {
		if node.State != graph.ProcessorRunning {
			continue
		}
		ic, ok := graph.GetComponent[instanceComponent](node.Components())
		if !ok {
			continue
		}
		if p, ok := ic.Instance.(processor.Pauser); ok {
			if err := p.OnPause(ctx); err != nil {
				return err
			}
		}
		_ = c.g.SetProcessorState(node.ID, graph.ProcessorPaused)
	}
	c.g.SetState(graph.GraphPaused)
	return nil
}

// Resume is the symmetric counterpart to Pause.
func (c *Compiler) Resume(ctx context.Context) error {
	for _, node := range c.g.V() {
		if node.State != graph.ProcessorPaused {
			continue
		}
		ic, ok := graph.GetComponent[instanceComponent](node.Components())
		if !ok {
			continue
		}
		if p, ok := ic.Instance.(processor.Pauser); ok {
			if err := p.OnResume(ctx); err != nil {
				return err
			}
		}
		_ = c.g.SetProcessorState(node.ID, graph.ProcessorRunning)
	}
	c.paused.Store(false)
	c.g.SetState(graph.GraphRunning)
	return nil
}
