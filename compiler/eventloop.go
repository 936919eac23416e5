package compiler

import (
	"context"
	"time"

	"github.com/tatolab/streamlib/graph"
)

// debounceWindow batches a burst of GraphDidChange events into a
// single recompile, so an add_processor immediately followed by
// connect() doesn't trigger two separate compile passes.
const debounceWindow = 5 * time.Millisecond

// Start subscribes to the graph's event bus and begins the background
// compile loop: every GraphDidChange event (debounced) triggers a
// Compile pass over whatever has accumulated in the pending queue.
// AddProcessor/Connect/etc. already enqueue their own operations
// synchronously; Start only needs to notice *that* something changed
// and drain it.
func (c *Compiler) Start(ctx context.Context) {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return
	}
	c.running = true
	changed, unsubscribe := c.g.Events().Subscribe()
	c.unsubscribe = unsubscribe
	c.stopLoop = make(chan struct{})
	c.loopDone = make(chan struct{})
	c.mu.Unlock()

	c.g.SetState(graph.GraphRunning)

	go c.loop(ctx, changed)
}

func (c *Compiler) loop(ctx context.Context, changed <-chan graph.Event) {
	defer close(c.loopDone)
	var timer *time.Timer
	var timerC <-chan time.Time

	armDebounce := func() {
		if timer == nil {
			timer = time.NewTimer(debounceWindow)
			timerC = timer.C
			return
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(debounceWindow)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.stopLoop:
			return
		case _, ok := <-changed:
			if !ok {
				return
			}
			armDebounce()
		case <-timerC:
			if err := c.Compile(ctx); err != nil {
				return
			}
		}
	}
}

// Stop halts the background compile loop. It does not tear down any
// processor; callers that want a full stop should call Shutdown.
func (c *Compiler) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	close(c.stopLoop)
	unsubscribe := c.unsubscribe
	loopDone := c.loopDone
	c.mu.Unlock()

	<-loopDone
	unsubscribe()
}
