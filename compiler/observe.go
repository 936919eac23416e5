package compiler

import "github.com/tatolab/streamlib/graph"

// LinkStats is a point-in-time read of one Wired link's ring-buffer
// occupancy.
type LinkStats struct {
	Fill      int
	Capacity  int
	DropCount uint64
}

// Stats reads the current ring-buffer stats for a link, if it has been
// Wired (has a live linkInstanceComponent). Safe to call concurrently
// with the compile loop: component storage is read-locked internally
// by the graph.
func (c *Compiler) Stats(l *graph.Link) (LinkStats, bool) {
	lc, ok := graph.GetComponent[linkInstanceComponent](l.Components())
	if !ok {
		return LinkStats{}, false
	}
	return LinkStats{
		Fill:      lc.Handle.Fill(),
		Capacity:  lc.Handle.Capacity(),
		DropCount: lc.Handle.DropCount(),
	}, true
}
