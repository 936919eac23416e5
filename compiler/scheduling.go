package compiler

import (
	"strings"

	"github.com/tatolab/streamlib/graph"
	"github.com/tatolab/streamlib/processor"
)

// schedulingOverride is an optional component attached to a processor
// node to override the type-tag heuristic below.
type schedulingOverride struct {
	Hint processor.ThreadHint
}

// classifyPriority maps a processor type name to a default thread
// priority by matching substrings of its type tag against the
// well-known capture/display/codec families.
func classifyPriority(processorType string) processor.Priority {
	lower := strings.ToLower(processorType)
	switch {
	case strings.Contains(lower, "audio"):
		return processor.PriorityRealTime
	case strings.Contains(lower, "camera"), strings.Contains(lower, "display"):
		return processor.PriorityHigh
	case strings.Contains(lower, "encoder"), strings.Contains(lower, "decoder"),
		strings.Contains(lower, "h264"), strings.Contains(lower, "h265"), strings.Contains(lower, "h26"):
		return processor.PriorityHigh
	default:
		return processor.PriorityNormal
	}
}

// threadHintFor resolves the thread hint for a node: an explicit
// schedulingOverride component wins; otherwise the type-tag
// heuristic applies.
func threadHintFor(node *graph.ProcessorNode) processor.ThreadHint {
	if override, ok := graph.GetComponent[schedulingOverride](node.Components()); ok {
		return override.Hint
	}
	return processor.ThreadHint{Priority: classifyPriority(node.ProcessorType), Name: node.ProcessorType}
}

// OverrideScheduling attaches an explicit thread-priority override to
// a processor node, bypassing the type-tag heuristic for it. Called
// from AddProcessor when a ProcessorSpec carries a SchedulingOverride,
// and available for callers that already hold a *graph.ProcessorNode.
func OverrideScheduling(node *graph.ProcessorNode, hint processor.ThreadHint) {
	graph.SetComponent(node.Components(), schedulingOverride{Hint: hint})
}

// Scheduling returns the thread hint spawnExecution would resolve for
// n right now: an explicit override if one is attached, otherwise the
// type-tag heuristic. Exposed so observability and diagnostics callers
// outside the compile loop can read the same value the scheduler acts
// on.
func (c *Compiler) Scheduling(n *graph.ProcessorNode) processor.ThreadHint {
	return threadHintFor(n)
}
