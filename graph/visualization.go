package graph

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Rendered as a processor/port/link summary table with lipgloss rather
// than a Mermaid diagram, since StreamLib's "graph" is runtime
// transport topology rather than a control-flow diagram meant for a
// browser.

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	stateStyles = map[ProcessorState]lipgloss.Style{
		ProcessorRunning: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		ProcessorFailed:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		ProcessorPaused:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	}
	linkStateStyles = map[LinkState]lipgloss.Style{
		LinkWired:         lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		LinkError:         lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		LinkDisconnecting: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	}
)

func styledProcessorState(s ProcessorState) string {
	if st, ok := stateStyles[s]; ok {
		return st.Render(s.String())
	}
	return s.String()
}

func styledLinkState(s LinkState) string {
	if st, ok := linkStateStyles[s]; ok {
		return st.Render(s.String())
	}
	return s.String()
}

// Inspect renders a human-readable summary of the traversal's selected
// processors: id, type, state, and ports. Intended for debugging and
// CLI tooling, not for programmatic consumption.
func (t *VertexTraversal) Inspect() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("Processors (%d)", len(t.nodes))))
	b.WriteString("\n")
	for _, n := range t.nodes {
		fmt.Fprintf(&b, "  %s  %-24s %s\n", n.ID, n.ProcessorType, styledProcessorState(n.State))
		for _, p := range n.Inputs {
			fmt.Fprintf(&b, "      in  %-16s %s\n", p.Name, p.Schema)
		}
		for _, p := range n.Outputs {
			fmt.Fprintf(&b, "      out %-16s %s\n", p.Name, p.Schema)
		}
	}
	return b.String()
}

// Inspect renders a human-readable summary of the traversal's selected
// links: id, source, target, state.
func (t *EdgeTraversal) Inspect() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("Links (%d)", len(t.edges))))
	b.WriteString("\n")
	for _, e := range t.edges {
		fmt.Fprintf(&b, "  %s  %s:%s -> %s:%s  cap=%d  %s\n",
			e.ID, e.Source.ProcessorID, e.Source.PortName,
			e.Target.ProcessorID, e.Target.PortName, e.Capacity, styledLinkState(e.State))
	}
	return b.String()
}

// Inspect renders the whole graph: state header followed by processor
// and link summaries.
func (g *Graph) Inspect() string {
	snap := g.Snapshot()
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", headerStyle.Render(fmt.Sprintf("Graph [%s]", snap.State)))
	vt := &VertexTraversal{nodes: snap.Nodes}
	et := &EdgeTraversal{edges: snap.Edges}
	b.WriteString(vt.Inspect())
	b.WriteString(et.Inspect())
	return b.String()
}
