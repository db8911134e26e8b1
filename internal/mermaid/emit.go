package mermaid

import (
	"fmt"
	"strings"

	"github.com/davrenn/flowdraft/internal/graph"
)

// Header is the orientation declaration every emitted document opens with.
const Header = "graph TD"

// defaultStyle is the style directive appended to every emitted document.
const defaultStyle = "    classDef default fill:#f9f9f9,stroke:#333,stroke-width:2px"

// Render serializes a graph deterministically: header, one node line per
// node in creation order, one edge line per edge in creation order, then the
// default style directive. Re-rendering the same graph yields byte-identical
// output.
func Render(g *graph.Graph) string {
	var b strings.Builder

	b.WriteString(Header + "\n")

	for _, n := range g.Nodes {
		b.WriteString("    " + nodeDef(g, n) + "\n")
	}

	for _, e := range g.Edges {
		if e.Label != "" {
			fmt.Fprintf(&b, "    %s -->|%s| %s\n", g.Letter(e.From), e.Label, g.Letter(e.To))
		} else {
			fmt.Fprintf(&b, "    %s --> %s\n", g.Letter(e.From), g.Letter(e.To))
		}
	}

	b.WriteString(defaultStyle + "\n")
	return b.String()
}

// nodeDef returns a node definition line with the shape token for its kind:
// rounded terminal for Start/End, diamond for Decision, rectangle otherwise.
func nodeDef(g *graph.Graph, n graph.Node) string {
	id := g.Letter(n.ID)
	label := escapeLabel(n.Label)

	switch n.Kind {
	case graph.KindStart, graph.KindEnd:
		return fmt.Sprintf("%s([\"%s\"])", id, label)
	case graph.KindDecision:
		return fmt.Sprintf("%s{\"%s\"}", id, label)
	default:
		return fmt.Sprintf("%s[\"%s\"]", id, label)
	}
}

// escapeLabel keeps labels on one line and free of the quote character that
// delimits them.
func escapeLabel(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, `"`, "'")
	return strings.TrimSpace(s)
}
