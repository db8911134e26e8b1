package graph

// NodeKind classifies a flowchart node.
type NodeKind string

const (
	KindStart    NodeKind = "start"
	KindProcess  NodeKind = "process"
	KindDecision NodeKind = "decision"
	KindEnd      NodeKind = "end"
)

// NodeID is an arena index into Graph.Nodes. Identity is internal; the
// letter label shown in the emitted document is derived from creation order
// only at emission time.
type NodeID int

// Node is a single flowchart step.
type Node struct {
	ID    NodeID
	Kind  NodeKind
	Label string
}

// Edge is a directed connection between two nodes. Label is set only on
// edges leaving a decision node ("Yes"/"No").
type Edge struct {
	From  NodeID
	To    NodeID
	Label string
}

// Graph is one flowchart under construction or ready for emission. Nodes are
// stored in creation order; NodeID i addresses Nodes[i].
type Graph struct {
	Nodes []Node
	Edges []Edge
}

// Letter returns the presentation identifier for a node: A..Z, then AA, AB…
// Identifiers are strictly increasing in creation order and never reused.
func (g *Graph) Letter(id NodeID) string {
	n := int(id)
	label := ""
	for {
		label = string(rune('A'+n%26)) + label
		n = n/26 - 1
		if n < 0 {
			return label
		}
	}
}

// node appends a node and returns its arena index.
func (g *Graph) node(kind NodeKind, label string) NodeID {
	id := NodeID(len(g.Nodes))
	g.Nodes = append(g.Nodes, Node{ID: id, Kind: kind, Label: label})
	return id
}

// edge appends a directed edge.
func (g *Graph) edge(from, to NodeID, label string) {
	g.Edges = append(g.Edges, Edge{From: from, To: to, Label: label})
}
