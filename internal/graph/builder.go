package graph

import (
	"github.com/davrenn/flowdraft/pkg/schema"
)

// Label defaults used when a branch or terminal phrase is absent.
const (
	defaultElseLabel  = "Handle Failure"
	defaultMergeLabel = "Continue"
	startLabel        = "Start"
	endLabel          = "End"
)

// Builder assembles one flowchart Graph. A Start node is created up front;
// Step and Branch extend the chain from the current tail; Finish appends the
// End node. Edges only ever point at nodes created at or after the current
// tail, so the result is a DAG by construction.
type Builder struct {
	g        *Graph
	tail     NodeID
	finished bool
}

// NewBuilder creates a Builder whose graph already holds the Start node.
func NewBuilder() *Builder {
	g := &Graph{}
	start := g.node(KindStart, startLabel)
	return &Builder{g: g, tail: start}
}

// Step appends one process node connected from the current tail.
func (b *Builder) Step(label string) NodeID {
	id := b.g.node(KindProcess, label)
	b.g.edge(b.tail, id, "")
	b.tail = id
	return id
}

// Branch appends a decision node with labeled Yes/No arms. The else arm
// defaults to a generic failure handler when the phrase is absent. Both arms
// converge on a freshly created merge node, which becomes the new tail.
func (b *Builder) Branch(condition, thenLabel, elseLabel string) NodeID {
	if elseLabel == "" {
		elseLabel = defaultElseLabel
	}

	decision := b.g.node(KindDecision, condition)
	b.g.edge(b.tail, decision, "")

	thenNode := b.g.node(KindProcess, thenLabel)
	b.g.edge(decision, thenNode, "Yes")

	elseNode := b.g.node(KindProcess, elseLabel)
	b.g.edge(decision, elseNode, "No")

	merge := b.g.node(KindProcess, defaultMergeLabel)
	b.g.edge(thenNode, merge, "")
	b.g.edge(elseNode, merge, "")

	b.tail = merge
	return decision
}

// Finish appends the End node and returns the completed graph. Calling
// Finish twice returns the same graph without growing it.
func (b *Builder) Finish() *Graph {
	if !b.finished {
		end := b.g.node(KindEnd, endLabel)
		b.g.edge(b.tail, end, "")
		b.tail = end
		b.finished = true
	}
	return b.g
}

// Validate checks the structural invariants of a finished graph: exactly one
// Start and one End, every non-Start node has an inbound edge, every non-End
// node has an outbound edge, and edges never point backwards at the node
// they leave from.
func (g *Graph) Validate() error {
	starts, ends := 0, 0
	inbound := make(map[NodeID]int, len(g.Nodes))
	outbound := make(map[NodeID]int, len(g.Nodes))

	for _, n := range g.Nodes {
		switch n.Kind {
		case KindStart:
			starts++
		case KindEnd:
			ends++
		}
	}
	if starts != 1 {
		return schema.NewErrorf(schema.ErrCodeInvalidDocument, "graph has %d start nodes", starts)
	}
	if ends != 1 {
		return schema.NewErrorf(schema.ErrCodeInvalidDocument, "graph has %d end nodes", ends)
	}

	for _, e := range g.Edges {
		if e.To <= e.From {
			return schema.NewErrorf(schema.ErrCodeInvalidDocument,
				"edge %d -> %d points backwards", e.From, e.To)
		}
		inbound[e.To]++
		outbound[e.From]++
	}

	for _, n := range g.Nodes {
		if n.Kind != KindStart && inbound[n.ID] == 0 {
			return schema.NewErrorf(schema.ErrCodeInvalidDocument,
				"node %s has no inbound edge", g.Letter(n.ID))
		}
		if n.Kind != KindEnd && outbound[n.ID] == 0 {
			return schema.NewErrorf(schema.ErrCodeInvalidDocument,
				"node %s has no outbound edge", g.Letter(n.ID))
		}
	}
	return nil
}
