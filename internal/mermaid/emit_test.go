package mermaid

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davrenn/flowdraft/internal/graph"
)

func TestRenderLinear(t *testing.T) {
	b := graph.NewBuilder()
	b.Step("Collect User Data")
	b.Step("Validate Input")
	doc := Render(b.Finish())

	lines := strings.Split(strings.TrimRight(doc, "\n"), "\n")
	require.Len(t, lines, 9)

	assert.Equal(t, "graph TD", lines[0])
	assert.Equal(t, `    A(["Start"])`, lines[1])
	assert.Equal(t, `    B["Collect User Data"]`, lines[2])
	assert.Equal(t, `    C["Validate Input"]`, lines[3])
	assert.Equal(t, `    D(["End"])`, lines[4])
	assert.Equal(t, "    A --> B", lines[5])
	assert.Equal(t, "    B --> C", lines[6])
	assert.Equal(t, "    C --> D", lines[7])
	assert.Contains(t, lines[8], "classDef default")
}

func TestRenderBranch(t *testing.T) {
	b := graph.NewBuilder()
	b.Branch("Is credentials valid?", "Grant Access", "Show Error")
	doc := Render(b.Finish())

	assert.Contains(t, doc, `B{"Is credentials valid?"}`)
	assert.Contains(t, doc, "B -->|Yes| C")
	assert.Contains(t, doc, "B -->|No| D")
	require.NoError(t, Validate(doc))
}

func TestRenderDeterministic(t *testing.T) {
	build := func() string {
		b := graph.NewBuilder()
		b.Step("One")
		b.Branch("Ready?", "Go", "")
		return Render(b.Finish())
	}
	assert.Equal(t, build(), build())
}

func TestRenderEscapesLabels(t *testing.T) {
	b := graph.NewBuilder()
	b.Step("Say \"hello\"\nworld")
	doc := Render(b.Finish())

	assert.Contains(t, doc, `B["Say 'hello' world"]`)
	assert.NotContains(t, doc, "\"hello\"")
}

func TestRenderOutputValidates(t *testing.T) {
	b := graph.NewBuilder()
	b.Step("Only Step")
	require.NoError(t, Validate(Render(b.Finish())))
}
