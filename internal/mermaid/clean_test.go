package mermaid

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanPassesThroughWellFormed(t *testing.T) {
	doc := "graph TD\n    A[\"Start\"] --> B[\"End\"]\n"
	assert.Equal(t, doc, Clean(doc))
}

func TestCleanStripsCodeFences(t *testing.T) {
	doc := "```mermaid\ngraph TD\n    A[\"Start\"] --> B[\"End\"]\n```\n"
	got := Clean(doc)

	assert.NotContains(t, got, "```")
	assert.True(t, strings.HasPrefix(got, "graph TD"))
	assert.NoError(t, Validate(got))
}

func TestCleanStripsDecorations(t *testing.T) {
	doc := "graph TD\n    • A[\"Start\"] --> B[\"End\"] 🎉\n"
	got := Clean(doc)

	assert.NotContains(t, got, "•")
	assert.NotContains(t, got, "🎉")
	assert.Contains(t, got, "A[\"Start\"] --> B[\"End\"]")
}

func TestCleanCollapsesBlankLines(t *testing.T) {
	doc := "graph TD\n\n\n\n    A --> B\n\n\n    B --> C\n"
	got := Clean(doc)

	// At most one blank line survives, and only right after the header.
	assert.NotContains(t, got, "\n\n\n")
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	assert.Equal(t, "graph TD", lines[0])
	assert.Equal(t, "", lines[1])
	assert.Equal(t, "    A --> B", lines[2])
	assert.Equal(t, "    B --> C", lines[3])
}

func TestCleanKeepsPostHeaderBlankAfterStrippedLines(t *testing.T) {
	// A stripped leading blank line shifts the header down; the blank
	// after the header is still the one that survives.
	doc := "\ngraph TD\n\n    A --> B\n"
	got := Clean(doc)

	assert.Equal(t, "graph TD\n\n    A --> B\n", got)
	assert.Equal(t, got, Clean(got))
}

func TestCleanKeepsPostHeaderBlankAfterFence(t *testing.T) {
	doc := "```mermaid\ngraph TD\n\n    A --> B\n```\n"
	got := Clean(doc)

	assert.Equal(t, "graph TD\n\n    A --> B\n", got)
}

func TestCleanSubstitutesFallbackWhenUnsalvageable(t *testing.T) {
	for _, doc := range []string{
		"",
		"this is not a diagram at all",
		"flowchart TD\n    A --> B\n", // wrong header keyword
		"🎉🎉🎉",
	} {
		assert.Equal(t, FallbackDocument, Clean(doc), "input %q", doc)
	}
}

func TestCleanIdempotent(t *testing.T) {
	inputs := []string{
		"graph TD\n    A[\"Start\"] --> B[\"End\"]\n",
		"```mermaid\ngraph TD\n\n\n    A --> B\n```",
		"garbage input",
		FallbackDocument,
	}
	for _, doc := range inputs {
		once := Clean(doc)
		twice := Clean(once)
		assert.Equal(t, once, twice, "input %q", doc)
	}
}

func TestCleanFallbackDocumentValidates(t *testing.T) {
	require.NoError(t, Validate(FallbackDocument))
	assert.Equal(t, FallbackDocument, Clean(FallbackDocument))
}
