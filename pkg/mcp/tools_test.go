package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davrenn/flowdraft/internal/pipeline"
)

func newTestServer(t *testing.T) *FlowdraftServer {
	t.Helper()
	converter, err := pipeline.NewConverter(pipeline.ConverterDeps{})
	require.NoError(t, err)
	return NewFlowdraftServer(FlowdraftServerDeps{Converter: converter})
}

func buildRequest(toolName string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      toolName,
			Arguments: args,
		},
	}
}

func extractText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	return mcp.GetTextFromContent(result.Content[0])
}

func unmarshalResult(t *testing.T, result *mcp.CallToolResult, target any) {
	t.Helper()
	require.NoError(t, json.Unmarshal([]byte(extractText(t, result)), target))
}

func TestGenerateTool(t *testing.T) {
	s := newTestServer(t)

	req := buildRequest("flowdraft.generate", map[string]any{
		"text": "collect data, validate input, save results",
	})

	result, err := s.handleGenerate(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.IsError)

	var payload struct {
		Diagram string `json:"diagram"`
		Source  string `json:"source"`
	}
	unmarshalResult(t, result, &payload)
	assert.Contains(t, payload.Diagram, "graph TD")
	assert.Equal(t, "local", payload.Source)
}

func TestGenerateToolMissingText(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleGenerate(context.Background(),
		buildRequest("flowdraft.generate", map[string]any{}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestGenerateToolEmptyText(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleGenerate(context.Background(),
		buildRequest("flowdraft.generate", map[string]any{"text": "   "}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, extractText(t, result), "EMPTY_INPUT")
}

func TestGenerateToolUnknownDiagramType(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleGenerate(context.Background(),
		buildRequest("flowdraft.generate", map[string]any{
			"text":         "do something",
			"diagram_type": "gantt",
		}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestValidateToolAcceptsValid(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleValidate(context.Background(),
		buildRequest("flowdraft.validate", map[string]any{
			"diagram": "graph TD\n    A[\"Start\"] --> B[\"End\"]\n",
		}))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	var payload struct {
		Valid bool `json:"valid"`
	}
	unmarshalResult(t, result, &payload)
	assert.True(t, payload.Valid)
}

func TestValidateToolRepairsInvalid(t *testing.T) {
	s := newTestServer(t)

	// No orientation header, so validation fails and repair substitutes
	// the minimal document.
	result, err := s.handleValidate(context.Background(),
		buildRequest("flowdraft.validate", map[string]any{
			"diagram": "A --> B\n",
		}))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	var payload struct {
		Valid    bool   `json:"valid"`
		Repaired string `json:"repaired"`
	}
	unmarshalResult(t, result, &payload)
	assert.False(t, payload.Valid)
	assert.Contains(t, payload.Repaired, "graph TD")
}

func TestValidateToolMissingDiagram(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleValidate(context.Background(),
		buildRequest("flowdraft.validate", map[string]any{}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}
