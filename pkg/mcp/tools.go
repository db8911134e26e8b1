package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/davrenn/flowdraft/internal/mermaid"
	"github.com/davrenn/flowdraft/pkg/schema"
)

// handleGenerate converts a description into a diagram document.
func (s *FlowdraftServer) handleGenerate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text is required"), nil
	}
	diagramType := schema.DiagramType(req.GetString("diagram_type", string(schema.DiagramTypeFlowchart)))
	if !diagramType.Valid() {
		return mcp.NewToolResultError(fmt.Sprintf("unknown diagram type %q", diagramType)), nil
	}

	result, convErr := s.converter.Convert(ctx, text, diagramType)
	if convErr != nil {
		return mcp.NewToolResultError(convErr.Error()), nil
	}

	s.logger.InfoContext(ctx, "mcp generate served",
		slog.String("type", string(diagramType)),
		slog.String("source", string(result.Source)))

	payload := map[string]any{
		"diagram": result.Document,
		"source":  string(result.Source),
	}
	if result.Warning != nil {
		payload["warning"] = result.Warning
	}
	return jsonResult(payload)
}

// handleValidate checks a document, repairing it when malformed.
func (s *FlowdraftServer) handleValidate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	diagram, err := req.RequireString("diagram")
	if err != nil {
		return mcp.NewToolResultError("diagram is required"), nil
	}

	if vErr := mermaid.Validate(diagram); vErr == nil {
		return jsonResult(map[string]any{"valid": true})
	}

	repaired := mermaid.Clean(diagram)
	return jsonResult(map[string]any{
		"valid":    false,
		"repaired": repaired,
	})
}

func jsonResult(payload any) (*mcp.CallToolResult, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(raw)), nil
}
