package mcp

import (
	"context"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/davrenn/flowdraft/internal/pipeline"
	"github.com/davrenn/flowdraft/pkg/schema"
)

// FlowdraftServerDeps holds the dependencies for creating a FlowdraftServer.
type FlowdraftServerDeps struct {
	Converter *pipeline.Converter
	Logger    *slog.Logger
}

// FlowdraftServer wraps an MCP server with flowdraft-specific tool handlers.
type FlowdraftServer struct {
	converter *pipeline.Converter
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewFlowdraftServer creates a new FlowdraftServer with both tools registered.
func NewFlowdraftServer(deps FlowdraftServerDeps) *FlowdraftServer {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	s := &FlowdraftServer{
		converter: deps.Converter,
		logger:    logger,
	}

	mcpSrv := server.NewMCPServer(
		"flowdraft",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithInstructions("Flowdraft converts free-text process descriptions into Mermaid flowchart documents. Use flowdraft.generate to convert a description and flowdraft.validate to check or repair an existing diagram."),
	)

	mcpSrv.AddTools(s.tools()...)
	s.mcpServer = mcpSrv
	return s
}

// Serve starts the stdio transport and blocks until ctx is cancelled or stdin closes.
func (s *FlowdraftServer) Serve(ctx context.Context) error {
	stdio := server.NewStdioServer(s.mcpServer)
	return stdio.Listen(ctx, os.Stdin, os.Stdout)
}

// MCPServer returns the underlying MCPServer for testing or custom transports.
func (s *FlowdraftServer) MCPServer() *server.MCPServer {
	return s.mcpServer
}

func (s *FlowdraftServer) tools() []server.ServerTool {
	return []server.ServerTool{
		{Tool: generateTool(), Handler: s.handleGenerate},
		{Tool: validateTool(), Handler: s.handleValidate},
	}
}

// --- Tool definitions ---

func generateTool() mcp.Tool {
	return mcp.NewTool("flowdraft.generate",
		mcp.WithDescription("Convert a free-text process description into a Mermaid diagram document"),
		mcp.WithString("text", mcp.Required(), mcp.Description("Process description in plain English")),
		mcp.WithString("diagram_type",
			mcp.Enum(string(schema.DiagramTypeFlowchart), string(schema.DiagramTypeSequence),
				string(schema.DiagramTypeClass), string(schema.DiagramTypeUseCase)),
			mcp.Description("Diagram type (default: flowchart)"),
		),
	)
}

func validateTool() mcp.Tool {
	return mcp.NewTool("flowdraft.validate",
		mcp.WithDescription("Validate a Mermaid diagram document, returning a repaired document when it is malformed"),
		mcp.WithString("diagram", mcp.Required(), mcp.Description("Mermaid diagram source to check")),
	)
}
