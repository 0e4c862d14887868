// ABOUTME: MCP server implementation for agileflow
// ABOUTME: Provides tools and resources for AI assistants to work with the knowledge graph
package mcp

import (
	"context"
	"os"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/smian0/mcp-agile-flow-sub001/internal/config"
	"github.com/smian0/mcp-agile-flow-sub001/internal/logging"
)

// Server wraps the MCP server with agileflow-specific functionality.
type Server struct {
	mcpServer *mcp.Server
	dbPath    string
	tools     []ToolInfo
}

// ToolInfo describes a registered tool for introspection.
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// NewServer creates a new agileflow MCP server backed by the database at dbPath.
func NewServer(dbPath string) *Server {
	impl := &mcp.Implementation{
		Name:    "agile-flow",
		Version: "0.3.0",
	}

	server := &Server{
		mcpServer: mcp.NewServer(impl, nil),
		dbPath:    dbPath,
	}

	// Register components
	server.registerPrompts()
	server.registerTools()
	server.registerResources()

	return server
}

// Run starts the MCP server with stdio transport.
func (s *Server) Run(ctx context.Context) error {
	transport := &mcp.StdioTransport{}
	return s.mcpServer.Run(ctx, transport)
}

// Tools returns the registered tool list, for the `agileflow tools` command.
func (s *Server) Tools() []ToolInfo {
	return s.tools
}

// logEvent appends a graph mutation to the project activity log when the
// nearest .agileflow opts in. Logging failures never fail the tool call.
func (s *Server) logEvent(action, entity, detail string) {
	cwd, err := os.Getwd()
	if err != nil {
		return
	}
	projectRoot, err := config.FindProjectRoot(cwd)
	if err != nil || projectRoot == "" {
		return
	}
	cfg, err := config.LoadProjectConfig(filepath.Join(projectRoot, config.MarkerFile))
	if err != nil || !cfg.LocalLogging {
		return
	}

	logDir := filepath.Join(projectRoot, cfg.LogDir)
	_ = logging.WriteProjectLog(logDir, cfg.LogFormat, logging.Event{
		Action: action,
		Entity: entity,
		Detail: detail,
	})
}
