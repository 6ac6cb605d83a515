package mcp

import (
	"sync"

	"github.com/mark3labs/mcp-go/server"

	"github.com/govlens/govchat/internal/assistant"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes governance assistant tools.
// Stdio carries one client session, so a single routing context persists
// across ask_governance calls and follow-up questions resolve against it.
type Server struct {
	engine  *assistant.Engine
	backend assistant.Backend
	mcp     *server.MCPServer

	mu   sync.Mutex
	rctx assistant.Context
}

// NewServer creates a new MCP server over the assistant engine and the
// governance backend it routes to.
func NewServer(engine *assistant.Engine, backend assistant.Backend) *Server {
	s := &Server{
		engine:  engine,
		backend: backend,
	}

	s.mcp = server.NewMCPServer(
		"govchat",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(askGovernanceTool, s.handleAskGovernance)
	s.mcp.AddTool(searchAssetsTool, s.handleSearchAssets)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
