package mcpserver

// MCPServerHandler defines the interface for MCP server implementations
type MCPServerHandler interface {
	// Initialize registers all tools, prompts, and resources on the
	// server. It runs exactly once, before any request is served.
	Initialize(s *Server) error

	// Name returns the display name of the server
	Name() string
}
