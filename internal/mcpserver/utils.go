package mcpserver

import (
	"fmt"

	"github.com/nowserver/internal/logging"
	"github.com/nowserver/internal/version"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// Version is imported from the version package
var Version = version.Version

// SetupLogger creates and configures a logger for an MCP server
func SetupLogger(name string, pid int) (*logrus.Logger, error) {
	log, err := logging.NewLogger(name, pid)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return log.Logger, nil
}

// CreateAndRunServer creates an MCP server, registers the handler's
// capabilities, and serves requests over stdio
func CreateAndRunServer(handler MCPServerHandler) error {
	s := NewServer(handler.Name(), Version)

	// All registration happens here, before the first request is read
	if err := handler.Initialize(s); err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	if err := s.ServeStdio(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// NewCliApp creates a new CLI app for an MCP server
func NewCliApp(handler MCPServerHandler, flags []cli.Flag, action cli.ActionFunc) *cli.App {
	app := &cli.App{
		Name:    handler.Name(),
		Usage:   fmt.Sprintf("%s MCP server", handler.Name()),
		Version: Version,
		Flags:   flags,
	}

	// If no custom action is provided, use the default action
	if action == nil {
		action = DefaultAction(handler)
	}

	app.Action = action
	return app
}

// DefaultAction returns the default CLI action for an MCP server
func DefaultAction(handler MCPServerHandler) cli.ActionFunc {
	return func(c *cli.Context) error {
		return CreateAndRunServer(handler)
	}
}
