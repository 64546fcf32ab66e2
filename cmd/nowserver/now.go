package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/nowserver/internal/config"
	"github.com/nowserver/internal/mcpserver"
	"github.com/sirupsen/logrus"
)

const serverName = "nowserver"

// NowServer implements the MCPServerHandler interface for the clock server
type NowServer struct {
	logger *logrus.Logger
	cfg    *config.Config
}

// NewNowServer creates a new clock server
func NewNowServer() *NowServer {
	return &NowServer{cfg: &config.Config{}}
}

// Name returns the display name of the server
func (s *NowServer) Name() string {
	return serverName
}

// Initialize sets up the server
func (s *NowServer) Initialize(srv *mcpserver.Server) error {
	pid := os.Getpid()
	logger, err := mcpserver.SetupLogger(serverName, pid)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	s.logger = logger

	cfg, err := config.Load(serverName)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	s.cfg = cfg

	s.logger.WithFields(logrus.Fields{
		"pid": pid,
	}).Info("Starting nowserver MCP server")

	if err := s.registerNowTool(srv); err != nil {
		return err
	}
	if err := s.registerNowPrompt(srv); err != nil {
		return err
	}
	if err := s.registerClockResource(srv); err != nil {
		return err
	}

	s.logger.Info("nowserver initialized")
	return nil
}

// registerNowTool registers the now tool
func (s *NowServer) registerNowTool(srv *mcpserver.Server) error {
	nowTool := mcp.NewTool("now",
		mcp.WithDescription("Retrieve the current local time, week of the year, and day of the week."),
		mcp.WithString("timezone",
			mcp.Description("Optional IANA timezone name to report the time in"),
		),
	)

	return srv.AddTool(nowTool, s.handleNow)
}

// handleNow handles the now tool
func (s *NowServer) handleNow(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcpserver.HandleToolRequest(ctx, request, s.currentTime, s.logger)
}

// currentTime builds the time report, honoring an optional timezone argument
func (s *NowServer) currentTime(ctx context.Context, args map[string]interface{}) (string, error) {
	timezone, err := mcpserver.ExtractOptionalStringParam(args, "timezone")
	if err != nil {
		return "", err
	}

	return s.timeInfo(timezone)
}

// timeInfo formats the current time, ISO week number, and day of the
// week as three labelled lines
func (s *NowServer) timeInfo(timezone string) (string, error) {
	if timezone == "" {
		timezone = s.cfg.Timezone
	}

	loc := time.Local
	if timezone != "" {
		l, err := time.LoadLocation(timezone)
		if err != nil {
			return "", fmt.Errorf("unknown timezone %q: %w", timezone, err)
		}
		loc = l
	}

	format := s.cfg.TimeFormat
	if format == "" {
		format = config.DefaultTimeFormat
	}

	now := time.Now().In(loc)
	_, week := now.ISOWeek()

	return fmt.Sprintf("Current local time: %s\nWeek of the year: %d\nDay of the week: %s\n",
		now.Format(format), week, now.Weekday()), nil
}

// registerNowPrompt registers the now prompt
func (s *NowServer) registerNowPrompt(srv *mcpserver.Server) error {
	nowPrompt := mcp.Prompt{
		Name:        "now",
		Description: "Current time information",
	}

	return srv.AddPrompt(nowPrompt, s.handleNowPrompt)
}

// handleNowPrompt computes the now prompt
func (s *NowServer) handleNowPrompt(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	content, err := s.timeInfo("")
	if err != nil {
		return nil, err
	}

	return &mcp.GetPromptResult{
		Description: "Current time information",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: content,
				},
			},
		},
	}, nil
}

// registerClockResource registers the clock resource
func (s *NowServer) registerClockResource(srv *mcpserver.Server) error {
	clockResource := mcp.Resource{
		URI:         "clock://now",
		Name:        "Current Time",
		Description: "The current local time report",
		MIMEType:    "text/plain",
	}

	return srv.AddResource(clockResource, s.handleClockResource)
}

// handleClockResource reads the clock resource
func (s *NowServer) handleClockResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	content, err := s.timeInfo("")
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "text/plain",
			Text:     content,
		},
	}, nil
}
