// Package mcpserver implements a minimal MCP server: per-kind
// capability registries, the JSON-RPC request dispatcher, and the
// stdio/HTTP serving loops. Capability authors register tools,
// prompts, and resources during initialization; the dispatcher then
// routes each decoded request to the matching registry entry and
// packages its result or error into a response.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/nowserver/internal/protocol"
	"github.com/nowserver/internal/registry"
	"github.com/sirupsen/logrus"
)

// ToolHandlerFunc executes a tool invocation
type ToolHandlerFunc func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// PromptHandlerFunc computes a prompt
type PromptHandlerFunc func(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error)

// ResourceHandlerFunc reads a resource
type ResourceHandlerFunc func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error)

// registeredTool pairs a tool descriptor with its handler. The pair is
// immutable once registered.
type registeredTool struct {
	tool    mcp.Tool
	handler ToolHandlerFunc
}

type registeredPrompt struct {
	prompt  mcp.Prompt
	handler PromptHandlerFunc
}

type registeredResource struct {
	resource mcp.Resource
	handler  ResourceHandlerFunc
}

// Result wrappers for the list and read methods
type listToolsResult struct {
	Tools []mcp.Tool `json:"tools"`
}

type listPromptsResult struct {
	Prompts []mcp.Prompt `json:"prompts"`
}

type listResourcesResult struct {
	Resources []mcp.Resource `json:"resources"`
}

type readResourceResult struct {
	Contents []mcp.ResourceContents `json:"contents"`
}

// Server holds the server identity and one registry per capability
// kind. It is stateless across requests and safe to share between
// concurrent transports once registration is complete.
type Server struct {
	name    string
	version string
	logger  *logrus.Logger

	tools     *registry.Registry[registeredTool]
	prompts   *registry.Registry[registeredPrompt]
	resources *registry.Registry[registeredResource]
}

// ServerOption configures a Server
type ServerOption func(*Server)

// WithLogger sets the logger used for request and error logging
func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP server with the given identity
func NewServer(name, version string, opts ...ServerOption) *Server {
	s := &Server{
		name:      name,
		version:   version,
		tools:     registry.New[registeredTool](),
		prompts:   registry.New[registeredPrompt](),
		resources: registry.New[registeredResource](),
	}

	for _, opt := range opts {
		opt(s)
	}

	// Default logger writes to stderr; stdout belongs to the transport
	if s.logger == nil {
		s.logger = logrus.New()
	}

	return s
}

// AddTool registers a tool and its handler
func (s *Server) AddTool(tool mcp.Tool, handler ToolHandlerFunc) error {
	return s.tools.Register(tool.Name, registeredTool{tool: tool, handler: handler})
}

// AddPrompt registers a prompt and its handler
func (s *Server) AddPrompt(prompt mcp.Prompt, handler PromptHandlerFunc) error {
	return s.prompts.Register(prompt.Name, registeredPrompt{prompt: prompt, handler: handler})
}

// AddResource registers a resource and its handler
func (s *Server) AddResource(resource mcp.Resource, handler ResourceHandlerFunc) error {
	return s.resources.Register(resource.URI, registeredResource{resource: resource, handler: handler})
}

// HandleRequest routes a decoded request to the matching registry
// entry and returns the response to send, or nil for notifications.
func (s *Server) HandleRequest(ctx context.Context, req *protocol.Request) *protocol.Response {
	if req.IsNotification() {
		s.handleNotification(req)
		return nil
	}

	switch req.Method {
	case protocol.MethodInitialize:
		return protocol.NewResponse(req.ID, s.initializeResult())

	case protocol.MethodPing:
		return protocol.NewResponse(req.ID, struct{}{})

	case protocol.MethodToolsList:
		tools := make([]mcp.Tool, 0, s.tools.Len())
		for _, entry := range s.tools.List() {
			tools = append(tools, entry.tool)
		}
		return protocol.NewResponse(req.ID, listToolsResult{Tools: tools})

	case protocol.MethodToolsCall:
		return s.callTool(ctx, req)

	case protocol.MethodPromptsList:
		prompts := make([]mcp.Prompt, 0, s.prompts.Len())
		for _, entry := range s.prompts.List() {
			prompts = append(prompts, entry.prompt)
		}
		return protocol.NewResponse(req.ID, listPromptsResult{Prompts: prompts})

	case protocol.MethodPromptsGet:
		return s.getPrompt(ctx, req)

	case protocol.MethodResourcesList:
		resources := make([]mcp.Resource, 0, s.resources.Len())
		for _, entry := range s.resources.List() {
			resources = append(resources, entry.resource)
		}
		return protocol.NewResponse(req.ID, listResourcesResult{Resources: resources})

	case protocol.MethodResourcesRead:
		return s.readResource(ctx, req)

	default:
		s.logger.WithField("method", req.Method).Warn("Unknown method requested")
		return protocol.NewErrorResponse(req.ID, protocol.CodeMethodNotFound,
			fmt.Sprintf("method not found: %s", req.Method))
	}
}

// handleNotification processes requests that expect no response
func (s *Server) handleNotification(req *protocol.Request) {
	switch req.Method {
	case protocol.NotificationInitialized:
		s.logger.Info("Client completed initialization")
	default:
		s.logger.WithField("method", req.Method).Debug("Ignoring notification")
	}
}

// initializeResult builds the handshake result. Capability kinds are
// advertised only when at least one capability of that kind exists.
func (s *Server) initializeResult() protocol.InitializeResult {
	result := protocol.InitializeResult{
		ProtocolVersion: protocol.Version,
		ServerInfo: protocol.ServerInfo{
			Name:    s.name,
			Version: s.version,
		},
	}

	if s.tools.Len() > 0 {
		result.Capabilities.Tools = &protocol.ToolsCapability{}
	}
	if s.prompts.Len() > 0 {
		result.Capabilities.Prompts = &protocol.PromptsCapability{}
	}
	if s.resources.Len() > 0 {
		result.Capabilities.Resources = &protocol.ResourcesCapability{}
	}

	return result
}

// callTool handles the tools/call method
func (s *Server) callTool(ctx context.Context, req *protocol.Request) *protocol.Response {
	var params protocol.CallToolParams
	if resp := decodeParams(req, &params); resp != nil {
		return resp
	}

	entry, ok := s.tools.Lookup(params.Name)
	if !ok {
		s.logger.WithField("tool", params.Name).Warn("Tool not found")
		return protocol.NewErrorResponse(req.ID, protocol.CodeInvalidParams,
			fmt.Sprintf("tool not found: %s", params.Name))
	}

	request := mcp.CallToolRequest{}
	request.Params.Name = params.Name
	request.Params.Arguments = params.Arguments

	result, err := entry.handler(ctx, request)
	if err != nil {
		// Handler failures are capability-level errors, reported in
		// the result payload rather than as protocol errors.
		s.logger.WithFields(logrus.Fields{
			"tool":  params.Name,
			"error": err.Error(),
		}).Error("Tool invocation failed")
		return protocol.NewResponse(req.ID, NewErrorResult(err.Error()))
	}

	return protocol.NewResponse(req.ID, result)
}

// getPrompt handles the prompts/get method
func (s *Server) getPrompt(ctx context.Context, req *protocol.Request) *protocol.Response {
	var params protocol.GetPromptParams
	if resp := decodeParams(req, &params); resp != nil {
		return resp
	}

	entry, ok := s.prompts.Lookup(params.Name)
	if !ok {
		s.logger.WithField("prompt", params.Name).Warn("Prompt not found")
		return protocol.NewErrorResponse(req.ID, protocol.CodeInvalidParams,
			fmt.Sprintf("prompt not found: %s", params.Name))
	}

	request := mcp.GetPromptRequest{}
	request.Params.Name = params.Name
	request.Params.Arguments = params.Arguments

	result, err := entry.handler(ctx, request)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"prompt": params.Name,
			"error":  err.Error(),
		}).Error("Prompt computation failed")
		return protocol.NewErrorResponse(req.ID, protocol.CodeInternalError, err.Error())
	}

	return protocol.NewResponse(req.ID, result)
}

// readResource handles the resources/read method
func (s *Server) readResource(ctx context.Context, req *protocol.Request) *protocol.Response {
	var params protocol.ReadResourceParams
	if resp := decodeParams(req, &params); resp != nil {
		return resp
	}

	entry, ok := s.resources.Lookup(params.URI)
	if !ok {
		s.logger.WithField("uri", params.URI).Warn("Resource not found")
		return protocol.NewErrorResponse(req.ID, protocol.CodeInvalidParams,
			fmt.Sprintf("resource not found: %s", params.URI))
	}

	request := mcp.ReadResourceRequest{}
	request.Params.URI = params.URI

	contents, err := entry.handler(ctx, request)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"uri":   params.URI,
			"error": err.Error(),
		}).Error("Resource read failed")
		return protocol.NewErrorResponse(req.ID, protocol.CodeInternalError, err.Error())
	}

	return protocol.NewResponse(req.ID, readResourceResult{Contents: contents})
}

// decodeParams unmarshals request params into dst, returning an error
// response when the params are missing or malformed
func decodeParams(req *protocol.Request, dst interface{}) *protocol.Response {
	if len(req.Params) == 0 {
		return protocol.NewErrorResponse(req.ID, protocol.CodeInvalidParams, "missing params")
	}
	if err := json.Unmarshal(req.Params, dst); err != nil {
		return protocol.NewErrorResponse(req.ID, protocol.CodeInvalidParams, "invalid params")
	}
	return nil
}
