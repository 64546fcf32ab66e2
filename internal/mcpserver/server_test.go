package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/nowserver/internal/protocol"
	"github.com/sirupsen/logrus"
)

// newTestLogger returns a logger that discards output
func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// newTestRequest builds a decoded request with the given id
func newTestRequest(id int, method, params string) *protocol.Request {
	req := &protocol.Request{
		JSONRPC: "2.0",
		ID:      json.RawMessage(fmt.Sprintf("%d", id)),
		Method:  method,
	}
	if params != "" {
		req.Params = json.RawMessage(params)
	}
	return req
}

// staticToolHandler returns a handler producing fixed text and counts
// invocations
func staticToolHandler(text string, calls *int) ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if calls != nil {
			*calls++
		}
		return mcp.NewToolResultText(text), nil
	}
}

func TestInitialize(t *testing.T) {
	s := NewServer("testserver", "1.2.3", WithLogger(newTestLogger()))
	if err := s.AddTool(mcp.NewTool("now"), staticToolHandler("x", nil)); err != nil {
		t.Fatalf("AddTool failed: %v", err)
	}

	resp := s.HandleRequest(context.Background(), newTestRequest(1, protocol.MethodInitialize, ""))
	if resp == nil || resp.Error != nil {
		t.Fatalf("Expected success response, got %+v", resp)
	}

	result, ok := resp.Result.(protocol.InitializeResult)
	if !ok {
		t.Fatalf("Expected InitializeResult, got %T", resp.Result)
	}
	if result.ServerInfo.Name != "testserver" || result.ServerInfo.Version != "1.2.3" {
		t.Errorf("Unexpected server info: %+v", result.ServerInfo)
	}
	if result.Capabilities.Tools == nil {
		t.Error("Expected tools capability to be advertised")
	}
	if result.Capabilities.Prompts != nil {
		t.Error("Expected prompts capability to be absent with no prompts registered")
	}
}

func TestPing(t *testing.T) {
	s := NewServer("testserver", "1.0.0", WithLogger(newTestLogger()))

	resp := s.HandleRequest(context.Background(), newTestRequest(1, protocol.MethodPing, ""))
	if resp == nil || resp.Error != nil {
		t.Fatalf("Expected success response, got %+v", resp)
	}
}

func TestListTools(t *testing.T) {
	s := NewServer("testserver", "1.0.0", WithLogger(newTestLogger()))
	for _, name := range []string{"a", "b"} {
		if err := s.AddTool(mcp.NewTool(name), staticToolHandler(name, nil)); err != nil {
			t.Fatalf("AddTool(%q) failed: %v", name, err)
		}
	}

	resp := s.HandleRequest(context.Background(), newTestRequest(1, protocol.MethodToolsList, ""))
	if resp == nil || resp.Error != nil {
		t.Fatalf("Expected success response, got %+v", resp)
	}

	result, ok := resp.Result.(listToolsResult)
	if !ok {
		t.Fatalf("Expected listToolsResult, got %T", resp.Result)
	}
	if len(result.Tools) != 2 {
		t.Fatalf("Expected 2 tools, got %d", len(result.Tools))
	}
	if result.Tools[0].Name != "a" || result.Tools[1].Name != "b" {
		t.Errorf("Expected tools in registration order, got %q, %q",
			result.Tools[0].Name, result.Tools[1].Name)
	}
}

func TestCallTool(t *testing.T) {
	s := NewServer("testserver", "1.0.0", WithLogger(newTestLogger()))
	calls := 0
	if err := s.AddTool(mcp.NewTool("now"), staticToolHandler("it is now", &calls)); err != nil {
		t.Fatalf("AddTool failed: %v", err)
	}

	resp := s.HandleRequest(context.Background(),
		newTestRequest(1, protocol.MethodToolsCall, `{"name":"now"}`))
	if resp == nil || resp.Error != nil {
		t.Fatalf("Expected success response, got %+v", resp)
	}
	if calls != 1 {
		t.Errorf("Expected exactly one invocation, got %d", calls)
	}

	result, ok := resp.Result.(*mcp.CallToolResult)
	if !ok {
		t.Fatalf("Expected *mcp.CallToolResult, got %T", resp.Result)
	}
	if result.IsError {
		t.Error("Expected success result")
	}
	if len(result.Content) != 1 {
		t.Fatalf("Expected one content block, got %d", len(result.Content))
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("Expected text content, got %T", result.Content[0])
	}
	if text.Text != "it is now" {
		t.Errorf("Unexpected text: %q", text.Text)
	}
}

func TestCallToolNotFound(t *testing.T) {
	s := NewServer("testserver", "1.0.0", WithLogger(newTestLogger()))
	calls := 0
	if err := s.AddTool(mcp.NewTool("now"), staticToolHandler("x", &calls)); err != nil {
		t.Fatalf("AddTool failed: %v", err)
	}

	resp := s.HandleRequest(context.Background(),
		newTestRequest(1, protocol.MethodToolsCall, `{"name":"missing"}`))
	if resp == nil || resp.Error == nil {
		t.Fatalf("Expected error response, got %+v", resp)
	}
	if resp.Error.Code != protocol.CodeInvalidParams {
		t.Errorf("Expected code %d, got %d", protocol.CodeInvalidParams, resp.Error.Code)
	}
	if !strings.Contains(resp.Error.Message, "not found") {
		t.Errorf("Unexpected message: %q", resp.Error.Message)
	}
	if calls != 0 {
		t.Errorf("Expected no invocation for unknown tool, got %d", calls)
	}
}

func TestCallToolHandlerFailure(t *testing.T) {
	s := NewServer("testserver", "1.0.0", WithLogger(newTestLogger()))
	err := s.AddTool(mcp.NewTool("broken"),
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return nil, fmt.Errorf("dependency unavailable")
		})
	if err != nil {
		t.Fatalf("AddTool failed: %v", err)
	}

	resp := s.HandleRequest(context.Background(),
		newTestRequest(1, protocol.MethodToolsCall, `{"name":"broken"}`))
	if resp == nil {
		t.Fatal("Expected a response")
	}

	// Handler failures surface as capability-level error payloads, not
	// protocol errors
	if resp.Error != nil {
		t.Fatalf("Expected no protocol error, got %+v", resp.Error)
	}
	result, ok := resp.Result.(*mcp.CallToolResult)
	if !ok {
		t.Fatalf("Expected *mcp.CallToolResult, got %T", resp.Result)
	}
	if !result.IsError {
		t.Error("Expected IsError result")
	}
}

func TestCallToolMissingParams(t *testing.T) {
	s := NewServer("testserver", "1.0.0", WithLogger(newTestLogger()))

	resp := s.HandleRequest(context.Background(),
		newTestRequest(1, protocol.MethodToolsCall, ""))
	if resp == nil || resp.Error == nil {
		t.Fatalf("Expected error response, got %+v", resp)
	}
	if resp.Error.Code != protocol.CodeInvalidParams {
		t.Errorf("Expected code %d, got %d", protocol.CodeInvalidParams, resp.Error.Code)
	}
}

func TestUnknownMethod(t *testing.T) {
	s := NewServer("testserver", "1.0.0", WithLogger(newTestLogger()))

	resp := s.HandleRequest(context.Background(), newTestRequest(1, "bogus/method", ""))
	if resp == nil || resp.Error == nil {
		t.Fatalf("Expected error response, got %+v", resp)
	}
	if resp.Error.Code != protocol.CodeMethodNotFound {
		t.Errorf("Expected code %d, got %d", protocol.CodeMethodNotFound, resp.Error.Code)
	}
}

func TestNotificationProducesNoResponse(t *testing.T) {
	s := NewServer("testserver", "1.0.0", WithLogger(newTestLogger()))

	req := &protocol.Request{JSONRPC: "2.0", Method: protocol.NotificationInitialized}
	if resp := s.HandleRequest(context.Background(), req); resp != nil {
		t.Errorf("Expected no response for notification, got %+v", resp)
	}
}

func TestGetPrompt(t *testing.T) {
	s := NewServer("testserver", "1.0.0", WithLogger(newTestLogger()))
	err := s.AddPrompt(mcp.Prompt{Name: "now", Description: "time"},
		func(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
			return &mcp.GetPromptResult{
				Description: "time",
				Messages: []mcp.PromptMessage{
					{Role: mcp.RoleUser, Content: mcp.TextContent{Type: "text", Text: "hello"}},
				},
			}, nil
		})
	if err != nil {
		t.Fatalf("AddPrompt failed: %v", err)
	}

	resp := s.HandleRequest(context.Background(),
		newTestRequest(1, protocol.MethodPromptsGet, `{"name":"now"}`))
	if resp == nil || resp.Error != nil {
		t.Fatalf("Expected success response, got %+v", resp)
	}

	result, ok := resp.Result.(*mcp.GetPromptResult)
	if !ok {
		t.Fatalf("Expected *mcp.GetPromptResult, got %T", resp.Result)
	}
	if len(result.Messages) != 1 {
		t.Fatalf("Expected one message, got %d", len(result.Messages))
	}
	if result.Messages[0].Role != mcp.RoleUser {
		t.Errorf("Expected user role, got %q", result.Messages[0].Role)
	}

	resp = s.HandleRequest(context.Background(),
		newTestRequest(2, protocol.MethodPromptsGet, `{"name":"missing"}`))
	if resp == nil || resp.Error == nil {
		t.Fatalf("Expected error response for unknown prompt, got %+v", resp)
	}
}

func TestReadResource(t *testing.T) {
	s := NewServer("testserver", "1.0.0", WithLogger(newTestLogger()))
	err := s.AddResource(
		mcp.Resource{URI: "clock://now", Name: "Current Time", MIMEType: "text/plain"},
		func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
			return []mcp.ResourceContents{
				mcp.TextResourceContents{URI: request.Params.URI, MIMEType: "text/plain", Text: "tick"},
			}, nil
		})
	if err != nil {
		t.Fatalf("AddResource failed: %v", err)
	}

	resp := s.HandleRequest(context.Background(),
		newTestRequest(1, protocol.MethodResourcesRead, `{"uri":"clock://now"}`))
	if resp == nil || resp.Error != nil {
		t.Fatalf("Expected success response, got %+v", resp)
	}

	result, ok := resp.Result.(readResourceResult)
	if !ok {
		t.Fatalf("Expected readResourceResult, got %T", resp.Result)
	}
	if len(result.Contents) != 1 {
		t.Fatalf("Expected one contents block, got %d", len(result.Contents))
	}

	resp = s.HandleRequest(context.Background(),
		newTestRequest(2, protocol.MethodResourcesRead, `{"uri":"clock://missing"}`))
	if resp == nil || resp.Error == nil {
		t.Fatalf("Expected error response for unknown resource, got %+v", resp)
	}
}

func TestAddToolDuplicateRejected(t *testing.T) {
	s := NewServer("testserver", "1.0.0", WithLogger(newTestLogger()))

	if err := s.AddTool(mcp.NewTool("now"), staticToolHandler("x", nil)); err != nil {
		t.Fatalf("AddTool failed: %v", err)
	}
	if err := s.AddTool(mcp.NewTool("now"), staticToolHandler("y", nil)); err == nil {
		t.Error("Expected duplicate tool registration to be rejected")
	}
}

func TestConcurrentDispatch(t *testing.T) {
	s := NewServer("testserver", "1.0.0", WithLogger(newTestLogger()))
	if err := s.AddTool(mcp.NewTool("now"), staticToolHandler("tick", nil)); err != nil {
		t.Fatalf("AddTool failed: %v", err)
	}

	const workers = 25
	var wg sync.WaitGroup
	errs := make(chan error, workers)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			resp := s.HandleRequest(context.Background(),
				newTestRequest(id, protocol.MethodToolsCall, `{"name":"now"}`))
			if resp == nil || resp.Error != nil {
				errs <- fmt.Errorf("request %d failed: %+v", id, resp)
			}
		}(w)
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
