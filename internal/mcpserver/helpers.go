package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"
)

// ExtractOptionalStringParam extracts an optional string parameter,
// returning an error only when the parameter is present but not a string
func ExtractOptionalStringParam(args map[string]interface{}, name string) (string, error) {
	val, ok := args[name]
	if !ok {
		return "", nil
	}

	strVal, ok := val.(string)
	if !ok {
		return "", fmt.Errorf("parameter %q must be a string", name)
	}

	return strVal, nil
}

// NewErrorResult creates a capability-level error result
func NewErrorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: message,
			},
		},
		IsError: true,
	}
}

// HandleToolRequest wraps a plain string-returning handler with request
// and failure logging
func HandleToolRequest(ctx context.Context, request mcp.CallToolRequest, handler func(ctx context.Context, args map[string]interface{}) (string, error), logger *logrus.Logger) (*mcp.CallToolResult, error) {
	if logger != nil {
		logger.WithFields(logrus.Fields{
			"tool":      request.Params.Name,
			"arguments": request.Params.Arguments,
		}).Info("Tool request received")
	}

	result, err := handler(ctx, request.Params.Arguments)
	if err != nil {
		if logger != nil {
			logger.WithFields(logrus.Fields{
				"tool":  request.Params.Name,
				"error": err.Error(),
			}).Error("Tool request failed")
		}
		return NewErrorResult(fmt.Sprintf("Failed to process request: %v", err)), nil
	}

	return mcp.NewToolResultText(result), nil
}
