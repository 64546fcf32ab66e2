package protocol

// MCP method names
const (
	MethodInitialize    = "initialize"
	MethodPing          = "ping"
	MethodToolsList     = "tools/list"
	MethodToolsCall     = "tools/call"
	MethodPromptsList   = "prompts/list"
	MethodPromptsGet    = "prompts/get"
	MethodResourcesList = "resources/list"
	MethodResourcesRead = "resources/read"

	// NotificationInitialized is sent by the client after the
	// initialize handshake; it expects no response.
	NotificationInitialized = "notifications/initialized"
)

// Version is the MCP protocol revision advertised during initialize
const Version = "2024-11-05"

// ServerInfo identifies the server during the initialize handshake
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ToolsCapability indicates support for tools
type ToolsCapability struct{}

// PromptsCapability indicates support for prompts
type PromptsCapability struct{}

// ResourcesCapability indicates support for resources
type ResourcesCapability struct{}

// Capabilities advertises which capability kinds the server exposes
type Capabilities struct {
	Tools     *ToolsCapability     `json:"tools,omitempty"`
	Prompts   *PromptsCapability   `json:"prompts,omitempty"`
	Resources *ResourcesCapability `json:"resources,omitempty"`
}

// InitializeResult is the result of the initialize method
type InitializeResult struct {
	ProtocolVersion string       `json:"protocolVersion"`
	Capabilities    Capabilities `json:"capabilities"`
	ServerInfo      ServerInfo   `json:"serverInfo"`
}

// CallToolParams are the parameters of the tools/call method
type CallToolParams struct {
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments,omitempty"`
}

// GetPromptParams are the parameters of the prompts/get method
type GetPromptParams struct {
	Name      string            `json:"name"`
	Arguments map[string]string `json:"arguments,omitempty"`
}

// ReadResourceParams are the parameters of the resources/read method
type ReadResourceParams struct {
	URI string `json:"uri"`
}
