package mcp

import "fmt"

// ServerCapabilities represents the capabilities exposed by the server
type ServerCapabilities struct {
	Tools *ToolsCapability `json:"tools,omitempty"`
}

// ToolsCapability represents the tools capability
type ToolsCapability struct {
	ListChanged bool `json:"listChanged,omitempty"`
}

// ServerInfo identifies the server to the client
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// InitializeResult represents the result of the initialize request
type InitializeResult struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    ServerCapabilities `json:"capabilities"`
	ServerInfo      ServerInfo         `json:"serverInfo"`
}

// handleMessage processes an incoming message and returns a response
func (s *MCPServer) handleMessage(msg *MCPMessage) *MCPMessage {
	if msg.IsRequest() {
		return s.handleRequest(msg)
	}

	// Notifications need no response
	if msg.IsNotification() {
		s.handleNotification(msg)
		return nil
	}

	return NewErrorMessage(msg.Id, InvalidRequest, "invalid message: not a request or notification", nil)
}

// handleRequest handles a JSON-RPC request
func (s *MCPServer) handleRequest(msg *MCPMessage) *MCPMessage {
	s.logger.Debug("handling request",
		"method", msg.Method,
		"id", msg.Id,
	)

	switch msg.Method {
	case "initialize":
		return s.handleInitialize(msg)
	case "ping":
		return NewResultMessage(msg.Id, map[string]interface{}{})
	case "tools/list":
		return s.handleListTools(msg)
	case "tools/call":
		return s.handleCallTool(msg)
	case "shutdown":
		return NewResultMessage(msg.Id, map[string]interface{}{})
	default:
		return NewErrorMessage(msg.Id, MethodNotFound, fmt.Sprintf("method not found: %s", msg.Method), nil)
	}
}

// handleNotification handles a JSON-RPC notification
func (s *MCPServer) handleNotification(msg *MCPMessage) {
	switch msg.Method {
	case "notifications/initialized":
		s.logger.Info("client initialized")
	default:
		s.logger.Debug("ignoring notification",
			"method", msg.Method,
		)
	}
}

// handleInitialize handles the initialize handshake
func (s *MCPServer) handleInitialize(msg *MCPMessage) *MCPMessage {
	params, ok := msg.Params.(map[string]interface{})
	if !ok {
		params = make(map[string]interface{})
	}

	s.logger.Info("MCP client connected",
		"clientInfo", params["clientInfo"],
	)

	return NewResultMessage(msg.Id, &InitializeResult{
		ProtocolVersion: "2024-11-05",
		Capabilities: ServerCapabilities{
			Tools: &ToolsCapability{},
		},
		ServerInfo: ServerInfo{
			Name:    "depscope",
			Version: s.version,
		},
	})
}

// handleListTools handles the tools/list request. The toolset is
// static, so there is no pagination.
func (s *MCPServer) handleListTools(msg *MCPMessage) *MCPMessage {
	return NewResultMessage(msg.Id, map[string]interface{}{
		"tools": s.GetToolDefinitions(),
	})
}

// handleCallTool executes a tool. Tool failures travel inside the
// result with isError set so the client can display them; only
// malformed requests produce protocol errors.
func (s *MCPServer) handleCallTool(msg *MCPMessage) *MCPMessage {
	params, ok := msg.Params.(map[string]interface{})
	if !ok {
		return NewErrorMessage(msg.Id, InvalidParams, "invalid params: expected object", nil)
	}

	toolName, ok := params["name"].(string)
	if !ok {
		return NewErrorMessage(msg.Id, InvalidParams, "missing tool name", nil)
	}

	args, ok := params["arguments"].(map[string]interface{})
	if !ok {
		args = make(map[string]interface{})
	}

	handler, exists := s.tools[toolName]
	if !exists {
		return NewErrorMessage(msg.Id, InvalidParams, fmt.Sprintf("unknown tool: %s", toolName), nil)
	}

	s.logger.Info("calling tool",
		"tool", toolName,
	)

	text, err := handler(args)
	if err != nil {
		return NewResultMessage(msg.Id, newToolError(err))
	}

	return NewResultMessage(msg.Id, newToolResult(text))
}
