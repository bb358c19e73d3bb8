package mcp

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"

	"depscope/internal/analysis"
)

// newTestServer creates an MCP server for testing
func newTestServer(t *testing.T) *MCPServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewMCPServer("test", analysis.Options{Logger: logger}, logger)
}

// sendRequest sends a single request through the transport and returns
// the in-memory response
func sendRequest(t *testing.T, server *MCPServer, method string, id int, params interface{}) *MCPMessage {
	t.Helper()

	request := MCPMessage{
		Jsonrpc: "2.0",
		Id:      id,
		Method:  method,
		Params:  params,
	}

	requestBytes, err := json.Marshal(request)
	if err != nil {
		t.Fatalf("failed to marshal request: %v", err)
	}
	requestBytes = append(requestBytes, '\n')

	server.SetStdin(bytes.NewReader(requestBytes))
	server.SetStdout(&bytes.Buffer{})

	msg, err := server.readMessage()
	if err != nil {
		t.Fatalf("failed to read message: %v", err)
	}

	return server.handleMessage(msg)
}

func TestServerCreation(t *testing.T) {
	server := newTestServer(t)

	if len(server.tools) != 5 {
		t.Errorf("registered tools = %d, want 5", len(server.tools))
	}
}

func TestInitialize(t *testing.T) {
	server := newTestServer(t)

	params := map[string]interface{}{
		"protocolVersion": "2024-11-05",
		"clientInfo": map[string]interface{}{
			"name":    "test-client",
			"version": "1.0.0",
		},
	}

	response := sendRequest(t, server, "initialize", 1, params)
	if response == nil {
		t.Fatal("response should not be nil")
	}
	if response.Error != nil {
		t.Fatalf("unexpected error: %v", response.Error.Message)
	}

	result, ok := response.Result.(*InitializeResult)
	if !ok {
		t.Fatalf("result type = %T, want *InitializeResult", response.Result)
	}
	if result.ProtocolVersion != "2024-11-05" {
		t.Errorf("protocolVersion = %q, want 2024-11-05", result.ProtocolVersion)
	}
	if result.ServerInfo.Name != "depscope" {
		t.Errorf("serverInfo.name = %q, want depscope", result.ServerInfo.Name)
	}
	if result.Capabilities.Tools == nil {
		t.Error("tools capability should be advertised")
	}
}

func TestPing(t *testing.T) {
	server := newTestServer(t)

	response := sendRequest(t, server, "ping", 7, nil)
	if response.Error != nil {
		t.Fatalf("unexpected error: %v", response.Error.Message)
	}
	if response.Result == nil {
		t.Error("ping should return an empty result object")
	}
}

func TestToolsList(t *testing.T) {
	server := newTestServer(t)

	response := sendRequest(t, server, "tools/list", 1, nil)
	if response.Error != nil {
		t.Fatalf("unexpected error: %v", response.Error.Message)
	}

	result, ok := response.Result.(map[string]interface{})
	if !ok {
		t.Fatalf("result type = %T, want map", response.Result)
	}
	tools, ok := result["tools"].([]Tool)
	if !ok {
		t.Fatalf("tools type = %T, want []Tool", result["tools"])
	}

	want := map[string]bool{
		"analyze_project": false,
		"find_cycles":     false,
		"trace_imports":   false,
		"get_stats":       false,
		"check_module":    false,
	}
	for _, tool := range tools {
		if _, known := want[tool.Name]; !known {
			t.Errorf("unexpected tool %q", tool.Name)
			continue
		}
		want[tool.Name] = true
		if tool.Description == "" {
			t.Errorf("tool %q missing description", tool.Name)
		}
		if tool.InputSchema == nil {
			t.Errorf("tool %q missing input schema", tool.Name)
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("tool %q not listed", name)
		}
	}
}

func TestMethodNotFound(t *testing.T) {
	server := newTestServer(t)

	response := sendRequest(t, server, "bogus/method", 1, nil)
	if response.Error == nil {
		t.Fatal("expected an error response")
	}
	if response.Error.Code != MethodNotFound {
		t.Errorf("code = %d, want %d", response.Error.Code, MethodNotFound)
	}
}

func TestCallToolUnknown(t *testing.T) {
	server := newTestServer(t)

	response := sendRequest(t, server, "tools/call", 1, map[string]interface{}{
		"name":      "does_not_exist",
		"arguments": map[string]interface{}{},
	})
	if response.Error == nil {
		t.Fatal("expected an error response")
	}
	if response.Error.Code != InvalidParams {
		t.Errorf("code = %d, want %d", response.Error.Code, InvalidParams)
	}
}

func TestCallToolMissingName(t *testing.T) {
	server := newTestServer(t)

	response := sendRequest(t, server, "tools/call", 1, map[string]interface{}{
		"arguments": map[string]interface{}{},
	})
	if response.Error == nil {
		t.Fatal("expected an error response")
	}
	if response.Error.Code != InvalidParams {
		t.Errorf("code = %d, want %d", response.Error.Code, InvalidParams)
	}
}

func TestStartSession(t *testing.T) {
	server := newTestServer(t)

	var input bytes.Buffer
	input.WriteString(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}` + "\n")
	input.WriteString(`{"jsonrpc":"2.0","method":"notifications/initialized"}` + "\n")
	input.WriteString(`{"jsonrpc":"2.0","id":2,"method":"shutdown"}` + "\n")

	var output bytes.Buffer
	server.SetStdin(&input)
	server.SetStdout(&output)

	if err := server.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(output.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("response lines = %d, want 2 (initialize + shutdown)", len(lines))
	}

	var initResp MCPMessage
	if err := json.Unmarshal([]byte(lines[0]), &initResp); err != nil {
		t.Fatalf("bad initialize response: %v", err)
	}
	if initResp.Error != nil {
		t.Errorf("initialize failed: %v", initResp.Error.Message)
	}

	var shutdownResp MCPMessage
	if err := json.Unmarshal([]byte(lines[1]), &shutdownResp); err != nil {
		t.Fatalf("bad shutdown response: %v", err)
	}
	if shutdownResp.Error != nil {
		t.Errorf("shutdown failed: %v", shutdownResp.Error.Message)
	}
}

func TestStartEOF(t *testing.T) {
	server := newTestServer(t)

	server.SetStdin(strings.NewReader(""))
	server.SetStdout(&bytes.Buffer{})

	if err := server.Start(); err != nil {
		t.Errorf("Start() on EOF = %v, want nil", err)
	}
}

func TestStartMalformedLine(t *testing.T) {
	server := newTestServer(t)

	server.SetStdin(strings.NewReader("this is not json\n"))
	var output bytes.Buffer
	server.SetStdout(&output)

	if err := server.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	var resp MCPMessage
	if err := json.Unmarshal(bytes.TrimSpace(output.Bytes()), &resp); err != nil {
		t.Fatalf("bad error response: %v", err)
	}
	if resp.Error == nil || resp.Error.Code != ParseError {
		t.Errorf("expected ParseError response, got %+v", resp)
	}
}
