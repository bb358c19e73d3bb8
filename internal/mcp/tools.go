package mcp

// Tool represents a depscope tool exposed via MCP
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// ToolHandler executes one tool call and returns the text output
type ToolHandler func(params map[string]interface{}) (string, error)

// CallToolResult is the tools/call response payload
type CallToolResult struct {
	Content []ContentBlock `json:"content"`
	IsError bool           `json:"isError,omitempty"`
}

// ContentBlock is one piece of tool output; depscope only produces text
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func newToolResult(text string) *CallToolResult {
	return &CallToolResult{
		Content: []ContentBlock{{Type: "text", Text: text}},
	}
}

func newToolError(err error) *CallToolResult {
	return &CallToolResult{
		Content: []ContentBlock{{Type: "text", Text: "Error: " + err.Error()}},
		IsError: true,
	}
}

// GetToolDefinitions returns all tool definitions
func (s *MCPServer) GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "analyze_project",
			Description: "Analyze Python project dependencies comprehensively",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"project_path": map[string]interface{}{
						"type":        "string",
						"default":     ".",
						"description": "Path to Python project to analyze",
					},
					"include_external": map[string]interface{}{
						"type":        "boolean",
						"default":     false,
						"description": "Include external dependencies in analysis",
					},
					"output_format": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"json", "text", "dot"},
						"default":     "json",
						"description": "Output format for results",
					},
				},
			},
		},
		{
			Name:        "find_cycles",
			Description: "Find circular dependencies in Python project",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"project_path": map[string]interface{}{
						"type":        "string",
						"default":     ".",
						"description": "Path to Python project",
					},
					"detailed": map[string]interface{}{
						"type":        "boolean",
						"default":     true,
						"description": "Include detailed cycle paths",
					},
				},
			},
		},
		{
			Name:        "trace_imports",
			Description: "Trace import paths between two modules",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"project_path": map[string]interface{}{
						"type":        "string",
						"default":     ".",
						"description": "Path to Python project",
					},
					"from_module": map[string]interface{}{
						"type":        "string",
						"description": "Source module path relative to the project root (e.g. 'src/main.py')",
					},
					"to_module": map[string]interface{}{
						"type":        "string",
						"description": "Target module path relative to the project root (e.g. 'src/utils.py')",
					},
				},
				"required": []string{"from_module", "to_module"},
			},
		},
		{
			Name:        "get_stats",
			Description: "Get dependency statistics for a project",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"project_path": map[string]interface{}{
						"type":        "string",
						"default":     ".",
						"description": "Path to Python project",
					},
				},
			},
		},
		{
			Name:        "check_module",
			Description: "Check dependencies for a specific Python module",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"module_path": map[string]interface{}{
						"type":        "string",
						"description": "Path to a specific Python file",
					},
					"include_indirect": map[string]interface{}{
						"type":        "boolean",
						"default":     false,
						"description": "Follow resolved imports and list transitive internal dependencies",
					},
				},
				"required": []string{"module_path"},
			},
		},
	}
}

// RegisterTools registers all tool handlers
func (s *MCPServer) RegisterTools() {
	s.tools["analyze_project"] = s.toolAnalyzeProject
	s.tools["find_cycles"] = s.toolFindCycles
	s.tools["trace_imports"] = s.toolTraceImports
	s.tools["get_stats"] = s.toolGetStats
	s.tools["check_module"] = s.toolCheckModule
}
