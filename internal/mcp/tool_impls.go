package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"depscope/internal/analysis"
	"depscope/internal/extract"
	"depscope/internal/graph"
	"depscope/internal/render"
	"depscope/internal/resolve"
)

// stringParam returns a string parameter or its default
func stringParam(params map[string]interface{}, key, fallback string) string {
	if v, ok := params[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

// boolParam returns a bool parameter or its default
func boolParam(params map[string]interface{}, key string, fallback bool) bool {
	if v, ok := params[key].(bool); ok {
		return v
	}
	return fallback
}

// runAnalysis performs a fresh analysis for one tool call
func (s *MCPServer) runAnalysis(projectPath string, internalOnly bool) (*analysis.Result, error) {
	opts := s.opts
	opts.InternalOnly = internalOnly
	opts.Logger = s.logger

	analyzer := analysis.New(opts)
	return analyzer.Analyze(context.Background(), projectPath)
}

// toolAnalyzeProject implements the analyze_project tool
func (s *MCPServer) toolAnalyzeProject(params map[string]interface{}) (string, error) {
	projectPath := stringParam(params, "project_path", ".")
	includeExternal := boolParam(params, "include_external", false)
	outputFormat := stringParam(params, "output_format", "json")

	result, err := s.runAnalysis(projectPath, !includeExternal)
	if err != nil {
		return "", err
	}

	renderer := render.New(result.Graph, s.logger)
	switch outputFormat {
	case "text":
		return renderer.Text(), nil
	case "dot":
		return renderer.DOT(includeExternal), nil
	default:
		return renderer.JSON()
	}
}

// toolFindCycles implements the find_cycles tool
func (s *MCPServer) toolFindCycles(params map[string]interface{}) (string, error) {
	projectPath := stringParam(params, "project_path", ".")
	detailed := boolParam(params, "detailed", true)

	result, err := s.runAnalysis(projectPath, true)
	if err != nil {
		return "", err
	}

	cycles := result.Graph.FindCycles()
	if len(cycles) == 0 {
		return "No circular dependencies found.", nil
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Found %d circular dependencies:\n", len(cycles)))
	for i, cycle := range cycles {
		b.WriteString(fmt.Sprintf("\nCycle %d:\n", i+1))
		if detailed {
			for _, path := range cycle {
				b.WriteString(fmt.Sprintf("  -> %s\n", result.Graph.RelPath(path)))
			}
		} else {
			b.WriteString(fmt.Sprintf("  %d modules involved\n", len(cycle)))
		}
	}

	return b.String(), nil
}

// toolTraceImports implements the trace_imports tool
func (s *MCPServer) toolTraceImports(params map[string]interface{}) (string, error) {
	projectPath := stringParam(params, "project_path", ".")
	fromModule := stringParam(params, "from_module", "")
	toModule := stringParam(params, "to_module", "")

	if fromModule == "" || toModule == "" {
		return "", fmt.Errorf("both from_module and to_module are required")
	}

	result, err := s.runAnalysis(projectPath, true)
	if err != nil {
		return "", err
	}

	fromPath := filepath.Join(result.Root, filepath.FromSlash(fromModule))
	toPath := filepath.Join(result.Root, filepath.FromSlash(toModule))

	if _, ok := result.Graph.Nodes[fromPath]; !ok {
		return "", fmt.Errorf("module not found: %s", fromModule)
	}
	if _, ok := result.Graph.Nodes[toPath]; !ok {
		return "", fmt.Errorf("module not found: %s", toModule)
	}

	if result.Graph.HasDependency(fromPath, toPath) {
		return fmt.Sprintf("✓ Direct import: %s -> %s", fromModule, toModule), nil
	}

	paths := analysis.TracePaths(result.Graph, fromPath, toPath, 5)
	if len(paths) == 0 {
		return fmt.Sprintf("✗ No import path found from %s to %s", fromModule, toModule), nil
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Found %d import path(s):\n", len(paths)))
	for i, path := range paths {
		b.WriteString(fmt.Sprintf("\nPath %d (%d hop(s)):\n", i+1, len(path)-1))
		for j, node := range path {
			if j == 0 {
				b.WriteString(fmt.Sprintf("  %s\n", result.Graph.RelPath(node)))
			} else {
				b.WriteString(fmt.Sprintf("  -> %s\n", result.Graph.RelPath(node)))
			}
		}
	}

	return b.String(), nil
}

// toolGetStats implements the get_stats tool
func (s *MCPServer) toolGetStats(params map[string]interface{}) (string, error) {
	projectPath := stringParam(params, "project_path", ".")

	result, err := s.runAnalysis(projectPath, false)
	if err != nil {
		return "", err
	}

	stats := result.Graph.Stats()

	ranked := func(items []graph.PathCount) []map[string]interface{} {
		out := make([]map[string]interface{}, 0, len(items))
		for _, item := range items {
			out = append(out, map[string]interface{}{
				"file":        result.Graph.RelPath(item.Path),
				"importCount": item.Count,
			})
		}
		return out
	}

	payload := map[string]interface{}{
		"summary": map[string]interface{}{
			"totalFiles":           stats.TotalFiles,
			"totalDependencies":    stats.TotalDependencies,
			"externalDependencies": stats.TotalExternal,
			"circularDependencies": stats.Cycles,
		},
		"mostImported": ranked(stats.MostImported),
		"mostImports":  ranked(stats.MostImports),
	}

	jsonBytes, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}

	return string(jsonBytes), nil
}

// toolCheckModule implements the check_module tool
func (s *MCPServer) toolCheckModule(params map[string]interface{}) (string, error) {
	modulePath := stringParam(params, "module_path", "")
	if modulePath == "" {
		return "", fmt.Errorf("module_path is required")
	}
	includeIndirect := boolParam(params, "include_indirect", false)

	absPath, err := filepath.Abs(modulePath)
	if err != nil {
		return "", fmt.Errorf("module not found: %s", modulePath)
	}
	if _, err := os.Stat(absPath); err != nil {
		return "", fmt.Errorf("module not found: %s", modulePath)
	}

	extractor := extract.NewExtractor()
	records, err := extractor.Extract(context.Background(), absPath)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", modulePath, err)
	}

	var absolute, relative []extract.Record
	for _, rec := range records {
		if rec.Level == 0 {
			absolute = append(absolute, rec)
		} else {
			relative = append(relative, rec)
		}
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Dependencies for %s:\n\n", modulePath))
	b.WriteString(fmt.Sprintf("Total imports: %d\n", len(records)))

	if len(absolute) > 0 {
		b.WriteString("\nAbsolute imports:\n")
		for _, rec := range absolute {
			if rec.IsFrom {
				b.WriteString(fmt.Sprintf("  from %s import %s\n", rec.Module, strings.Join(rec.Names, ", ")))
			} else {
				b.WriteString(fmt.Sprintf("  import %s\n", rec.Module))
			}
		}
	}

	if len(relative) > 0 {
		b.WriteString("\nRelative imports:\n")
		for _, rec := range relative {
			dots := strings.Repeat(".", rec.Level)
			if rec.Module != "" {
				b.WriteString(fmt.Sprintf("  from %s%s import %s\n", dots, rec.Module, strings.Join(rec.Names, ", ")))
			} else {
				b.WriteString(fmt.Sprintf("  from %s import %s\n", dots, strings.Join(rec.Names, ", ")))
			}
		}
	}

	resolver := resolve.NewResolver(filepath.Dir(absPath), s.opts.ExtraStdlib, s.logger)
	externals := externalModules(absolute, resolver)
	if len(externals) > 0 {
		b.WriteString("\nExternal modules:\n")
		for _, name := range externals {
			b.WriteString(fmt.Sprintf("  %s\n", name))
		}
	}

	if includeIndirect {
		indirect, err := s.indirectDependencies(absPath)
		if err != nil {
			return "", err
		}
		if len(indirect) > 0 {
			b.WriteString("\nIndirect internal dependencies:\n")
			for _, p := range indirect {
				b.WriteString(fmt.Sprintf("  %s\n", p))
			}
		}
	}

	return b.String(), nil
}

// externalModules classifies the absolute imports that resolve nowhere
// in the module's own tree, deduplicated and sorted.
func externalModules(records []extract.Record, resolver *resolve.Resolver) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, rec := range records {
		if rec.Module == "" {
			continue
		}
		if _, dup := seen[rec.Module]; dup {
			continue
		}
		seen[rec.Module] = struct{}{}
		if resolver.IsExternal(rec.Module) {
			names = append(names, rec.Module)
		}
	}
	sort.Strings(names)
	return names
}

// indirectDependencies analyzes the module's directory and walks
// resolved edges transitively from the module. Direct imports and the
// module itself are excluded from the result.
func (s *MCPServer) indirectDependencies(absPath string) ([]string, error) {
	result, err := s.runAnalysis(filepath.Dir(absPath), true)
	if err != nil {
		return nil, err
	}

	node, ok := result.Graph.Nodes[absPath]
	if !ok {
		return nil, nil
	}

	visited := map[string]struct{}{absPath: {}}
	queue := graph.SortedKeys(node.Imports)
	var indirect []string

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if _, seen := visited[current]; seen {
			continue
		}
		visited[current] = struct{}{}

		if _, isDirect := node.Imports[current]; !isDirect {
			indirect = append(indirect, result.Graph.RelPath(current))
		}
		if next, ok := result.Graph.Nodes[current]; ok {
			queue = append(queue, graph.SortedKeys(next.Imports)...)
		}
	}

	sort.Strings(indirect)
	return indirect, nil
}
