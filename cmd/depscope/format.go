package main

import (
	"encoding/json"
	"fmt"
	"strings"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"
	FormatHuman OutputFormat = "human"
)

// FormatResponse formats a response according to the specified format
func FormatResponse(resp interface{}, format OutputFormat) (string, error) {
	switch format {
	case FormatJSON:
		return formatJSON(resp)
	case FormatHuman:
		return formatHuman(resp)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// formatJSON formats the response as JSON
func formatJSON(resp interface{}) (string, error) {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}

// formatHuman formats the response in human-readable format
func formatHuman(resp interface{}) (string, error) {
	switch v := resp.(type) {
	case *CyclesResponseCLI:
		return formatCyclesHuman(v)
	case *StatsResponseCLI:
		return formatStatsHuman(v)
	case *TraceResponseCLI:
		return formatTraceHuman(v)
	case *CheckResponseCLI:
		return formatCheckHuman(v)
	default:
		// For unknown types, fall back to JSON
		return formatJSON(resp)
	}
}

// formatCyclesHuman formats a CyclesResponseCLI in human-readable format
func formatCyclesHuman(resp *CyclesResponseCLI) (string, error) {
	if resp.Count == 0 {
		return "No circular dependencies found.", nil
	}

	var b strings.Builder

	b.WriteString(fmt.Sprintf("Found %d circular dependencies:\n", resp.Count))
	for i, cycle := range resp.Cycles {
		b.WriteString(fmt.Sprintf("\nCycle %d:\n", i+1))
		for _, member := range cycle {
			b.WriteString(fmt.Sprintf("  -> %s\n", member))
		}
	}

	return b.String(), nil
}

// formatStatsHuman formats a StatsResponseCLI in human-readable format
func formatStatsHuman(resp *StatsResponseCLI) (string, error) {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Dependency Statistics: %s\n", resp.Target))
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	b.WriteString(fmt.Sprintf("Files analyzed: %d\n", resp.Files))
	b.WriteString(fmt.Sprintf("Internal dependencies: %d\n", resp.Dependencies))
	b.WriteString(fmt.Sprintf("External dependencies: %d\n", resp.External))
	b.WriteString(fmt.Sprintf("Circular dependencies: %d\n", resp.Cycles))

	if len(resp.MostImported) > 0 {
		b.WriteString("\nMost imported files:\n")
		for _, pc := range resp.MostImported {
			b.WriteString(fmt.Sprintf("  %s: %d imports\n", pc.Path, pc.Count))
		}
	}

	if len(resp.MostImports) > 0 {
		b.WriteString("\nFiles with most imports:\n")
		for _, pc := range resp.MostImports {
			b.WriteString(fmt.Sprintf("  %s: %d imports\n", pc.Path, pc.Count))
		}
	}

	return b.String(), nil
}

// formatTraceHuman formats a TraceResponseCLI in human-readable format
func formatTraceHuman(resp *TraceResponseCLI) (string, error) {
	if resp.Direct {
		return fmt.Sprintf("✓ Direct import: %s -> %s\n", resp.From, resp.To), nil
	}
	if len(resp.Paths) == 0 {
		return fmt.Sprintf("✗ No import path found from %s to %s\n", resp.From, resp.To), nil
	}

	var b strings.Builder

	b.WriteString(fmt.Sprintf("Found %d import path(s):\n", len(resp.Paths)))
	for i, path := range resp.Paths {
		b.WriteString(fmt.Sprintf("\nPath %d (%d hop(s)):\n", i+1, len(path)-1))
		for j, node := range path {
			if j == 0 {
				b.WriteString(fmt.Sprintf("  %s\n", node))
			} else {
				b.WriteString(fmt.Sprintf("  -> %s\n", node))
			}
		}
	}

	return b.String(), nil
}

// formatCheckHuman formats a CheckResponseCLI in human-readable format
func formatCheckHuman(resp *CheckResponseCLI) (string, error) {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Dependencies for %s:\n\n", resp.Path))
	b.WriteString(fmt.Sprintf("Total imports: %d\n", resp.TotalImports))

	if len(resp.Absolute) > 0 {
		b.WriteString("\nAbsolute imports:\n")
		for _, rec := range resp.Absolute {
			if rec.IsFrom {
				b.WriteString(fmt.Sprintf("  from %s import %s\n", rec.Module, strings.Join(rec.Names, ", ")))
			} else {
				b.WriteString(fmt.Sprintf("  import %s\n", rec.Module))
			}
		}
	}

	if len(resp.Relative) > 0 {
		b.WriteString("\nRelative imports:\n")
		for _, rec := range resp.Relative {
			dots := strings.Repeat(".", rec.Level)
			if rec.Module != "" {
				b.WriteString(fmt.Sprintf("  from %s%s import %s\n", dots, rec.Module, strings.Join(rec.Names, ", ")))
			} else {
				b.WriteString(fmt.Sprintf("  from %s import %s\n", dots, strings.Join(rec.Names, ", ")))
			}
		}
	}

	if len(resp.External) > 0 {
		b.WriteString("\nExternal modules:\n")
		for _, name := range resp.External {
			b.WriteString(fmt.Sprintf("  %s\n", name))
		}
	}

	return b.String(), nil
}
