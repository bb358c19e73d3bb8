package render

import (
	"fmt"
	"strings"

	"depscope/internal/graph"
)

// DOT renders the graph in Graphviz syntax. Node fill encodes the file's
// role: leaves (imported, importing nothing) are lightgreen, roots
// (importing, never imported) lightblue, heavily-imported files (more
// than three importers) yellow, everything else white.
func (r *Renderer) DOT(showExternal bool) string {
	var b strings.Builder
	b.WriteString("digraph dependencies {\n")
	b.WriteString("    rankdir=\"LR\";\n")
	b.WriteString("    node [shape=box];\n\n")

	paths := r.sortedNodePaths()

	for _, path := range paths {
		node := r.graph.Nodes[path]
		rel := r.graph.RelPath(path)
		// Literal \n sequences let Graphviz stack the path segments.
		label := strings.ReplaceAll(rel, "/", `\n`)
		b.WriteString(fmt.Sprintf("    \"%s\" [label=\"%s\", fillcolor=\"%s\", style=filled];\n",
			rel, label, nodeColor(node)))
	}
	b.WriteString("\n")

	for _, path := range paths {
		rel := r.graph.RelPath(path)
		for _, to := range graph.SortedKeys(r.graph.Nodes[path].Imports) {
			b.WriteString(fmt.Sprintf("    \"%s\" -> \"%s\";\n", rel, r.graph.RelPath(to)))
		}
	}

	if showExternal {
		b.WriteString("\n    // External dependencies\n")
		declared := make(map[string]struct{})
		for _, path := range paths {
			rel := r.graph.RelPath(path)
			for _, module := range graph.SortedKeys(r.graph.Nodes[path].Externals) {
				id := externalNodeID(module)
				if _, ok := declared[id]; !ok {
					declared[id] = struct{}{}
					b.WriteString(fmt.Sprintf("    %s [label=\"%s\", shape=ellipse, style=dashed];\n", id, module))
				}
				b.WriteString(fmt.Sprintf("    \"%s\" -> %s [style=dashed];\n", rel, id))
			}
		}
	}

	b.WriteString("}\n")
	return b.String()
}

func nodeColor(node *graph.Node) string {
	switch {
	case len(node.ImportedBy) > 0 && len(node.Imports) == 0:
		return "lightgreen"
	case len(node.Imports) > 0 && len(node.ImportedBy) == 0:
		return "lightblue"
	case len(node.ImportedBy) > 3:
		return "yellow"
	default:
		return "white"
	}
}

// externalNodeID derives a DOT identifier for an external module; dots
// are not valid in bare identifiers.
func externalNodeID(module string) string {
	return "ext_" + strings.ReplaceAll(module, ".", "_")
}
