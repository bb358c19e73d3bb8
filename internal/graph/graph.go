// Package graph stores the file dependency graph and its derived views.
package graph

import (
	"path/filepath"
	"sort"
)

// Node is one analyzed file together with its edge sets. All paths are
// canonical absolute paths; relativization happens at render time.
type Node struct {
	Path       string
	Imports    map[string]struct{}
	ImportedBy map[string]struct{}
	Externals  map[string]struct{}
}

// Graph keys nodes by file path. It is not safe for concurrent mutation;
// build it fully, then read from as many goroutines as you like.
type Graph struct {
	Nodes map[string]*Node
	Root  string
}

func New() *Graph {
	return &Graph{Nodes: make(map[string]*Node)}
}

// AddFile registers a file, keeping an existing node's edges intact.
func (g *Graph) AddFile(path string) *Node {
	if node, ok := g.Nodes[path]; ok {
		return node
	}
	node := &Node{
		Path:       path,
		Imports:    make(map[string]struct{}),
		ImportedBy: make(map[string]struct{}),
		Externals:  make(map[string]struct{}),
	}
	g.Nodes[path] = node
	return node
}

// AddDependency records a resolved import edge, creating both endpoints
// as needed and mirroring the reverse direction.
func (g *Graph) AddDependency(from, to string) {
	fromNode := g.AddFile(from)
	toNode := g.AddFile(to)
	fromNode.Imports[to] = struct{}{}
	toNode.ImportedBy[from] = struct{}{}
}

// AddExternal records an unresolved external module name against a file.
func (g *Graph) AddExternal(from, module string) {
	g.AddFile(from).Externals[module] = struct{}{}
}

// HasDependency reports whether from holds a resolved edge to to.
func (g *Graph) HasDependency(from, to string) bool {
	node, ok := g.Nodes[from]
	if !ok {
		return false
	}
	_, ok = node.Imports[to]
	return ok
}

// RelPath converts an absolute node path to a root-relative slash path
// for display. Paths outside the root pass through unchanged.
func (g *Graph) RelPath(path string) string {
	if g.Root == "" {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(g.Root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// SortedKeys returns a set's members in lexical order.
func SortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// sortedPaths returns the node paths in lexical order so traversals are
// reproducible run to run.
func (g *Graph) sortedPaths() []string {
	out := make([]string, 0, len(g.Nodes))
	for path := range g.Nodes {
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}

func (g *Graph) sortedImports(path string) []string {
	node, ok := g.Nodes[path]
	if !ok {
		return nil
	}
	return SortedKeys(node.Imports)
}
