// Package render produces output artifacts from a finished dependency
// graph: machine documents (JSON, YAML, SQLite), Graphviz DOT and its
// image forms, and a human-readable text report.
package render

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/gzip"
	"gopkg.in/yaml.v3"

	"depscope/internal/errors"
	"depscope/internal/graph"
	"depscope/internal/logging"
)

// NodeSummary is the per-file entry of the serialized document.
type NodeSummary struct {
	ImportsCount    int `json:"importsCount" yaml:"importsCount"`
	ImportedByCount int `json:"importedByCount" yaml:"importedByCount"`
	ExternalCount   int `json:"externalCount" yaml:"externalCount"`
}

// Edge is one resolved dependency, both ends root-relative.
type Edge struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// Document is the serializable snapshot of a graph.
type Document struct {
	Nodes    map[string]NodeSummary `json:"nodes" yaml:"nodes"`
	Edges    []Edge                 `json:"edges" yaml:"edges"`
	External map[string][]string    `json:"external" yaml:"external"`
}

// Renderer renders one graph into the supported output forms.
type Renderer struct {
	graph  *graph.Graph
	logger *slog.Logger
}

func New(g *graph.Graph, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = logging.NewDiscard()
	}
	return &Renderer{graph: g, logger: logger}
}

// Document builds the serializable snapshot. Edges and external lists are
// sorted so identical graphs serialize identically.
func (r *Renderer) Document() Document {
	doc := Document{
		Nodes:    make(map[string]NodeSummary, len(r.graph.Nodes)),
		Edges:    []Edge{},
		External: make(map[string][]string),
	}

	for _, path := range r.sortedNodePaths() {
		node := r.graph.Nodes[path]
		rel := r.graph.RelPath(path)

		doc.Nodes[rel] = NodeSummary{
			ImportsCount:    len(node.Imports),
			ImportedByCount: len(node.ImportedBy),
			ExternalCount:   len(node.Externals),
		}
		for _, to := range graph.SortedKeys(node.Imports) {
			doc.Edges = append(doc.Edges, Edge{From: rel, To: r.graph.RelPath(to)})
		}
		if len(node.Externals) > 0 {
			doc.External[rel] = graph.SortedKeys(node.Externals)
		}
	}

	return doc
}

// JSON renders the document as indented JSON.
func (r *Renderer) JSON() (string, error) {
	data, err := json.MarshalIndent(r.Document(), "", "  ")
	if err != nil {
		return "", errors.NewDepscopeError(errors.RenderFailed,
			"failed to marshal JSON document", err, nil, nil)
	}
	return string(data), nil
}

// YAML renders the document as YAML.
func (r *Renderer) YAML() (string, error) {
	data, err := yaml.Marshal(r.Document())
	if err != nil {
		return "", errors.NewDepscopeError(errors.RenderFailed,
			"failed to marshal YAML document", err, nil, nil)
	}
	return string(data), nil
}

// Text renders the human-readable analysis report.
func (r *Renderer) Text() string {
	stats := r.graph.Stats()
	cycles := r.graph.FindCycles()

	var b strings.Builder
	b.WriteString("Dependency Analysis Report\n")
	b.WriteString(strings.Repeat("=", 50) + "\n\n")

	b.WriteString(fmt.Sprintf("Files analyzed: %d\n", stats.TotalFiles))
	b.WriteString(fmt.Sprintf("Internal dependencies: %d\n", stats.TotalDependencies))
	b.WriteString(fmt.Sprintf("External dependencies: %d\n", stats.TotalExternal))
	b.WriteString(fmt.Sprintf("Circular dependencies: %d\n\n", stats.Cycles))

	if len(stats.MostImported) > 0 {
		b.WriteString("Most imported files:\n")
		for _, pc := range stats.MostImported {
			b.WriteString(fmt.Sprintf("  %s: %d imports\n", r.graph.RelPath(pc.Path), pc.Count))
		}
		b.WriteString("\n")
	}

	if len(stats.MostImports) > 0 {
		b.WriteString("Files with most imports:\n")
		for _, pc := range stats.MostImports {
			b.WriteString(fmt.Sprintf("  %s: %d imports\n", r.graph.RelPath(pc.Path), pc.Count))
		}
		b.WriteString("\n")
	}

	if len(cycles) > 0 {
		b.WriteString("Circular dependencies:\n")
		for i, cycle := range cycles {
			b.WriteString(fmt.Sprintf("  Cycle %d:\n", i+1))
			for _, member := range cycle {
				b.WriteString(fmt.Sprintf("    -> %s\n", r.graph.RelPath(member)))
			}
		}
	}

	return b.String()
}

// Save writes the graph to path, selecting the format from the file
// extension. A trailing .gz compresses the inner format. PNG and SVG go
// through SavePNG/SaveSVG since they need a context for the dot call.
func (r *Renderer) Save(path string, showExternal bool) error {
	ext := strings.ToLower(filepath.Ext(path))

	if ext == ".gz" {
		return r.saveCompressed(path, showExternal)
	}

	var content string
	var err error
	switch ext {
	case ".dot":
		content = r.DOT(showExternal)
	case ".json":
		content, err = r.JSON()
	case ".yaml", ".yml":
		content, err = r.YAML()
	case ".txt":
		content = r.Text()
	case ".db", ".sqlite":
		return r.SaveSQLite(path)
	default:
		return errors.NewDepscopeError(errors.RenderFailed,
			fmt.Sprintf("unsupported output extension %q (supported: .dot .json .yaml .yml .txt .db .sqlite .png .svg, plus .gz variants)", ext),
			nil, nil, nil)
	}
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return errors.NewDepscopeError(errors.RenderFailed,
			"failed to write "+path, err, nil, nil)
	}
	r.logger.Info("output written", "path", path, "format", strings.TrimPrefix(ext, "."))
	return nil
}

// saveCompressed renders the inner extension's format through gzip.
func (r *Renderer) saveCompressed(path string, showExternal bool) error {
	inner := strings.ToLower(filepath.Ext(strings.TrimSuffix(path, filepath.Ext(path))))

	var content string
	var err error
	switch inner {
	case ".dot":
		content = r.DOT(showExternal)
	case ".json":
		content, err = r.JSON()
	case ".yaml", ".yml":
		content, err = r.YAML()
	case ".txt":
		content = r.Text()
	default:
		return errors.NewDepscopeError(errors.RenderFailed,
			fmt.Sprintf("unsupported compressed extension %q.gz (supported: .dot.gz .json.gz .yaml.gz .yml.gz .txt.gz)", inner),
			nil, nil, nil)
	}
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.NewDepscopeError(errors.RenderFailed,
			"failed to create "+path, err, nil, nil)
	}
	defer f.Close()

	zw := gzip.NewWriter(f)
	if _, err := zw.Write([]byte(content)); err != nil {
		zw.Close()
		return errors.NewDepscopeError(errors.RenderFailed,
			"failed to compress "+path, err, nil, nil)
	}
	if err := zw.Close(); err != nil {
		return errors.NewDepscopeError(errors.RenderFailed,
			"failed to finish "+path, err, nil, nil)
	}

	r.logger.Info("output written", "path", path, "format", strings.TrimPrefix(inner, ".")+".gz")
	return nil
}

func (r *Renderer) sortedNodePaths() []string {
	paths := make([]string, 0, len(r.graph.Nodes))
	for p := range r.graph.Nodes {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
