package render

import (
	"database/sql"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"gopkg.in/yaml.v3"

	"depscope/internal/errors"
	"depscope/internal/graph"
)

// sampleGraph builds a small project graph:
//
//	main.py -> pkg/common.py, pkg/util.py
//	pkg/util.py -> pkg/common.py
//	main.py has one external (requests)
func sampleGraph(t *testing.T) *graph.Graph {
	t.Helper()
	root := t.TempDir()
	g := graph.New()
	g.Root = root

	abs := func(rel string) string { return filepath.Join(root, filepath.FromSlash(rel)) }
	g.AddDependency(abs("main.py"), abs("pkg/common.py"))
	g.AddDependency(abs("main.py"), abs("pkg/util.py"))
	g.AddDependency(abs("pkg/util.py"), abs("pkg/common.py"))
	g.AddExternal(abs("main.py"), "requests")
	return g
}

func TestDocument(t *testing.T) {
	doc := New(sampleGraph(t), nil).Document()

	if len(doc.Nodes) != 3 {
		t.Fatalf("nodes = %d, want 3", len(doc.Nodes))
	}
	main := doc.Nodes["main.py"]
	if main.ImportsCount != 2 || main.ImportedByCount != 0 || main.ExternalCount != 1 {
		t.Errorf("main.py summary = %+v", main)
	}
	common := doc.Nodes["pkg/common.py"]
	if common.ImportsCount != 0 || common.ImportedByCount != 2 {
		t.Errorf("pkg/common.py summary = %+v", common)
	}

	wantEdges := []Edge{
		{From: "main.py", To: "pkg/common.py"},
		{From: "main.py", To: "pkg/util.py"},
		{From: "pkg/util.py", To: "pkg/common.py"},
	}
	if !reflect.DeepEqual(doc.Edges, wantEdges) {
		t.Errorf("edges = %v, want %v", doc.Edges, wantEdges)
	}

	if !reflect.DeepEqual(doc.External, map[string][]string{"main.py": {"requests"}}) {
		t.Errorf("external = %v", doc.External)
	}
}

func TestJSON(t *testing.T) {
	out, err := New(sampleGraph(t), nil).JSON()
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(out), &raw); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	for _, key := range []string{"nodes", "edges", "external"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("missing top-level key %q", key)
		}
	}
	if !strings.Contains(out, "importsCount") {
		t.Error("node summaries should use camelCase keys")
	}
}

func TestYAML(t *testing.T) {
	out, err := New(sampleGraph(t), nil).YAML()
	if err != nil {
		t.Fatalf("YAML: %v", err)
	}

	var doc Document
	if err := yaml.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if len(doc.Nodes) != 3 || len(doc.Edges) != 3 {
		t.Errorf("roundtrip lost data: %d nodes, %d edges", len(doc.Nodes), len(doc.Edges))
	}
}

func TestText(t *testing.T) {
	g := sampleGraph(t)
	out := New(g, nil).Text()

	for _, want := range []string{
		"Dependency Analysis Report",
		"Files analyzed: 3",
		"Internal dependencies: 3",
		"External dependencies: 1",
		"Circular dependencies: 0",
		"Most imported files:",
		"  pkg/common.py: 2 imports",
		"Files with most imports:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q\n%s", want, out)
		}
	}
	if strings.Contains(out, "Cycle 1:") {
		t.Error("acyclic graph reported a cycle")
	}
}

func TestTextWithCycle(t *testing.T) {
	g := graph.New()
	g.AddDependency("a.py", "b.py")
	g.AddDependency("b.py", "a.py")

	out := New(g, nil).Text()
	if !strings.Contains(out, "Circular dependencies: 1") {
		t.Errorf("cycle count missing:\n%s", out)
	}
	if !strings.Contains(out, "Cycle 1:") || !strings.Contains(out, "-> a.py") {
		t.Errorf("cycle listing missing:\n%s", out)
	}
}

func TestDOT(t *testing.T) {
	out := New(sampleGraph(t), nil).DOT(false)

	for _, want := range []string{
		"digraph dependencies {",
		"    rankdir=\"LR\";",
		"    node [shape=box];",
		"    \"pkg/common.py\" [label=\"pkg\\ncommon.py\", fillcolor=\"lightgreen\", style=filled];",
		"    \"main.py\" [label=\"main.py\", fillcolor=\"lightblue\", style=filled];",
		"    \"pkg/util.py\" [label=\"pkg\\nutil.py\", fillcolor=\"white\", style=filled];",
		"    \"main.py\" -> \"pkg/common.py\";",
		"    \"pkg/util.py\" -> \"pkg/common.py\";",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("DOT missing %q\n%s", want, out)
		}
	}
	if strings.Contains(out, "External dependencies") {
		t.Error("external section rendered without showExternal")
	}
}

func TestDOTShowExternal(t *testing.T) {
	out := New(sampleGraph(t), nil).DOT(true)

	for _, want := range []string{
		"    // External dependencies",
		"    ext_requests [label=\"requests\", shape=ellipse, style=dashed];",
		"    \"main.py\" -> ext_requests [style=dashed];",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("DOT missing %q\n%s", want, out)
		}
	}
}

func TestDOTYellowHub(t *testing.T) {
	g := graph.New()
	g.AddDependency("hub.py", "tail.py")
	for _, from := range []string{"a.py", "b.py", "c.py", "d.py"} {
		g.AddDependency(from, "hub.py")
	}

	out := New(g, nil).DOT(false)
	if !strings.Contains(out, "\"hub.py\" [label=\"hub.py\", fillcolor=\"yellow\", style=filled];") {
		t.Errorf("hub not yellow:\n%s", out)
	}
}

func TestSave(t *testing.T) {
	r := New(sampleGraph(t), nil)
	dir := t.TempDir()

	t.Run("json file", func(t *testing.T) {
		path := filepath.Join(dir, "deps.json")
		if err := r.Save(path, false); err != nil {
			t.Fatalf("Save: %v", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		var doc Document
		if err := json.Unmarshal(data, &doc); err != nil {
			t.Fatalf("saved JSON invalid: %v", err)
		}
	})

	t.Run("dot file", func(t *testing.T) {
		path := filepath.Join(dir, "deps.dot")
		if err := r.Save(path, true); err != nil {
			t.Fatalf("Save: %v", err)
		}
		data, _ := os.ReadFile(path)
		if !strings.HasPrefix(string(data), "digraph dependencies {") {
			t.Errorf("saved DOT malformed:\n%s", data)
		}
	})

	t.Run("gzip wraps inner format", func(t *testing.T) {
		path := filepath.Join(dir, "deps.json.gz")
		if err := r.Save(path, false); err != nil {
			t.Fatalf("Save: %v", err)
		}

		f, err := os.Open(path)
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		defer f.Close()
		zr, err := gzip.NewReader(f)
		if err != nil {
			t.Fatalf("gzip: %v", err)
		}
		defer zr.Close()
		data, err := io.ReadAll(zr)
		if err != nil {
			t.Fatalf("decompress: %v", err)
		}
		var doc Document
		if err := json.Unmarshal(data, &doc); err != nil {
			t.Fatalf("compressed JSON invalid: %v", err)
		}
	})

	t.Run("unknown extension", func(t *testing.T) {
		err := r.Save(filepath.Join(dir, "deps.xlsx"), false)
		derr, ok := err.(*errors.DepscopeError)
		if !ok || derr.Code != errors.RenderFailed {
			t.Fatalf("err = %v, want RenderFailed", err)
		}
	})

	t.Run("unknown compressed extension", func(t *testing.T) {
		err := r.Save(filepath.Join(dir, "deps.xlsx.gz"), false)
		derr, ok := err.(*errors.DepscopeError)
		if !ok || derr.Code != errors.RenderFailed {
			t.Fatalf("err = %v, want RenderFailed", err)
		}
	})
}

func TestSaveSQLite(t *testing.T) {
	r := New(sampleGraph(t), nil)
	path := filepath.Join(t.TempDir(), "deps.db")

	if err := r.SaveSQLite(path); err != nil {
		t.Fatalf("SaveSQLite: %v", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer conn.Close()

	counts := map[string]int{"files": 3, "edges": 3, "externals": 1}
	for table, want := range counts {
		var got int
		if err := conn.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&got); err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		if got != want {
			t.Errorf("%s rows = %d, want %d", table, got, want)
		}
	}

	var importedBy int
	err = conn.QueryRow("SELECT imported_by_count FROM files WHERE path = 'pkg/common.py'").Scan(&importedBy)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if importedBy != 2 {
		t.Errorf("pkg/common.py imported_by_count = %d, want 2", importedBy)
	}

	// Re-export over the existing file must replace, not append.
	if err := r.SaveSQLite(path); err != nil {
		t.Fatalf("re-export: %v", err)
	}
}
