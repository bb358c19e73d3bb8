// Package extract turns Python source files into import records using a
// tree-sitter parse. Source is never executed.
package extract

import (
	"context"
	"os"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// Record is one import statement found in a source file.
//
// "import a.b, c" produces one record per listed module. A
// "from X import a, b" form produces a single record carrying the names.
type Record struct {
	Module string   `json:"module"`
	Names  []string `json:"names,omitempty"`
	Level  int      `json:"level"`
	Line   int      `json:"line"`
	IsFrom bool     `json:"isFrom"`
}

// DefaultWindowBytes is how much of a file the fast path parses. Imports
// overwhelmingly sit near the top; the full file is only parsed when the
// truncated parse reports syntax errors.
const DefaultWindowBytes = 10240

// Extractor parses Python files and collects their import statements.
// The zero value is not usable; construct with NewExtractor.
type Extractor struct {
	windowBytes int
}

func NewExtractor() *Extractor {
	return &Extractor{windowBytes: DefaultWindowBytes}
}

// Extract returns the import records of one file in source order. Imports
// nested inside functions, classes, and conditional blocks count the same
// as top-level ones. Files that fail to parse cleanly still yield the
// records found in the recognized parts of the tree; only I/O failures
// return an error.
func (e *Extractor) Extract(ctx context.Context, path string) ([]Record, error) {
	source, truncated, err := e.readWindow(path)
	if err != nil {
		return nil, err
	}

	// A fresh parser per call keeps Extract safe for concurrent use.
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, err
	}

	if truncated && tree.RootNode().HasError() {
		// The window likely cut a statement in half. Re-parse the whole
		// file before giving up on the tail.
		full, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		source = full
		tree, err = parser.ParseCtx(ctx, nil, source)
		if err != nil {
			return nil, err
		}
	}

	var records []Record
	collectImports(tree.RootNode(), source, &records)
	return records, nil
}

// readWindow reads at most windowBytes of the file and reports whether
// the file was larger than the window.
func (e *Extractor) readWindow(path string) ([]byte, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, false, err
	}
	defer f.Close()

	buf := make([]byte, e.windowBytes+1)
	n := 0
	for n < len(buf) {
		read, err := f.Read(buf[n:])
		n += read
		if err != nil {
			break
		}
	}

	if n > e.windowBytes {
		return buf[:e.windowBytes], true, nil
	}
	return buf[:n], false, nil
}

func collectImports(node *sitter.Node, source []byte, records *[]Record) {
	switch node.Type() {
	case "import_statement":
		line := int(node.StartPoint().Row) + 1
		for i := 0; i < int(node.ChildCount()); i++ {
			child := node.Child(i)
			if name := moduleName(child, source); name != "" {
				*records = append(*records, Record{
					Module: name,
					Level:  0,
					Line:   line,
					IsFrom: false,
				})
			}
		}
		return

	case "import_from_statement":
		*records = append(*records, fromRecord(node, source))
		return
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		collectImports(node.Child(i), source, records)
	}
}

// fromRecord decodes a "from X import ..." statement into a single record.
func fromRecord(node *sitter.Node, source []byte) Record {
	rec := Record{
		Line:   int(node.StartPoint().Row) + 1,
		IsFrom: true,
	}

	sawImport := false
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)

		switch child.Type() {
		case "import":
			sawImport = true

		case "relative_import":
			// Leading dots set the level; an optional dotted name follows.
			for j := 0; j < int(child.ChildCount()); j++ {
				part := child.Child(j)
				switch part.Type() {
				case "import_prefix":
					rec.Level = len(part.Content(source))
				case "dotted_name":
					rec.Module = part.Content(source)
				}
			}

		case "dotted_name":
			if sawImport {
				rec.Names = append(rec.Names, child.Content(source))
			} else {
				rec.Module = child.Content(source)
			}

		case "aliased_import":
			if name := moduleName(child, source); name != "" && sawImport {
				rec.Names = append(rec.Names, name)
			}

		case "wildcard_import":
			rec.Names = append(rec.Names, "*")
		}
	}

	return rec
}

// moduleName extracts the dotted name from a dotted_name or aliased_import
// node; "x as y" records x, not the alias.
func moduleName(node *sitter.Node, source []byte) string {
	switch node.Type() {
	case "dotted_name":
		return node.Content(source)
	case "aliased_import":
		for i := 0; i < int(node.ChildCount()); i++ {
			child := node.Child(i)
			if child.Type() == "dotted_name" {
				return child.Content(source)
			}
		}
	}
	return ""
}
