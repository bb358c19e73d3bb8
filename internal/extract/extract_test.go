package extract

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writePy(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.py")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   []Record
	}{
		{
			name:   "simple import",
			source: "import os\n",
			want:   []Record{{Module: "os", Level: 0, Line: 1, IsFrom: false}},
		},
		{
			name:   "dotted import",
			source: "import os.path\n",
			want:   []Record{{Module: "os.path", Level: 0, Line: 1, IsFrom: false}},
		},
		{
			name:   "multiple modules in one statement",
			source: "import os, sys\n",
			want: []Record{
				{Module: "os", Level: 0, Line: 1, IsFrom: false},
				{Module: "sys", Level: 0, Line: 1, IsFrom: false},
			},
		},
		{
			name:   "aliased import keeps the module name",
			source: "import numpy as np\n",
			want:   []Record{{Module: "numpy", Level: 0, Line: 1, IsFrom: false}},
		},
		{
			name:   "from import",
			source: "from os.path import join, exists\n",
			want:   []Record{{Module: "os.path", Names: []string{"join", "exists"}, Level: 0, Line: 1, IsFrom: true}},
		},
		{
			name:   "from import with alias",
			source: "from collections import OrderedDict as OD\n",
			want:   []Record{{Module: "collections", Names: []string{"OrderedDict"}, Level: 0, Line: 1, IsFrom: true}},
		},
		{
			name:   "parenthesized name list",
			source: "from typing import (\n    Any,\n    Optional,\n)\n",
			want:   []Record{{Module: "typing", Names: []string{"Any", "Optional"}, Level: 0, Line: 1, IsFrom: true}},
		},
		{
			name:   "wildcard import",
			source: "from utils import *\n",
			want:   []Record{{Module: "utils", Names: []string{"*"}, Level: 0, Line: 1, IsFrom: true}},
		},
		{
			name:   "relative import of sibling",
			source: "from . import helpers\n",
			want:   []Record{{Module: "", Names: []string{"helpers"}, Level: 1, Line: 1, IsFrom: true}},
		},
		{
			name:   "relative import with module",
			source: "from .models import User\n",
			want:   []Record{{Module: "models", Names: []string{"User"}, Level: 1, Line: 1, IsFrom: true}},
		},
		{
			name:   "double-dot relative import",
			source: "from ..pkg.sub import thing\n",
			want:   []Record{{Module: "pkg.sub", Names: []string{"thing"}, Level: 2, Line: 1, IsFrom: true}},
		},
		{
			name:   "no imports",
			source: "x = 1\n\n\ndef main():\n    return x\n",
			want:   nil,
		},
	}

	extractor := NewExtractor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractor.Extract(context.Background(), writePy(t, tt.source))
			if err != nil {
				t.Fatalf("Extract: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestExtractNestedImports(t *testing.T) {
	source := `import os

def lazy():
    import json
    return json

class Thing:
    def method(self):
        from collections import deque
        return deque

if True:
    import sys
`
	got, err := NewExtractor().Extract(context.Background(), writePy(t, source))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	modules := make([]string, 0, len(got))
	for _, rec := range got {
		modules = append(modules, rec.Module)
	}
	want := []string{"os", "json", "collections", "sys"}
	if !reflect.DeepEqual(modules, want) {
		t.Errorf("modules = %v, want %v", modules, want)
	}
}

func TestExtractLineNumbers(t *testing.T) {
	source := "x = 1\nimport os\n\nfrom sys import argv\n"
	got, err := NewExtractor().Extract(context.Background(), writePy(t, source))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}
	if got[0].Line != 2 {
		t.Errorf("first record line = %d, want 2", got[0].Line)
	}
	if got[1].Line != 4 {
		t.Errorf("second record line = %d, want 4", got[1].Line)
	}
}

func TestExtractMalformedSource(t *testing.T) {
	// The recognizable import survives; the broken tail is ignored.
	source := "import os\ndef broken(:\n"
	got, err := NewExtractor().Extract(context.Background(), writePy(t, source))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(got) != 1 || got[0].Module != "os" {
		t.Errorf("got %+v, want the os import", got)
	}
}

func TestExtractWindowReparse(t *testing.T) {
	// An unterminated docstring crossing the window boundary forces a
	// full re-parse, which then sees the late import.
	source := "\"\"\"" + strings.Repeat("padding ", 20) + "\"\"\"\nimport sys\n"
	extractor := &Extractor{windowBytes: 40}

	got, err := extractor.Extract(context.Background(), writePy(t, source))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(got) != 1 || got[0].Module != "sys" {
		t.Errorf("got %+v, want the sys import past the window", got)
	}
}

func TestExtractMissingFile(t *testing.T) {
	_, err := NewExtractor().Extract(context.Background(), filepath.Join(t.TempDir(), "missing.py"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
