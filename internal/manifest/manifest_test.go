package manifest

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"depscope/internal/errors"
)

func writeManifest(t *testing.T, root, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(root, "DEPSCOPE.toml"), []byte(content), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
}

func TestLoad(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, `
project = "billing"
exclude_dirs = ["vendor", "migrations"]
ignore_globs = ["*_pb2.py"]
extra_stdlib = ["django", "celery"]
workers = 4
`)

	m, err := Load(root, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if m == nil {
		t.Fatal("Load() returned nil manifest for existing file")
	}

	if m.Project != "billing" {
		t.Errorf("Project = %q, want billing", m.Project)
	}
	if !reflect.DeepEqual(m.ExcludeDirs, []string{"vendor", "migrations"}) {
		t.Errorf("ExcludeDirs = %v", m.ExcludeDirs)
	}
	if !reflect.DeepEqual(m.IgnoreGlobs, []string{"*_pb2.py"}) {
		t.Errorf("IgnoreGlobs = %v", m.IgnoreGlobs)
	}
	if !reflect.DeepEqual(m.ExtraStdlib, []string{"django", "celery"}) {
		t.Errorf("ExtraStdlib = %v", m.ExtraStdlib)
	}
	if m.Workers != 4 {
		t.Errorf("Workers = %d, want 4", m.Workers)
	}
}

func TestLoad_Missing(t *testing.T) {
	m, err := Load(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("Load() error = %v, want nil for missing manifest", err)
	}
	if m != nil {
		t.Errorf("Load() = %+v, want nil for missing manifest", m)
	}
}

func TestLoad_UnknownKeys(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, `
project = "billing"
future_setting = true
workers = 2
`)

	m, err := Load(root, nil)
	if err != nil {
		t.Fatalf("Load() error = %v, unknown keys should only warn", err)
	}
	if m.Project != "billing" || m.Workers != 2 {
		t.Errorf("known keys lost: %+v", m)
	}
}

func TestLoad_Invalid(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "project = [unclosed")

	_, err := Load(root, nil)
	if err == nil {
		t.Fatal("Load() should fail on malformed TOML")
	}

	derr, ok := err.(*errors.DepscopeError)
	if !ok {
		t.Fatalf("error type = %T, want *errors.DepscopeError", err)
	}
	if derr.Code != errors.ManifestInvalid {
		t.Errorf("Code = %s, want %s", derr.Code, errors.ManifestInvalid)
	}
	if len(derr.SuggestedFixes) == 0 {
		t.Error("expected suggested fixes for invalid manifest")
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	root := t.TempDir()

	m := Default("scheduler")
	m.ExtraStdlib = []string{"airflow"}
	m.Workers = 8

	if err := m.Save(root); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(root, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Project != "scheduler" {
		t.Errorf("Project = %q, want scheduler", loaded.Project)
	}
	if !reflect.DeepEqual(loaded.ExtraStdlib, []string{"airflow"}) {
		t.Errorf("ExtraStdlib = %v", loaded.ExtraStdlib)
	}
	if loaded.Workers != 8 {
		t.Errorf("Workers = %d, want 8", loaded.Workers)
	}
}

func TestDefault(t *testing.T) {
	m := Default("api")
	if m.Project != "api" {
		t.Errorf("Project = %q, want api", m.Project)
	}
	if m.Workers != 0 {
		t.Errorf("Workers = %d, want 0", m.Workers)
	}
}
