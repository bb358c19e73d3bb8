package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	t.Run("with default output", func(t *testing.T) {
		logger := New(Config{Level: slog.LevelInfo})
		if logger == nil {
			t.Fatal("New returned nil")
		}
	})

	t.Run("respects level threshold", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(Config{Format: TextFormat, Level: slog.LevelWarn, Output: &buf})

		logger.Debug("dropped")
		logger.Info("also dropped")
		logger.Warn("kept")

		out := buf.String()
		if strings.Contains(out, "dropped") {
			t.Errorf("expected debug/info to be suppressed, got %q", out)
		}
		if !strings.Contains(out, "kept") {
			t.Errorf("expected warn to be logged, got %q", out)
		}
	})

	t.Run("json format emits valid JSON", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(Config{Format: JSONFormat, Level: slog.LevelInfo, Output: &buf})

		logger.Info("scan complete", "files", 42)

		var entry map[string]interface{}
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if entry["msg"] != "scan complete" {
			t.Errorf("msg = %v, want %q", entry["msg"], "scan complete")
		}
		if entry["files"] != float64(42) {
			t.Errorf("files = %v, want 42", entry["files"])
		}
	})

	t.Run("text format includes attrs", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(Config{Format: TextFormat, Level: slog.LevelInfo, Output: &buf})

		logger.Info("resolved", "module", "pkg.core")

		out := buf.String()
		if !strings.Contains(out, "resolved") || !strings.Contains(out, "pkg.core") {
			t.Errorf("unexpected text output: %q", out)
		}
	})
}

func TestNewDiscard(t *testing.T) {
	logger := NewDiscard()
	// Must not panic and must swallow everything, including errors.
	logger.Error("invisible", "key", "value")
}

func TestLevelFromString(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := LevelFromString(tt.in); got != tt.want {
				t.Errorf("LevelFromString(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLevelFromVerbosity(t *testing.T) {
	tests := []struct {
		name      string
		verbosity int
		quiet     bool
		want      slog.Level
	}{
		{"default", 0, false, slog.LevelWarn},
		{"verbose", 1, false, slog.LevelInfo},
		{"very verbose", 2, false, slog.LevelDebug},
		{"extra verbose", 5, false, slog.LevelDebug},
		{"quiet wins", 3, true, slog.Level(100)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LevelFromVerbosity(tt.verbosity, tt.quiet); got != tt.want {
				t.Errorf("LevelFromVerbosity(%d, %v) = %v, want %v", tt.verbosity, tt.quiet, got, tt.want)
			}
		})
	}
}
