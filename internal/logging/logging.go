// Package logging configures slog for the depscope CLI and MCP server.
//
// Log output goes to stderr by default: stdout carries analysis results,
// and in MCP mode it carries the JSON-RPC channel.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Format selects the log output format.
type Format string

const (
	// JSONFormat emits one JSON object per line
	JSONFormat Format = "json"
	// TextFormat emits human-readable key=value lines
	TextFormat Format = "text"
)

// Config holds logger configuration.
type Config struct {
	Format Format
	Level  slog.Level
	Output io.Writer // Optional, defaults to stderr
}

// New creates a slog.Logger with the given configuration.
func New(cfg Config) *slog.Logger {
	w := cfg.Output
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: cfg.Level}
	if cfg.Format == JSONFormat {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// NewDiscard creates a logger that drops all output. Useful for tests.
func NewDiscard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(100)}))
}

// LevelFromString converts a string to a slog.Level.
// Supports debug, info, warn, error (case-insensitive); anything else
// maps to info.
func LevelFromString(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LevelFromVerbosity converts CLI verbosity flags to a slog.Level.
//   - quiet=true suppresses all logs
//   - verbosity=0: warn (default for CLI)
//   - verbosity=1: info
//   - verbosity>=2: debug
func LevelFromVerbosity(verbosity int, quiet bool) slog.Level {
	if quiet {
		return slog.Level(100) // Above all standard levels
	}
	switch verbosity {
	case 0:
		return slog.LevelWarn
	case 1:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}
