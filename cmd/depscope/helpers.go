package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"depscope/internal/analysis"
	"depscope/internal/config"
	"depscope/internal/logging"
	"depscope/internal/manifest"
)

// targetRoot anchors config lookup for a target: the target itself when
// it is a directory, its parent when it is a file.
func targetRoot(target string) string {
	abs, err := filepath.Abs(target)
	if err != nil {
		return target
	}
	if info, err := os.Stat(abs); err == nil && !info.IsDir() {
		return filepath.Dir(abs)
	}
	return abs
}

// mustGetwd returns the working directory or exits on error.
func mustGetwd() string {
	dir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return dir
}

// newContext creates a new context for command execution.
func newContext() context.Context {
	return context.Background()
}

// newLogger builds the logger for a command run. quiet raises the level
// above error, silencing everything.
func newLogger(cfg *config.Config, quiet bool) *slog.Logger {
	level, format := resolveLogging(cfg)
	if quiet {
		level = slog.Level(100)
	}
	return logging.New(logging.Config{Format: format, Level: level})
}

// optionsFromConfig maps the analysis section of a config onto run options.
func optionsFromConfig(cfg *config.Config, logger *slog.Logger) analysis.Options {
	return analysis.Options{
		Workers:      cfg.Analysis.Workers,
		ExcludeDirs:  cfg.Analysis.ExcludeDirs,
		IgnoreGlobs:  cfg.Analysis.IgnoreGlobs,
		ExtraStdlib:  cfg.Analysis.ExtraStdlib,
		InternalOnly: cfg.Analysis.InternalOnly,
		Logger:       logger,
	}
}

// applyManifest layers DEPSCOPE.toml settings over config-derived options.
// Exclude dirs replace the configured set; globs and stdlib names extend it.
func applyManifest(opts *analysis.Options, m *manifest.Manifest) {
	if len(m.ExcludeDirs) > 0 {
		opts.ExcludeDirs = m.ExcludeDirs
	}
	opts.IgnoreGlobs = append(opts.IgnoreGlobs, m.IgnoreGlobs...)
	opts.ExtraStdlib = append(opts.ExtraStdlib, m.ExtraStdlib...)
	if m.Workers > 0 {
		opts.Workers = m.Workers
	}
}

// buildOptions assembles run options for target by layering, lowest to
// highest: built-in defaults, .depscope/config.json, DEPSCOPE.toml.
// Command flags go on top, applied by the caller.
func buildOptions(target string, quiet bool) (analysis.Options, *config.Config, *slog.Logger) {
	root := targetRoot(target)

	cfg, cfgErr := config.LoadConfig(root)
	if cfgErr != nil {
		cfg = config.DefaultConfig()
	}

	logger := newLogger(cfg, quiet)
	if cfgErr != nil {
		logger.Warn("failed to load config, using defaults", "error", cfgErr)
	}

	opts := optionsFromConfig(cfg, logger)

	m, err := manifest.Load(root, logger)
	if err != nil {
		logger.Warn("ignoring unreadable manifest", "error", err)
	}
	if m != nil {
		applyManifest(&opts, m)
	}

	return opts, cfg, logger
}

// effectiveFormat picks the report format: an explicit --format flag
// wins, then the config's output section, then the flag default.
func effectiveFormat(cmd *cobra.Command, flagValue string, cfg *config.Config) string {
	if cmd.Flags().Changed("format") {
		return flagValue
	}
	if cfg != nil && cfg.Output.Format != "" {
		return cfg.Output.Format
	}
	return flagValue
}
