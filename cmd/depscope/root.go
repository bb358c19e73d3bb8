package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"depscope/internal/config"
	"depscope/internal/logging"
	"depscope/internal/version"
)

var (
	// logLevelFlag is the CLI --log-level flag value
	logLevelFlag string
	// logFormatFlag is the CLI --log-format flag value
	logFormatFlag string
)

var rootCmd = &cobra.Command{
	Use:   "depscope",
	Short: "depscope - Python dependency graph analyzer",
	Long: `depscope maps the import graph of a Python source tree: which files
depend on which, where the circular dependencies are, what external
packages the code pulls in, and which files everything else leans on.`,
	Version: version.Version,
}

func init() {
	rootCmd.SetVersionTemplate("depscope version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "",
		"Log level: debug, info, warn, or error (default: info)")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "",
		"Log format: text or json (default: text)")
}

// resolveLogging determines the effective log level and format.
// Precedence: CLI flag > DEPSCOPE_LOGGING_* env var (applied by the
// config loader) > config.json logging section > defaults.
func resolveLogging(cfg *config.Config) (slog.Level, logging.Format) {
	level := "info"
	format := "text"

	if cfg != nil {
		if cfg.Logging.Level != "" {
			level = cfg.Logging.Level
		}
		if cfg.Logging.Format != "" {
			format = cfg.Logging.Format
		}
	}
	if logLevelFlag != "" {
		level = logLevelFlag
	}
	if logFormatFlag != "" {
		format = logFormatFlag
	}

	logFormat := logging.TextFormat
	if format == "json" {
		logFormat = logging.JSONFormat
	}
	return logging.LevelFromString(level), logFormat
}
