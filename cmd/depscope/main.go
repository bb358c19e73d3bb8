package main

import (
	"log/slog"
	"os"

	"depscope/internal/logging"
)

func main() {
	logger := logging.New(logging.Config{
		Format: logging.TextFormat,
		Level:  slog.LevelInfo,
	})

	if err := rootCmd.Execute(); err != nil {
		logger.Error("command execution failed", "error", err)
		os.Exit(1)
	}
}
