package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"depscope/internal/config"
	"depscope/internal/logging"
	"depscope/internal/manifest"
	"depscope/internal/mcp"
	"depscope/internal/version"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server for AI assistant integration",
	Long: `Start the Model Context Protocol (MCP) server.

The MCP server lets Claude Code and other MCP clients run dependency
analyses over a Python codebase. It communicates via stdio using
JSON-RPC 2.0 protocol.

The server exposes the following tools:
  - analyze_project: Full dependency analysis of a project
  - find_cycles: Detect circular dependencies
  - trace_imports: Trace import paths between two files
  - get_stats: Dependency graph statistics
  - check_module: Imports of a single Python file

Example usage:
  depscope mcp --stdio

This command is typically invoked by MCP clients (like Claude Code) and
not directly by users.`,
	RunE: runMCP,
}

var (
	mcpStdio bool
)

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().BoolVar(&mcpStdio, "stdio", true, "Use stdio for communication (default)")
}

func runMCP(cmd *cobra.Command, args []string) error {
	if !mcpStdio {
		return fmt.Errorf("only the stdio transport is supported")
	}

	root := mustGetwd()

	cfg, err := config.LoadConfig(root)
	if err != nil {
		cfg = config.DefaultConfig()
	}

	// Logs go to stderr since stdout carries the MCP protocol.
	level, _ := resolveLogging(cfg)
	logger := logging.New(logging.Config{
		Format: logging.JSONFormat,
		Level:  level,
		Output: os.Stderr,
	})

	logger.Info("starting MCP server", "version", version.Version, "root", root)

	opts := optionsFromConfig(cfg, logger)
	if m, err := manifest.Load(root, logger); err == nil && m != nil {
		applyManifest(&opts, m)
	}

	server := mcp.NewMCPServer(version.Version, opts, logger)

	if err := server.Start(); err != nil {
		logger.Error("MCP server error", "error", err)
		return err
	}

	return nil
}
