package mcp

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"

	"depscope/internal/analysis"
)

// MCPServer exposes depscope analyses as MCP tools
type MCPServer struct {
	stdin   io.Reader
	stdout  io.Writer
	scanner *bufio.Scanner
	logger  *slog.Logger
	version string
	opts    analysis.Options
	tools   map[string]ToolHandler
}

// NewMCPServer creates an MCP server. The analysis options apply to
// every tool call; each call still runs a fresh analysis against the
// current state of the filesystem.
func NewMCPServer(version string, opts analysis.Options, logger *slog.Logger) *MCPServer {
	server := &MCPServer{
		stdin:   os.Stdin,
		stdout:  os.Stdout,
		logger:  logger,
		version: version,
		opts:    opts,
		tools:   make(map[string]ToolHandler),
	}

	server.RegisterTools()

	return server
}

// Start processes messages until stdin closes or a shutdown request
// arrives. Malformed lines get a ParseError response and the loop
// continues; a broken stream ends it.
func (s *MCPServer) Start() error {
	s.logger.Info("MCP server starting",
		"version", s.version,
	)

	for {
		msg, err := s.readMessage()
		if err != nil {
			if err == io.EOF {
				s.logger.Info("MCP server shutting down (EOF)")
				return nil
			}
			if _, ok := err.(*parseError); ok {
				_ = s.writeError(nil, ParseError, fmt.Sprintf("failed to parse message: %v", err))
				continue
			}
			s.logger.Error("error reading message",
				"error", err.Error(),
			)
			return err
		}

		// Process the message
		response := s.handleMessage(msg)

		// Write response if one was generated (notifications don't generate responses)
		if response != nil {
			if err := s.writeMessage(response); err != nil {
				s.logger.Error("error writing response",
					"error", err.Error(),
				)
			}
		}

		if msg.Method == "shutdown" && msg.IsRequest() {
			s.logger.Info("MCP server shutting down (shutdown request)")
			return nil
		}
	}
}

// SetStdin sets the input stream (for testing)
func (s *MCPServer) SetStdin(r io.Reader) {
	s.stdin = r
	s.scanner = nil // Reset scanner so it will be recreated with new reader
}

// SetStdout sets the output stream (for testing)
func (s *MCPServer) SetStdout(w io.Writer) {
	s.stdout = w
}
