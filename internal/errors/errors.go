package errors

import (
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// TargetNotFound indicates the analysis target path does not exist
	TargetNotFound ErrorCode = "TARGET_NOT_FOUND"
	// ConfigInvalid indicates the configuration failed validation
	ConfigInvalid ErrorCode = "CONFIG_INVALID"
	// ManifestInvalid indicates the project manifest could not be parsed
	ManifestInvalid ErrorCode = "MANIFEST_INVALID"
	// ModuleNotFound indicates a module name did not resolve to any file
	ModuleNotFound ErrorCode = "MODULE_NOT_FOUND"
	// ExtractFailed indicates a source file could not be parsed
	ExtractFailed ErrorCode = "EXTRACT_FAILED"
	// RenderFailed indicates an output artifact could not be written
	RenderFailed ErrorCode = "RENDER_FAILED"
	// GraphvizMissing indicates the dot executable is not installed
	GraphvizMissing ErrorCode = "GRAPHVIZ_MISSING"
	// Timeout indicates an extraction batch exceeded its deadline
	Timeout ErrorCode = "TIMEOUT"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// FixActionType represents the type of fix action
type FixActionType string

const (
	// RunCommand suggests running a command
	RunCommand FixActionType = "run-command"
	// OpenDocs suggests opening documentation
	OpenDocs FixActionType = "open-docs"
	// InstallTool suggests installing a tool
	InstallTool FixActionType = "install-tool"
)

// InstallMethod represents methods for installing tools
type InstallMethod string

const (
	// Brew installation via Homebrew
	Brew InstallMethod = "brew"
	// Apt installation via apt
	Apt InstallMethod = "apt"
	// Manual installation
	Manual InstallMethod = "manual"
)

// FixAction represents a suggested fix for an error
type FixAction struct {
	Type        FixActionType   `json:"type"`
	Command     string          `json:"command,omitempty"`
	Safe        bool            `json:"safe,omitempty"`
	Description string          `json:"description,omitempty"`
	URL         string          `json:"url,omitempty"`
	Tool        string          `json:"tool,omitempty"`
	Methods     []InstallMethod `json:"methods,omitempty"`
}

// Drilldown represents a suggested follow-up query
type Drilldown struct {
	Label string `json:"label"`
	Query string `json:"query"`
}

// DepscopeError represents a depscope error with code, message, and suggestions
type DepscopeError struct {
	Code           ErrorCode   `json:"code"`
	Message        string      `json:"message"`
	Details        interface{} `json:"details,omitempty"`
	SuggestedFixes []FixAction `json:"suggestedFixes,omitempty"`
	Drilldowns     []Drilldown `json:"drilldowns,omitempty"`
	cause          error       // Underlying error (not exported to JSON)
}

// NewDepscopeError creates a new DepscopeError
func NewDepscopeError(code ErrorCode, message string, cause error, suggestedFixes []FixAction, drilldowns []Drilldown) *DepscopeError {
	return &DepscopeError{
		Code:           code,
		Message:        message,
		cause:          cause,
		SuggestedFixes: suggestedFixes,
		Drilldowns:     drilldowns,
	}
}

// Error implements the error interface
func (e *DepscopeError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DepscopeError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *DepscopeError) WithDetails(details interface{}) *DepscopeError {
	e.Details = details
	return e
}

// ErrorActions maps error codes to suggested fix actions
var ErrorActions = map[ErrorCode][]FixAction{
	GraphvizMissing: {
		{
			Type:    InstallTool,
			Tool:    "graphviz",
			Methods: []InstallMethod{Brew, Apt, Manual},
		},
		{
			Type:        RunCommand,
			Command:     "depscope analyze ${target} -o deps.dot",
			Safe:        true,
			Description: "Write DOT output instead and render it elsewhere",
		},
	},
	ConfigInvalid: {
		{
			Type:        RunCommand,
			Command:     "depscope config show",
			Safe:        true,
			Description: "Show the active configuration and where it came from",
		},
	},
	ManifestInvalid: {
		{
			Type:        RunCommand,
			Command:     "depscope init --force",
			Safe:        false,
			Description: "Regenerate DEPSCOPE.toml with default settings",
		},
	},
	ModuleNotFound: {
		{
			Type:        RunCommand,
			Command:     "depscope stats ${target}",
			Safe:        true,
			Description: "List the files the analysis actually discovered",
		},
	},
}

// GetSuggestedFixes returns suggested fixes for an error code
func GetSuggestedFixes(code ErrorCode) []FixAction {
	if fixes, ok := ErrorActions[code]; ok {
		return fixes
	}
	return nil
}
