// Package version provides centralized version information for depscope.
// This allows all packages to reference a single source of truth for version info.
package version

import "fmt"

// These variables can be overridden at build time using ldflags:
// go build -ldflags "-X depscope/internal/version.Version=1.0.0 -X depscope/internal/version.Commit=abc123"
var (
	// Version is the semantic version of depscope
	Version = "1.1.0"

	// Commit is the git commit hash (set at build time)
	Commit = "unknown"

	// BuildDate is the build timestamp (set at build time)
	BuildDate = "unknown"
)

// Info returns a formatted version string
func Info() string {
	if Commit != "unknown" && len(Commit) > 7 {
		return Version + " (" + Commit[:7] + ")"
	}
	return Version
}

// Full returns complete version information
func Full() string {
	return fmt.Sprintf("depscope version %s\nCommit: %s\nBuilt: %s", Version, Commit, BuildDate)
}
