// Package scan discovers Python source files under an analysis root.
package scan

import (
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"depscope/internal/logging"
)

// DefaultExcludeDirs are directory names never descended into.
var DefaultExcludeDirs = []string{
	".git", "__pycache__", ".venv", "venv", "env",
	"node_modules", ".tox", ".mypy_cache", ".pytest_cache",
}

// Scanner walks a source tree and collects .py files. Hidden directories
// and excluded directory names are pruned; ignore globs are matched against
// the full root-relative slash path and against each path segment, so a
// bare name or *_suffix glob applies at any depth.
type Scanner struct {
	excludes map[string]struct{}
	globs    []string
	logger   *slog.Logger
}

// NewScanner creates a scanner. A nil excludeDirs falls back to
// DefaultExcludeDirs; pass an empty slice to exclude nothing.
func NewScanner(excludeDirs []string, ignoreGlobs []string, logger *slog.Logger) *Scanner {
	if excludeDirs == nil {
		excludeDirs = DefaultExcludeDirs
	}
	if logger == nil {
		logger = logging.NewDiscard()
	}

	excludes := make(map[string]struct{}, len(excludeDirs))
	for _, name := range excludeDirs {
		excludes[name] = struct{}{}
	}

	return &Scanner{
		excludes: excludes,
		globs:    ignoreGlobs,
		logger:   logger,
	}
}

// Discover returns every .py file under root in a deterministic order.
// Symlinked directories are never followed. Unreadable subtrees are
// skipped, never surfaced as errors.
func (s *Scanner) Discover(root string) []string {
	var files []string
	stack := []string{root}

	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := os.ReadDir(dir)
		if err != nil {
			s.logger.Debug("skipping unreadable directory", "dir", dir, "error", err)
			continue
		}

		for _, entry := range entries {
			name := entry.Name()
			full := filepath.Join(dir, name)

			if entry.IsDir() {
				if strings.HasPrefix(name, ".") {
					continue
				}
				if _, excluded := s.excludes[name]; excluded {
					continue
				}
				if s.ignored(root, full) {
					continue
				}
				stack = append(stack, full)
				continue
			}

			if entry.Type()&fs.ModeSymlink != 0 {
				// A symlinked directory is never followed; a symlinked
				// regular file still counts as a source file.
				info, err := os.Stat(full)
				if err != nil || !info.Mode().IsRegular() {
					continue
				}
			}

			if !strings.HasSuffix(name, ".py") {
				continue
			}
			if s.ignored(root, full) {
				continue
			}
			files = append(files, full)
		}
	}

	return files
}

// ignored reports whether any ignore glob matches the root-relative slash
// path or one of its segments. Malformed patterns never match.
func (s *Scanner) ignored(root, full string) bool {
	if len(s.globs) == 0 {
		return false
	}

	rel, err := filepath.Rel(root, full)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	segments := strings.Split(rel, "/")

	for _, glob := range s.globs {
		if ok, _ := path.Match(glob, rel); ok {
			return true
		}
		for _, segment := range segments {
			if ok, _ := path.Match(glob, segment); ok {
				return true
			}
		}
	}
	return false
}
