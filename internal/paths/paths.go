package paths

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	// LocalDirName is the per-project depscope directory
	LocalDirName = ".depscope"
	// ConfigFileName is the config file inside LocalDirName
	ConfigFileName = "config.json"
	// ManifestFileName is the project manifest at the analysis root
	ManifestFileName = "DEPSCOPE.toml"
)

// CanonicalizePath converts an absolute path to a root-relative canonical path.
// Symlinks are resolved, the path is made relative to the analysis root, and
// separators are normalized to forward slashes. Graph node keys use this form.
func CanonicalizePath(absolutePath string, root string) (string, error) {
	resolved, err := filepath.EvalSymlinks(absolutePath)
	if err != nil {
		// If the file doesn't exist yet, use the path as-is
		if os.IsNotExist(err) {
			resolved = absolutePath
		} else {
			return "", err
		}
	}

	rootResolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		if os.IsNotExist(err) {
			rootResolved = root
		} else {
			return "", err
		}
	}

	rel, err := filepath.Rel(rootResolved, resolved)
	if err != nil {
		return "", err
	}

	return filepath.ToSlash(rel), nil
}

// IsWithinRoot checks if a path is inside the analysis root
func IsWithinRoot(path string, root string) bool {
	canonical, err := CanonicalizePath(path, root)
	if err != nil {
		return false
	}

	// Path is outside the root if it starts with ..
	return !strings.HasPrefix(canonical, "..")
}

// NormalizePath normalizes a path by converting OS separators to forward slashes
func NormalizePath(path string) string {
	return filepath.ToSlash(path)
}

// JoinRootPath joins an analysis root with a canonical path
func JoinRootPath(root string, canonicalPath string) string {
	normalized := strings.ReplaceAll(canonicalPath, "\\", "/")
	parts := strings.Split(normalized, "/")
	return filepath.Join(append([]string{root}, parts...)...)
}

// LocalDir returns the per-project depscope directory for a root
func LocalDir(root string) string {
	return filepath.Join(root, LocalDirName)
}

// ConfigPath returns the config file path for a root
func ConfigPath(root string) string {
	return filepath.Join(root, LocalDirName, ConfigFileName)
}

// ManifestPath returns the manifest file path for a root
func ManifestPath(root string) string {
	return filepath.Join(root, ManifestFileName)
}
