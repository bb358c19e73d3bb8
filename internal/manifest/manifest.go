// Package manifest reads the optional DEPSCOPE.toml project manifest.
// A manifest pins per-project analysis settings (exclusions, extra stdlib
// modules, worker count) so teams can commit them alongside the code.
package manifest

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/BurntSushi/toml"
	gotoml "github.com/pelletier/go-toml/v2"

	"depscope/internal/errors"
	"depscope/internal/logging"
	"depscope/internal/paths"
)

// Manifest is the root structure of DEPSCOPE.toml
type Manifest struct {
	// Project is a human-readable name for the analyzed project
	Project string `toml:"project"`

	// ExcludeDirs replaces the default directory exclusion list when set
	ExcludeDirs []string `toml:"exclude_dirs,omitempty"`

	// IgnoreGlobs are glob patterns for files and directories to skip
	IgnoreGlobs []string `toml:"ignore_globs,omitempty"`

	// ExtraStdlib names modules treated as standard library (never external)
	ExtraStdlib []string `toml:"extra_stdlib,omitempty"`

	// Workers caps the extraction worker count (0 means one per CPU)
	Workers int `toml:"workers,omitempty"`
}

// Default returns a starter manifest for a new project
func Default(project string) *Manifest {
	return &Manifest{
		Project: project,
	}
}

// Load reads the manifest for an analysis root.
// A missing manifest is not an error; Load returns (nil, nil) so callers
// can fall back to config and flag values.
func Load(root string, logger *slog.Logger) (*Manifest, error) {
	if logger == nil {
		logger = logging.NewDiscard()
	}

	manifestPath := paths.ManifestPath(root)
	if _, err := os.Stat(manifestPath); os.IsNotExist(err) {
		return nil, nil
	}

	var m Manifest
	md, err := toml.DecodeFile(manifestPath, &m)
	if err != nil {
		return nil, errors.NewDepscopeError(
			errors.ManifestInvalid,
			fmt.Sprintf("failed to parse %s", paths.ManifestFileName),
			err,
			errors.GetSuggestedFixes(errors.ManifestInvalid),
			nil,
		)
	}

	// Unknown keys are tolerated so older binaries keep working against
	// newer manifests, but each one is worth a warning.
	for _, key := range md.Undecoded() {
		logger.Warn("ignoring unknown manifest key",
			"key", key.String(),
			"path", manifestPath)
	}

	return &m, nil
}

// Save writes the manifest to the analysis root
func (m *Manifest) Save(root string) error {
	data, err := gotoml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := os.WriteFile(paths.ManifestPath(root), data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	return nil
}
