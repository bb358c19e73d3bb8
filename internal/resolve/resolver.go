// Package resolve maps dotted import references to files on disk.
package resolve

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"depscope/internal/logging"
)

// Resolver resolves import references against a module index built once
// at construction. The index is never mutated afterwards, so a single
// Resolver is safe for concurrent reads.
type Resolver struct {
	root        string
	rootName    string
	fileIndex   map[string]string   // dotted module name -> absolute file path
	packageDirs map[string]struct{} // directories holding an __init__.py
	extraStdlib map[string]struct{}
	logger      *slog.Logger
}

// NewResolver indexes every .py file under root. extraStdlib extends the
// built-in standard-library set with names that must never resolve to
// project files.
func NewResolver(root string, extraStdlib []string, logger *slog.Logger) *Resolver {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	if logger == nil {
		logger = logging.NewDiscard()
	}

	extra := make(map[string]struct{}, len(extraStdlib))
	for _, name := range extraStdlib {
		extra[name] = struct{}{}
	}

	r := &Resolver{
		root:        root,
		rootName:    filepath.Base(root),
		fileIndex:   make(map[string]string),
		packageDirs: make(map[string]struct{}),
		extraStdlib: extra,
		logger:      logger,
	}
	r.buildIndex()
	return r
}

// buildIndex walks the whole tree, exclusions ignored: resolution must
// see every module that exists, including ones the scanner skipped.
func (r *Resolver) buildIndex() {
	stack := []string{r.root}

	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}

		for _, entry := range entries {
			name := entry.Name()
			full := filepath.Join(dir, name)

			if entry.IsDir() {
				stack = append(stack, full)
				continue
			}
			if !strings.HasSuffix(name, ".py") {
				continue
			}
			if name == "__init__.py" {
				r.packageDirs[dir] = struct{}{}
			}

			rel, err := filepath.Rel(r.root, full)
			if err != nil {
				continue
			}
			r.fileIndex[pathToModule(rel)] = full
		}
	}

	r.logger.Debug("module index built",
		"root", r.root, "modules", len(r.fileIndex), "packages", len(r.packageDirs))
}

// pathToModule converts a root-relative path to its dotted module name.
// A package initializer takes the bare directory name; the initializer at
// the root itself maps to the empty name.
func pathToModule(rel string) string {
	parts := strings.Split(filepath.ToSlash(rel), "/")
	stem := strings.TrimSuffix(parts[len(parts)-1], ".py")
	if stem == "__init__" {
		parts = parts[:len(parts)-1]
	} else {
		parts[len(parts)-1] = stem
	}
	return strings.Join(parts, ".")
}

// Resolve maps one import reference to a file under the root, or "" when
// the reference is relative-beyond-root, standard-library, external, or
// simply unknown.
func (r *Resolver) Resolve(moduleName string, fromFile string, level int) string {
	if level == 0 {
		return r.ResolveAbsolute(moduleName, fromFile)
	}
	return r.ResolveRelative(moduleName, fromFile, level)
}

// ResolveAbsolute resolves an absolute import. fromFile enables the
// implicit-sibling fallbacks Python 2 style codebases rely on; pass ""
// to resolve without them.
func (r *Resolver) ResolveAbsolute(moduleName string, fromFile string) string {
	if moduleName == "" {
		return ""
	}

	topLevel := moduleName
	if i := strings.Index(moduleName, "."); i >= 0 {
		topLevel = moduleName[:i]
	}
	if r.isStdlib(topLevel) {
		return ""
	}

	// Imports written against the project directory name itself:
	// "myproj.pkg.mod" inside myproj/ means "pkg.mod".
	if topLevel == r.rootName && strings.Contains(moduleName, ".") {
		stripped := moduleName[strings.Index(moduleName, ".")+1:]
		if p := r.lookup(stripped); p != "" {
			return p
		}
	}

	if p := r.lookup(moduleName); p != "" {
		return p
	}

	if fromFile != "" {
		if dirParts, ok := r.relDirParts(fromFile); ok {
			// Sibling of the importing file's package.
			if len(dirParts) > 0 {
				sibling := strings.Join(dirParts, ".") + "." + moduleName
				if p := r.lookup(sibling); p != "" {
					return p
				}
			}
			// One package up from the importing file.
			if len(dirParts) > 1 {
				parent := strings.Join(dirParts[:len(dirParts)-1], ".") + "." + moduleName
				if p := r.lookup(parent); p != "" {
					return p
				}
			}
		}
	}

	// "pkg.mod.symbol" where symbol is an attribute, not a module: walk
	// the dotted prefixes from longest to shortest.
	parts := strings.Split(moduleName, ".")
	for i := len(parts) - 1; i >= 1; i-- {
		if p := r.lookup(strings.Join(parts[:i], ".")); p != "" {
			return p
		}
	}

	return ""
}

// ResolveRelative resolves a "from .x import y" style reference. level 1
// means the importing file's own package; each extra dot climbs one
// package higher.
func (r *Resolver) ResolveRelative(moduleName string, fromFile string, level int) string {
	dirParts, ok := r.relDirParts(fromFile)
	if !ok {
		return ""
	}

	if level > len(dirParts)+1 {
		// Climbs out of the analyzed tree.
		return ""
	}
	if level > 1 {
		if climb := level - 1; climb < len(dirParts) {
			dirParts = dirParts[:len(dirParts)-climb]
		} else {
			dirParts = nil
		}
	}

	target := strings.Join(dirParts, ".")
	if moduleName != "" {
		if target == "" {
			target = moduleName
		} else {
			target += "." + moduleName
		}
	}

	if p, ok := r.fileIndex[target]; ok {
		return p
	}
	if target != "" {
		if p, ok := r.fileIndex[target+".__init__"]; ok {
			return p
		}
	}
	return ""
}

// IsExternal reports whether a module reference points outside the tree:
// not standard-library and not indexed.
func (r *Resolver) IsExternal(moduleName string) bool {
	if moduleName == "" {
		return false
	}

	topLevel := moduleName
	if i := strings.Index(moduleName, "."); i >= 0 {
		topLevel = moduleName[:i]
	}
	if r.isStdlib(topLevel) {
		return false
	}

	if _, ok := r.fileIndex[moduleName]; ok {
		return false
	}
	if _, ok := r.fileIndex[moduleName+".__init__"]; ok {
		return false
	}
	return true
}

// Modules returns the number of indexed modules.
func (r *Resolver) Modules() int {
	return len(r.fileIndex)
}

func (r *Resolver) isStdlib(topLevel string) bool {
	if _, ok := stdlibModules[topLevel]; ok {
		return true
	}
	_, ok := r.extraStdlib[topLevel]
	return ok
}

// lookup tries a dotted name directly, then as a package initializer.
func (r *Resolver) lookup(name string) string {
	if name == "" {
		return ""
	}
	if p, ok := r.fileIndex[name]; ok {
		return p
	}
	if p, ok := r.fileIndex[name+".__init__"]; ok {
		return p
	}
	return ""
}

// relDirParts returns the root-relative directory segments of fromFile,
// or false when the file sits outside the root.
func (r *Resolver) relDirParts(fromFile string) ([]string, bool) {
	if fromFile == "" {
		return nil, false
	}
	rel, err := filepath.Rel(r.root, fromFile)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil, false
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	return parts[:len(parts)-1], true
}
