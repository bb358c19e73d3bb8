// Package analysis orchestrates a dependency-analysis run: discover
// files, extract imports in parallel, resolve references, build the graph.
package analysis

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"depscope/internal/errors"
	"depscope/internal/extract"
	"depscope/internal/graph"
	"depscope/internal/logging"
	"depscope/internal/pipeline"
	"depscope/internal/resolve"
	"depscope/internal/scan"
)

// Options configure a run. The zero value analyzes with defaults.
type Options struct {
	// Workers bounds extraction parallelism; <= 0 selects NumCPU.
	Workers int
	// ExcludeDirs replaces the default scanner exclusions when non-nil.
	ExcludeDirs []string
	// IgnoreGlobs prunes files and directories by pattern.
	IgnoreGlobs []string
	// InternalOnly drops external module bookkeeping.
	InternalOnly bool
	// ExtraStdlib extends the standard-library name set.
	ExtraStdlib []string

	Logger *slog.Logger
}

// Analyzer runs dependency analyses over file or directory targets.
type Analyzer struct {
	opts   Options
	logger *slog.Logger
}

func New(opts Options) *Analyzer {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewDiscard()
	}
	return &Analyzer{opts: opts, logger: logger}
}

// Analyze builds the dependency graph for target, which may be a single
// .py file or a directory tree. For a file target the resolution root is
// its parent directory.
func (a *Analyzer) Analyze(ctx context.Context, target string) (*Result, error) {
	started := time.Now()
	runID := uuid.New().String()

	targetPath, err := filepath.Abs(target)
	if err != nil {
		return nil, errors.NewDepscopeError(errors.TargetNotFound,
			"cannot resolve target path: "+target, err, nil, nil)
	}

	info, err := os.Stat(targetPath)
	if err != nil {
		return nil, errors.NewDepscopeError(errors.TargetNotFound,
			"target not found: "+target, err, nil, nil)
	}

	var files []string
	var root string
	if info.IsDir() {
		root = targetPath
		scanner := scan.NewScanner(a.opts.ExcludeDirs, a.opts.IgnoreGlobs, a.logger)
		files = scanner.Discover(root)
	} else {
		root = filepath.Dir(targetPath)
		files = []string{targetPath}
	}

	a.logger.Info("starting analysis",
		"run", runID, "target", target, "files", len(files), "workers", a.opts.Workers)

	extractor := extract.NewExtractor()
	pipe := pipeline.New(a.opts.Workers, extractor.Extract, a.logger)
	fileImports := pipe.ExtractAll(ctx, files)

	resolver := resolve.NewResolver(root, a.opts.ExtraStdlib, a.logger)

	g := graph.New()
	g.Root = root
	for _, file := range files {
		a.addFileImports(g, resolver, file, fileImports[file])
	}

	duration := time.Since(started)
	stats := g.Stats()
	a.logger.Info("analysis complete",
		"run", runID,
		"files", stats.TotalFiles,
		"dependencies", stats.TotalDependencies,
		"external", stats.TotalExternal,
		"cycles", stats.Cycles,
		"elapsed", duration.Round(time.Millisecond))

	return &Result{
		RunID:    runID,
		Target:   target,
		Root:     root,
		Files:    len(files),
		Duration: duration,
		Graph:    g,
	}, nil
}

func (a *Analyzer) addFileImports(g *graph.Graph, resolver *resolve.Resolver, file string, records []extract.Record) {
	g.AddFile(file)

	for _, rec := range records {
		var resolved string
		if rec.Level == 0 {
			resolved = resolver.ResolveAbsolute(rec.Module, file)
		} else {
			// "from . import x" carries the target in the name list.
			moduleName := rec.Module
			if moduleName == "" && len(rec.Names) > 0 {
				moduleName = rec.Names[0]
			}
			resolved = resolver.ResolveRelative(moduleName, file, rec.Level)
		}

		if resolved != "" {
			g.AddDependency(file, resolved)
		} else if !a.opts.InternalOnly && rec.Module != "" && resolver.IsExternal(rec.Module) {
			g.AddExternal(file, rec.Module)
		}
	}
}
