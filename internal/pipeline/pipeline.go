// Package pipeline fans per-file import extraction out across workers.
package pipeline

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"depscope/internal/extract"
	"depscope/internal/logging"
)

// inlineThreshold is the file count at or below which dispatch overhead
// is not worth paying and extraction runs on the calling goroutine.
const inlineThreshold = 3

// DefaultChunkTimeout bounds how long a single chunk may run before all
// of its files degrade to empty results.
const DefaultChunkTimeout = 30 * time.Second

// ExtractFunc is the per-file extraction contract the pipeline drives.
type ExtractFunc func(ctx context.Context, path string) ([]extract.Record, error)

// Pipeline distributes extraction work over a bounded worker pool. One
// file failing, one chunk timing out, or one worker panicking never
// aborts the run: the affected files simply report no imports.
type Pipeline struct {
	workers      int
	chunkTimeout time.Duration
	extract      ExtractFunc
	logger       *slog.Logger
}

// New creates a pipeline. workers <= 0 selects runtime.NumCPU().
func New(workers int, fn ExtractFunc, logger *slog.Logger) *Pipeline {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if logger == nil {
		logger = logging.NewDiscard()
	}
	return &Pipeline{
		workers:      workers,
		chunkTimeout: DefaultChunkTimeout,
		extract:      fn,
		logger:       logger,
	}
}

// ExtractAll maps every input file to its import records. Every input
// file is present in the result, degraded files included.
func (p *Pipeline) ExtractAll(ctx context.Context, files []string) map[string][]extract.Record {
	if len(files) == 0 {
		return map[string][]extract.Record{}
	}

	if len(files) <= inlineThreshold {
		return p.processChunk(ctx, files)
	}

	chunkSize := len(files) / (p.workers * 4)
	if chunkSize < 1 {
		chunkSize = 1
	}

	var chunks [][]string
	for i := 0; i < len(files); i += chunkSize {
		end := i + chunkSize
		if end > len(files) {
			end = len(files)
		}
		chunks = append(chunks, files[i:end])
	}

	p.logger.Debug("dispatching extraction",
		"files", len(files), "chunks", len(chunks), "workers", p.workers)

	// Workers never return errors; each owns exactly one result slot, so
	// the merge below runs race-free after Wait.
	results := make([]map[string][]extract.Record, len(chunks))
	var g errgroup.Group
	g.SetLimit(p.workers)
	for ci, chunk := range chunks {
		ci, chunk := ci, chunk
		g.Go(func() error {
			results[ci] = p.runChunk(ctx, chunk)
			return nil
		})
	}
	_ = g.Wait()

	merged := make(map[string][]extract.Record, len(files))
	for _, m := range results {
		for path, records := range m {
			merged[path] = records
		}
	}
	for _, f := range files {
		if _, ok := merged[f]; !ok {
			merged[f] = nil
		}
	}
	return merged
}

// runChunk wraps one chunk with the timeout and panic barrier.
func (p *Pipeline) runChunk(ctx context.Context, files []string) (out map[string][]extract.Record) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Warn("extraction chunk panicked", "files", len(files), "panic", r)
			out = emptyResults(files)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, p.chunkTimeout)
	defer cancel()

	return p.processChunk(ctx, files)
}

func (p *Pipeline) processChunk(ctx context.Context, files []string) map[string][]extract.Record {
	results := make(map[string][]extract.Record, len(files))
	for _, f := range files {
		if ctx.Err() != nil {
			// Deadline hit: the whole chunk degrades, matching the
			// coordinator-side timeout on the chunk result.
			return emptyResults(files)
		}

		records, err := p.extract(ctx, f)
		if err != nil {
			p.logger.Debug("extraction failed", "file", f, "error", err)
			results[f] = nil
			continue
		}
		results[f] = records
	}
	if ctx.Err() != nil {
		return emptyResults(files)
	}
	return results
}

func emptyResults(files []string) map[string][]extract.Record {
	m := make(map[string][]extract.Record, len(files))
	for _, f := range files {
		m[f] = nil
	}
	return m
}
