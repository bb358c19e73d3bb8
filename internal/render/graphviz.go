package render

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"

	"depscope/internal/errors"
)

// SavePNG renders the graph to a PNG image via the Graphviz dot binary.
func (r *Renderer) SavePNG(ctx context.Context, path string, showExternal bool) error {
	return r.renderWithDot(ctx, path, "png", showExternal)
}

// SaveSVG renders the graph to an SVG image via the Graphviz dot binary.
func (r *Renderer) SaveSVG(ctx context.Context, path string, showExternal bool) error {
	return r.renderWithDot(ctx, path, "svg", showExternal)
}

func (r *Renderer) renderWithDot(ctx context.Context, outPath, format string, showExternal bool) error {
	if _, err := exec.LookPath("dot"); err != nil {
		return errors.NewDepscopeError(errors.GraphvizMissing,
			"Graphviz 'dot' binary not found on PATH", err,
			errors.GetSuggestedFixes(errors.GraphvizMissing), nil)
	}

	tmp, err := os.CreateTemp("", "depscope-*.dot")
	if err != nil {
		return errors.NewDepscopeError(errors.RenderFailed,
			"failed to create temporary dot file", err, nil, nil)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(r.DOT(showExternal)); err != nil {
		tmp.Close()
		return errors.NewDepscopeError(errors.RenderFailed,
			"failed to write temporary dot file", err, nil, nil)
	}
	if err := tmp.Close(); err != nil {
		return errors.NewDepscopeError(errors.RenderFailed,
			"failed to close temporary dot file", err, nil, nil)
	}

	cmd := exec.CommandContext(ctx, "dot", "-T"+format, tmp.Name(), "-o", outPath)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return errors.NewDepscopeError(errors.RenderFailed,
			"dot rendering failed: "+msg, err, nil, nil)
	}

	r.logger.Info("output written", "path", outPath, "format", format)
	return nil
}
