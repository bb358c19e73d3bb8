package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"depscope/internal/analysis"
	"depscope/internal/render"
)

var (
	analyzeOutput       string
	analyzeFormat       string
	analyzeInternalOnly bool
	analyzeShowExternal bool
	analyzeWorkers      int
	analyzeQuiet        bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <target>",
	Short: "Analyze the dependency graph of a Python source tree",
	Long: `Analyze import relationships across a Python file or directory tree.

Without -o the report goes to stdout. With -o the graph is written to a
file, with the format chosen by extension: .dot, .json, .yaml, .txt,
.png, .svg, .db, plus .gz variants of the text formats.

Examples:
  depscope analyze .
  depscope analyze src/ --format=json
  depscope analyze . -o deps.dot --show-external
  depscope analyze . -o graph.png
  depscope analyze . --internal-only --workers=8`,
	Args: cobra.ExactArgs(1),
	Run:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "Write the graph to a file (format by extension)")
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "human", "Output format (json, human)")
	analyzeCmd.Flags().BoolVar(&analyzeInternalOnly, "internal-only", false, "Skip external module bookkeeping")
	analyzeCmd.Flags().BoolVar(&analyzeShowExternal, "show-external", false, "Include external modules in DOT output")
	analyzeCmd.Flags().IntVar(&analyzeWorkers, "workers", 0, "Extraction worker count (0 = one per CPU)")
	analyzeCmd.Flags().BoolVar(&analyzeQuiet, "quiet", false, "Suppress log output")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) {
	start := time.Now()
	target := args[0]

	opts, cfg, logger := buildOptions(target, analyzeQuiet)
	if cmd.Flags().Changed("workers") {
		opts.Workers = analyzeWorkers
	}
	if analyzeInternalOnly {
		opts.InternalOnly = true
	}
	format := effectiveFormat(cmd, analyzeFormat, cfg)
	showExternal := analyzeShowExternal
	if !cmd.Flags().Changed("show-external") {
		showExternal = cfg.Output.ShowExternal
	}

	result, err := analysis.New(opts).Analyze(newContext(), target)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error analyzing %s: %v\n", target, err)
		os.Exit(1)
	}

	renderer := render.New(result.Graph, logger)

	if analyzeOutput != "" {
		if err := saveOutput(newContext(), renderer, analyzeOutput, showExternal); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Output written to %s\n", analyzeOutput)
	} else if format == "json" {
		output, err := renderer.JSON()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(output)
	} else {
		fmt.Print(renderer.Text())
	}

	logger.Debug("analyze completed",
		"target", target,
		"files", result.Files,
		"duration", time.Since(start).Milliseconds(),
	)
}

// saveOutput writes the graph to path. PNG and SVG need the dot binary
// and a context; everything else dispatches on extension in the renderer.
func saveOutput(ctx context.Context, r *render.Renderer, path string, showExternal bool) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return r.SavePNG(ctx, path, showExternal)
	case ".svg":
		return r.SaveSVG(ctx, path, showExternal)
	default:
		return r.Save(path, showExternal)
	}
}
