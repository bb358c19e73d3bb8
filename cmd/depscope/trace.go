package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"depscope/internal/analysis"
)

var traceFormat string

// traceMaxPaths caps how many import chains the BFS collects.
const traceMaxPaths = 5

var traceCmd = &cobra.Command{
	Use:   "trace <target> <from> <to>",
	Short: "Trace how one file reaches another through imports",
	Long: `Trace import paths from one file to another inside a project.

Checks for a direct edge first, then searches breadth-first for up to
5 chains. From and to are paths relative to the project root.

Examples:
  depscope trace . src/main.py src/db/models.py
  depscope trace src/ api.py models.py --format=json`,
	Args: cobra.ExactArgs(3),
	Run:  runTrace,
}

func init() {
	traceCmd.Flags().StringVar(&traceFormat, "format", "human", "Output format (json, human)")
	rootCmd.AddCommand(traceCmd)
}

func runTrace(cmd *cobra.Command, args []string) {
	start := time.Now()
	target, fromModule, toModule := args[0], args[1], args[2]

	opts, cfg, logger := buildOptions(target, false)
	opts.InternalOnly = true

	result, err := analysis.New(opts).Analyze(newContext(), target)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error analyzing %s: %v\n", target, err)
		os.Exit(1)
	}

	fromPath := filepath.Join(result.Root, filepath.FromSlash(fromModule))
	toPath := filepath.Join(result.Root, filepath.FromSlash(toModule))

	if _, ok := result.Graph.Nodes[fromPath]; !ok {
		fmt.Fprintf(os.Stderr, "Error: module not found: %s\n", fromModule)
		os.Exit(1)
	}
	if _, ok := result.Graph.Nodes[toPath]; !ok {
		fmt.Fprintf(os.Stderr, "Error: module not found: %s\n", toModule)
		os.Exit(1)
	}

	cliResponse := &TraceResponseCLI{
		From:   fromModule,
		To:     toModule,
		Direct: result.Graph.HasDependency(fromPath, toPath),
	}
	if !cliResponse.Direct {
		for _, path := range analysis.TracePaths(result.Graph, fromPath, toPath, traceMaxPaths) {
			members := make([]string, 0, len(path))
			for _, member := range path {
				members = append(members, result.Graph.RelPath(member))
			}
			cliResponse.Paths = append(cliResponse.Paths, members)
		}
	}

	output, err := FormatResponse(cliResponse, OutputFormat(effectiveFormat(cmd, traceFormat, cfg)))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(output)

	logger.Debug("trace completed",
		"from", fromModule,
		"to", toModule,
		"direct", cliResponse.Direct,
		"pathsFound", len(cliResponse.Paths),
		"duration", time.Since(start).Milliseconds(),
	)
}

// TraceResponseCLI contains trace results for CLI output
type TraceResponseCLI struct {
	From   string     `json:"from"`
	To     string     `json:"to"`
	Direct bool       `json:"direct"`
	Paths  [][]string `json:"paths,omitempty"`
}
