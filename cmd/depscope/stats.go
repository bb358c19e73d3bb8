package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"depscope/internal/analysis"
	"depscope/internal/graph"
)

var statsFormat string

var statsCmd = &cobra.Command{
	Use:   "stats <target>",
	Short: "Summarize the dependency graph of a Python source tree",
	Long: `Print summary counters plus the top-5 most imported files and the
top-5 files with the most imports.

Examples:
  depscope stats .
  depscope stats src/ --format=json`,
	Args: cobra.ExactArgs(1),
	Run:  runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsFormat, "format", "human", "Output format (json, human)")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) {
	start := time.Now()
	target := args[0]

	opts, cfg, logger := buildOptions(target, false)

	result, err := analysis.New(opts).Analyze(newContext(), target)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error analyzing %s: %v\n", target, err)
		os.Exit(1)
	}

	cliResponse := convertStatsResponse(result)

	output, err := FormatResponse(cliResponse, OutputFormat(effectiveFormat(cmd, statsFormat, cfg)))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(output)

	logger.Debug("stats completed",
		"target", target,
		"files", cliResponse.Files,
		"duration", time.Since(start).Milliseconds(),
	)
}

// StatsResponseCLI contains graph statistics for CLI output
type StatsResponseCLI struct {
	Target       string         `json:"target"`
	Files        int            `json:"files"`
	Dependencies int            `json:"dependencies"`
	External     int            `json:"external"`
	Cycles       int            `json:"cycles"`
	MostImported []PathCountCLI `json:"mostImported"`
	MostImports  []PathCountCLI `json:"mostImports"`
}

type PathCountCLI struct {
	Path  string `json:"path"`
	Count int    `json:"count"`
}

func convertStatsResponse(result *analysis.Result) *StatsResponseCLI {
	stats := result.Graph.Stats()

	relativize := func(items []graph.PathCount) []PathCountCLI {
		out := make([]PathCountCLI, 0, len(items))
		for _, item := range items {
			out = append(out, PathCountCLI{
				Path:  result.Graph.RelPath(item.Path),
				Count: item.Count,
			})
		}
		return out
	}

	return &StatsResponseCLI{
		Target:       result.Target,
		Files:        stats.TotalFiles,
		Dependencies: stats.TotalDependencies,
		External:     stats.TotalExternal,
		Cycles:       stats.Cycles,
		MostImported: relativize(stats.MostImported),
		MostImports:  relativize(stats.MostImports),
	}
}
