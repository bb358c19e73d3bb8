package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"depscope/internal/analysis"
)

var cyclesFormat string

var cyclesCmd = &cobra.Command{
	Use:   "cycles <target>",
	Short: "Find circular dependencies in a Python source tree",
	Long: `Detect circular import chains between files.

Exits 0 whether or not cycles exist; the report is the answer.

Examples:
  depscope cycles .
  depscope cycles src/ --format=json`,
	Args: cobra.ExactArgs(1),
	Run:  runCycles,
}

func init() {
	cyclesCmd.Flags().StringVar(&cyclesFormat, "format", "human", "Output format (json, human)")
	rootCmd.AddCommand(cyclesCmd)
}

func runCycles(cmd *cobra.Command, args []string) {
	start := time.Now()
	target := args[0]

	opts, cfg, logger := buildOptions(target, false)
	opts.InternalOnly = true

	result, err := analysis.New(opts).Analyze(newContext(), target)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error analyzing %s: %v\n", target, err)
		os.Exit(1)
	}

	cliResponse := convertCyclesResponse(result)

	output, err := FormatResponse(cliResponse, OutputFormat(effectiveFormat(cmd, cyclesFormat, cfg)))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(output)

	logger.Debug("cycle detection completed",
		"target", target,
		"cycles", cliResponse.Count,
		"duration", time.Since(start).Milliseconds(),
	)
}

// CyclesResponseCLI contains cycle detection results for CLI output
type CyclesResponseCLI struct {
	Target string     `json:"target"`
	Count  int        `json:"count"`
	Cycles [][]string `json:"cycles"`
}

func convertCyclesResponse(result *analysis.Result) *CyclesResponseCLI {
	raw := result.Graph.FindCycles()
	cycles := make([][]string, 0, len(raw))
	for _, cycle := range raw {
		members := make([]string, 0, len(cycle))
		for _, member := range cycle {
			members = append(members, result.Graph.RelPath(member))
		}
		cycles = append(cycles, members)
	}

	return &CyclesResponseCLI{
		Target: result.Target,
		Count:  len(cycles),
		Cycles: cycles,
	}
}
