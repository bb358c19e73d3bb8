package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"depscope/internal/extract"
	"depscope/internal/resolve"
)

var checkFormat string

var checkCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "List the imports of a single Python file",
	Long: `Extract and classify the imports of one Python file: absolute
imports grouped apart from relative ones, with external modules
called out separately.

Examples:
  depscope check src/main.py
  depscope check src/main.py --format=json`,
	Args: cobra.ExactArgs(1),
	Run:  runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkFormat, "format", "human", "Output format (json, human)")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) {
	start := time.Now()
	file := args[0]

	opts, cfg, logger := buildOptions(file, false)

	absPath, err := filepath.Abs(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: module not found: %s\n", file)
		os.Exit(1)
	}
	if info, err := os.Stat(absPath); err != nil || info.IsDir() {
		fmt.Fprintf(os.Stderr, "Error: module not found: %s\n", file)
		os.Exit(1)
	}

	records, err := extract.NewExtractor().Extract(newContext(), absPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error checking %s: %v\n", file, err)
		os.Exit(1)
	}

	resolver := resolve.NewResolver(filepath.Dir(absPath), opts.ExtraStdlib, logger)
	cliResponse := convertCheckResponse(file, records, resolver)

	output, err := FormatResponse(cliResponse, OutputFormat(effectiveFormat(cmd, checkFormat, cfg)))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(output)

	logger.Debug("check completed",
		"file", file,
		"imports", cliResponse.TotalImports,
		"external", len(cliResponse.External),
		"duration", time.Since(start).Milliseconds(),
	)
}

// CheckResponseCLI contains a single-file import listing for CLI output
type CheckResponseCLI struct {
	Path         string           `json:"path"`
	TotalImports int              `json:"totalImports"`
	Absolute     []extract.Record `json:"absolute,omitempty"`
	Relative     []extract.Record `json:"relative,omitempty"`
	External     []string         `json:"external,omitempty"`
}

func convertCheckResponse(file string, records []extract.Record, resolver *resolve.Resolver) *CheckResponseCLI {
	resp := &CheckResponseCLI{
		Path:         file,
		TotalImports: len(records),
	}

	seen := make(map[string]struct{})
	for _, rec := range records {
		if rec.Level == 0 {
			resp.Absolute = append(resp.Absolute, rec)
		} else {
			resp.Relative = append(resp.Relative, rec)
			continue
		}
		if rec.Module == "" {
			continue
		}
		if _, dup := seen[rec.Module]; dup {
			continue
		}
		seen[rec.Module] = struct{}{}
		if resolver.IsExternal(rec.Module) {
			resp.External = append(resp.External, rec.Module)
		}
	}
	sort.Strings(resp.External)

	return resp
}
