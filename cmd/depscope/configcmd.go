package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"depscope/internal/config"
	"depscope/internal/paths"
)

var configFormat string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage depscope configuration",
	Long:  "View the depscope configuration stored in .depscope/config.json",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Display the effective depscope configuration after layering
defaults, the config file, and DEPSCOPE_* environment overrides.

Examples:
  depscope config show
  depscope config show --format=json`,
	Run: runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	Run:   runConfigPath,
}

func init() {
	configShowCmd.Flags().StringVar(&configFormat, "format", "human", "Output format (json, human)")
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) {
	root := mustGetwd()

	cfg, err := config.LoadConfig(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if configFormat == "json" {
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
		return
	}

	defaults := config.DefaultConfig()

	fmt.Println("depscope configuration")
	fmt.Println(strings.Repeat("─", 50))

	configPath := paths.ConfigPath(root)
	if _, statErr := os.Stat(configPath); statErr == nil {
		fmt.Printf("Source: %s\n", configPath)
	} else {
		fmt.Println("Source: defaults (no config file found)")
	}
	fmt.Println()

	printConfigValue("version", cfg.Version, defaults.Version)

	fmt.Println("\nanalysis:")
	printConfigValue("  workers", cfg.Analysis.Workers, defaults.Analysis.Workers)
	printConfigValue("  excludeDirs", joinList(cfg.Analysis.ExcludeDirs), joinList(defaults.Analysis.ExcludeDirs))
	printConfigValue("  ignoreGlobs", joinList(cfg.Analysis.IgnoreGlobs), joinList(defaults.Analysis.IgnoreGlobs))
	printConfigValue("  extraStdlib", joinList(cfg.Analysis.ExtraStdlib), joinList(defaults.Analysis.ExtraStdlib))
	printConfigValue("  internalOnly", cfg.Analysis.InternalOnly, defaults.Analysis.InternalOnly)

	fmt.Println("\noutput:")
	printConfigValue("  format", cfg.Output.Format, defaults.Output.Format)
	printConfigValue("  showExternal", cfg.Output.ShowExternal, defaults.Output.ShowExternal)

	fmt.Println("\nlogging:")
	printConfigValue("  level", cfg.Logging.Level, defaults.Logging.Level)
	printConfigValue("  format", cfg.Logging.Format, defaults.Logging.Format)

	fmt.Println()
	fmt.Println("Use 'depscope config show --format=json' for raw JSON")
	fmt.Println("Environment overrides use the DEPSCOPE_ prefix, e.g. DEPSCOPE_LOGGING_LEVEL=debug")
}

func runConfigPath(cmd *cobra.Command, args []string) {
	fmt.Println(paths.ConfigPath(mustGetwd()))
}

func printConfigValue(name string, value, defaultValue interface{}) {
	modified := ""
	if fmt.Sprintf("%v", value) != fmt.Sprintf("%v", defaultValue) {
		modified = fmt.Sprintf(" (default: %v)", defaultValue)
	}
	fmt.Printf("%s: %v%s\n", name, value, modified)
}

func joinList(items []string) string {
	if len(items) == 0 {
		return "[]"
	}
	return strings.Join(items, ", ")
}
