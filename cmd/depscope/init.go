package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"depscope/internal/config"
	"depscope/internal/errors"
	"depscope/internal/manifest"
	"depscope/internal/paths"
)

var (
	initForce bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize depscope configuration",
	Long: `Creates a DEPSCOPE.toml manifest and a .depscope/ directory with
default configuration in the current directory`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Force reinitialization (overwrites existing files)")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return errors.NewDepscopeError(errors.InternalError, "failed to get current directory", err, nil, nil)
	}

	configPath := paths.ConfigPath(cwd)
	manifestPath := paths.ManifestPath(cwd)

	_, configErr := os.Stat(configPath)
	_, manifestErr := os.Stat(manifestPath)
	if configErr == nil || manifestErr == nil {
		if !initForce {
			// Idempotent behavior: already initialized is success (CI-friendly)
			fmt.Println("depscope already initialized.")
			fmt.Printf("Configuration at: %s\n", configPath)
			fmt.Println("\nRun 'depscope init --force' to reinitialize.")
			return nil
		}
	}

	if err := config.DefaultConfig().Save(cwd); err != nil {
		return errors.NewDepscopeError(errors.InternalError, "failed to write config file", err, nil, nil)
	}

	m := manifest.Default(filepath.Base(cwd))
	if err := m.Save(cwd); err != nil {
		return errors.NewDepscopeError(errors.InternalError, "failed to write manifest", err, nil, nil)
	}

	fmt.Println("depscope initialized successfully!")
	fmt.Printf("Manifest written to: %s\n", manifestPath)
	fmt.Printf("Configuration written to: %s\n", configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Add project excludes to DEPSCOPE.toml")
	fmt.Println("  2. Run 'depscope analyze .' to map the dependency graph")

	return nil
}
