package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/starchart-tools/wayfarer/internal/config"
)

//go:embed templates/wayfarer.yaml
var configTemplate embed.FS

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a starter Wayfarer configuration file",
		Long: `Init writes a commented starter configuration file to the XDG config
directory (or the path given with -o).

The generated file documents every setting: the save directory, the
catalog URL and API key, the key table overlay, and the retry and
debounce timings.

Examples:
  # Create the config in the XDG config directory
  wayfarer init

  # Create it at a specific path
  wayfarer init -o myconfig.yaml

  # Overwrite an existing file
  wayfarer init -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", "",
		"Output file path for the configuration (default: XDG config directory)")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	if outputPath == "" {
		outputPath = filepath.Join(config.XDGConfigDir(), config.DefaultConfigFile)
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := configTemplate.ReadFile("templates/wayfarer.yaml")
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	fmt.Printf("Created configuration file: %s\n", outputPath)
	fmt.Println("\nEdit this file to set:")
	fmt.Println("  - save_dir: where the game writes its saves")
	fmt.Println("  - api_key: your catalog API key (leave empty to spool locally)")

	return nil
}
