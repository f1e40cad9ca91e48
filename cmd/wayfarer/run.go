package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/starchart-tools/wayfarer/internal/config"
)

// NewRunCmd creates the run command.
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [save-file]",
		Short: "Process a save file once and submit its discoveries",
		Long: `Run processes a save file through the full pipeline once: decode,
deobfuscate, extract discoveries, resolve portal codes, classify
against local history and the remote catalog, and submit.

Without an argument, the newest save matching the configured pattern
in the save directory is processed. A save whose content is unchanged
since the last run is skipped unless --force is given.

Examples:
  # Process the newest save in the configured save directory
  wayfarer run

  # Process a specific save file
  wayfarer run ~/.local/share/game/saves/save2.hg

  # Reprocess even if the save is unchanged
  wayfarer run --force

  # Output the run report as JSON
  wayfarer run --json -o report.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runRunCmd,
	}

	addPipelineFlags(cmd)

	cmd.Flags().BoolP("force", "f", false,
		"Process the save even when its content is unchanged")
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	return cmd
}

// addPipelineFlags registers the flags shared by run and watch.
func addPipelineFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("save-dir", "d", "",
		"Directory the game writes save files into")
	cmd.Flags().StringP("pattern", "p", config.DefaultSavePattern,
		"Glob matched against save file names")
	cmd.Flags().String("catalog-url", config.DefaultCatalogURL,
		"Catalog API root")
	cmd.Flags().String("api-key", "",
		"Catalog API key (submissions are spooled locally when empty)")
	cmd.Flags().String("data-dir", "",
		"Directory for the local database and spool (default: XDG data directory)")
	cmd.Flags().String("keymap", "",
		"YAML overlay extending the built-in obfuscated-key table")
	cmd.Flags().Float64("min-radius", config.DefaultMinRadius,
		"Void-region floor for address validation, in voxel units")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each catalog request")
}

// runRunCmd executes the run command.
func runRunCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	savePath := ""
	if len(args) == 1 {
		savePath = args[0]
		// An explicit save path makes the save directory optional.
		if cfg.SaveDir == "" {
			cfg.SaveDir = filepath.Dir(savePath)
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cfg)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close() //nolint:errcheck // Best effort cleanup

	if savePath == "" {
		savePath, err = findLatestSave(cfg.SaveDir, cfg.SavePattern)
		if err != nil {
			return err
		}
	}

	runReport := a.runner.ProcessSave(ctx, savePath)

	output, cleanup, err := openReportOutput(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if _, err := newReportWriter(cfg, output).WriteRun(runReport); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if runReport.Err != nil {
		return fmt.Errorf("run failed: %w", runReport.Err)
	}
	return nil
}

// findLatestSave returns the most recently modified file in dir whose
// base name matches pattern.
func findLatestSave(dir, pattern string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read save directory: %w", err)
	}

	var (
		latest     string
		latestTime time.Time
	)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		matched, err := filepath.Match(pattern, entry.Name())
		if err != nil || !matched {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if latest == "" || info.ModTime().After(latestTime) {
			latest = filepath.Join(dir, entry.Name())
			latestTime = info.ModTime()
		}
	}

	if latest == "" {
		return "", errors.New("no save file found (check --save-dir and --pattern)")
	}
	return latest, nil
}
