package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/starchart-tools/wayfarer/internal/report"
	"github.com/starchart-tools/wayfarer/internal/store"
)

// NewExportCmd creates the export command.
func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export submitted discoveries as a Markdown catalog",
		Long: `Export renders your upload history as a Markdown catalog grouped by
galaxy, with the portal code for every discovery. The output is meant
for sharing: wikis, forum threads, or a personal log.

Examples:
  # Print the catalog to stdout
  wayfarer export

  # Write it to a file
  wayfarer export -o discoveries.md`,
		Args: cobra.NoArgs,
		RunE: runExportCmd,
	}

	cmd.Flags().String("data-dir", "",
		"Directory for the local database (default: XDG data directory)")
	cmd.Flags().StringP("output", "o", "",
		"Write the catalog to specified file path (creates directories if needed)")

	return cmd
}

// runExportCmd executes the export command.
func runExportCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.StoreDir(), store.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close() //nolint:errcheck // Best effort cleanup

	uploads, err := st.ListUploads(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list uploads: %w", err)
	}

	output, cleanup, err := openReportOutput(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if _, err := report.NewMarkdownWriter(output).WriteCatalog(uploads); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}
	return nil
}
