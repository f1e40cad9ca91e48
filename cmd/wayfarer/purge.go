package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/starchart-tools/wayfarer/internal/store"
)

// NewPurgeCmd creates the purge command.
func NewPurgeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete the local upload history",
		Long: `Purge deletes every row of the local upload history. The catalog keeps
its entries; only this machine's memory of what it submitted is lost,
so previously uploaded locations will classify as new again and may be
resubmitted.

The retry queue and unknown-key list are untouched. Requires --yes.

Examples:
  # Start over with an empty upload history
  wayfarer purge --yes`,
		Args: cobra.NoArgs,
		RunE: runPurgeCmd,
	}

	cmd.Flags().String("data-dir", "",
		"Directory for the local database (default: XDG data directory)")
	cmd.Flags().Bool("yes", false, "Confirm deleting the upload history")

	return cmd
}

// runPurgeCmd executes the purge command.
func runPurgeCmd(cmd *cobra.Command, _ []string) error {
	if yes, _ := cmd.Flags().GetBool("yes"); !yes {
		return errors.New("refusing to delete the upload history without --yes")
	}

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.StoreDir(), store.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close() //nolint:errcheck // Best effort cleanup

	n, err := st.PurgeUploads(context.Background())
	if err != nil {
		return fmt.Errorf("failed to purge uploads: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d upload record(s)\n", n)
	return nil
}
