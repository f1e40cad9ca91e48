package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/starchart-tools/wayfarer/internal/config"
)

// NewRetryCmd creates the retry command.
func NewRetryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "retry",
		Short: "Return parked submissions to the queue and drain it once",
		Long: `Retry gives parked submissions a fresh retry budget and immediately
attempts to deliver everything due in the queue.

Submissions are parked after exhausting their automatic retries,
typically because the catalog was unreachable for a long stretch. Run
this once the connection is back.

Examples:
  # Retry parked submissions
  wayfarer retry`,
		Args: cobra.NoArgs,
		RunE: runRetryCmd,
	}

	cmd.Flags().String("catalog-url", config.DefaultCatalogURL, "Catalog API root")
	cmd.Flags().String("api-key", "",
		"Catalog API key (submissions are spooled locally when empty)")
	cmd.Flags().String("data-dir", "",
		"Directory for the local database and spool (default: XDG data directory)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each catalog request")

	return cmd
}

// runRetryCmd executes the retry command.
func runRetryCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close() //nolint:errcheck // Best effort cleanup

	restored, err := a.queue.RetryParked(ctx)
	if err != nil {
		return fmt.Errorf("failed to restore parked submissions: %w", err)
	}
	fmt.Printf("Returned %d parked submission(s) to the queue\n", restored)

	stats, err := a.queue.DrainOnce(ctx)
	if err != nil {
		return fmt.Errorf("queue drain failed: %w", err)
	}

	fmt.Printf("Delivered: %d  Rejected: %d  Deferred: %d  Parked: %d  Remaining: %d\n",
		stats.Delivered, stats.Rejected, stats.Deferred, stats.Parked, stats.Remaining)
	return nil
}
