package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/starchart-tools/wayfarer/internal/config"
	"github.com/starchart-tools/wayfarer/internal/watch"
)

// NewWatchCmd creates the watch command.
func NewWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the save directory and submit discoveries as you play",
		Long: `Watch runs the agent continuously: it watches the save directory for
save writes, waits for the game to finish writing, then processes the
save and submits new discoveries to the catalog.

Submissions that fail transiently are queued durably and retried in
the background while the watcher runs. Stop with Ctrl-C; queued items
survive restarts.

Examples:
  # Watch the configured save directory
  wayfarer watch

  # Watch a specific directory with a longer settle period
  wayfarer watch --save-dir ~/saves --debounce 5s`,
		Args: cobra.NoArgs,
		RunE: runWatchCmd,
	}

	addPipelineFlags(cmd)

	cmd.Flags().Duration("debounce", config.DefaultDebounce,
		"Quiet period after the last save write before processing starts")

	return cmd
}

// runWatchCmd executes the watch command.
func runWatchCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
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

	watcher, err := watch.NewWatcher(cfg.SaveDir,
		watch.WithPattern(cfg.SavePattern),
		watch.WithDebounce(cfg.Debounce),
		watch.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to watch save directory: %w", err)
	}

	fmt.Printf("Watching %s for saves matching %q (Ctrl-C to stop)\n",
		cfg.SaveDir, cfg.SavePattern)

	// The watcher feeds the runner; the queue manager retries failed
	// submissions on its own schedule, starting with anything left over
	// from previous sessions.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return watcher.Run(gctx) })
	g.Go(func() error { return a.runner.Watch(gctx, watcher.Changes()) })
	g.Go(func() error { return a.queue.Run(gctx) })

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	fmt.Println("Watch stopped.")
	return nil
}
