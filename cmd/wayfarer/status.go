package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/starchart-tools/wayfarer/internal/catalog"
	"github.com/starchart-tools/wayfarer/internal/config"
	"github.com/starchart-tools/wayfarer/internal/model"
	"github.com/starchart-tools/wayfarer/internal/report"
	"github.com/starchart-tools/wayfarer/internal/store"
)

// NewStatusCmd creates the status command.
func NewStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show submission history, the retry queue, and unknown keys",
		Long: `Status reports the agent's local state: past submissions, queued and
parked retries, and obfuscated keys the built-in table does not know.

Parked items exhausted their retry budget; return them to the queue
with "wayfarer retry". Unknown keys usually mean the game updated its
save format before this tool did.

With --refresh, submissions still pending review are re-checked
against the catalog first, so approvals and rejections show up.

Examples:
  # Human-readable status
  wayfarer status

  # Re-check pending submissions against the catalog
  wayfarer status --refresh --api-key wf-...

  # Markdown status written to a file
  wayfarer status --markdown -o status.md`,
		Args: cobra.NoArgs,
		RunE: runStatusCmd,
	}

	cmd.Flags().String("data-dir", "",
		"Directory for the local database (default: XDG data directory)")
	cmd.Flags().BoolP("refresh", "r", false,
		"Re-check pending submissions against the catalog before reporting")
	cmd.Flags().String("catalog-url", config.DefaultCatalogURL, "Catalog API root")
	cmd.Flags().String("api-key", "",
		"Catalog API key (refresh is a no-op without one)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each catalog request")
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write output to specified file path (creates directories if needed)")

	return cmd
}

// runStatusCmd executes the status command.
func runStatusCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.JSONReport && cfg.MarkdownReport {
		return fmt.Errorf("configuration error: %w", config.ErrConflictingReportFormats)
	}

	st, err := store.Open(cfg.StoreDir(), store.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close() //nolint:errcheck // Best effort cleanup

	if refresh, _ := cmd.Flags().GetBool("refresh"); refresh {
		logger := setupLogger(cfg)
		sink, err := buildSink(cfg, logger)
		if err != nil {
			return err
		}
		n, err := refreshUploadStatuses(context.Background(), st, sink, logger)
		if err != nil {
			return fmt.Errorf("failed to refresh upload statuses: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Refreshed %d upload status(es)\n", n)
	}

	status, err := report.BuildStatus(context.Background(), st)
	if err != nil {
		return fmt.Errorf("failed to build status: %w", err)
	}

	output, cleanup, err := openReportOutput(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if _, err := newReportWriter(cfg, output).WriteStatus(status); err != nil {
		return fmt.Errorf("failed to write status: %w", err)
	}
	return nil
}

// refreshUploadStatuses re-checks uploads still pending review against
// the catalog and records their current disposition. Returns how many
// rows changed. A transient catalog failure aborts the refresh; a
// rejected check skips just that row.
func refreshUploadStatuses(ctx context.Context, st *store.Store, sink catalog.Sink, logger *slog.Logger) (int, error) {
	uploads, err := st.ListUploads(ctx)
	if err != nil {
		return 0, err
	}

	changed := 0
	for i := range uploads {
		up := &uploads[i]
		if up.Status != model.StatusPending {
			continue
		}

		match, err := sink.DuplicateCheck(ctx, up.AddressCode, up.Galaxy, up.Mode)
		if err != nil {
			if catalog.IsTransient(err) {
				return changed, err
			}
			logger.WarnContext(ctx, "status refresh rejected for upload",
				slog.String("code", up.AddressCode),
				slog.Any("error", err))
			continue
		}
		if !match.Exists || match.Status == "" {
			continue
		}

		status := model.ParseUploadStatus(match.Status)
		if status == up.Status {
			continue
		}
		if err := st.UpdateUploadStatus(ctx, up.AddressCode, up.Galaxy, up.Mode, status); err != nil {
			return changed, err
		}
		logger.InfoContext(ctx, "upload status changed",
			slog.String("code", up.AddressCode),
			slog.String("name", up.Name),
			slog.String("status", string(status)))
		changed++
	}
	return changed, nil
}
