package report

import (
	"context"
	"log/slog"

	"github.com/starchart-tools/wayfarer/internal/model"
)

// LogNotifier announces finished runs through structured logging. It is
// the default run notifier; a desktop-notification implementation can
// replace it behind the same method set.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

// RunFinished logs the run outcome at a level matching its severity.
func (n *LogNotifier) RunFinished(ctx context.Context, report *model.RunReport) {
	attrs := []any{
		slog.String("save", report.SavePath),
		slog.String("summary", report.Summary()),
	}
	switch {
	case report.Err != nil:
		n.logger.ErrorContext(ctx, "run failed", attrs...)
	case report.Skipped:
		n.logger.DebugContext(ctx, "run skipped", attrs...)
	case report.Queued > 0 || report.Failed > 0:
		n.logger.WarnContext(ctx, "run finished with deferred or failed submissions", attrs...)
	default:
		n.logger.InfoContext(ctx, "run finished", attrs...)
	}
}
