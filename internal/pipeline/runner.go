package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/starchart-tools/wayfarer/internal/model"
	"github.com/starchart-tools/wayfarer/internal/watch"
)

// Notifier receives the report of a finished run.
type Notifier interface {
	RunFinished(ctx context.Context, report *model.RunReport)
}

// defaultWarnInterval spaces the reminder about accumulated unknown
// save keys while watching. Low priority: once per interval, never a
// blocking error.
const defaultWarnInterval = 30 * time.Minute

// Runner executes save-processing runs serially. Watcher changes that
// arrive while a run is in flight are coalesced so a save written five
// times during a run triggers one follow-up, not five.
type Runner struct {
	deps         Deps
	logger       *slog.Logger
	notifier     Notifier
	warnInterval time.Duration
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithNotifier sets the run-completion notifier.
func WithNotifier(n Notifier) RunnerOption {
	return func(r *Runner) {
		if n != nil {
			r.notifier = n
		}
	}
}

// WithWarnInterval sets how often the watch loop reminds about
// accumulated unknown save keys.
func WithWarnInterval(d time.Duration) RunnerOption {
	return func(r *Runner) {
		if d > 0 {
			r.warnInterval = d
		}
	}
}

// NewRunner creates a Runner executing the standard steps with the
// given dependencies.
func NewRunner(deps Deps, opts ...RunnerOption) *Runner {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	r := &Runner{
		deps:         deps,
		logger:       deps.Logger,
		warnInterval: defaultWarnInterval,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ProcessSave runs the full pipeline against one save file and returns
// its report. The save fingerprint is persisted only after a complete
// run, so an aborted run reprocesses the same content next time.
func (r *Runner) ProcessSave(ctx context.Context, savePath string) *model.RunReport {
	report := &model.RunReport{
		SavePath:  savePath,
		StartedAt: time.Now(),
	}

	p := New(Steps(r.deps), WithLogger(r.logger))
	err := p.Execute(ctx, report)

	report.FinishedAt = time.Now()
	report.Document = nil

	if err == nil && !report.Skipped {
		if serr := r.deps.Store.SetSetting(ctx, lastFingerprintKey, report.Fingerprint); serr != nil {
			r.logger.ErrorContext(ctx, "failed to persist save fingerprint", slog.Any("error", serr))
		}
	}

	r.logger.InfoContext(ctx, "run finished",
		slog.String("save", savePath),
		slog.Duration("took", report.Duration()),
		slog.String("outcome", report.Summary()))

	if r.notifier != nil {
		r.notifier.RunFinished(ctx, report)
	}
	return report
}

// Watch processes settled save changes until the context is cancelled
// or the change channel closes. Unknown keys accumulated in the store
// resurface as a periodic warning while watching.
func (r *Runner) Watch(ctx context.Context, changes <-chan watch.Change) error {
	ticker := time.NewTicker(r.warnInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.warnUnknownKeys(ctx)
		case change, ok := <-changes:
			if !ok {
				return nil
			}
			for _, path := range coalesce(change, changes) {
				r.ProcessSave(ctx, path)
			}
		}
	}
}

// warnUnknownKeys logs the accumulated unknown-key count, if any.
func (r *Runner) warnUnknownKeys(ctx context.Context) {
	n, err := r.deps.Store.CountUnknownKeys(ctx)
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to count unknown keys", slog.Any("error", err))
		return
	}
	if n > 0 {
		r.logger.WarnContext(ctx, "save contains keys missing from the key table; an update may be available",
			slog.Int("count", n))
	}
}

// coalesce drains the backlog that accumulated behind first and returns
// the distinct save paths in arrival order.
func coalesce(first watch.Change, changes <-chan watch.Change) []string {
	paths := []string{first.Path}
	seen := map[string]bool{first.Path: true}
	for {
		select {
		case change, ok := <-changes:
			if !ok {
				return paths
			}
			if !seen[change.Path] {
				seen[change.Path] = true
				paths = append(paths, change.Path)
			}
		default:
			return paths
		}
	}
}
