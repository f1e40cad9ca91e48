package queue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/starchart-tools/wayfarer/internal/catalog"
	"github.com/starchart-tools/wayfarer/internal/model"
	"github.com/starchart-tools/wayfarer/internal/store"
)

// Retry policy. Backoff doubles from baseDelay per failed attempt and
// saturates at maxDelay; after maxRetries failures the item is parked.
const (
	baseDelay     = 5 * time.Second
	maxDelay      = 5 * time.Minute
	maxRetries    = 3
	drainInterval = time.Minute
)

// DrainStats summarizes one drain pass.
type DrainStats struct {
	// Delivered counts items submitted successfully.
	Delivered int
	// Rejected counts items removed after a permanent rejection.
	Rejected int
	// Deferred counts items rescheduled after a transient failure.
	Deferred int
	// Parked counts items that exhausted their retry budget this pass.
	Parked int
	// Remaining is the active queue depth after the pass.
	Remaining int
}

// Manager owns the offline queue: enqueueing failed submissions and
// draining them when the catalog is reachable again.
type Manager struct {
	store  *store.Store
	sink   catalog.Sink
	logger *slog.Logger

	// now is replaceable for tests.
	now func() time.Time
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLogger sets the manager's logger.
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithClock replaces the time source, for tests.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewManager creates a queue manager draining through sink.
func NewManager(st *store.Store, sink catalog.Sink, opts ...ManagerOption) *Manager {
	m := &Manager{
		store:  st,
		sink:   sink,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Backoff returns the delay before the attempt after retryCount
// failures: 5s, 10s, 20s, ... capped at five minutes.
func Backoff(retryCount int) time.Duration {
	d := baseDelay
	for i := 0; i < retryCount && d < maxDelay; i++ {
		d *= 2
	}
	return min(d, maxDelay)
}

// Enqueue stores a submission for a later drain. The record is
// snapshotted; a fresh item is due immediately.
func (m *Manager) Enqueue(ctx context.Context, rec *model.DiscoveryRecord, code string, mode model.Mode, editID string) (int64, error) {
	item := &model.QueueItem{
		Record:      *rec,
		AddressCode: code,
		Mode:        mode,
		IsEdit:      editID != "",
		EditID:      editID,
	}
	id, err := m.store.Enqueue(ctx, item)
	if err != nil {
		return 0, err
	}
	m.logger.InfoContext(ctx, "submission queued for retry",
		slog.Int64("id", id),
		slog.String("name", rec.Name),
		slog.String("code", code))
	return id, nil
}

// DrainOnce attempts every due item in FIFO order. A transient failure
// reschedules the failing item and aborts the pass; remaining items
// keep their order for the next pass.
func (m *Manager) DrainOnce(ctx context.Context) (DrainStats, error) {
	var stats DrainStats

	items, err := m.store.PendingQueue(ctx, m.now())
	if err != nil {
		return stats, fmt.Errorf("failed to load pending queue: %w", err)
	}

	for i := range items {
		item := &items[i]
		if err := m.deliver(ctx, item, &stats); err != nil {
			break
		}
	}

	active, _, err := m.store.QueueDepth(ctx)
	if err != nil {
		return stats, err
	}
	stats.Remaining = active
	return stats, nil
}

// deliver attempts one queued item. The returned error is non-nil only
// for transient failures, signalling the drain pass to stop.
func (m *Manager) deliver(ctx context.Context, item *model.QueueItem, stats *DrainStats) error {
	payload := catalog.NewPayload(&item.Record, item.AddressCode, item.Mode, item.EditID)

	result, err := m.sink.Submit(ctx, payload)
	switch {
	case err == nil:
		if storeErr := m.recordSuccess(ctx, item, result); storeErr != nil {
			m.logger.ErrorContext(ctx, "failed to record delivered submission",
				slog.Int64("id", item.ID), slog.Any("error", storeErr))
		}
		stats.Delivered++
		return nil

	case catalog.IsTransient(err):
		return m.reschedule(ctx, item, err, stats)

	default:
		// Conflicts and permanent rejections both end the item's life
		// in the queue; a conflict additionally records the location
		// as known so it is not re-extracted as new.
		if existingID, ok := catalog.AsConflict(err); ok {
			m.recordConflict(ctx, item, existingID)
		} else {
			m.logger.WarnContext(ctx, "queued submission rejected",
				slog.Int64("id", item.ID),
				slog.String("name", item.Record.Name),
				slog.Any("error", err))
		}
		if storeErr := m.store.RemoveQueueItem(ctx, item.ID); storeErr != nil {
			return storeErr
		}
		stats.Rejected++
		return nil
	}
}

// reschedule reschedules or parks an item after a transient failure.
func (m *Manager) reschedule(ctx context.Context, item *model.QueueItem, cause error, stats *DrainStats) error {
	retries := item.RetryCount + 1
	if retries > maxRetries {
		if err := m.store.Park(ctx, item.ID, cause.Error()); err != nil {
			return err
		}
		stats.Parked++
		m.logger.WarnContext(ctx, "submission parked after exhausting retries",
			slog.Int64("id", item.ID),
			slog.String("name", item.Record.Name),
			slog.Int("retries", item.RetryCount))
		return cause
	}

	next := m.now().Add(Backoff(item.RetryCount))
	if err := m.store.MarkRetry(ctx, item.ID, retries, cause.Error(), next); err != nil {
		return err
	}
	stats.Deferred++
	m.logger.InfoContext(ctx, "submission deferred",
		slog.Int64("id", item.ID),
		slog.Int("retry", retries),
		slog.Time("next_attempt", next))
	return cause
}

// recordSuccess writes the upload-history row and removes the item.
func (m *Manager) recordSuccess(ctx context.Context, item *model.QueueItem, result *catalog.SubmitResult) error {
	upload := &model.UploadRecord{
		AddressCode:  item.AddressCode,
		Galaxy:       item.Record.Galaxy,
		Mode:         item.Mode,
		Name:         item.Record.Name,
		SubmissionID: result.ID,
		Status:       model.ParseUploadStatus(result.Status),
		IsEdit:       item.IsEdit,
	}
	if err := m.store.RecordUpload(ctx, upload); err != nil {
		return err
	}
	m.logger.InfoContext(ctx, "queued submission delivered",
		slog.Int64("id", item.ID),
		slog.String("name", item.Record.Name),
		slog.String("submission_id", result.ID))
	return m.store.RemoveQueueItem(ctx, item.ID)
}

// recordConflict remembers a location the catalog already held so later
// runs classify it as already uploaded.
func (m *Manager) recordConflict(ctx context.Context, item *model.QueueItem, existingID string) {
	upload := &model.UploadRecord{
		AddressCode:  item.AddressCode,
		Galaxy:       item.Record.Galaxy,
		Mode:         item.Mode,
		Name:         item.Record.Name,
		SubmissionID: existingID,
		Status:       model.StatusApproved,
	}
	if err := m.store.RecordUpload(ctx, upload); err != nil {
		m.logger.ErrorContext(ctx, "failed to record conflicted submission",
			slog.Int64("id", item.ID), slog.Any("error", err))
	}
}

// RetryParked returns every parked item to the active queue with a
// fresh retry budget.
func (m *Manager) RetryParked(ctx context.Context) (int64, error) {
	n, err := m.store.UnparkAll(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		m.logger.InfoContext(ctx, "parked submissions returned to queue", slog.Int64("count", n))
	}
	return n, nil
}

// Run drains the queue once immediately, then on every tick until the
// context is cancelled. Errors are logged, not fatal: the queue is
// durable and the next tick tries again.
func (m *Manager) Run(ctx context.Context) error {
	ticker := time.NewTicker(drainInterval)
	defer ticker.Stop()

	m.drainAndLog(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			m.drainAndLog(ctx)
		}
	}
}

func (m *Manager) drainAndLog(ctx context.Context) {
	stats, err := m.DrainOnce(ctx)
	if err != nil {
		m.logger.ErrorContext(ctx, "queue drain failed", slog.Any("error", err))
		return
	}
	if stats.Delivered+stats.Rejected+stats.Deferred+stats.Parked > 0 {
		m.logger.InfoContext(ctx, "queue drained",
			slog.Int("delivered", stats.Delivered),
			slog.Int("rejected", stats.Rejected),
			slog.Int("deferred", stats.Deferred),
			slog.Int("parked", stats.Parked),
			slog.Int("remaining", stats.Remaining))
	}
}
