package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/starchart-tools/wayfarer/internal/model"
)

// Enqueue appends a submission to the offline queue and returns its id.
// The discovery record is snapshotted as JSON so a later drain submits
// exactly what was extracted, even if the save has moved on.
func (s *Store) Enqueue(ctx context.Context, item *model.QueueItem) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recordJSON, err := json.Marshal(item.Record)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize queued record: %w", err)
	}

	query := `
	INSERT INTO queue (record_json, address_code, mode, retry_count, last_error, next_attempt_at, parked, is_edit, edit_id)
	VALUES (?, ?, ?, ?, ?, ?, 0, ?, ?)
	`

	var nextAttempt any
	if !item.NextAttemptAt.IsZero() {
		nextAttempt = formatTimestamp(item.NextAttemptAt)
	}

	res, err := s.db.ExecContext(ctx, query,
		string(recordJSON),
		item.AddressCode,
		string(item.Mode),
		item.RetryCount,
		item.LastError,
		nextAttempt,
		item.IsEdit,
		item.EditID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to enqueue submission: %w", err)
	}
	return res.LastInsertId()
}

// PendingQueue returns unparked items due at or before now, in FIFO
// order. Items with no next-attempt time are always due.
func (s *Store) PendingQueue(ctx context.Context, now time.Time) ([]model.QueueItem, error) {
	query := `
	SELECT id, record_json, address_code, mode, queued_at, retry_count, last_error, next_attempt_at, parked, is_edit, edit_id
	FROM queue
	WHERE parked = 0 AND (next_attempt_at IS NULL OR next_attempt_at <= ?)
	ORDER BY id ASC
	`
	return s.queryQueue(ctx, query, formatTimestamp(now))
}

// ListQueue returns every queued item, parked included, in FIFO order.
func (s *Store) ListQueue(ctx context.Context) ([]model.QueueItem, error) {
	query := `
	SELECT id, record_json, address_code, mode, queued_at, retry_count, last_error, next_attempt_at, parked, is_edit, edit_id
	FROM queue
	ORDER BY id ASC
	`
	return s.queryQueue(ctx, query)
}

func (s *Store) queryQueue(ctx context.Context, query string, args ...any) ([]model.QueueItem, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query queue: %w", err)
	}
	defer rows.Close()

	var results []model.QueueItem
	for rows.Next() {
		var item model.QueueItem
		var recordJSON, modeStr, queuedAt string
		var nextAttempt sql.NullString

		if err := rows.Scan(
			&item.ID,
			&recordJSON,
			&item.AddressCode,
			&modeStr,
			&queuedAt,
			&item.RetryCount,
			&item.LastError,
			&nextAttempt,
			&item.Parked,
			&item.IsEdit,
			&item.EditID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan queue item: %w", err)
		}

		if err := json.Unmarshal([]byte(recordJSON), &item.Record); err != nil {
			return nil, fmt.Errorf("failed to parse queued record %d: %w", item.ID, err)
		}
		item.Mode = model.ParseMode(modeStr)
		item.QueuedAt = parseTimestamp(queuedAt)
		if nextAttempt.Valid {
			item.NextAttemptAt = parseTimestamp(nextAttempt.String)
		}
		results = append(results, item)
	}

	return results, rows.Err()
}

// MarkRetry records a transient failure: bumps the retry count, stores
// the error, and schedules the next attempt.
func (s *Store) MarkRetry(ctx context.Context, id int64, retryCount int, lastError string, nextAttempt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
	UPDATE queue SET retry_count = ?, last_error = ?, next_attempt_at = ?
	WHERE id = ?
	`, retryCount, lastError, formatTimestamp(nextAttempt), id)
	if err != nil {
		return fmt.Errorf("failed to mark queue retry: %w", err)
	}
	return nil
}

// Park excludes an item from automatic drains after it exhausted its
// retry budget. The item is kept for manual retry, never dropped.
func (s *Store) Park(ctx context.Context, id int64, lastError string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
	UPDATE queue SET parked = 1, last_error = ?
	WHERE id = ?
	`, lastError, id)
	if err != nil {
		return fmt.Errorf("failed to park queue item: %w", err)
	}
	return nil
}

// UnparkAll returns parked items to the active queue with a fresh retry
// budget, for the manual retry command.
func (s *Store) UnparkAll(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
	UPDATE queue SET parked = 0, retry_count = 0, next_attempt_at = NULL
	WHERE parked = 1
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to unpark queue items: %w", err)
	}
	return res.RowsAffected()
}

// RemoveQueueItem deletes an item after success or permanent rejection.
func (s *Store) RemoveQueueItem(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `DELETE FROM queue WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to remove queue item: %w", err)
	}
	return nil
}

// QueueDepth returns active and parked item counts.
func (s *Store) QueueDepth(ctx context.Context) (active, parked int, err error) {
	err = s.db.QueryRowContext(ctx, `
	SELECT
		COUNT(CASE WHEN parked = 0 THEN 1 END),
		COUNT(CASE WHEN parked = 1 THEN 1 END)
	FROM queue
	`).Scan(&active, &parked)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count queue: %w", err)
	}
	return active, parked, nil
}
