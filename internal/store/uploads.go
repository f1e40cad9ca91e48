package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/starchart-tools/wayfarer/internal/model"
)

// RecordUpload inserts or updates the upload history row for a
// submission. The (address_code, galaxy, mode) key is unique: a repeat
// submission for the same location (an edit, or a status refresh)
// updates the existing row.
func (s *Store) RecordUpload(ctx context.Context, rec *model.UploadRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
	INSERT INTO uploads (address_code, galaxy, mode, name, submission_id, status, is_edit)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(address_code, galaxy, mode) DO UPDATE SET
		name = excluded.name,
		submission_id = excluded.submission_id,
		status = excluded.status,
		is_edit = excluded.is_edit,
		uploaded_at = CURRENT_TIMESTAMP
	`

	_, err := s.db.ExecContext(ctx, query,
		rec.AddressCode,
		rec.Galaxy,
		string(rec.Mode),
		rec.Name,
		rec.SubmissionID,
		string(rec.Status),
		rec.IsEdit,
	)
	if err != nil {
		return fmt.Errorf("failed to record upload: %w", err)
	}
	return nil
}

// GetUpload retrieves the upload row for a location, or nil when the
// location was never uploaded from this machine.
func (s *Store) GetUpload(ctx context.Context, addressCode, galaxy string, mode model.Mode) (*model.UploadRecord, error) {
	query := `
	SELECT id, address_code, galaxy, mode, name, submission_id, status, is_edit, uploaded_at
	FROM uploads
	WHERE address_code = ? AND galaxy = ? AND mode = ?
	`

	var rec model.UploadRecord
	var modeStr, statusStr, uploadedAt string

	err := s.db.QueryRowContext(ctx, query, addressCode, galaxy, string(mode)).Scan(
		&rec.ID,
		&rec.AddressCode,
		&rec.Galaxy,
		&modeStr,
		&rec.Name,
		&rec.SubmissionID,
		&statusStr,
		&rec.IsEdit,
		&uploadedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get upload: %w", err)
	}

	rec.Mode = model.ParseMode(modeStr)
	rec.Status = model.ParseUploadStatus(statusStr)
	rec.UploadedAt = parseTimestamp(uploadedAt)
	return &rec, nil
}

// UpdateUploadStatus sets the catalog disposition of a recorded upload.
func (s *Store) UpdateUploadStatus(ctx context.Context, addressCode, galaxy string, mode model.Mode, status model.UploadStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
	UPDATE uploads SET status = ?
	WHERE address_code = ? AND galaxy = ? AND mode = ?
	`, string(status), addressCode, galaxy, string(mode))
	if err != nil {
		return fmt.Errorf("failed to update upload status: %w", err)
	}
	return nil
}

// ListUploads returns the full upload history, most recent first.
func (s *Store) ListUploads(ctx context.Context) ([]model.UploadRecord, error) {
	query := `
	SELECT id, address_code, galaxy, mode, name, submission_id, status, is_edit, uploaded_at
	FROM uploads
	ORDER BY uploaded_at DESC, id DESC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list uploads: %w", err)
	}
	defer rows.Close()

	var results []model.UploadRecord
	for rows.Next() {
		var rec model.UploadRecord
		var modeStr, statusStr, uploadedAt string

		if err := rows.Scan(
			&rec.ID,
			&rec.AddressCode,
			&rec.Galaxy,
			&modeStr,
			&rec.Name,
			&rec.SubmissionID,
			&statusStr,
			&rec.IsEdit,
			&uploadedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan upload: %w", err)
		}

		rec.Mode = model.ParseMode(modeStr)
		rec.Status = model.ParseUploadStatus(statusStr)
		rec.UploadedAt = parseTimestamp(uploadedAt)
		results = append(results, rec)
	}

	return results, rows.Err()
}

// PurgeUploads deletes the entire upload history. This is the only way
// upload rows are ever removed; it exists for the explicit purge
// command, not for normal operation.
func (s *Store) PurgeUploads(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM uploads`)
	if err != nil {
		return 0, fmt.Errorf("failed to purge uploads: %w", err)
	}
	return res.RowsAffected()
}
