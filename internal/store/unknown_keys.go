package store

import (
	"context"
	"fmt"

	"github.com/starchart-tools/wayfarer/internal/model"
)

// RecordUnknownKeys stores unknown-key sightings, deduplicated by key
// string. A key seen before keeps its original first_seen and context;
// re-sightings are ignored entirely.
func (s *Store) RecordUnknownKeys(ctx context.Context, keys []model.UnknownKey) error {
	if len(keys) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
	INSERT OR IGNORE INTO unknown_keys (key, first_seen, context)
	VALUES (?, ?, ?)
	`
	for _, k := range keys {
		if _, err := s.db.ExecContext(ctx, query, k.Key, formatTimestamp(k.FirstSeen), k.Context); err != nil {
			return fmt.Errorf("failed to record unknown key %q: %w", k.Key, err)
		}
	}
	return nil
}

// ListUnknownKeys returns the accumulated unknown keys, oldest first.
func (s *Store) ListUnknownKeys(ctx context.Context) ([]model.UnknownKey, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT key, first_seen, context FROM unknown_keys
	ORDER BY first_seen ASC, key ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list unknown keys: %w", err)
	}
	defer rows.Close()

	var results []model.UnknownKey
	for rows.Next() {
		var k model.UnknownKey
		var firstSeen string
		if err := rows.Scan(&k.Key, &firstSeen, &k.Context); err != nil {
			return nil, fmt.Errorf("failed to scan unknown key: %w", err)
		}
		k.FirstSeen = parseTimestamp(firstSeen)
		results = append(results, k)
	}

	return results, rows.Err()
}

// CountUnknownKeys returns how many distinct unknown keys accumulated.
func (s *Store) CountUnknownKeys(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM unknown_keys`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unknown keys: %w", err)
	}
	return count, nil
}
