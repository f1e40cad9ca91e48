package config

import "errors"

// Configuration validation errors. Package-level sentinels so callers
// can match with errors.Is while the messages stay human-readable.
var (
	// ErrNoSaveDir is returned when no save directory is configured.
	ErrNoSaveDir = errors.New("no save directory: set save_dir in the config file or pass --save-dir")

	// ErrNoSavePattern is returned when the save pattern is empty.
	ErrNoSavePattern = errors.New("no save pattern: must be a glob like save*.hg")

	// ErrInvalidDebounce is returned when the debounce is not positive.
	ErrInvalidDebounce = errors.New("invalid debounce: must be positive")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMinRadius is returned when the void-region floor is
	// negative.
	ErrInvalidMinRadius = errors.New("invalid min radius: must be non-negative")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
