package catalog

import (
	"errors"
	"fmt"
)

// TransientError marks a failure worth retrying: the request may
// succeed later without anything changing on our side.
type TransientError struct {
	Err error
}

// Error implements the error interface.
func (e *TransientError) Error() string {
	return fmt.Sprintf("transient catalog error: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *TransientError) Unwrap() error { return e.Err }

// transient wraps an error as retryable.
func transient(err error) error {
	return &TransientError{Err: err}
}

// IsTransient reports whether err should be retried with backoff.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

// PermanentError marks a failure retrying cannot fix: validation
// rejections and other 4xx responses.
type PermanentError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *PermanentError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("catalog rejected request (HTTP %d)", e.StatusCode)
	}
	return fmt.Sprintf("catalog rejected request (HTTP %d): %s", e.StatusCode, e.Message)
}

// IsPermanent reports whether err is a permanent rejection.
func IsPermanent(err error) bool {
	var pe *PermanentError
	return errors.As(err, &pe)
}

// ConflictError is a 409 response: the catalog already holds this
// location. ExistingID lets the caller reclassify the submission as an
// edit or a known duplicate instead of failing.
type ConflictError struct {
	ExistingID string
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	return fmt.Sprintf("catalog already holds this location (id %s)", e.ExistingID)
}

// AsConflict extracts the existing catalog id from a conflict error.
func AsConflict(err error) (string, bool) {
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce.ExistingID, true
	}
	return "", false
}
