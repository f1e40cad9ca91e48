package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/starchart-tools/wayfarer/internal/model"
)

// SpoolSink writes submissions to a local JSON-lines file instead of
// the network. It is the transport when no API key is configured, so
// discoveries are preserved for later manual upload.
type SpoolSink struct {
	path   string
	logger *slog.Logger
	mu     sync.Mutex
}

// spoolEntry is one line of the spool file.
type spoolEntry struct {
	SpooledAt time.Time          `json:"spooled_at"`
	Payload   *SubmissionPayload `json:"payload"`
}

// NewSpoolSink creates a spool writing to path. The parent directory is
// created if missing.
func NewSpoolSink(path string, logger *slog.Logger) (*SpoolSink, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create spool directory: %w", err)
	}
	return &SpoolSink{path: path, logger: logger}, nil
}

// DuplicateCheck implements Sink. The spool has no remote state to
// consult, so every record looks new; local store checks still apply.
func (s *SpoolSink) DuplicateCheck(_ context.Context, _, _ string, _ model.Mode) (*RemoteMatch, error) {
	return &RemoteMatch{Exists: false}, nil
}

// Submit implements Sink by appending one JSON line to the spool file.
func (s *SpoolSink) Submit(ctx context.Context, payload *SubmissionPayload) (*SubmitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	line, err := json.Marshal(spoolEntry{SpooledAt: time.Now().UTC(), Payload: payload})
	if err != nil {
		return nil, fmt.Errorf("failed to encode spool entry: %w", err)
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open spool file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return nil, fmt.Errorf("failed to write spool entry: %w", err)
	}

	s.logger.InfoContext(ctx, "discovery spooled for later upload",
		slog.String("name", payload.Name),
		slog.String("code", payload.AddressCode),
		slog.String("spool", s.path))

	return &SubmitResult{ID: fmt.Sprintf("spool-%d", time.Now().UnixNano()), Status: "spooled"}, nil
}

// Path returns the spool file location.
func (s *SpoolSink) Path() string { return s.path }
