package report

import (
	"context"
	"io"
	"time"

	"github.com/starchart-tools/wayfarer/internal/model"
	"github.com/starchart-tools/wayfarer/internal/store"
)

// Status is a point-in-time snapshot of the agent's durable state: the
// upload history, the offline queue, and accumulated diagnostics.
type Status struct {
	// GeneratedAt is when the snapshot was taken.
	GeneratedAt time.Time `json:"generated_at"`

	// StorePath is the database file backing the snapshot.
	StorePath string `json:"store_path"`

	// Uploads is the full upload history, most recent first.
	Uploads []model.UploadRecord `json:"uploads"`

	// QueueItems is the offline queue, parked items included.
	QueueItems []model.QueueItem `json:"queue_items"`

	// QueueActive and QueueParked are the queue depth split.
	QueueActive int `json:"queue_active"`
	QueueParked int `json:"queue_parked"`

	// UnknownKeys are the accumulated unrecognized save keys.
	UnknownKeys []model.UnknownKey `json:"unknown_keys"`
}

// BuildStatus assembles a status snapshot from the store.
func BuildStatus(ctx context.Context, st *store.Store) (*Status, error) {
	status := &Status{
		GeneratedAt: time.Now().UTC(),
		StorePath:   st.Path(),
	}

	var err error
	if status.Uploads, err = st.ListUploads(ctx); err != nil {
		return nil, err
	}
	if status.QueueItems, err = st.ListQueue(ctx); err != nil {
		return nil, err
	}
	if status.QueueActive, status.QueueParked, err = st.QueueDepth(ctx); err != nil {
		return nil, err
	}
	if status.UnknownKeys, err = st.ListUnknownKeys(ctx); err != nil {
		return nil, err
	}
	return status, nil
}

// Writer renders run reports and status snapshots. Implementations
// write text, JSON, or Markdown to their configured destination.
type Writer interface {
	// WriteRun outputs one run's report. Returns bytes written.
	WriteRun(report *model.RunReport) (int, error)

	// WriteStatus outputs a status snapshot. Returns bytes written.
	WriteStatus(status *Status) (int, error)
}

// MultiWriter writes to multiple Writers, for outputting to both the
// terminal and a file. It stops on the first error.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// WriteRun outputs the run report to all configured Writers.
func (m *MultiWriter) WriteRun(report *model.RunReport) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteRun(report)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteStatus outputs the status snapshot to all configured Writers.
func (m *MultiWriter) WriteStatus(status *Status) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteStatus(status)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides the output destination for report writers.
type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
