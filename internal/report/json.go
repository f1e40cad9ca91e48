package report

import (
	"encoding/json"
	"io"

	"github.com/starchart-tools/wayfarer/internal/model"
)

// JSONWriter outputs reports as JSON for tool integration.
type JSONWriter struct {
	baseWriter

	indent       bool
	indentPrefix string
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output with the given prefix
// and per-level indent.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentString = "  "
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// runJSON is the wire shape of a run report. The error is flattened to
// a string and the ephemeral document tree is omitted.
type runJSON struct {
	SavePath     string                  `json:"save_path"`
	StartedAt    string                  `json:"started_at"`
	FinishedAt   string                  `json:"finished_at"`
	Fingerprint  string                  `json:"fingerprint,omitempty"`
	SaveVersion  int                     `json:"save_version,omitempty"`
	Mode         model.Mode              `json:"mode,omitempty"`
	TableVersion string                  `json:"table_version,omitempty"`
	Skipped      bool                    `json:"skipped"`
	Error        string                  `json:"error,omitempty"`
	Extracted    int                     `json:"extracted"`
	Dropped      int                     `json:"dropped"`
	Rejected     int                     `json:"rejected"`
	Submitted    int                     `json:"submitted"`
	Queued       int                     `json:"queued"`
	Duplicates   int                     `json:"duplicates"`
	Edits        int                     `json:"edits"`
	Failed       int                     `json:"failed"`
	UnknownKeys  int                     `json:"unknown_keys"`
	Records      []model.DiscoveryRecord `json:"records,omitempty"`
}

// WriteRun outputs the run report as JSON.
func (w *JSONWriter) WriteRun(report *model.RunReport) (int, error) {
	out := runJSON{
		SavePath:     report.SavePath,
		StartedAt:    report.StartedAt.UTC().Format("2006-01-02T15:04:05Z"),
		FinishedAt:   report.FinishedAt.UTC().Format("2006-01-02T15:04:05Z"),
		Fingerprint:  report.Fingerprint,
		SaveVersion:  report.SaveVersion,
		Mode:         report.Mode,
		TableVersion: report.TableVersion,
		Skipped:      report.Skipped,
		Extracted:    report.Extracted,
		Dropped:      report.Dropped,
		Rejected:     report.Rejected,
		Submitted:    report.Submitted,
		Queued:       report.Queued,
		Duplicates:   report.Duplicates,
		Edits:        report.Edits,
		Failed:       report.Failed,
		UnknownKeys:  report.UnknownKeys,
		Records:      report.Records,
	}
	if report.Err != nil {
		out.Error = report.Err.Error()
	}
	return w.writeJSON(out)
}

// WriteStatus outputs the status snapshot as JSON.
func (w *JSONWriter) WriteStatus(status *Status) (int, error) {
	return w.writeJSON(status)
}

func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error
	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}
	data = append(data, '\n')
	return w.output.Write(data)
}
