package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/starchart-tools/wayfarer/internal/model"
)

// SimpleWriter outputs human-readable text for terminal display. Plain
// ASCII only, so output pipes cleanly to files and other tools.
type SimpleWriter struct {
	baseWriter

	// verbose includes per-item detail instead of counts only.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables per-item detail in the output.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given
// writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteRun outputs one run's report as terminal text.
func (w *SimpleWriter) WriteRun(report *model.RunReport) (int, error) {
	var sb strings.Builder

	rule(&sb, "=")
	sb.WriteString("                         WAYFARER RUN\n")
	rule(&sb, "=")
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "Save File:    %s\n", report.SavePath)
	fmt.Fprintf(&sb, "Started:      %s\n", report.StartedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&sb, "Duration:     %s\n", report.Duration().Round(1e6))
	fmt.Fprintf(&sb, "Save Version: %d (%s)\n", report.SaveVersion, report.Mode)
	fmt.Fprintf(&sb, "Key Table:    %s\n", report.TableVersion)

	switch {
	case report.Err != nil:
		fmt.Fprintf(&sb, "Status:       ERROR - %v\n", report.Err)
	case report.Skipped:
		sb.WriteString("Status:       Skipped (save unchanged)\n")
	default:
		sb.WriteString("Status:       Complete\n")
	}
	sb.WriteString("\n")

	if !report.Skipped && report.Err == nil {
		rule(&sb, "-")
		sb.WriteString("RESULTS\n")
		rule(&sb, "-")
		sb.WriteString("\n")
		fmt.Fprintf(&sb, "  Extracted:    %d\n", report.Extracted)
		fmt.Fprintf(&sb, "  Dropped:      %d\n", report.Dropped)
		fmt.Fprintf(&sb, "  Rejected:     %d\n", report.Rejected)
		fmt.Fprintf(&sb, "  Submitted:    %d\n", report.Submitted)
		fmt.Fprintf(&sb, "  Queued:       %d\n", report.Queued)
		fmt.Fprintf(&sb, "  Duplicates:   %d\n", report.Duplicates)
		fmt.Fprintf(&sb, "  Edits:        %d\n", report.Edits)
		fmt.Fprintf(&sb, "  Failed:       %d\n", report.Failed)
		fmt.Fprintf(&sb, "  Unknown Keys: %d\n", report.UnknownKeys)
		sb.WriteString("\n")

		if w.verbose {
			for i := range report.Records {
				w.writeRecord(&sb, &report.Records[i], 1)
			}
			sb.WriteString("\n")
		}
	}

	return w.output.Write([]byte(sb.String()))
}

// writeRecord writes one discovery and its children, indented by depth.
func (w *SimpleWriter) writeRecord(sb *strings.Builder, rec *model.DiscoveryRecord, depth int) {
	indent := strings.Repeat("  ", depth)
	if rec.AddressCode != "" {
		fmt.Fprintf(sb, "%s[%s] %s (%s, %s)\n", indent, rec.Kind, rec.Name, rec.AddressCode, rec.Galaxy)
	} else {
		fmt.Fprintf(sb, "%s[%s] %s\n", indent, rec.Kind, rec.Name)
	}
	for i := range rec.Children {
		w.writeRecord(sb, &rec.Children[i], depth+1)
	}
}

// WriteStatus outputs a status snapshot as terminal text.
func (w *SimpleWriter) WriteStatus(status *Status) (int, error) {
	var sb strings.Builder

	rule(&sb, "=")
	sb.WriteString("                       WAYFARER STATUS\n")
	rule(&sb, "=")
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "Store:        %s\n", status.StorePath)
	fmt.Fprintf(&sb, "Uploads:      %d\n", len(status.Uploads))
	fmt.Fprintf(&sb, "Queue:        %d active, %d parked\n", status.QueueActive, status.QueueParked)
	fmt.Fprintf(&sb, "Unknown Keys: %d\n", len(status.UnknownKeys))
	sb.WriteString("\n")

	if len(status.QueueItems) > 0 {
		rule(&sb, "-")
		sb.WriteString("OFFLINE QUEUE\n")
		rule(&sb, "-")
		sb.WriteString("\n")
		for _, item := range status.QueueItems {
			state := "waiting"
			if item.Parked {
				state = "parked"
			}
			fmt.Fprintf(&sb, "  #%d %s %s (%s, %d retries)\n",
				item.ID, item.AddressCode, item.Record.Name, state, item.RetryCount)
			if w.verbose && item.LastError != "" {
				fmt.Fprintf(&sb, "      last error: %s\n", item.LastError)
			}
		}
		sb.WriteString("\n")
	}

	if w.verbose && len(status.Uploads) > 0 {
		rule(&sb, "-")
		sb.WriteString("UPLOAD HISTORY\n")
		rule(&sb, "-")
		sb.WriteString("\n")
		for _, u := range status.Uploads {
			edit := ""
			if u.IsEdit {
				edit = " (edit)"
			}
			fmt.Fprintf(&sb, "  %s %s [%s/%s] %s%s\n",
				u.AddressCode, u.Name, u.Galaxy, u.Mode, u.Status, edit)
		}
		sb.WriteString("\n")
	}

	if len(status.UnknownKeys) > 0 {
		rule(&sb, "-")
		sb.WriteString("UNKNOWN SAVE KEYS\n")
		rule(&sb, "-")
		sb.WriteString("\n")
		for _, k := range status.UnknownKeys {
			fmt.Fprintf(&sb, "  %q first seen %s at %s\n",
				k.Key, k.FirstSeen.Format("2006-01-02"), k.Context)
		}
		sb.WriteString("\n")
	}

	return w.output.Write([]byte(sb.String()))
}

func rule(sb *strings.Builder, ch string) {
	sb.WriteString(strings.Repeat(ch, 70))
	sb.WriteString("\n")
}
