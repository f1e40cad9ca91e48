package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/starchart-tools/wayfarer/internal/model"
)

// MarkdownWriter outputs reports in Markdown, for sharing run results
// and agent status in issues, wikis, and community threads.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given
// writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// WriteRun outputs the run report in Markdown format.
func (w *MarkdownWriter) WriteRun(report *model.RunReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Wayfarer Run")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Save File", "`" + report.SavePath + "`"},
			{"Started", report.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", report.Duration().String()},
			{"Save Version", strconv.Itoa(report.SaveVersion)},
			{"Game Mode", string(report.Mode)},
			{"Key Table", report.TableVersion},
			{"Status", w.runStatusText(report)},
		},
	})
	md.PlainText("")

	if report.Err == nil && !report.Skipped {
		md.H2("Results")
		md.PlainText("")
		md.Table(markdown.TableSet{
			Header: []string{"Outcome", "Count"},
			Rows: [][]string{
				{"Extracted", strconv.Itoa(report.Extracted)},
				{"Dropped", strconv.Itoa(report.Dropped)},
				{"Rejected", strconv.Itoa(report.Rejected)},
				{"Submitted", strconv.Itoa(report.Submitted)},
				{"Queued", strconv.Itoa(report.Queued)},
				{"Duplicates", strconv.Itoa(report.Duplicates)},
				{"Edits", strconv.Itoa(report.Edits)},
				{"Failed", strconv.Itoa(report.Failed)},
				{"Unknown Keys", strconv.Itoa(report.UnknownKeys)},
			},
		})
		md.PlainText("")

		switch {
		case report.Queued > 0:
			md.Warningf("%d submission(s) are waiting in the offline queue.", report.Queued)
		case report.Failed > 0:
			md.Importantf("%d submission(s) were rejected by the catalog.", report.Failed)
		case report.Submitted > 0:
			md.Tip(fmt.Sprintf("%d discoveries submitted to the catalog.", report.Submitted))
		}
		md.PlainText("")
	}

	return len(md.String()), md.Build()
}

// runStatusText renders the run outcome cell.
func (w *MarkdownWriter) runStatusText(report *model.RunReport) string {
	switch {
	case report.Err != nil:
		return "❌ Error - " + report.Err.Error()
	case report.Skipped:
		return "⏭️ Skipped (save unchanged)"
	default:
		return "✅ Complete"
	}
}

// WriteStatus outputs the status snapshot in Markdown format.
func (w *MarkdownWriter) WriteStatus(status *Status) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Wayfarer Status")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Generated", status.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
			{"Store", "`" + status.StorePath + "`"},
			{"Uploads", strconv.Itoa(len(status.Uploads))},
			{"Queue", strconv.Itoa(status.QueueActive) + " active, " + strconv.Itoa(status.QueueParked) + " parked"},
			{"Unknown Keys", strconv.Itoa(len(status.UnknownKeys))},
		},
	})
	md.PlainText("")

	switch {
	case status.QueueParked > 0:
		md.Warningf(
			"%d submission(s) exhausted their retries and are parked. Run the retry command to return them to the queue.",
			status.QueueParked,
		)
	case status.QueueActive > 0:
		md.Note(fmt.Sprintf("%d submission(s) are waiting for the catalog to become reachable.", status.QueueActive))
	default:
		md.Tip("The offline queue is empty.")
	}
	md.PlainText("")

	w.writeQueue(md, status)
	w.writeUploads(md, status)
	w.writeUnknownKeys(md, status)

	return len(md.String()), md.Build()
}

// WriteCatalog renders the upload history as a shareable discovery
// catalog, grouped by galaxy.
func (w *MarkdownWriter) WriteCatalog(uploads []model.UploadRecord) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Discovery Catalog")
	md.PlainText("")

	if len(uploads) == 0 {
		md.PlainText("No uploads recorded yet.")
		md.PlainText("")
		return len(md.String()), md.Build()
	}

	md.PlainText(fmt.Sprintf("%d discoveries submitted to the community catalog.", len(uploads)))
	md.PlainText("")

	// Group by galaxy, preserving the store's ordering within each.
	var galaxies []string
	grouped := make(map[string][]model.UploadRecord)
	for _, u := range uploads {
		if _, seen := grouped[u.Galaxy]; !seen {
			galaxies = append(galaxies, u.Galaxy)
		}
		grouped[u.Galaxy] = append(grouped[u.Galaxy], u)
	}

	for _, galaxy := range galaxies {
		md.H2(galaxy)
		md.PlainText("")

		records := grouped[galaxy]
		rows := make([][]string, len(records))
		for i, u := range records {
			kind := "new"
			if u.IsEdit {
				kind = "edit"
			}
			rows[i] = []string{
				"`" + u.AddressCode + "`",
				u.Name,
				string(u.Mode),
				string(u.Status),
				kind,
				u.UploadedAt.Format("2006-01-02"),
			}
		}
		md.Table(markdown.TableSet{
			Header: []string{"Portal Code", "Name", "Mode", "Status", "Kind", "Uploaded"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeQueue(md *markdown.Markdown, status *Status) {
	if len(status.QueueItems) == 0 {
		return
	}

	md.H2("Offline Queue")
	md.PlainText("")

	rows := make([][]string, len(status.QueueItems))
	for i, item := range status.QueueItems {
		state := "waiting"
		if item.Parked {
			state = "parked"
		}
		rows[i] = []string{
			"`" + item.AddressCode + "`",
			item.Record.Name,
			state,
			strconv.Itoa(item.RetryCount),
			item.LastError,
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Code", "Name", "State", "Retries", "Last Error"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeUploads(md *markdown.Markdown, status *Status) {
	md.H2("Upload History")
	md.PlainText("")

	if len(status.Uploads) == 0 {
		md.PlainText("No uploads recorded yet.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(status.Uploads))
	for i, u := range status.Uploads {
		kind := "new"
		if u.IsEdit {
			kind = "edit"
		}
		rows[i] = []string{
			"`" + u.AddressCode + "`",
			u.Name,
			u.Galaxy,
			string(u.Mode),
			string(u.Status),
			kind,
			u.UploadedAt.Format("2006-01-02"),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Code", "Name", "Galaxy", "Mode", "Status", "Kind", "Uploaded"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeUnknownKeys(md *markdown.Markdown, status *Status) {
	if len(status.UnknownKeys) == 0 {
		return
	}

	md.H2("Unknown Save Keys")
	md.PlainText("")
	md.Note("These keys appeared in the save but are missing from the key table. They usually mean the game updated its save format.")
	md.PlainText("")

	rows := make([][]string, len(status.UnknownKeys))
	for i, k := range status.UnknownKeys {
		rows[i] = []string{
			"`" + k.Key + "`",
			k.FirstSeen.Format("2006-01-02"),
			"`" + k.Context + "`",
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Key", "First Seen", "Context"},
		Rows:   rows,
	})
	md.PlainText("")
}
