package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/starchart-tools/wayfarer/internal/model"
)

func testRunReport() *model.RunReport {
	started := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	return &model.RunReport{
		SavePath:     "/saves/save.hg",
		StartedAt:    started,
		FinishedAt:   started.Add(3 * time.Second),
		Fingerprint:  "abc123",
		SaveVersion:  4155,
		Mode:         model.ModeNormal,
		TableVersion: "4155",
		Extracted:    5,
		Dropped:      1,
		Submitted:    2,
		Queued:       1,
		Duplicates:   1,
		Records: []model.DiscoveryRecord{
			{
				Kind:        model.KindSystem,
				Galaxy:      "Elyndra",
				Name:        "Fennor",
				AddressCode: "100100C18000",
				Children: []model.DiscoveryRecord{
					{Kind: model.KindPlanet, Name: "Fennor Minor"},
				},
			},
		},
	}
}

func testStatus() *Status {
	return &Status{
		GeneratedAt: time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC),
		StorePath:   "/data/wayfarer.db",
		Uploads: []model.UploadRecord{
			{AddressCode: "100100C18000", Galaxy: "Elyndra", Mode: model.ModeNormal,
				Name: "Fennor", SubmissionID: "cat-1", Status: model.StatusApproved},
		},
		QueueItems: []model.QueueItem{
			{ID: 7, AddressCode: "200200000000", Parked: true, RetryCount: 3,
				LastError: "connection refused",
				Record:    model.DiscoveryRecord{Kind: model.KindSystem, Name: "Borus"}},
		},
		QueueActive: 0,
		QueueParked: 1,
		UnknownKeys: []model.UnknownKey{
			{Key: "zz9", FirstSeen: time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
				Context: "DiscoveryManager.Records[0].zz9"},
		},
	}
}

func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("run report includes counters", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)
		if _, err := w.WriteRun(testRunReport()); err != nil {
			t.Fatalf("WriteRun() error = %v", err)
		}

		out := buf.String()
		for _, want := range []string{"WAYFARER RUN", "/saves/save.hg", "Extracted:    5", "Queued:       1"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q", want)
			}
		}
		if strings.Contains(out, "Fennor Minor") {
			t.Error("non-verbose output should not list records")
		}
	})

	t.Run("verbose run report lists the discovery tree", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf, WithVerbose(true))
		if _, err := w.WriteRun(testRunReport()); err != nil {
			t.Fatalf("WriteRun() error = %v", err)
		}

		out := buf.String()
		if !strings.Contains(out, "Fennor (100100C18000, Elyndra)") {
			t.Errorf("verbose output missing system line:\n%s", out)
		}
		if !strings.Contains(out, "Fennor Minor") {
			t.Error("verbose output missing nested planet")
		}
	})

	t.Run("failed run shows the error", func(t *testing.T) {
		t.Parallel()

		report := testRunReport()
		report.Err = errors.New("save file corrupt")

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).WriteRun(report); err != nil {
			t.Fatalf("WriteRun() error = %v", err)
		}
		if !strings.Contains(buf.String(), "ERROR - save file corrupt") {
			t.Error("output missing error status")
		}
	})

	t.Run("status includes queue and unknown keys", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).WriteStatus(testStatus()); err != nil {
			t.Fatalf("WriteStatus() error = %v", err)
		}

		out := buf.String()
		for _, want := range []string{"0 active, 1 parked", "Borus", "parked", `"zz9"`} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q", want)
			}
		}
	})
}

func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("run report round-trips", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).WriteRun(testRunReport()); err != nil {
			t.Fatalf("WriteRun() error = %v", err)
		}

		var decoded map[string]any
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if decoded["save_path"] != "/saves/save.hg" {
			t.Errorf("save_path = %v", decoded["save_path"])
		}
		if decoded["extracted"] != float64(5) {
			t.Errorf("extracted = %v", decoded["extracted"])
		}
		if _, ok := decoded["error"]; ok {
			t.Error("successful run should omit the error field")
		}
	})

	t.Run("pretty print indents", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).WriteStatus(testStatus()); err != nil {
			t.Fatalf("WriteStatus() error = %v", err)
		}
		if !strings.Contains(buf.String(), "\n  ") {
			t.Error("pretty-printed output has no indentation")
		}
	})
}

func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("run report renders tables", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).WriteRun(testRunReport()); err != nil {
			t.Fatalf("WriteRun() error = %v", err)
		}

		out := buf.String()
		for _, want := range []string{"# Wayfarer Run", "## Results", "| Submitted", "offline queue"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q", want)
			}
		}
	})

	t.Run("status warns about parked items", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).WriteStatus(testStatus()); err != nil {
			t.Fatalf("WriteStatus() error = %v", err)
		}

		out := buf.String()
		if !strings.Contains(out, "# Wayfarer Status") {
			t.Error("output missing title")
		}
		if !strings.Contains(out, "parked") {
			t.Error("output missing parked warning")
		}
		if !strings.Contains(out, "## Unknown Save Keys") {
			t.Error("output missing unknown keys section")
		}
	})

	t.Run("catalog groups uploads by galaxy", func(t *testing.T) {
		t.Parallel()

		uploads := []model.UploadRecord{
			{AddressCode: "100100C18000", Galaxy: "Elyndra", Mode: model.ModeNormal,
				Name: "Fennor", Status: model.StatusApproved},
			{AddressCode: "200200000100", Galaxy: "Vastrel", Mode: model.ModeSurvival,
				Name: "Borus Prime", Status: model.StatusPending, IsEdit: true},
			{AddressCode: "300300000200", Galaxy: "Elyndra", Mode: model.ModeNormal,
				Name: "Kethra", Status: model.StatusApproved},
		}

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).WriteCatalog(uploads); err != nil {
			t.Fatalf("WriteCatalog() error = %v", err)
		}

		out := buf.String()
		for _, want := range []string{"# Discovery Catalog", "## Elyndra", "## Vastrel",
			"100100C18000", "Borus Prime", "edit"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q", want)
			}
		}
		if strings.Count(out, "## Elyndra") != 1 {
			t.Error("expected one section per galaxy")
		}
	})

	t.Run("empty catalog says so", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).WriteCatalog(nil); err != nil {
			t.Fatalf("WriteCatalog() error = %v", err)
		}
		if !strings.Contains(buf.String(), "No uploads recorded yet.") {
			t.Error("expected empty notice")
		}
	})
}

func TestMultiWriter(t *testing.T) {
	t.Parallel()

	var text, js bytes.Buffer
	mw := NewMultiWriter(NewSimpleWriter(&text), NewJSONWriter(&js))

	n, err := mw.WriteRun(testRunReport())
	if err != nil {
		t.Fatalf("WriteRun() error = %v", err)
	}
	if n != text.Len()+js.Len() {
		t.Errorf("bytes written = %d, want %d", n, text.Len()+js.Len())
	}
	if text.Len() == 0 || js.Len() == 0 {
		t.Error("both writers must receive output")
	}
}
