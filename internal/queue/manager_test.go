package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/starchart-tools/wayfarer/internal/catalog"
	"github.com/starchart-tools/wayfarer/internal/model"
	"github.com/starchart-tools/wayfarer/internal/store"
)

// scriptedSink returns one canned response per Submit call, in order,
// repeating the last one when the script runs out.
type scriptedSink struct {
	responses []submitResponse
	calls     []string
}

type submitResponse struct {
	result *catalog.SubmitResult
	err    error
}

func (s *scriptedSink) DuplicateCheck(_ context.Context, _, _ string, _ model.Mode) (*catalog.RemoteMatch, error) {
	return &catalog.RemoteMatch{Exists: false}, nil
}

func (s *scriptedSink) Submit(_ context.Context, payload *catalog.SubmissionPayload) (*catalog.SubmitResult, error) {
	s.calls = append(s.calls, payload.AddressCode)
	idx := min(len(s.calls)-1, len(s.responses)-1)
	r := s.responses[idx]
	return r.result, r.err
}

func ok(id string) submitResponse {
	return submitResponse{result: &catalog.SubmitResult{ID: id, Status: "pending"}}
}

func transientFailure() submitResponse {
	return submitResponse{err: &catalog.TransientError{Err: errors.New("connection refused")}}
}

func testStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(t.TempDir(), store.DefaultOptions())
	if err != nil {
		t.Fatalf("store.Open() error = %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func record(name string) *model.DiscoveryRecord {
	return &model.DiscoveryRecord{Kind: model.KindSystem, Galaxy: "Elyndra", Name: name}
}

func TestBackoff(t *testing.T) {
	t.Parallel()

	want := []time.Duration{
		5 * time.Second,
		10 * time.Second,
		20 * time.Second,
		40 * time.Second,
	}
	for retry, expected := range want {
		if got := Backoff(retry); got != expected {
			t.Errorf("Backoff(%d) = %v, want %v", retry, got, expected)
		}
	}

	t.Run("saturates at five minutes", func(t *testing.T) {
		for retry := 7; retry < 20; retry++ {
			if got := Backoff(retry); got != 5*time.Minute {
				t.Errorf("Backoff(%d) = %v, want %v", retry, got, 5*time.Minute)
			}
		}
	})

	t.Run("monotone non-decreasing", func(t *testing.T) {
		prev := time.Duration(0)
		for retry := range 15 {
			d := Backoff(retry)
			if d < prev {
				t.Errorf("Backoff(%d) = %v < Backoff(%d) = %v", retry, d, retry-1, prev)
			}
			prev = d
		}
	})
}

func TestManager_DrainOnce(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("delivers in FIFO order and records uploads", func(t *testing.T) {
		t.Parallel()

		st := testStore(t)
		sink := &scriptedSink{responses: []submitResponse{ok("cat-1"), ok("cat-2")}}
		m := NewManager(st, sink)

		if _, err := m.Enqueue(ctx, record("Avenor"), "100100C18000", model.ModeNormal, ""); err != nil {
			t.Fatalf("Enqueue() error = %v", err)
		}
		if _, err := m.Enqueue(ctx, record("Borus"), "200200000000", model.ModeNormal, ""); err != nil {
			t.Fatalf("Enqueue() error = %v", err)
		}

		stats, err := m.DrainOnce(ctx)
		if err != nil {
			t.Fatalf("DrainOnce() error = %v", err)
		}
		if stats.Delivered != 2 || stats.Remaining != 0 {
			t.Errorf("stats = %+v, want 2 delivered, 0 remaining", stats)
		}
		if len(sink.calls) != 2 || sink.calls[0] != "100100C18000" || sink.calls[1] != "200200000000" {
			t.Errorf("submit order = %v, want oldest first", sink.calls)
		}

		upload, err := st.GetUpload(ctx, "100100C18000", "Elyndra", model.ModeNormal)
		if err != nil {
			t.Fatalf("GetUpload() error = %v", err)
		}
		if upload == nil || upload.SubmissionID != "cat-1" {
			t.Errorf("upload = %+v, want submission cat-1", upload)
		}
	})

	t.Run("first transient failure aborts the pass", func(t *testing.T) {
		t.Parallel()

		st := testStore(t)
		sink := &scriptedSink{responses: []submitResponse{transientFailure()}}
		m := NewManager(st, sink)

		if _, err := m.Enqueue(ctx, record("Avenor"), "100100C18000", model.ModeNormal, ""); err != nil {
			t.Fatalf("Enqueue() error = %v", err)
		}
		if _, err := m.Enqueue(ctx, record("Borus"), "200200000000", model.ModeNormal, ""); err != nil {
			t.Fatalf("Enqueue() error = %v", err)
		}

		stats, err := m.DrainOnce(ctx)
		if err != nil {
			t.Fatalf("DrainOnce() error = %v", err)
		}
		if stats.Deferred != 1 || stats.Delivered != 0 {
			t.Errorf("stats = %+v, want 1 deferred only", stats)
		}
		if len(sink.calls) != 1 {
			t.Errorf("submit calls = %d, want 1: unreachable catalog should end the pass", len(sink.calls))
		}

		items, err := st.ListQueue(ctx)
		if err != nil {
			t.Fatalf("ListQueue() error = %v", err)
		}
		if len(items) != 2 {
			t.Fatalf("queue depth = %d, want 2", len(items))
		}
		if items[0].RetryCount != 1 || items[0].LastError == "" {
			t.Errorf("failed item = %+v, want retry_count 1 with error", items[0])
		}
		if items[1].RetryCount != 0 {
			t.Errorf("untried item retry_count = %d, want 0", items[1].RetryCount)
		}
		if upload, _ := st.GetUpload(ctx, "100100C18000", "Elyndra", model.ModeNormal); upload != nil {
			t.Error("failed submission must not create an upload record")
		}
	})

	t.Run("deferred item waits out its backoff", func(t *testing.T) {
		t.Parallel()

		st := testStore(t)
		sink := &scriptedSink{responses: []submitResponse{transientFailure(), ok("cat-1")}}

		current := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
		m := NewManager(st, sink, WithClock(func() time.Time { return current }))

		if _, err := m.Enqueue(ctx, record("Avenor"), "100100C18000", model.ModeNormal, ""); err != nil {
			t.Fatalf("Enqueue() error = %v", err)
		}
		if _, err := m.DrainOnce(ctx); err != nil {
			t.Fatalf("DrainOnce() error = %v", err)
		}

		// Not due yet: the item was rescheduled 5s into the future.
		stats, err := m.DrainOnce(ctx)
		if err != nil {
			t.Fatalf("DrainOnce() error = %v", err)
		}
		if stats.Delivered != 0 || len(sink.calls) != 1 {
			t.Errorf("backoff not honored: stats = %+v, calls = %d", stats, len(sink.calls))
		}

		current = current.Add(10 * time.Second)
		stats, err = m.DrainOnce(ctx)
		if err != nil {
			t.Fatalf("DrainOnce() error = %v", err)
		}
		if stats.Delivered != 1 || stats.Remaining != 0 {
			t.Errorf("stats after backoff = %+v, want delivery", stats)
		}
	})

	t.Run("exhausted retries park the item", func(t *testing.T) {
		t.Parallel()

		st := testStore(t)
		sink := &scriptedSink{responses: []submitResponse{transientFailure()}}

		current := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
		m := NewManager(st, sink, WithClock(func() time.Time { return current }))

		if _, err := m.Enqueue(ctx, record("Avenor"), "100100C18000", model.ModeNormal, ""); err != nil {
			t.Fatalf("Enqueue() error = %v", err)
		}

		// Initial attempt plus three retries, each after its backoff.
		for range 4 {
			if _, err := m.DrainOnce(ctx); err != nil {
				t.Fatalf("DrainOnce() error = %v", err)
			}
			current = current.Add(10 * time.Minute)
		}

		active, parked, err := st.QueueDepth(ctx)
		if err != nil {
			t.Fatalf("QueueDepth() error = %v", err)
		}
		if active != 0 || parked != 1 {
			t.Fatalf("depth = (%d active, %d parked), want (0, 1)", active, parked)
		}

		// Parked items stay out of automatic drains but never disappear.
		if _, err := m.DrainOnce(ctx); err != nil {
			t.Fatalf("DrainOnce() error = %v", err)
		}
		if len(sink.calls) != 4 {
			t.Errorf("submit calls = %d, want 4: parked item must not be retried", len(sink.calls))
		}

		n, err := m.RetryParked(ctx)
		if err != nil {
			t.Fatalf("RetryParked() error = %v", err)
		}
		if n != 1 {
			t.Errorf("RetryParked() = %d, want 1", n)
		}
		items, err := st.ListQueue(ctx)
		if err != nil {
			t.Fatalf("ListQueue() error = %v", err)
		}
		if len(items) != 1 || items[0].Parked || items[0].RetryCount != 0 {
			t.Errorf("unparked item = %+v, want active with fresh budget", items[0])
		}
	})

	t.Run("permanent rejection removes the item", func(t *testing.T) {
		t.Parallel()

		st := testStore(t)
		sink := &scriptedSink{responses: []submitResponse{
			{err: &catalog.PermanentError{StatusCode: 422, Message: "bad name"}},
			ok("cat-2"),
		}}
		m := NewManager(st, sink)

		if _, err := m.Enqueue(ctx, record("Avenor"), "100100C18000", model.ModeNormal, ""); err != nil {
			t.Fatalf("Enqueue() error = %v", err)
		}
		if _, err := m.Enqueue(ctx, record("Borus"), "200200000000", model.ModeNormal, ""); err != nil {
			t.Fatalf("Enqueue() error = %v", err)
		}

		stats, err := m.DrainOnce(ctx)
		if err != nil {
			t.Fatalf("DrainOnce() error = %v", err)
		}
		if stats.Rejected != 1 || stats.Delivered != 1 || stats.Remaining != 0 {
			t.Errorf("stats = %+v, want rejection then delivery", stats)
		}
	})

	t.Run("conflict records the existing entry and clears the item", func(t *testing.T) {
		t.Parallel()

		st := testStore(t)
		sink := &scriptedSink{responses: []submitResponse{
			{err: &catalog.ConflictError{ExistingID: "cat-77"}},
		}}
		m := NewManager(st, sink)

		if _, err := m.Enqueue(ctx, record("Avenor"), "100100C18000", model.ModeNormal, ""); err != nil {
			t.Fatalf("Enqueue() error = %v", err)
		}
		if _, err := m.DrainOnce(ctx); err != nil {
			t.Fatalf("DrainOnce() error = %v", err)
		}

		upload, err := st.GetUpload(ctx, "100100C18000", "Elyndra", model.ModeNormal)
		if err != nil {
			t.Fatalf("GetUpload() error = %v", err)
		}
		if upload == nil || upload.SubmissionID != "cat-77" {
			t.Errorf("upload = %+v, want conflict recorded as cat-77", upload)
		}
		if active, _, _ := st.QueueDepth(ctx); active != 0 {
			t.Errorf("active queue = %d, want 0", active)
		}
	})

	t.Run("edit snapshot survives the queue", func(t *testing.T) {
		t.Parallel()

		st := testStore(t)
		sink := &scriptedSink{responses: []submitResponse{ok("cat-5")}}
		m := NewManager(st, sink)

		if _, err := m.Enqueue(ctx, record("Avenor"), "100100C18000", model.ModeSurvival, "cat-5"); err != nil {
			t.Fatalf("Enqueue() error = %v", err)
		}
		items, err := st.ListQueue(ctx)
		if err != nil {
			t.Fatalf("ListQueue() error = %v", err)
		}
		if !items[0].IsEdit || items[0].EditID != "cat-5" || items[0].Mode != model.ModeSurvival {
			t.Errorf("queued edit = %+v", items[0])
		}

		if _, err := m.DrainOnce(ctx); err != nil {
			t.Fatalf("DrainOnce() error = %v", err)
		}
		upload, err := st.GetUpload(ctx, "100100C18000", "Elyndra", model.ModeSurvival)
		if err != nil {
			t.Fatalf("GetUpload() error = %v", err)
		}
		if upload == nil || !upload.IsEdit {
			t.Errorf("upload = %+v, want edit flag set", upload)
		}
	})
}
