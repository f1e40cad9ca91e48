package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// startWatcher runs a watcher with a short debounce and returns it with
// its cancel func wired to test cleanup.
func startWatcher(t *testing.T, dir string, opts ...WatcherOption) *Watcher {
	t.Helper()

	opts = append([]WatcherOption{WithDebounce(200 * time.Millisecond)}, opts...)
	w, err := NewWatcher(dir, opts...)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go w.Run(ctx)

	// Give the watcher a beat to register with the kernel.
	time.Sleep(50 * time.Millisecond)
	return w
}

func TestWatcher_EmitsSettledSaveWrite(t *testing.T) {
	dir := t.TempDir()
	w := startWatcher(t, dir)

	savePath := filepath.Join(dir, "save.hg")
	if err := os.WriteFile(savePath, []byte("v1"), 0644); err != nil {
		t.Fatalf("failed to write save: %v", err)
	}

	select {
	case change := <-w.Changes():
		if change.Path != savePath {
			t.Errorf("change path = %q, want %q", change.Path, savePath)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for save change")
	}
}

func TestWatcher_CoalescesWriteBurst(t *testing.T) {
	dir := t.TempDir()
	w := startWatcher(t, dir)

	savePath := filepath.Join(dir, "save2.hg")
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(savePath, []byte{byte(i)}, 0644); err != nil {
			t.Fatalf("failed to write save: %v", err)
		}
		time.Sleep(30 * time.Millisecond)
	}

	select {
	case <-w.Changes():
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for coalesced change")
	}

	// The burst must produce exactly one emission.
	select {
	case change := <-w.Changes():
		t.Errorf("burst emitted a second change: %+v", change)
	case <-time.After(500 * time.Millisecond):
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	w := startWatcher(t, dir)

	if err := os.WriteFile(filepath.Join(dir, "mf_save.hg.bak"), []byte("x"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "settings.json"), []byte("{}"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	select {
	case change := <-w.Changes():
		t.Errorf("unexpected change for non-save file: %+v", change)
	case <-time.After(600 * time.Millisecond):
	}
}

func TestWatcher_CustomPattern(t *testing.T) {
	dir := t.TempDir()
	w := startWatcher(t, dir, WithPattern("storage*.hg"))

	if err := os.WriteFile(filepath.Join(dir, "save.hg"), []byte("x"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "storage3.hg"), []byte("x"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	select {
	case change := <-w.Changes():
		if filepath.Base(change.Path) != "storage3.hg" {
			t.Errorf("change path = %q, want storage3.hg", change.Path)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for change")
	}
}

func TestWatcher_ClosesChannelOnCancel(t *testing.T) {
	w, err := NewWatcher(t.TempDir())
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Run() error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	if _, ok := <-w.Changes(); ok {
		t.Error("changes channel not closed after Run returned")
	}
}
