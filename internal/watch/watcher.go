package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Defaults. The game writes the active save as save.hg with numbered
// siblings for other slots, and a write burst settles well inside two
// seconds.
const (
	DefaultPattern  = "save*.hg"
	DefaultDebounce = 2 * time.Second
)

// Change is one settled save-file modification.
type Change struct {
	// Path is the absolute path of the changed save file.
	Path string
	// At is when the write burst went quiet.
	At time.Time
}

// Watcher watches a save directory and emits debounced changes.
type Watcher struct {
	dir      string
	pattern  string
	debounce time.Duration
	logger   *slog.Logger

	changes chan Change
	watcher *fsnotify.Watcher
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithPattern sets the glob matched against save file base names.
func WithPattern(pattern string) WatcherOption {
	return func(w *Watcher) {
		if pattern != "" {
			w.pattern = pattern
		}
	}
}

// WithDebounce sets the quiet period required before a change is
// emitted.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the watcher's logger.
func WithLogger(logger *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// NewWatcher creates a watcher for the given save directory.
func NewWatcher(dir string, opts ...WatcherOption) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{
		dir:      dir,
		pattern:  DefaultPattern,
		debounce: DefaultDebounce,
		logger:   slog.Default(),
		changes:  make(chan Change, 16),
		watcher:  fw,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Changes returns the channel of settled save changes. It is closed
// when Run returns.
func (w *Watcher) Changes() <-chan Change {
	return w.changes
}

// Run watches until the context is cancelled. Each matching filesystem
// event resets that file's debounce timer; a file is emitted once its
// burst has been quiet for the full debounce window.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.changes)
	defer w.watcher.Close()

	if err := w.watcher.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	w.logger.InfoContext(ctx, "watching save directory",
		slog.String("dir", w.dir),
		slog.String("pattern", w.pattern))

	// Trailing-edge debounce: last event time per file, checked on a
	// fine-grained tick so the quiet window restarts on every event.
	pending := make(map[string]time.Time)
	tick := w.debounce / 4
	if tick < 50*time.Millisecond {
		tick = 50 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.matches(event.Name) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				pending[event.Name] = time.Now()
			}

		case <-ticker.C:
			now := time.Now()
			for file, last := range pending {
				if now.Sub(last) < w.debounce {
					continue
				}
				delete(pending, file)
				w.logger.DebugContext(ctx, "save write settled", slog.String("file", file))
				select {
				case w.changes <- Change{Path: file, At: now}:
				case <-ctx.Done():
					return ctx.Err()
				}
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			// Watch errors are transient on most platforms; log and
			// keep watching.
			w.logger.WarnContext(ctx, "file watcher error", slog.Any("error", err))
		}
	}
}

// matches reports whether a path names a save file we care about.
func (w *Watcher) matches(path string) bool {
	ok, err := filepath.Match(w.pattern, filepath.Base(path))
	return err == nil && ok
}
