package concurrency

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/cleohq/cleo/internal/paths"
)

// Watcher feeds local JSON-file changes under a project's state
// directory to subscribers (spec.md §1 Non-goals: "no real-time event
// bus beyond a file-watcher feed of local JSON changes"). Generalized
// from the deleted cmd/bd/daemon_watcher.go's FileWatcher, which
// watched a single JSONL file plus git refs; this watches the whole
// state directory (todo.json, archive, sessions, locks) since CLEO has
// several aggregate files rather than one.
type Watcher struct {
	fsw       *fsnotify.Watcher
	dir       string
	debounce  time.Duration
	onChanged func(path string)

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// NewWatcher constructs a Watcher over l.StateDir. Falls back to
// returning an error the caller can treat as "polling unsupported on
// this platform" rather than crashing, matching the teacher's
// fsnotify-failure handling.
func NewWatcher(l paths.Layout, debounce time.Duration, onChanged func(path string)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("concurrency: creating watcher: %w", err)
	}
	if err := fsw.Add(l.StateDir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("concurrency: watching %s: %w", l.StateDir, err)
	}
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	return &Watcher{fsw: fsw, dir: l.StateDir, debounce: debounce, onChanged: onChanged, pending: make(map[string]*time.Timer)}, nil
}

// Run consumes events until ctx is canceled or the watcher is closed.
// Each distinct path's callback is debounced independently so a burst
// of writes to todo.json doesn't starve a concurrent burst on
// sessions.json.
func (w *Watcher) Run(ctx context.Context) {
	defer w.fsw.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.trigger(event.Name)
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			// Errors from fsnotify are non-fatal (matches the teacher's
			// own best-effort git-ref watch registration); the loop
			// keeps serving whatever events still arrive.
		}
	}
}

func (w *Watcher) trigger(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[path]; ok {
		t.Stop()
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.onChanged(path)
	})
}

// Close releases the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
