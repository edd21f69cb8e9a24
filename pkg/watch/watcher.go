// Package watch re-runs discovery when a watched event log changes.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors an event log file and triggers a full discovery pass
// on change. Each pass recomputes from scratch; nothing is incremental.
type Watcher struct {
	watcher  *fsnotify.Watcher
	mu       sync.Mutex
	files    map[string]time.Time
	debounce time.Duration

	// OnChange runs after the debounce window for a changed file.
	OnChange func(path string) error

	// OnError is called when a change handler fails. Optional.
	OnError func(path string, err error)
}

// NewWatcher creates a new file watcher.
func NewWatcher() (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create watcher: %w", err)
	}
	return &Watcher{
		watcher:  fsWatcher,
		files:    make(map[string]time.Time),
		debounce: 500 * time.Millisecond,
	}, nil
}

// Watch starts watching a file. The containing directory is registered,
// which survives editors that replace files on save.
func (w *Watcher) Watch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	stat, err := os.Stat(abs)
	if err != nil {
		return err
	}

	w.mu.Lock()
	w.files[abs] = stat.ModTime()
	w.mu.Unlock()

	return w.watcher.Add(filepath.Dir(abs))
}

// Run blocks processing events until the context is canceled. Pending
// debounce timers are stopped on exit, so OnChange never fires after
// Run returns.
func (w *Watcher) Run(ctx context.Context) error {
	timers := make(map[string]*time.Timer)
	var timerMu sync.Mutex
	defer func() {
		timerMu.Lock()
		for _, t := range timers {
			t.Stop()
		}
		timerMu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			w.mu.Lock()
			_, watched := w.files[abs]
			w.mu.Unlock()
			if !watched {
				continue
			}

			timerMu.Lock()
			if t, exists := timers[abs]; exists {
				t.Stop()
			}
			timers[abs] = time.AfterFunc(w.debounce, func() {
				w.fire(abs)
			})
			timerMu.Unlock()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			if w.OnError != nil {
				w.OnError("", err)
			}
		}
	}
}

// Close releases the underlying watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) fire(path string) {
	stat, err := os.Stat(path)
	if err != nil {
		if w.OnError != nil {
			w.OnError(path, err)
		}
		return
	}

	w.mu.Lock()
	last := w.files[path]
	w.files[path] = stat.ModTime()
	w.mu.Unlock()
	if !stat.ModTime().After(last) {
		return
	}

	if w.OnChange == nil {
		return
	}
	if err := w.OnChange(path); err != nil && w.OnError != nil {
		w.OnError(path, err)
	}
}
