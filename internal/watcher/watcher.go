// Package watcher reports changes to the store file made by other processes,
// such as a `soundpad add` run while the TUI is open.
package watcher

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/zjrosen/soundpad/internal/log"
)

// Watcher calls OnChange once per burst of writes to a file or its SQLite
// sidecars (-wal, -journal).
type Watcher struct {
	fs       *fsnotify.Watcher
	names    map[string]struct{}
	debounce time.Duration
	onChange func()

	mu    sync.Mutex
	timer *time.Timer
	done  chan struct{}
	wg    sync.WaitGroup
}

// New starts watching path. The parent directory is watched because SQLite
// replaces and truncates its sidecar files.
func New(path string, debounce time.Duration, onChange func()) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	dir := filepath.Dir(path)
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}

	base := filepath.Base(path)
	w := &Watcher{
		fs: fw,
		names: map[string]struct{}{
			base:              {},
			base + "-wal":     {},
			base + "-journal": {},
		},
		debounce: debounce,
		onChange: onChange,
		done:     make(chan struct{}),
	}
	w.wg.Add(1)
	log.SafeGo("watcher.loop", w.loop)
	log.Debug(log.CatWatch, "Watching store", "path", path, "debounce", debounce)
	return w, nil
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if _, ok := w.names[filepath.Base(ev.Name)]; ok {
				w.schedule()
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			log.Warn(log.CatWatch, "Watcher error", "error", err)
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.fire)
}

func (w *Watcher) fire() {
	select {
	case <-w.done:
		return
	default:
	}
	log.Debug(log.CatWatch, "Store changed")
	w.onChange()
}

// Close stops watching. No callback fires after Close returns.
func (w *Watcher) Close() error {
	w.mu.Lock()
	select {
	case <-w.done:
		w.mu.Unlock()
		return nil
	default:
	}
	close(w.done)
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	err := w.fs.Close()
	w.wg.Wait()
	return err
}
