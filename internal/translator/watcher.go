package translator

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/micado-scale/adtctl/internal/utils/logger"
	"go.uber.org/zap"
)

// Watcher re-runs a translation whenever the watched descriptor changes.
type Watcher struct {
	watcher   *fsnotify.Watcher
	onChange  func(string) error
	debouncer *debouncer
	path      string
}

// debouncer collapses rapid event bursts (editors often write twice).
type debouncer struct {
	timer    *time.Timer
	duration time.Duration
}

func (d *debouncer) debounce(fn func()) {
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, fn)
}

// NewWatcher creates a file watcher that invokes onChange with the changed
// path after each (debounced) modification.
func NewWatcher(onChange func(string) error) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &Watcher{
		watcher:  fsWatcher,
		onChange: onChange,
		debouncer: &debouncer{
			duration: 500 * time.Millisecond,
		},
	}, nil
}

// Watch starts watching the descriptor file. The containing directory is
// watched as well, since editors commonly replace files via rename.
func (w *Watcher) Watch(path string) error {
	logger.Info("Watching for changes", zap.String("path", path))

	w.path = filepath.Clean(path)
	if err := w.watcher.Add(path); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}
	if err := w.watcher.Add(filepath.Dir(path)); err != nil {
		logger.Warn("Failed to watch directory", zap.String("dir", filepath.Dir(path)), zap.Error(err))
	}

	go w.processEvents()
	return nil
}

func (w *Watcher) processEvents() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Error("File watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}
	// The directory watch picks up every file in the directory, including
	// the ADT the translation itself writes; reacting to those would loop
	// forever. Only the watched descriptor triggers a re-translation.
	if filepath.Clean(event.Name) != w.path {
		return
	}
	logger.Debug("File changed", zap.String("file", event.Name), zap.String("op", event.Op.String()))

	w.debouncer.debounce(func() {
		if err := w.onChange(event.Name); err != nil {
			logger.Error("Re-translation after file change failed",
				zap.String("file", event.Name),
				zap.Error(err))
		}
	})
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	if w.debouncer.timer != nil {
		w.debouncer.timer.Stop()
	}
	return w.watcher.Close()
}
