// Package watcher re-imports a record file into the workspace whenever the
// file changes on disk.
package watcher

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"ucsboard/internal/codec"
	"ucsboard/internal/logging"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Importer accepts a record in a named format
type Importer interface {
	ImportData(format string, r io.Reader) error
}

// Watcher watches a file for changes
type Watcher struct {
	path     string
	onChange func()
	debounce time.Duration
	logger   *zap.Logger
	ready    chan struct{}
	once     sync.Once
}

// New creates a new file watcher
func New(path string, onChange func(), logger *zap.Logger) *Watcher {
	return &Watcher{
		path:     path,
		onChange: onChange,
		debounce: 500 * time.Millisecond,
		logger:   logging.OrNop(logger).With(zap.String("component", "watcher"), zap.String("path", path)),
		ready:    make(chan struct{}),
	}
}

// Reimport creates a watcher that imports path into target on every change.
// The format is taken from the file extension. Failures are logged and leave
// the target unchanged.
func Reimport(path string, target Importer, logger *zap.Logger) *Watcher {
	w := New(path, nil, logger)
	w.onChange = func() {
		if err := ImportFile(path, target); err != nil {
			w.logger.Warn("re-import failed", zap.Error(err))
			return
		}
		w.logger.Info("re-imported record file")
	}
	return w
}

// ImportFile imports a record file into target using its extension as format
func ImportFile(path string, target Importer) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return target.ImportData(codec.FormatFromPath(path), f)
}

// WithDebounce sets the debounce duration
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	w.debounce = d
	return w
}

// Ready is closed once the watcher is registered with the filesystem
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Watch blocks until ctx is cancelled, calling onChange once per burst of
// writes to the file
func (w *Watcher) Watch(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	// editors often replace the file, so watch its directory
	dir := filepath.Dir(w.path)
	filename := filepath.Base(w.path)

	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	w.logger.Info("watching for changes")
	w.once.Do(func() { close(w.ready) })

	var pending *time.Timer

	for {
		select {
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}

			if filepath.Base(event.Name) != filename || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if pending != nil {
				pending.Stop()
			}
			pending = time.AfterFunc(w.debounce, func() {
				w.logger.Debug("file changed", zap.String("op", event.Op.String()))
				w.onChange()
			})

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", zap.Error(err))

		case <-ctx.Done():
			if pending != nil {
				pending.Stop()
			}
			return ctx.Err()
		}
	}
}
