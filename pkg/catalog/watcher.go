package catalog

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 500 * time.Millisecond

// Watcher reloads a catalog file when its content changes and hands the
// new catalog to a callback. Writes that leave the content unchanged are
// ignored, as are edits that do not parse.
type Watcher struct {
	path     string
	format   Format
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	debounce time.Duration
	onChange func(*Catalog)

	pendingMu sync.Mutex
	pending   bool

	hashMu sync.RWMutex
	hash   string

	started bool
	done    chan struct{}
}

type WatchOption func(*Watcher)

// WithDebounce sets how long changes are collected before reloading.
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

func WithWatchLogger(logger *slog.Logger) WatchOption {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// NewWatcher creates a watcher for the catalog at path.
func NewWatcher(path string, onChange func(*Catalog), opts ...WatchOption) (*Watcher, error) {
	if onChange == nil {
		return nil, errors.New("catalog watcher needs a change callback")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	format, err := FormatOf(abs)
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:     abs,
		format:   format,
		watcher:  fsw,
		logger:   slog.Default(),
		debounce: defaultDebounce,
		onChange: onChange,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start records the current content hash and begins watching. The file's
// directory is watched so editors that replace the file are seen.
func (w *Watcher) Start(ctx context.Context) error {
	if data, err := os.ReadFile(w.path); err == nil { // nolint: gosec
		w.setHash(Fingerprint(data))
	}
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}

	w.started = true
	go w.processEvents(ctx)

	w.logger.Info("Catalog watcher started",
		"path", w.path,
		"debounce", w.debounce)
	return nil
}

// Stop stops the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() error {
	err := w.watcher.Close()
	if w.started {
		<-w.done
	}
	return err
}

// Hash returns the fingerprint of the last content seen.
func (w *Watcher) Hash() string {
	w.hashMu.RLock()
	defer w.hashMu.RUnlock()
	return w.hash
}

func (w *Watcher) setHash(hash string) {
	w.hashMu.Lock()
	defer w.hashMu.Unlock()
	w.hash = hash
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.done)
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.pendingMu.Lock()
				w.pending = true
				w.pendingMu.Unlock()
				w.logger.Debug("Catalog change detected", "op", event.Op.String())
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", "error", err)

		case <-ticker.C:
			w.flush()
		}
	}
}

func (w *Watcher) flush() {
	w.pendingMu.Lock()
	pending := w.pending
	w.pending = false
	w.pendingMu.Unlock()
	if !pending {
		return
	}

	data, err := os.ReadFile(w.path) // nolint: gosec
	if err != nil {
		w.logger.Warn("Failed to read catalog", "path", w.path, "error", err)
		return
	}
	hash := Fingerprint(data)
	if hash == w.Hash() {
		return
	}

	cat, err := Parse(data, w.format)
	if err != nil {
		w.logger.Warn("Ignoring invalid catalog", "path", w.path, "error", err)
		return
	}
	w.setHash(hash)
	w.logger.Info("Catalog reloaded", "path", w.path, "books", len(cat.Books))
	w.onChange(cat)
}
