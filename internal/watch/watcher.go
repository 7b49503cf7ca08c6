package watch

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is used when Config.Debounce is zero.
const DefaultDebounce = 300 * time.Millisecond

// ErrNoRoots is returned by Start when there is nothing to watch.
var ErrNoRoots = errors.New("no directories to watch")

// Op is the kind of change reported for a document.
type Op string

const (
	// OpWrite means the document was created or modified.
	OpWrite Op = "write"

	// OpRemove means the document was removed or renamed away.
	OpRemove Op = "remove"
)

// Event is a settled change to one document.
type Event struct {
	// Path is the absolute path of the document.
	Path string

	// Op is the last observed kind of change.
	Op Op
}

// Config configures a Watcher.
type Config struct {
	// Roots are directories watched recursively, or single files.
	Roots []string

	// Debounce is how long a path must be quiet before it is emitted.
	Debounce time.Duration

	// Filter selects the paths to report. Nil reports .html and .htm files.
	Filter func(path string) bool

	// Logger for watcher diagnostics.
	Logger *slog.Logger
}

type pendingChange struct {
	op Op
	at time.Time
}

// Watcher emits debounced document changes.
type Watcher struct {
	config  Config
	watcher *fsnotify.Watcher
	logger  *slog.Logger

	// files restricts events to explicitly watched files, keyed by path.
	files map[string]bool

	mu      sync.Mutex
	pending map[string]pendingChange

	events chan Event
}

// NewWatcher creates a Watcher. Call Start to begin watching.
func NewWatcher(config Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.Debounce <= 0 {
		config.Debounce = DefaultDebounce
	}
	if config.Filter == nil {
		config.Filter = IsHTML
	}

	return &Watcher{
		config:  config,
		watcher: fsw,
		logger:  config.Logger,
		files:   make(map[string]bool),
		pending: make(map[string]pendingChange),
		events:  make(chan Event, 64),
	}, nil
}

// IsHTML reports whether path has an .html or .htm extension.
func IsHTML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return true
	default:
		return false
	}
}

// Events returns the channel of settled changes. It is closed when the
// context passed to Start is done or the watcher is closed.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start adds the watches and begins processing events in the background.
func (w *Watcher) Start(ctx context.Context) error {
	if len(w.config.Roots) == 0 {
		return ErrNoRoots
	}

	for _, root := range w.config.Roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			return err
		}
		info, err := os.Stat(abs)
		if err != nil {
			return err
		}
		if !info.IsDir() {
			w.files[abs] = true
			if err := w.watcher.Add(filepath.Dir(abs)); err != nil {
				return err
			}
			continue
		}
		if err := w.addWatchesRecursive(abs); err != nil {
			return err
		}
	}

	go w.processEvents(ctx)

	w.logger.Info("watching for changes",
		"roots", w.config.Roots,
		"debounce", w.config.Debounce)

	return nil
}

// Close stops the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// addWatchesRecursive adds watches to root and every directory below it,
// skipping hidden and dependency directories.
func (w *Watcher) addWatchesRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && skipDir(d.Name()) {
			return filepath.SkipDir
		}

		if err := w.watcher.Add(path); err != nil {
			w.logger.Warn("failed to watch directory",
				"path", path,
				"error", err)
		} else {
			w.logger.Debug("watching directory", "path", path)
		}
		return nil
	})
}

func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || name == "node_modules" || name == "vendor"
}

// processEvents collects fsnotify events and flushes settled paths.
func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.events)

	tick := w.config.Debounce / 2
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watcher error", "error", err)

		case now := <-ticker.C:
			w.flushSettled(ctx, now)
		}
	}
}

// handleFSEvent records a change for a reportable path and adds watches
// for newly created directories.
func (w *Watcher) handleFSEvent(event fsnotify.Event) {
	path := event.Name

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if !skipDir(filepath.Base(path)) && w.underRoot(path) {
				w.handleNewDirectory(path)
			}
			return
		}
	}

	if len(w.files) > 0 && !w.files[path] && !w.underRoot(path) {
		return
	}
	if !w.config.Filter(path) {
		return
	}

	op := OpWrite
	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		op = OpRemove
	} else if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return // chmod only
	}

	w.mu.Lock()
	w.pending[path] = pendingChange{op: op, at: time.Now()}
	w.mu.Unlock()

	w.logger.Debug("change detected", "path", path, "op", event.Op.String())
}

// underRoot reports whether path lies in one of the directory roots.
func (w *Watcher) underRoot(path string) bool {
	for _, root := range w.config.Roots {
		abs, err := filepath.Abs(root)
		if err != nil || w.files[abs] {
			continue
		}
		if rel, err := filepath.Rel(abs, path); err == nil && !strings.HasPrefix(rel, "..") {
			return true
		}
	}
	return false
}

// handleNewDirectory watches a directory created after Start.
func (w *Watcher) handleNewDirectory(path string) {
	if err := w.addWatchesRecursive(path); err != nil {
		w.logger.Warn("failed to watch new directory",
			"path", path,
			"error", err)
	}
}

// flushSettled emits every pending path quiet for at least the debounce.
func (w *Watcher) flushSettled(ctx context.Context, now time.Time) {
	w.mu.Lock()
	var ready []Event
	for path, change := range w.pending {
		if now.Sub(change.at) < w.config.Debounce {
			continue
		}
		op := change.op
		// A remove followed by a recreate ends as a write.
		if op == OpRemove {
			if _, err := os.Stat(path); err == nil {
				op = OpWrite
			}
		}
		ready = append(ready, Event{Path: path, Op: op})
		delete(w.pending, path)
	}
	w.mu.Unlock()

	for _, ev := range ready {
		select {
		case <-ctx.Done():
			return
		case w.events <- ev:
		}
	}
}
