package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/techs-sus/fumo/internal/project"
)

// batchBuffer is the number of debounced batches that may wait for the
// queue before the debouncer blocks.
const batchBuffer = 32

// Watcher observes a project directory and emits debounced event batches.
// The project root is watched non-recursively and the module directory
// recursively; directories created under the module directory are added as
// they appear.
type Watcher struct {
	root      string
	moduleDir string
	debounce  time.Duration
	ignore    []string
	logger    *slog.Logger
	fs        *fsnotify.Watcher
	batches   chan []Event
}

// maxWaitFactor bounds how many debounce intervals a batch may be held back
// by a continuous stream of events.
const maxWaitFactor = 4

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithIgnore drops events on project-relative paths matching any of the
// doublestar globs before they reach the debouncer.
func WithIgnore(patterns []string) WatcherOption {
	return func(w *Watcher) {
		w.ignore = patterns
	}
}

// NewWatcher registers the watches for the project at root. Registration
// errors are returned; nothing is delivered until Run is called.
func NewWatcher(root string, debounce time.Duration, logger *slog.Logger, opts ...WatcherOption) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	w := &Watcher{
		root:      root,
		moduleDir: filepath.Join(root, project.ModuleDirectory),
		debounce:  debounce,
		logger:    logger,
		fs:        fw,
		batches:   make(chan []Event, batchBuffer),
	}

	for _, opt := range opts {
		opt(w)
	}

	if err := fw.Add(root); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watching project directory %s: %w", root, err)
	}

	if err := addRecursive(fw, w.moduleDir); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watching module directory %s: %w", w.moduleDir, err)
	}

	return w, nil
}

// Batches returns the channel debounced batches are delivered on. It is
// never closed; consumers stop on their own context.
func (w *Watcher) Batches() <-chan []Event {
	return w.batches
}

// Run forwards filesystem events through the debouncer until ctx is
// cancelled, then releases the underlying watcher. Metadata and access
// events and ignored paths never reach the debouncer, so they cannot hold
// back a pending batch.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fs.Close()

	debouncer := NewDebouncer(w.debounce, func(batch []Event) {
		select {
		case w.batches <- batch:
		case <-ctx.Done():
		}
	}, WithMaxWait(maxWaitFactor*w.debounce))
	defer debouncer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}

			if ev.Has(fsnotify.Create) && w.inModuleDir(ev.Name) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := addRecursive(w.fs, ev.Name); err != nil {
						w.logger.Warn("failed watching new directory", slog.String("path", ev.Name), slog.Any("error", err))
					}
				}
			}

			if e, ok := w.accept(FromFsnotify(ev)); ok {
				debouncer.Trigger(e)
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}

			w.logger.Error("got error from watcher", slog.String("error", err.Error()))
		}
	}
}

// accept reports whether e may change project content.
func (w *Watcher) accept(e Event) (Event, bool) {
	if !e.Kind.Relevant() {
		w.logger.Debug("skipping event", slog.String("kind", e.Kind.String()), slog.Any("paths", e.Paths))
		return e, false
	}

	if len(w.ignore) == 0 {
		return e, true
	}

	kept := e.Paths[:0:0]

	for _, path := range e.Paths {
		rel, err := project.DiffPaths(path, w.root)
		if err == nil {
			if pattern, ok := matchIgnore(w.ignore, rel); ok {
				w.logger.Debug("ignoring path", slog.String("path", rel), slog.String("pattern", pattern))
				continue
			}
		}

		kept = append(kept, path)
	}

	if len(kept) == 0 {
		return e, false
	}

	e.Paths = kept

	return e, true
}

func (w *Watcher) inModuleDir(path string) bool {
	return path == w.moduleDir || strings.HasPrefix(path, w.moduleDir+string(filepath.Separator))
}

// addRecursive walks root and adds all directories to the watcher.
func addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return watcher.Add(path)
		}

		return nil
	})
}
