// Package watch re-runs a callback when a source file changes on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/barisgit/fluxdocs/offline"
)

// DefaultInterval is how long the file must stay quiet before a run
const DefaultInterval = 2 * time.Second

// Watcher watches a single file. The parent directory is watched so that
// editors replacing the file through a rename are still seen.
type Watcher struct {
	path     string
	interval time.Duration
	logger   offline.Logger
}

// Option configures a Watcher
type Option func(*Watcher)

// WithInterval overrides DefaultInterval
func WithInterval(d time.Duration) Option {
	return func(w *Watcher) {
		w.interval = d
	}
}

// WithLogger sets the logger receiving change and failure messages
func WithLogger(logger offline.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// New creates a watcher for path
func New(path string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	w := &Watcher{
		path:     abs,
		interval: DefaultInterval,
		logger:   offline.NopLogger{},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Path returns the absolute path being watched
func (w *Watcher) Path() string {
	return w.path
}

// Run blocks until ctx is cancelled, calling onChange once the file has
// been quiet for the interval after a write. Every write inside the window
// restarts it, so the last one is always picked up. A failing onChange is
// logged and watching continues.
func (w *Watcher) Run(ctx context.Context, onChange func(context.Context) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(w.path), err)
	}

	w.loop(ctx, watcher.Events, watcher.Errors, onChange)
	return nil
}

// loop runs onChange on the loop goroutine, so runs never overlap
func (w *Watcher) loop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error, onChange func(context.Context) error) {
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.interval)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.interval)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.logger.Info(fmt.Sprintf("%s changed, regenerating docs...", filepath.Base(w.path)))
			if err := onChange(ctx); err != nil {
				w.logger.Error(fmt.Sprintf("Failed to regenerate docs: %v", err))
			}

		case err, ok := <-errs:
			if !ok {
				return
			}
			w.logger.Warn(fmt.Sprintf("File watcher error: %v", err))
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}
