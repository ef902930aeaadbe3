// Package watch waits for classifier result files to appear.
//
// The classifier runs out of band and writes one predictions file per
// label, each inside its own classification_<file>_<label> directory.
// A Watcher reports a label once its file exists and has stopped changing.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/labelsync/internal/core/domain"
	"github.com/custodia-labs/labelsync/internal/logger"
)

// DefaultDebounce is used when no debounce interval is configured.
const DefaultDebounce = 500 * time.Millisecond

// minTick bounds how often settled files are checked.
const minTick = 10 * time.Millisecond

// Watcher watches a results directory for one export's result files.
type Watcher struct {
	dir      string
	baseName string
	debounce time.Duration
}

// New creates a watcher for the result files of baseName under dir.
// An empty dir means the working directory.
func New(dir, baseName string, debounce time.Duration) *Watcher {
	if dir == "" {
		dir = "."
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{dir: filepath.Clean(dir), baseName: baseName, debounce: debounce}
}

// Run calls fn once per label after its result file has been quiet for the
// debounce interval. It returns when every label was handled or ctx ends.
// Errors from fn do not stop the watch and are joined in the result.
func (w *Watcher) Run(ctx context.Context, labels []domain.Label, fn func(domain.Label) error) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}

	pending := make(map[domain.Label]bool, len(labels))
	touched := make(map[domain.Label]time.Time, len(labels))
	for _, label := range labels {
		pending[label] = true
		w.watchLabelDir(fsw, label, touched)
	}

	ticker := time.NewTicker(max(w.debounce/2, minTick))
	defer ticker.Stop()

	var errs []error
	for len(pending) > 0 {
		select {
		case <-ctx.Done():
			return errors.Join(append(errs, ctx.Err())...)

		case ev, ok := <-fsw.Events:
			if !ok {
				return errors.Join(append(errs, errors.New("watcher closed"))...)
			}
			w.handleEvent(fsw, ev, labels, pending, touched)

		case err, ok := <-fsw.Errors:
			if !ok {
				return errors.Join(append(errs, errors.New("watcher closed"))...)
			}
			logger.Warn("Watch error: %v", err)

		case now := <-ticker.C:
			for _, label := range labels {
				seen, ok := touched[label]
				if !ok || now.Sub(seen) < w.debounce {
					continue
				}
				delete(touched, label)
				if !w.resultExists(label) {
					continue
				}
				delete(pending, label)
				logger.Debug("Result file for %s settled", label)
				if err := fn(label); err != nil {
					errs = append(errs, fmt.Errorf("%s: %w", label, err))
				}
			}
		}
	}
	return errors.Join(errs...)
}

// watchLabelDir adds the label's result directory if it exists and marks an
// already present result file as touched.
func (w *Watcher) watchLabelDir(fsw *fsnotify.Watcher, label domain.Label, touched map[domain.Label]time.Time) {
	sub := w.labelDir(label)
	if info, err := os.Stat(sub); err != nil || !info.IsDir() {
		return
	}
	if err := fsw.Add(sub); err != nil {
		logger.Warn("Cannot watch %s: %v", sub, err)
		return
	}
	if w.resultExists(label) {
		touched[label] = time.Now()
	}
}

func (w *Watcher) handleEvent(
	fsw *fsnotify.Watcher,
	ev fsnotify.Event,
	labels []domain.Label,
	pending map[domain.Label]bool,
	touched map[domain.Label]time.Time,
) {
	name := filepath.Clean(ev.Name)
	for _, label := range labels {
		if !pending[label] {
			continue
		}
		switch name {
		case w.labelDir(label):
			if ev.Has(fsnotify.Create) {
				w.watchLabelDir(fsw, label, touched)
			}
		case w.resultPath(label):
			if ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
				delete(touched, label)
			} else {
				touched[label] = time.Now()
			}
		}
	}
}

func (w *Watcher) labelDir(label domain.Label) string {
	return filepath.Dir(w.resultPath(label))
}

func (w *Watcher) resultPath(label domain.Label) string {
	return filepath.Clean(domain.ResultFilePath(w.dir, w.baseName, label))
}

func (w *Watcher) resultExists(label domain.Label) bool {
	info, err := os.Stat(w.resultPath(label))
	return err == nil && info.Mode().IsRegular()
}
