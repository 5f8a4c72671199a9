package dictionary

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ReloadFunc is told about every reload attempt; err is nil on success.
type ReloadFunc func(err error)

// Watcher reloads the dictionary file into a Provider when it changes. A
// file that fails to load leaves the previous dictionary active.
type Watcher struct {
	path     string
	format   string
	provider *Provider
	debounce time.Duration
	onReload ReloadFunc
	logger   *zap.Logger
}

// NewWatcher creates a watcher for path. Debounce collapses the burst of
// events editors produce on save.
func NewWatcher(path, format string, provider *Provider, debounce time.Duration, onReload ReloadFunc, logger *zap.Logger) *Watcher {
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	if onReload == nil {
		onReload = func(error) {}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		path:     path,
		format:   format,
		provider: provider,
		debounce: debounce,
		onReload: onReload,
		logger:   logger.Named("dictionary"),
	}
}

// Run watches until ctx is done. The parent directory is watched rather than
// the file so atomic rename-on-save is picked up.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create dictionary watcher: %w", err)
	}
	defer fsw.Close()

	dir := filepath.Dir(w.path)
	if err := fsw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	w.logger.Info("watching dictionary", zap.String("path", w.path))

	target := filepath.Clean(w.path)
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			timer.Reset(w.debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", zap.Error(err))

		case <-timer.C:
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	dict, err := LoadFile(w.path, w.format)
	if err != nil {
		w.logger.Error("dictionary reload failed, keeping previous", zap.Error(err))
		w.onReload(err)
		return
	}
	w.provider.Store(dict)
	w.logger.Info("dictionary reloaded", zap.String("path", w.path))
	w.onReload(nil)
}
