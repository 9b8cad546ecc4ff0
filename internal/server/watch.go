package server

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce coalesces bursts of file events, such as an editor's
// write-rename-chmod sequence, into one rebuild.
const DefaultDebounce = 200 * time.Millisecond

// watchedExt lists the file types whose changes trigger a rebuild.
var watchedExt = map[string]bool{
	".md":   true,
	".json": true,
	".yaml": true,
	".yml":  true,
	".css":  true,
	".js":   true,
	".html": true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".svg":  true,
	".webp": true,
	".mp4":  true,
}

// Watcher rebuilds the site when content under its roots changes.
type Watcher struct {
	roots    []string
	ignore   []string
	debounce time.Duration
	rebuild  func(ctx context.Context) error
	logger   *zap.Logger
}

// WatchConfig configures a Watcher.
type WatchConfig struct {
	Roots    []string                        // directories watched recursively
	Ignore   []string                        // directories skipped, typically the output directory
	Debounce time.Duration                   // DefaultDebounce when zero
	Rebuild  func(ctx context.Context) error // called once per burst of changes
	Logger   *zap.Logger
}

// NewWatcher creates a Watcher. Rebuild is required.
func NewWatcher(cfg WatchConfig) (*Watcher, error) {
	if cfg.Rebuild == nil {
		return nil, fmt.Errorf("watcher: rebuild function is required")
	}
	if len(cfg.Roots) == 0 {
		return nil, fmt.Errorf("watcher: at least one root is required")
	}
	w := &Watcher{
		debounce: cfg.Debounce,
		rebuild:  cfg.Rebuild,
		logger:   cfg.Logger,
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}
	if w.logger == nil {
		w.logger = zap.NewNop()
	}
	for _, r := range cfg.Roots {
		abs, err := filepath.Abs(r)
		if err != nil {
			return nil, fmt.Errorf("watcher: %w", err)
		}
		w.roots = append(w.roots, abs)
	}
	for _, r := range cfg.Ignore {
		if abs, err := filepath.Abs(r); err == nil {
			w.ignore = append(w.ignore, abs)
		}
	}
	return w, nil
}

// Run watches until ctx is done. Rebuild errors are logged and watching
// continues, so a broken chapter can be fixed without restarting.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer func() { _ = fw.Close() }()

	for _, root := range w.roots {
		if err := w.addTree(fw, root); err != nil {
			return err
		}
	}
	w.logger.Info("watching for changes", zap.Strings("roots", w.roots))

	// Stop and Reset discard stale expirations, so the channel is never drained.
	timer := time.NewTimer(w.debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if w.ignored(event.Name) {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(fw, event.Name); err != nil {
						w.logger.Warn("cannot watch new directory", zap.String("dir", event.Name), zap.Error(err))
					}
				}
			}
			if !relevant(event) {
				continue
			}
			w.logger.Debug("change detected", zap.String("path", event.Name), zap.String("op", event.Op.String()))
			timer.Reset(w.debounce)

		case <-timer.C:
			start := time.Now()
			if err := w.rebuild(ctx); err != nil {
				w.logger.Error("rebuild failed", zap.Error(err))
				continue
			}
			w.logger.Info("rebuilt", zap.Duration("duration", time.Since(start)))

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", zap.Error(err))
		}
	}
}

// addTree watches dir and every directory below it, skipping hidden and
// ignored directories.
func (w *Watcher) addTree(fw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if w.ignored(path) {
			return filepath.SkipDir
		}
		if err := fw.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

// ignored reports whether path lies in an ignored directory.
func (w *Watcher) ignored(path string) bool {
	for _, ig := range w.ignore {
		if path == ig || strings.HasPrefix(path, ig+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// relevant reports whether event can change the generated site.
func relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	return watchedExt[strings.ToLower(filepath.Ext(event.Name))]
}
