// Package watch hot-reloads the custom locale table.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/grovetools/teamwatch/logging"
	"github.com/grovetools/teamwatch/pkg/locale"
	"github.com/grovetools/teamwatch/pkg/render"
	"github.com/sirupsen/logrus"
)

// DefaultDebounce coalesces the burst of events an editor save produces.
const DefaultDebounce = 100 * time.Millisecond

// LocaleWatcher reloads a locale file into a Localizer whenever it changes
// and then calls onReload so hosts can re-render.
type LocaleWatcher struct {
	watcher  *fsnotify.Watcher
	path     string
	target   string
	debounce time.Duration
	loc      *render.Localizer
	onReload func()
	logger   *logrus.Entry

	mu    sync.Mutex
	timer *time.Timer
}

// NewLocaleWatcher watches the directory holding path. Editors usually
// replace files on save, so watching the file itself would lose track of
// it after the first write. Symlinked files also get their target's
// directory watched, since fsnotify does not follow links.
func NewLocaleWatcher(path string, loc *render.Localizer, debounce time.Duration, onReload func()) (*LocaleWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	logger := logging.NewLogger("locale-watcher")

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, err
	}

	var target string
	if info, err := os.Lstat(abs); err == nil && info.Mode()&os.ModeSymlink != 0 {
		if resolved, err := filepath.EvalSymlinks(abs); err == nil {
			target = resolved
			if filepath.Dir(resolved) != filepath.Dir(abs) {
				if err := watcher.Add(filepath.Dir(resolved)); err != nil {
					logger.WithError(err).Warnf("Failed to watch symlink target dir %s", filepath.Dir(resolved))
				}
			}
		} else {
			logger.WithError(err).Warnf("Failed to resolve symlink %s", abs)
		}
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	return &LocaleWatcher{
		watcher:  watcher,
		path:     abs,
		target:   target,
		debounce: debounce,
		loc:      loc,
		onReload: onReload,
		logger:   logger,
	}, nil
}

// Start processes events until ctx is cancelled or the watcher is closed.
func (w *LocaleWatcher) Start(ctx context.Context) {
	defer w.stopTimer()
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.logger.Debugf("fsnotify event: %s op=%v", event.Name, event.Op)
			if !w.relevant(event) {
				continue
			}
			w.schedule()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Errorf("Watcher error: %v", err)
		case <-ctx.Done():
			w.watcher.Close()
			return
		}
	}
}

// Close stops the watcher.
func (w *LocaleWatcher) Close() error {
	w.stopTimer()
	return w.watcher.Close()
}

func (w *LocaleWatcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	name := filepath.Clean(event.Name)
	return name == w.path || (w.target != "" && name == w.target)
}

// schedule reloads once the file has been quiet for the debounce window.
func (w *LocaleWatcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.Reload)
}

func (w *LocaleWatcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

// Reload loads the file now. A broken file keeps the current table.
func (w *LocaleWatcher) Reload() {
	table, err := locale.LoadFile(w.path)
	if err != nil {
		w.logger.WithError(err).Warn("Locale reload failed, keeping current table")
		return
	}
	w.loc.Set(table)
	w.logger.Infof("Locale reloaded: %s", filepath.Base(w.path))
	if w.onReload != nil {
		w.onReload()
	}
}
