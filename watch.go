package mdblog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/eringen/mdblog/debounce"
	"github.com/eringen/mdblog/index"
)

// Watch rebuilds the site whenever a markdown page in the pages directory
// changes. Bursts of events within the watch debounce collapse into one
// rebuild. A missing pages directory is created first so new pages are seen.
func (a *App) Watch() error {
	if a.watcher != nil {
		return nil
	}
	dir := a.Config.PagesPath()
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mdblog: watch: %w", err)
		}
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("mdblog: watch: %w", err)
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return fmt.Errorf("mdblog: watch %s: %w", dir, err)
	}
	a.watcher = w
	a.rebuild = debounce.New(a.Config.WatchDebounce)
	a.watchDone = make(chan struct{})

	a.Logger.Infof("watching %s for changes", dir)
	go a.watchLoop(w)
	return nil
}

func (a *App) watchLoop(w *fsnotify.Watcher) {
	defer close(a.watchDone)
	for {
		select {
		case event, ok := <-w.Events:
			if !ok {
				return
			}
			if !relevant(event) {
				continue
			}
			a.Logger.Debugf("change detected: %s (%s)", event.Name, event.Op)
			a.rebuild.Trigger(func() {
				if _, err := a.Build(); err != nil {
					a.Logger.Errorf("rebuild failed: %v", err)
				}
			})
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			a.Logger.Warnf("watcher error: %v", err)
		}
	}
}

func relevant(event fsnotify.Event) bool {
	if !strings.HasSuffix(event.Name, index.Ext) {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}
