// Package watcher bridges filesystem change events to tree invalidations.
package watcher

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher observes the managed prompt directory and workspace doc/ trees and
// fires one invalidation callback per create, delete or modify event. It
// never polls; a watcher that fails to start degrades to manual refresh.
type Watcher struct {
	fw       *fsnotify.Watcher
	onChange func()
	done     chan struct{}
}

// New creates a watcher that calls onChange once per relevant event.
func New(onChange func()) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create filesystem watcher: %w", err)
	}
	return &Watcher{
		fw:       fw,
		onChange: onChange,
		done:     make(chan struct{}),
	}, nil
}

// Watch registers a directory tree. The directory itself and every
// subdirectory under it are watched; directories created later are picked up
// from their create events. Missing directories are skipped silently so a
// workspace without a doc/ tree costs nothing.
func (w *Watcher) Watch(root string) error {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if err := w.fw.Add(path); err != nil {
				return fmt.Errorf("failed to watch %s: %w", path, err)
			}
		}
		return nil
	})
}

// Run processes events until Close is called. Call it in its own goroutine.
func (w *Watcher) Run() {
	for {
		select {
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			// New directories join the watch set so their contents keep
			// producing events.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = w.fw.Add(event.Name)
				}
			}
			w.onChange()
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			fmt.Fprintf(os.Stderr, "Warning: filesystem watcher error: %v\n", err)
		case <-w.done:
			return
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fw.Close()
}
