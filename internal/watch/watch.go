// Package watch reports changes to an on-disk store so long-running views can
// refresh themselves when another process writes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Tiliavir/shiftbase/internal/kv"
	"github.com/Tiliavir/shiftbase/internal/logger"
)

// DefaultDebounce is the quiet period after the last change before the
// callback runs.
const DefaultDebounce = time.Second

// ErrNotWatchable is returned for stores without a local path.
var ErrNotWatchable = errors.New("store has no local path to watch")

// PathOf returns the filesystem path of store.
func PathOf(store kv.Store) (string, error) {
	p, ok := store.(kv.Pather)
	if !ok {
		return "", ErrNotWatchable
	}
	return p.Path(), nil
}

// matcher decides which file names belong to the watched store.
func matcher(target string) (dir string, match func(name string) bool, err error) {
	info, err := os.Stat(target)
	if err != nil {
		return "", nil, fmt.Errorf("watch target: %w", err)
	}
	if info.IsDir() {
		return target, func(name string) bool {
			return strings.HasSuffix(name, ".json")
		}, nil
	}
	// A database file changes through itself and its -wal/-journal siblings.
	base := filepath.Base(target)
	return filepath.Dir(target), func(name string) bool {
		return name == base || strings.HasPrefix(name, base+"-")
	}, nil
}

const relevantOps = fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove

// Run watches target (a directory of key files or a database file) and calls
// onChange once changes have been quiet for debounce. It returns when ctx is
// done.
func Run(ctx context.Context, target string, debounce time.Duration, onChange func()) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	dir, match, err := matcher(target)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify.NewWatcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watcher.Add: %w", err)
	}
	logger.Debug("watching store", "dir", dir)

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&relevantOps == 0 || !match(filepath.Base(event.Name)) {
				continue
			}
			timer.Reset(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "err", err)

		case <-timer.C:
			onChange()
		}
	}
}
