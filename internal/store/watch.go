package store

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const watchDebounce = 50 * time.Millisecond

// Watch signals when the slot database in dir changes on disk, including writes
// made by other processes. Bursts collapse into one signal; the channel holds at
// most one pending signal and is closed once ctx is done.
func Watch(ctx context.Context, dir string, log *zap.Logger) (<-chan struct{}, error) {
	if log == nil {
		log = zap.NewNop()
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		defer w.Close()

		var timer *time.Timer
		var fire <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 || !isSlotDBFile(ev.Name) {
					continue
				}
				if timer == nil {
					timer = time.NewTimer(watchDebounce)
				} else {
					timer.Reset(watchDebounce)
				}
				fire = timer.C
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Warn("watcher error", zap.Error(err))
			case <-fire:
				fire = nil
				select {
				case out <- struct{}{}:
				default:
				}
			}
		}
	}()
	return out, nil
}

// isSlotDBFile matches the database and its write-ahead log. The -shm index
// changes on plain reads, so it is left out.
func isSlotDBFile(name string) bool {
	base := filepath.Base(name)
	return base == sqliteFileName || base == sqliteFileName+"-wal"
}
