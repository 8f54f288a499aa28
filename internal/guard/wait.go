package guard

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/fsnotify/fsnotify"
)

// WaitForRelease blocks until the lock marker at path no longer exists
// or ctx is done. It watches the marker's directory for remove events
// and falls back to stat polling with exponential backoff, so a missed
// event cannot strand the caller.
func WaitForRelease(ctx context.Context, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}

	// The marker may already be gone, or may vanish between the caller's
	// check and the watch registration.
	if markerGone(path) {
		return nil
	}

	poll := backoff.NewExponentialBackOff()
	poll.InitialInterval = 100 * time.Millisecond
	poll.MaxInterval = 5 * time.Second
	poll.MaxElapsedTime = 0

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return errors.New("lock watcher closed")
			}
			if event.Name == path && event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				return nil
			}

		case _, ok := <-watcher.Errors:
			if !ok {
				return errors.New("lock watcher closed")
			}
			// Watch errors are non-fatal; the polling arm covers us.

		case <-time.After(poll.NextBackOff()):
			if markerGone(path) {
				return nil
			}
		}
	}
}

func markerGone(path string) bool {
	_, err := os.Stat(path)
	return os.IsNotExist(err)
}
