package guard

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// Lock is the marker written at the lock path. Its mere existence means
// a run is in progress; the contents identify the holder so status and
// clean can tell a live run from an orphaned marker.
type Lock struct {
	PID       int       `json:"pid"`
	RunID     string    `json:"run_id"`
	Hostname  string    `json:"hostname,omitempty"`
	StartedAt time.Time `json:"started_at"`
}

var ErrLockHeld = errors.New("collector lock is held")

// Acquire tries to create the lock marker at path exclusively
// (O_EXCL fails if the file exists, so there is no exists-then-create
// race). A single immediate attempt: on contention it returns
// ErrLockHeld without retrying and without inspecting the holder.
//
// On success it returns a release func that removes the marker. The
// release runs at most once and succeeds even if the marker was already
// removed externally.
func Acquire(path, runID string) (func() error, error) {
	host, _ := os.Hostname()
	l := Lock{PID: os.Getpid(), RunID: runID, Hostname: host, StartedAt: time.Now()}
	data, err := json.MarshalIndent(l, "", "    ")
	if err != nil {
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if os.IsExist(err) {
			return nil, fmt.Errorf("%w (marker exists at %s)", ErrLockHeld, path)
		}
		return nil, err
	}

	// Write holder info with fsync
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return nil, err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(path)
		return nil, err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, err
	}

	var once sync.Once
	release := func() error {
		var rmErr error
		once.Do(func() {
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				rmErr = err
			}
		})
		return rmErr
	}
	return release, nil
}

// ReadLock returns the lock marker at path, nil if absent, or an error
// if the marker exists but cannot be parsed.
func ReadLock(path string) (*Lock, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var l Lock
	if err := json.Unmarshal(b, &l); err != nil {
		return nil, fmt.Errorf("unparseable lock marker %s: %w", path, err)
	}
	return &l, nil
}

// HolderAlive reports whether the process recorded in the marker still
// exists. Used by status and clean only; Acquire never consults it.
func HolderAlive(l *Lock) bool {
	if l == nil || l.PID <= 0 {
		return false
	}
	alive, err := process.PidExists(int32(l.PID))
	return err == nil && alive
}
