// Package joblog writes the collector run log: timestamped lifecycle
// markers plus the collector's own output, appended to a single file.
// The log is never rotated or parsed by runsolo.
package joblog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const timeFormat = "2006-01-02 15:04:05"

// Lifecycle events. The skip line is what operators grep for when a
// scheduled run found another instance already working.
const (
	EventSkip  = "another run detected, exiting."
	EventStart = "START collector"
	EventEnd   = "END collector"
)

// Log is an append-only run log. Lifecycle markers are serialized with
// a mutex; the collector's raw output goes straight to the file and
// relies on append semantics, which is safe because the lock guarantees
// at most one writer.
type Log struct {
	mu   sync.Mutex
	file *os.File
	now  func() time.Time
}

// Open opens the log file in append mode, creating it and its parent
// directory if needed.
func Open(path string) (*Log, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	return &Log{file: file, now: time.Now}, nil
}

// Event appends a single "<YYYY-MM-DD HH:MM:SS> <event>" line.
func (l *Log) Event(event string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, err := fmt.Fprintf(l.file, "%s %s\n", l.now().Format(timeFormat), event)
	return err
}

// Skip marks a run that found the lock already held.
func (l *Log) Skip() error { return l.Event(EventSkip) }

// Start marks the beginning of an acquired run.
func (l *Log) Start() error { return l.Event(EventStart) }

// End marks the end of an acquired run, whatever the collector's exit
// status was.
func (l *Log) End() error { return l.Event(EventEnd) }

// ChildWriter returns the writer the collector's combined stdout and
// stderr are appended to. Output lands verbatim between the START and
// END markers.
func (l *Log) ChildWriter() io.Writer {
	return l.file
}

// Close closes the underlying log file.
func (l *Log) Close() error {
	return l.file.Close()
}
