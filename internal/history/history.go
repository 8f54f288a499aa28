// Package history persists run records so operators can see what the
// launcher has been doing without parsing the run log.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// State of a recorded run.
type State string

const (
	StateRunning     State = "running"
	StateCompleted   State = "completed"
	StateInterrupted State = "interrupted"
	StateFailed      State = "failed"
)

// RunRecord captures one guard invocation that acquired the lock.
// Skipped invocations are not recorded; the run log carries those.
type RunRecord struct {
	RunID       string     `json:"run_id"`
	PID         int        `json:"pid"`
	StartedAt   time.Time  `json:"started_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Status      State      `json:"status"`
	ExitCode    *int       `json:"exit_code,omitempty"`
	LastError   string     `json:"last_error,omitempty"`
}

// Writer persists run state under a state directory: state.json holds
// the latest run, history.json a bounded list of recent runs.
type Writer struct {
	Dir         string
	StatePath   string
	HistoryPath string

	// Keep bounds how many records history.json retains.
	Keep int
}

func NewWriter(dir string) *Writer {
	return &Writer{
		Dir:         dir,
		StatePath:   filepath.Join(dir, "state.json"),
		HistoryPath: filepath.Join(dir, "history.json"),
		Keep:        50,
	}
}

// WriteState records the latest run, overwriting the previous one.
func (w *Writer) WriteState(r RunRecord) error {
	if err := os.MkdirAll(w.Dir, 0755); err != nil {
		return err
	}
	return writeJSONAtomic(w.StatePath, r)
}

// LoadState returns the latest run record, or nil if none was recorded
// or the file is unreadable.
func (w *Writer) LoadState() (*RunRecord, error) {
	b, err := os.ReadFile(w.StatePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var r RunRecord
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, nil
	}
	return &r, nil
}

// Append adds a finished run to history.json, trimming to the Keep most
// recent records.
func (w *Writer) Append(r RunRecord) error {
	if err := os.MkdirAll(w.Dir, 0755); err != nil {
		return err
	}

	records, err := w.Load()
	if err != nil {
		return err
	}
	records = append(records, r)
	if w.Keep > 0 && len(records) > w.Keep {
		records = records[len(records)-w.Keep:]
	}
	return writeJSONAtomic(w.HistoryPath, records)
}

// Load returns the recorded runs, oldest first. A missing or corrupt
// history file reads as empty.
func (w *Writer) Load() ([]RunRecord, error) {
	b, err := os.ReadFile(w.HistoryPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var records []RunRecord
	if err := json.Unmarshal(b, &records); err != nil {
		return nil, nil
	}
	return records, nil
}

func writeJSONAtomic(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return err
	}

	tmp := fmt.Sprintf("%s.tmp.%d", path, time.Now().UnixNano())
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
