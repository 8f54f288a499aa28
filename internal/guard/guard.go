// Package guard enforces at-most-one concurrent collector run and
// brackets each acquired run with lifecycle markers in the run log.
package guard

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/cbarrett/runsolo/internal/collector"
	"github.com/cbarrett/runsolo/internal/history"
	"github.com/cbarrett/runsolo/internal/joblog"
)

// RunStatus reports how an invocation ended.
type RunStatus string

const (
	// StatusRan means the lock was acquired and the collector was
	// launched and awaited.
	StatusRan RunStatus = "ran"

	// StatusSkipped means the lock was already held; the collector was
	// not launched. Skipping is not an error.
	StatusSkipped RunStatus = "skipped"
)

// Result of one guard invocation.
type Result struct {
	Status   RunStatus
	RunID    string
	ExitCode int
}

// Guard runs the collector at most once concurrently. The lock marker
// path, log, and invocation are fixed at construction.
type Guard struct {
	lockPath string
	log      *joblog.Log
	inv      collector.Invocation
	hist     *history.Writer
}

func New(lockPath string, log *joblog.Log, inv collector.Invocation) *Guard {
	return &Guard{lockPath: lockPath, log: log, inv: inv}
}

// EnableHistory makes the guard persist run records through w.
func (g *Guard) EnableHistory(w *history.Writer) {
	g.hist = w
}

// Run performs a single guarded invocation:
//
//	acquire -> START marker -> launch collector -> wait -> END marker -> release
//
// On contention it appends the skip marker and returns StatusSkipped
// with a nil error. The lock release is deferred and runs on every
// exit path, including collector failure and cancellation.
//
// Cancelling ctx makes Run release the lock and return ctx.Err()
// without waiting further; the collector itself is not killed and is
// left to default process-group signal delivery.
func (g *Guard) Run(ctx context.Context) (Result, error) {
	res := Result{RunID: NewRunID()}

	release, err := Acquire(g.lockPath, res.RunID)
	if err != nil {
		if errors.Is(err, ErrLockHeld) {
			if logErr := g.log.Skip(); logErr != nil {
				return res, logErr
			}
			res.Status = StatusSkipped
			return res, nil
		}
		return res, err
	}
	defer func() { _ = release() }()

	if err := g.log.Start(); err != nil {
		return res, err
	}

	cmd := g.inv.Command(g.log.ChildWriter())
	if err := cmd.Start(); err != nil {
		// Close the bracket so the log still shows the attempt ended,
		// then surface the launch failure to the caller.
		_ = g.log.End()
		g.record(history.RunRecord{
			RunID:     res.RunID,
			PID:       os.Getpid(),
			StartedAt: time.Now(),
			Status:    history.StateFailed,
			LastError: err.Error(),
		}, true)
		return res, fmt.Errorf("start collector: %w", err)
	}

	started := time.Now()
	g.record(history.RunRecord{
		RunID:     res.RunID,
		PID:       cmd.Process.Pid,
		StartedAt: started,
		Status:    history.StateRunning,
	}, false)

	waitCh := make(chan error, 1)
	go func() { waitCh <- cmd.Wait() }()

	select {
	case <-ctx.Done():
		g.record(history.RunRecord{
			RunID:     res.RunID,
			PID:       cmd.Process.Pid,
			StartedAt: started,
			Status:    history.StateInterrupted,
			LastError: ctx.Err().Error(),
		}, true)
		return res, ctx.Err()

	case waitErr := <-waitCh:
		code := collector.ExitCode(waitErr)
		if err := g.log.End(); err != nil {
			return res, err
		}
		now := time.Now()
		g.record(history.RunRecord{
			RunID:       res.RunID,
			PID:         cmd.Process.Pid,
			StartedAt:   started,
			CompletedAt: &now,
			Status:      history.StateCompleted,
			ExitCode:    &code,
		}, true)
		res.Status = StatusRan
		res.ExitCode = code
		return res, nil
	}
}

// record persists a run record, appending it to the history when the
// run reached a terminal state. History failures never fail the run.
func (g *Guard) record(r history.RunRecord, terminal bool) {
	if g.hist == nil {
		return
	}
	r.UpdatedAt = time.Now()
	_ = g.hist.WriteState(r)
	if terminal {
		_ = g.hist.Append(r)
	}
}
