// Package collector builds the invocation of the external collection
// program. The program is a black box: runsolo launches it, streams its
// combined output into the run log, and reads nothing back except the
// numeric exit code.
package collector

import (
	"errors"
	"io"
	"os"
	"os/exec"
)

// Invocation describes how to launch the collector:
// <interpreter> <script> [args...] in a working directory, with an
// optional environment overlay on top of the guard's own environment.
type Invocation struct {
	Interpreter string
	Script      string
	Args        []string
	Env         []string
	Dir         string
}

// Command builds the exec.Cmd with stdout and stderr both pointed at
// the run log. No timeout and no context: the guard waits for the
// collector as long as it takes, and a signal to the guard is delivered
// to the collector through the shared process group, not by the guard.
func (inv Invocation) Command(output io.Writer) *exec.Cmd {
	args := append([]string{inv.Script}, inv.Args...)
	cmd := exec.Command(inv.Interpreter, args...)
	cmd.Dir = inv.Dir
	if len(inv.Env) > 0 {
		cmd.Env = append(os.Environ(), inv.Env...)
	}
	cmd.Stdout = output
	cmd.Stderr = output
	return cmd
}

// ExitCode extracts the collector's exit status from Wait's error.
// Returns 0 for a clean exit and -1 when the process died without an
// exit status (killed by a signal).
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
