package collector

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCommandCombinesOutput(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "collect.sh")
	body := "echo to-stdout\necho to-stderr >&2\n"
	if err := os.WriteFile(script, []byte(body), 0755); err != nil {
		t.Fatal(err)
	}

	inv := Invocation{Interpreter: "/bin/sh", Script: script, Dir: dir}
	var out bytes.Buffer
	cmd := inv.Command(&out)

	if err := cmd.Run(); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	s := out.String()
	if !strings.Contains(s, "to-stdout") || !strings.Contains(s, "to-stderr") {
		t.Errorf("expected both streams in output, got: %q", s)
	}
}

func TestCommandPassesArgsAndEnv(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "collect.sh")
	body := "echo arg:$1 env:$COLLECT_MODE\n"
	if err := os.WriteFile(script, []byte(body), 0755); err != nil {
		t.Fatal(err)
	}

	inv := Invocation{
		Interpreter: "/bin/sh",
		Script:      script,
		Args:        []string{"daily"},
		Env:         []string{"COLLECT_MODE=full"},
		Dir:         dir,
	}
	var out bytes.Buffer
	if err := inv.Command(&out).Run(); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if !strings.Contains(out.String(), "arg:daily") {
		t.Errorf("expected script arg, got: %q", out.String())
	}
	if !strings.Contains(out.String(), "env:full") {
		t.Errorf("expected env overlay, got: %q", out.String())
	}
}

func TestExitCode(t *testing.T) {
	if code := ExitCode(nil); code != 0 {
		t.Errorf("expected 0 for nil error, got %d", code)
	}
	if code := ExitCode(errors.New("not an exit error")); code != -1 {
		t.Errorf("expected -1 for non-exit error, got %d", code)
	}

	dir := t.TempDir()
	script := filepath.Join(dir, "fail.sh")
	if err := os.WriteFile(script, []byte("exit 42\n"), 0755); err != nil {
		t.Fatal(err)
	}
	inv := Invocation{Interpreter: "/bin/sh", Script: script, Dir: dir}
	err := inv.Command(&bytes.Buffer{}).Run()
	if code := ExitCode(err); code != 42 {
		t.Errorf("expected 42, got %d (err=%v)", code, err)
	}
}
