package main

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/cbarrett/runsolo/internal/guard"
)

func TestCleanNoMarker(t *testing.T) {
	_, configPath := writeTestProject(t, "true\n")

	if code := cleanCmd([]string{"-config", configPath}); code != 0 {
		t.Fatalf("expected exit 0 with no marker, got %d", code)
	}
}

func TestCleanRefusesLiveHolder(t *testing.T) {
	dir, configPath := writeTestProject(t, "true\n")

	lockPath := filepath.Join(dir, ".collector_lock")
	release, err := guard.Acquire(lockPath, "live")
	if err != nil {
		t.Fatalf("Acquire error: %v", err)
	}
	defer func() { _ = release() }()

	if code := cleanCmd([]string{"-config", configPath}); code != 1 {
		t.Fatalf("expected exit 1 for a live holder, got %d", code)
	}
	if _, err := os.Stat(lockPath); err != nil {
		t.Error("clean must not remove a live holder's marker")
	}
}

func TestCleanRemovesOrphanedMarker(t *testing.T) {
	dir, configPath := writeTestProject(t, "true\n")

	// A marker whose pid has already been reaped
	cmd := exec.Command("/bin/true")
	if err := cmd.Run(); err != nil {
		t.Fatal(err)
	}
	marker, err := json.Marshal(guard.Lock{
		PID:       cmd.Process.Pid,
		RunID:     "orphan",
		StartedAt: time.Now().Add(-time.Hour),
	})
	if err != nil {
		t.Fatal(err)
	}
	lockPath := filepath.Join(dir, ".collector_lock")
	if err := os.WriteFile(lockPath, marker, 0644); err != nil {
		t.Fatal(err)
	}

	if code := cleanCmd([]string{"-config", configPath}); code != 0 {
		t.Fatalf("expected exit 0 removing orphaned marker, got %d", code)
	}
	if _, err := os.Stat(lockPath); !os.IsNotExist(err) {
		t.Error("expected orphaned marker to be removed")
	}
}

func TestCleanForceRemovesGarbageMarker(t *testing.T) {
	dir, configPath := writeTestProject(t, "true\n")

	lockPath := filepath.Join(dir, ".collector_lock")
	if err := os.WriteFile(lockPath, []byte("garbage"), 0644); err != nil {
		t.Fatal(err)
	}

	if code := cleanCmd([]string{"-config", configPath}); code != 1 {
		t.Fatalf("expected refusal for garbage marker without -force, got exit %d", code)
	}
	if code := cleanCmd([]string{"-config", configPath, "-force"}); code != 0 {
		t.Fatalf("expected -force to remove garbage marker, got exit %d", code)
	}
	if _, err := os.Stat(lockPath); !os.IsNotExist(err) {
		t.Error("expected marker gone after forced clean")
	}
}
