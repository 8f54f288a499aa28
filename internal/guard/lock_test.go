package guard

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

func TestAcquireBlocksSecondAcquire(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), ".collector_lock")

	release, err := Acquire(lockPath, "first-run")
	if err != nil {
		t.Fatalf("Acquire error: %v", err)
	}
	defer func() { _ = release() }()

	if _, err := Acquire(lockPath, "second-run"); err == nil {
		t.Fatalf("expected second Acquire to fail")
	}

	if err := release(); err != nil {
		t.Fatalf("release error: %v", err)
	}

	if _, err := Acquire(lockPath, "third-run"); err != nil {
		t.Fatalf("expected Acquire after release to succeed, got: %v", err)
	}
}

func TestAcquireContentionIsErrLockHeld(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), ".collector_lock")

	release, err := Acquire(lockPath, "holder")
	if err != nil {
		t.Fatalf("Acquire error: %v", err)
	}
	defer func() { _ = release() }()

	_, err = Acquire(lockPath, "contender")
	if !errors.Is(err, ErrLockHeld) {
		t.Fatalf("expected ErrLockHeld, got: %v", err)
	}
}

func TestAcquireWritesHolderInfo(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), ".collector_lock")

	release, err := Acquire(lockPath, "run-abc")
	if err != nil {
		t.Fatalf("Acquire error: %v", err)
	}
	defer func() { _ = release() }()

	lk, err := ReadLock(lockPath)
	if err != nil {
		t.Fatalf("ReadLock error: %v", err)
	}
	if lk == nil {
		t.Fatal("expected a lock marker")
	}
	if lk.PID != os.Getpid() {
		t.Errorf("expected pid %d, got %d", os.Getpid(), lk.PID)
	}
	if lk.RunID != "run-abc" {
		t.Errorf("expected run id run-abc, got %q", lk.RunID)
	}
	if lk.StartedAt.IsZero() {
		t.Error("expected started_at to be set")
	}
}

func TestReleaseIsIdempotentAndSurvivesExternalRemoval(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), ".collector_lock")

	release, err := Acquire(lockPath, "run")
	if err != nil {
		t.Fatalf("Acquire error: %v", err)
	}

	// Someone removed the marker out from under us
	if err := os.Remove(lockPath); err != nil {
		t.Fatalf("external remove failed: %v", err)
	}

	if err := release(); err != nil {
		t.Errorf("release after external removal should not fail, got: %v", err)
	}
	if err := release(); err != nil {
		t.Errorf("second release should not fail, got: %v", err)
	}
}

func TestReadLockAbsent(t *testing.T) {
	lk, err := ReadLock(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("ReadLock error: %v", err)
	}
	if lk != nil {
		t.Fatalf("expected nil lock for absent marker, got %+v", lk)
	}
}

func TestReadLockUnparseable(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), ".collector_lock")
	if err := os.WriteFile(lockPath, []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadLock(lockPath); err == nil {
		t.Fatal("expected error for unparseable marker")
	}
}

func TestHolderAlive(t *testing.T) {
	if !HolderAlive(&Lock{PID: os.Getpid()}) {
		t.Error("expected our own pid to be alive")
	}
	if HolderAlive(nil) {
		t.Error("expected nil lock to read as dead")
	}
	if HolderAlive(&Lock{PID: 0}) {
		t.Error("expected pid 0 to read as dead")
	}

	// A process we already reaped is gone
	cmd := exec.Command("/bin/true")
	if err := cmd.Run(); err != nil {
		t.Fatalf("failed to run /bin/true: %v", err)
	}
	if HolderAlive(&Lock{PID: cmd.Process.Pid}) {
		t.Errorf("expected reaped pid %d to read as dead", cmd.Process.Pid)
	}
}
