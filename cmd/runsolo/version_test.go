package main

import (
	"strings"
	"testing"
)

func TestVersionLine(t *testing.T) {
	line := versionLine()
	if !strings.HasPrefix(line, "runsolo version ") {
		t.Errorf("unexpected version line: %q", line)
	}
}

func TestVersionLineWithRelease(t *testing.T) {
	oldVersion := version
	defer func() { version = oldVersion }()

	version = "1.2.3"
	if got := versionLine(); got != "runsolo version 1.2.3" {
		t.Errorf("expected release version line, got %q", got)
	}
}
