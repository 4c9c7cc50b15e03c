//go:build integration

package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/raphi011/divert/internal/output"
)

// captureStderr runs fn with os.Stderr redirected into the returned string.
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	old := os.Stderr
	os.Stderr = w
	defer func() { os.Stderr = old }()

	fn()

	w.Close()
	b, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read stderr: %v", err)
	}
	return string(b)
}

// The logger must pick up --verbose after cobra has parsed it: the flag is
// only set during Execute, so a logger built any earlier stays silent.
func TestRootIntegration_VerboseEchoesCommands(t *testing.T) {
	dir := setupStub(t)
	path := filepath.Join(dir, "screenrc")

	var stdout strings.Builder
	rootCmd.SetContext(output.WithPrinter(context.Background(), &stdout))
	rootCmd.SetArgs([]string{"-v", "add", path})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		verbose = false
	})

	var execErr error
	stderr := captureStderr(t, func() {
		execErr = rootCmd.Execute()
	})
	if execErr != nil {
		t.Fatalf("execute: %v", execErr)
	}

	if !strings.Contains(stderr, "$ "+cfg.DpkgDivert) {
		t.Errorf("stderr = %q, want every external command echoed", stderr)
	}
	if !strings.Contains(stderr, "--listpackage") {
		t.Errorf("stderr = %q, want the read-only queries echoed too", stderr)
	}
	if !strings.Contains(stdout.String(), "Adding") {
		t.Errorf("stdout = %q, want the add result", stdout.String())
	}
}

func TestRootIntegration_QuietByDefault(t *testing.T) {
	dir := setupStub(t)
	path := filepath.Join(dir, "screenrc")

	var stdout strings.Builder
	rootCmd.SetContext(output.WithPrinter(context.Background(), &stdout))
	rootCmd.SetArgs([]string{"add", path})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	var execErr error
	stderr := captureStderr(t, func() {
		execErr = rootCmd.Execute()
	})
	if execErr != nil {
		t.Fatalf("execute: %v", execErr)
	}

	if strings.Contains(stderr, "$ ") {
		t.Errorf("stderr = %q, want no command echo without -v", stderr)
	}
}
