//go:build integration

package main

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestTruenameIntegration_Diverted(t *testing.T) {
	dir := setupStub(t)
	path := filepath.Join(dir, "screenrc")
	seedDiversion(t, path, path+".distrib", "branding")

	ctx, stdout := testContext(t)
	cmd := newTruenameCmd()
	cmd.SetContext(ctx)
	cmd.SetArgs([]string{path})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("truename: %v", err)
	}

	if got := strings.TrimSpace(stdout.String()); got != path+".distrib" {
		t.Errorf("truename = %q, want %q", got, path+".distrib")
	}
}

func TestTruenameIntegration_NotDiverted(t *testing.T) {
	dir := setupStub(t)
	path := filepath.Join(dir, "screenrc")

	ctx, stdout := testContext(t)
	cmd := newTruenameCmd()
	cmd.SetContext(ctx)
	cmd.SetArgs([]string{path})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("truename: %v", err)
	}

	if got := strings.TrimSpace(stdout.String()); got != path {
		t.Errorf("truename = %q, want the path echoed back", got)
	}
}
