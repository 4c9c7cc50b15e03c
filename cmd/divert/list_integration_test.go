//go:build integration

package main

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
)

func TestListIntegration_Table(t *testing.T) {
	dir := setupStub(t)
	screenrc := filepath.Join(dir, "screenrc")
	inputrc := filepath.Join(dir, "inputrc")
	seedDiversion(t, screenrc, screenrc+".distrib", "branding")
	seedDiversion(t, inputrc, inputrc+".distrib", "")
	writeTestFile(t, inputrc+".distrib", "diverted")

	ctx, stdout := testContext(t)
	cmd := newListCmd()
	cmd.SetContext(ctx)
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("list: %v", err)
	}

	out := stdout.String()
	for _, want := range []string{screenrc, inputrc, "branding", "local"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestListIntegration_JSON(t *testing.T) {
	dir := setupStub(t)
	screenrc := filepath.Join(dir, "screenrc")
	seedDiversion(t, screenrc, screenrc+".distrib", "branding")
	writeTestFile(t, screenrc+".distrib", "diverted")

	ctx, stdout := testContext(t)
	cmd := newListCmd()
	cmd.SetContext(ctx)
	cmd.SetArgs([]string{"--json"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("list --json: %v", err)
	}

	var entries []struct {
		Path    string `json:"path"`
		Divert  string `json:"divert"`
		Package string `json:"package"`
		Renamed string `json:"renamed"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &entries); err != nil {
		t.Fatalf("unmarshal output: %v\n%s", err, stdout.String())
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	e := entries[0]
	if e.Path != screenrc || e.Divert != screenrc+".distrib" || e.Package != "branding" {
		t.Errorf("entry = %+v", e)
	}
	if e.Renamed != "yes" {
		t.Errorf("renamed = %q, want %q", e.Renamed, "yes")
	}
}

func TestListIntegration_GlobFilter(t *testing.T) {
	dir := setupStub(t)
	screenrc := filepath.Join(dir, "screenrc")
	inputrc := filepath.Join(dir, "inputrc")
	seedDiversion(t, screenrc, screenrc+".distrib", "branding")
	seedDiversion(t, inputrc, inputrc+".distrib", "")

	ctx, stdout := testContext(t)
	cmd := newListCmd()
	cmd.SetContext(ctx)
	cmd.SetArgs([]string{"*screenrc"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("list with pattern: %v", err)
	}

	out := stdout.String()
	if !strings.Contains(out, "screenrc") {
		t.Errorf("output missing matched path:\n%s", out)
	}
	if strings.Contains(out, "inputrc") {
		t.Errorf("output contains filtered-out path:\n%s", out)
	}
}
