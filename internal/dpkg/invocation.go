package dpkg

import (
	"context"
	"strings"

	"github.com/raphi011/divert/internal/cmd"
)

// Invocation describes one mutating dpkg-divert call. The zero value is an
// add with dpkg-divert's own defaults (LOCAL holder, .distrib target).
type Invocation struct {
	// Test runs the call in dry-run mode (--test): same exit code and
	// output, no registry or filesystem change.
	Test bool

	// Remove removes the diversion instead of adding one.
	Remove bool

	// Rename asks dpkg-divert to also move the file aside (or back).
	Rename bool

	// Package is the owning package; empty means no package (LOCAL).
	Package string

	// Divert is the target location; empty lets dpkg-divert default to
	// Path + ".distrib".
	Divert string

	// Path is the original file location. Required.
	Path string
}

// Outcome is the verbatim result of one dpkg-divert call.
type Outcome struct {
	// Cmdline is the invocation as a single string, for audit output.
	Cmdline string

	Stdout   string
	Stderr   string
	ExitCode int
}

// args assembles the argument list for an invocation.
func (t *Tool) args(inv Invocation) []string {
	args := t.base()
	if inv.Test {
		args = append(args, "--test")
	}
	if inv.Remove {
		args = append(args, "--remove")
	}
	if inv.Rename {
		args = append(args, "--rename")
	}
	if inv.Package != "" {
		args = append(args, "--package", inv.Package)
	}
	if inv.Divert != "" {
		args = append(args, "--divert", inv.Divert)
	}
	return append(args, inv.Path)
}

// Cmdline renders the invocation as it would be run, without executing it.
func (t *Tool) Cmdline(inv Invocation) string {
	return t.bin + " " + strings.Join(t.args(inv), " ")
}

// Apply runs a mutating (or, with Test set, simulated) dpkg-divert call.
// A non-zero exit is reported in the Outcome, not as an error; the error is
// reserved for failures to run the tool at all.
func (t *Tool) Apply(ctx context.Context, inv Invocation) (Outcome, error) {
	args := t.args(inv)
	res, err := cmd.CaptureContext(ctx, "", t.bin, args...)
	return Outcome{
		Cmdline:  t.bin + " " + strings.Join(args, " "),
		Stdout:   res.Stdout,
		Stderr:   res.Stderr,
		ExitCode: res.ExitCode,
	}, err
}

// DefaultTarget returns dpkg-divert's default divert location for path.
func DefaultTarget(path string) string {
	return path + ".distrib"
}

// NoChange reports whether stdout signals that a successful call was a
// no-op. dpkg-divert prints "Leaving ..." when an identical diversion
// already exists and "No diversion ..." when there was nothing to remove.
func NoChange(stdout string) bool {
	return strings.HasPrefix(stdout, "Leaving") || strings.HasPrefix(stdout, "No diversion")
}
