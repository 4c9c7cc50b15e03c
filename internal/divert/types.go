package divert

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/raphi011/divert/internal/dpkg"
)

// State is the desired end state for a path's diversion.
type State string

const (
	// Present means a diversion with the requested holder/target exists.
	Present State = "present"
	// Absent means no diversion exists for the path.
	Absent State = "absent"
)

// Request describes one desired diversion state. Fields mirror the
// dpkg-divert options; see the command help for their meaning.
type Request struct {
	// Path is the original, absolute location of the file. Required.
	Path string

	// State selects between adding and removing the diversion.
	State State

	// Holder is the package owning the un-diverted file; empty means no
	// package (dpkg's LOCAL).
	Holder string

	// Divert is where the displaced file is relocated; empty lets
	// dpkg-divert default to Path + ".distrib".
	Divert string

	// Rename also moves the file aside (or back). The move is skipped,
	// never forced, when the destination already exists.
	Rename bool

	// Force replaces an existing diversion under a different
	// holder/target via remove-then-add.
	Force bool

	// DryRun predicts the outcome without mutating registry or
	// filesystem.
	DryRun bool
}

// invocation builds the dpkg-divert call this request literally asks for.
func (r Request) invocation(test bool) dpkg.Invocation {
	return dpkg.Invocation{
		Test:    test,
		Remove:  r.State == Absent,
		Rename:  r.Rename,
		Package: r.Holder,
		Divert:  r.Divert,
		Path:    r.Path,
	}
}

func (r Request) validate() error {
	if r.Path == "" {
		return fmt.Errorf("path is required")
	}
	if !filepath.IsAbs(r.Path) {
		return fmt.Errorf("path must be absolute, got %q", r.Path)
	}
	if r.Divert != "" && !filepath.IsAbs(r.Divert) {
		return fmt.Errorf("divert must be absolute, got %q", r.Divert)
	}
	switch r.State {
	case Present, Absent:
	default:
		return fmt.Errorf("state must be %q or %q, got %q", Present, Absent, r.State)
	}
	return nil
}

// Result is the outcome of one reconciliation.
type Result struct {
	// Changed reports whether the registry or filesystem was (or, in dry
	// run, would be) modified.
	Changed bool `json:"changed"`

	// Failed reports that the requested change did not take effect. It
	// can be true together with Changed when a replacement failed after
	// its removal half already ran.
	Failed bool `json:"failed"`

	Stdout string `json:"stdout,omitempty"`
	Stderr string `json:"stderr,omitempty"`

	// Cmd lists the external commands issued, in order.
	Cmd []string `json:"cmd"`

	// Msg carries additional explanations, one per step.
	Msg []string `json:"msg,omitempty"`
}

// Registry is the mutable diversion store, normally dpkg-divert wrapped by
// [dpkg.Tool]. Tests substitute an in-memory implementation.
type Registry interface {
	// Owner reports the holder of path's diversion ("" for a local
	// diversion) and whether one exists at all.
	Owner(ctx context.Context, path string) (holder string, exists bool, err error)

	// Truename reports where the live file for path is addressed.
	Truename(ctx context.Context, path string) (string, error)

	// Apply runs one dpkg-divert invocation. Non-zero exits are part of
	// the Outcome; the error is reserved for being unable to run at all.
	Apply(ctx context.Context, inv dpkg.Invocation) (dpkg.Outcome, error)
}
