package dpkg

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/raphi011/divert/internal/cmd"
)

// LocalHolder is dpkg-divert's sentinel for a diversion not owned by any
// package. It never appears inside this codebase except at this boundary;
// internally an empty holder means "no package".
const LocalHolder = "LOCAL"

// Tool invokes a dpkg-divert binary.
type Tool struct {
	bin      string
	admindir string
}

// New returns a Tool for the given binary. An empty bin means "dpkg-divert"
// on PATH. admindir is passed through as --admindir when non-empty.
func New(bin, admindir string) *Tool {
	if bin == "" {
		bin = "dpkg-divert"
	}
	return &Tool{bin: bin, admindir: admindir}
}

// Check verifies that the dpkg-divert binary is available.
func (t *Tool) Check() error {
	if _, err := exec.LookPath(t.bin); err != nil {
		return fmt.Errorf("%s not found: install dpkg or set dpkg_divert in the config", t.bin)
	}
	return nil
}

// base returns the leading arguments shared by every invocation.
func (t *Tool) base() []string {
	if t.admindir == "" {
		return nil
	}
	return []string{"--admindir", t.admindir}
}

// output runs a read-only query and returns its stdout.
func (t *Tool) output(ctx context.Context, args []string) (string, error) {
	out, err := cmd.OutputContext(ctx, "", t.bin, args...)
	return string(out), err
}

// Owner queries which package holds the diversion for path.
// dpkg-divert --listpackage always exits 0; empty output means no diversion
// exists. The LOCAL sentinel is translated to an empty holder.
func (t *Tool) Owner(ctx context.Context, path string) (holder string, exists bool, err error) {
	out, err := t.output(ctx, append(t.base(), "--listpackage", path))
	if err != nil {
		return "", false, fmt.Errorf("query owner of %s: %w", path, err)
	}
	holder = strings.TrimSpace(out)
	if holder == "" {
		return "", false, nil
	}
	if holder == LocalHolder {
		return "", true, nil
	}
	return holder, true, nil
}

// Truename returns the location the live file for path is currently
// addressed through, given any existing diversion.
func (t *Tool) Truename(ctx context.Context, path string) (string, error) {
	out, err := t.output(ctx, append(t.base(), "--truename", path))
	if err != nil {
		return "", fmt.Errorf("query truename of %s: %w", path, err)
	}
	return strings.TrimSpace(out), nil
}
