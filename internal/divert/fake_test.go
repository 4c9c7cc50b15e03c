package divert

import (
	"context"
	"fmt"
	"os"

	"github.com/raphi011/divert/internal/dpkg"
)

// cmdlines renders invocations the way the real tool boundary would.
var cmdlines = dpkg.New("", "")

// fakeRegistry is an in-memory stand-in for dpkg-divert holding at most one
// diversion. Renames requested via --rename are performed for real, so
// filesystem properties can be checked against t.TempDir files.
type fakeRegistry struct {
	div *dpkg.Diversion // current entry, nil when none exists

	// failAdds makes the next n real (non-test) adds exit non-zero,
	// simulating a late failure the test run did not predict.
	failAdds int

	// failRemoves does the same for removals.
	failRemoves int

	// conflictTest makes test invocations exit non-zero regardless of
	// state, simulating a spurious conflict.
	conflictTest bool

	// calls records the command line of every invocation, in order.
	calls []string
}

func (f *fakeRegistry) Owner(_ context.Context, path string) (string, bool, error) {
	if f.div == nil || f.div.Path != path {
		return "", false, nil
	}
	return f.div.Holder, true, nil
}

func (f *fakeRegistry) Truename(_ context.Context, path string) (string, error) {
	if f.div != nil && f.div.Path == path {
		return f.div.Target, nil
	}
	return path, nil
}

func (f *fakeRegistry) Apply(_ context.Context, inv dpkg.Invocation) (dpkg.Outcome, error) {
	out := dpkg.Outcome{Cmdline: cmdlines.Cmdline(inv)}
	f.calls = append(f.calls, out.Cmdline)

	if inv.Test && f.conflictTest {
		out.ExitCode = 2
		out.Stderr = "dpkg-divert: error: spurious conflict\n"
		return out, nil
	}
	if inv.Remove {
		f.remove(inv, &out)
	} else {
		f.add(inv, &out)
	}
	return out, nil
}

func describe(d dpkg.Diversion) string {
	if d.Holder == "" {
		return fmt.Sprintf("local diversion of %s to %s", d.Path, d.Target)
	}
	return fmt.Sprintf("diversion of %s to %s by %s", d.Path, d.Target, d.Holder)
}

func requested(inv dpkg.Invocation) dpkg.Diversion {
	target := inv.Divert
	if target == "" {
		target = dpkg.DefaultTarget(inv.Path)
	}
	return dpkg.Diversion{Path: inv.Path, Target: target, Holder: inv.Package}
}

func (f *fakeRegistry) add(inv dpkg.Invocation, out *dpkg.Outcome) {
	want := requested(inv)

	if f.div != nil && f.div.Path == inv.Path {
		if *f.div == want {
			out.Stdout = fmt.Sprintf("Leaving '%s'\n", describe(want))
			return
		}
		out.ExitCode = 2
		out.Stderr = fmt.Sprintf("dpkg-divert: error: '%s' clashes with '%s'\n",
			describe(want), describe(*f.div))
		return
	}

	if !inv.Test && f.failAdds > 0 {
		f.failAdds--
		out.ExitCode = 2
		out.Stderr = "dpkg-divert: error: add failed\n"
		return
	}

	out.Stdout = fmt.Sprintf("Adding '%s'\n", describe(want))
	if inv.Test {
		return
	}
	if inv.Rename {
		moveIfSafe(inv.Path, want.Target)
	}
	f.div = &want
}

func (f *fakeRegistry) remove(inv dpkg.Invocation, out *dpkg.Outcome) {
	if f.div == nil || f.div.Path != inv.Path {
		out.Stdout = fmt.Sprintf("No diversion 'any diversion of %s', none removed.\n", inv.Path)
		return
	}
	if inv.Divert != "" && inv.Divert != f.div.Target {
		out.ExitCode = 2
		out.Stderr = fmt.Sprintf("dpkg-divert: error: mismatch on divert-to\n  when removing '%s'\n", describe(*f.div))
		return
	}
	if inv.Package != "" && inv.Package != f.div.Holder {
		out.ExitCode = 2
		out.Stderr = fmt.Sprintf("dpkg-divert: error: mismatch on package\n  when removing '%s'\n", describe(*f.div))
		return
	}

	if !inv.Test && f.failRemoves > 0 {
		f.failRemoves--
		out.ExitCode = 2
		out.Stderr = "dpkg-divert: error: remove failed\n"
		return
	}

	out.Stdout = fmt.Sprintf("Removing '%s'\n", describe(*f.div))
	if inv.Test {
		return
	}
	if inv.Rename {
		moveIfSafe(f.div.Target, f.div.Path)
	}
	f.div = nil
}

// moveIfSafe renames src to dst unless that would overwrite something,
// mirroring the tool's refusal to clobber files.
func moveIfSafe(src, dst string) {
	if isFile(src) && !isFile(dst) {
		_ = os.Rename(src, dst)
	}
}
