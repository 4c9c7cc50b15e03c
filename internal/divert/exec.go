package divert

import (
	"context"
	"os"
	"strings"

	"github.com/raphi011/divert/internal/dpkg"
)

// phase tracks how far a replacement has progressed. Rollback is only
// meaningful from phaseRemoved; every other transition is terminal.
type phase int

const (
	phaseStart phase = iota
	phaseRemoved
	phaseReconciled
	phaseRolledBack
)

// executor carries one plan out. It is the only place that mutates the
// registry or the filesystem.
type executor struct {
	reg   Registry
	req   Request
	phase phase
}

// Reconcile brings the diversion state of req.Path to the requested state.
// Failed results are data, not errors: the returned error is reserved for
// not being able to talk to the registry tool at all.
func Reconcile(ctx context.Context, reg Registry, req Request) (Result, error) {
	if err := req.validate(); err != nil {
		return Result{}, err
	}

	p, err := probeState(ctx, reg, req)
	if err != nil {
		return Result{}, err
	}

	e := &executor{reg: reg, req: req}
	plan := buildPlan(p, req)
	switch plan.Kind {
	case PlanForceRemove:
		return e.forceRemove(ctx)
	case PlanReplace:
		return e.replace(ctx, p, plan)
	default: // PlanDirect, PlanReject
		return e.direct(ctx)
	}
}

// direct runs the caller's literal operation once. For PlanReject this is
// the call that fails: the registry's own diagnostic is surfaced verbatim.
func (e *executor) direct(ctx context.Context) (Result, error) {
	out, err := e.reg.Apply(ctx, e.req.invocation(e.req.DryRun))
	if err != nil {
		return Result{}, err
	}
	if out.ExitCode != 0 {
		return failed(out), nil
	}
	return Result{
		Changed: !dpkg.NoChange(out.Stdout),
		Stdout:  out.Stdout,
		Stderr:  out.Stderr,
		Cmd:     []string{out.Cmdline},
	}, nil
}

// forceRemoval is the unconditional removal shared by PlanForceRemove and
// PlanReplace: holder and target restrictions stripped, only the rename
// flag honored.
func (e *executor) forceRemoval() dpkg.Invocation {
	return dpkg.Invocation{
		Test:   e.req.DryRun,
		Remove: true,
		Rename: e.req.Rename,
		Path:   e.req.Path,
	}
}

func (e *executor) forceRemove(ctx context.Context) (Result, error) {
	out, err := e.reg.Apply(ctx, e.forceRemoval())
	if err != nil {
		return Result{}, err
	}
	if out.ExitCode != 0 {
		return failed(out), nil
	}
	return Result{
		Changed: true,
		Stdout:  out.Stdout,
		Stderr:  out.Stderr,
		Cmd:     []string{out.Cmdline},
	}, nil
}

// replace swaps an existing diversion for the requested one: forced remove,
// at most one rename, re-add. If the re-add fails the previous entry is
// restored as closely as possible and the result is still a failure.
func (e *executor) replace(ctx context.Context, p probe, plan Plan) (Result, error) {
	// The current true target must be captured before anything changes;
	// it is both the rename source and the restore target.
	oldTarget, err := e.reg.Truename(ctx, e.req.Path)
	if err != nil {
		return Result{}, err
	}

	rm, err := e.reg.Apply(ctx, e.forceRemoval())
	if err != nil {
		return Result{}, err
	}
	if rm.ExitCode != 0 {
		// Nothing has changed yet, so nothing to roll back.
		return failed(rm), nil
	}

	if e.req.DryRun {
		// The re-add cannot be test-run against a registry state that
		// only the real removal would produce.
		return Result{
			Changed: true,
			Cmd:     []string{rm.Cmdline, p.test.Cmdline},
			Msg: []string{
				strings.TrimSpace(rm.Stdout),
				"dry run: the replacement add was not evaluated; the remove/add sequence is assumed to reach the requested state",
			},
		}, nil
	}
	e.phase = phaseRemoved

	// From here the sequence must run to completion: abandoning it now
	// would leave the diversion deleted.
	ctx = context.WithoutCancel(ctx)

	newTarget := e.req.Divert
	if newTarget == "" {
		newTarget = dpkg.DefaultTarget(e.req.Path)
	}
	oldExisted := isFile(oldTarget)
	newExisted := isFile(newTarget)

	// Pre-move the displaced copy so the add does not divert the live
	// file on top of it, stranding the previous copy at oldTarget.
	// Skipped when the destination exists: never overwrite.
	if e.req.Rename && oldExisted && !newExisted {
		if err := os.Rename(oldTarget, newTarget); err != nil {
			e.rollback(ctx, plan, oldTarget, newTarget, oldExisted, newExisted)
			res := failed(rm)
			res.Stderr = err.Error()
			return res, nil
		}
	}

	add, err := e.reg.Apply(ctx, e.req.invocation(false))
	if err != nil {
		e.rollback(ctx, plan, oldTarget, newTarget, oldExisted, newExisted)
		return Result{}, err
	}
	if add.ExitCode == 0 {
		e.phase = phaseReconciled
		return Result{
			Changed: true,
			Stdout:  add.Stdout,
			Stderr:  add.Stderr,
			Cmd:     []string{rm.Cmdline, add.Cmdline},
			Msg:     []string{strings.TrimSpace(rm.Stdout), strings.TrimSpace(add.Stdout)},
		}, nil
	}

	e.rollback(ctx, plan, oldTarget, newTarget, oldExisted, newExisted)
	res := failed(add)
	res.Changed = true
	res.Cmd = []string{rm.Cmdline, add.Cmdline}
	return res, nil
}

// rollback restores the pre-replacement state as far as possible. The
// pre-move is reversed only when the filesystem says it actually happened
// and reversing cannot overwrite anything; the registry entry is re-added
// with its previous holder and target. Best effort: the operation is
// reported as failed either way.
func (e *executor) rollback(ctx context.Context, plan Plan, oldTarget, newTarget string, oldExisted, newExisted bool) {
	if e.phase != phaseRemoved {
		return
	}

	if e.req.Rename &&
		oldExisted && !isFile(oldTarget) &&
		isFile(newTarget) && !newExisted {
		_ = os.Rename(newTarget, oldTarget)
	}

	restore := dpkg.Invocation{
		Rename:  e.req.Rename,
		Package: plan.OldHolder,
		Divert:  oldTarget,
		Path:    e.req.Path,
	}
	_, _ = e.reg.Apply(ctx, restore)
	e.phase = phaseRolledBack
}

// failed converts a non-zero outcome into a failed result, output attached
// verbatim.
func failed(out dpkg.Outcome) Result {
	return Result{
		Failed: true,
		Stdout: out.Stdout,
		Stderr: out.Stderr,
		Cmd:    []string{out.Cmdline},
	}
}

// isFile reports whether a regular file exists at path. Mirrors the
// no-overwrite checks dpkg-divert applies to its own renames.
func isFile(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}
