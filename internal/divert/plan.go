package divert

// PlanKind classifies a reconciliation into one of four shapes. The
// decision table is ordered; the first matching case wins.
type PlanKind int

const (
	// PlanDirect applies the caller's operation as-is: the test run
	// succeeded, or the reported conflict was spurious because no
	// diversion exists.
	PlanDirect PlanKind = iota

	// PlanReject runs the caller's operation knowing it will fail, so
	// the registry's own diagnostic becomes the result. No force.
	PlanReject

	// PlanForceRemove removes the existing diversion regardless of its
	// holder and target.
	PlanForceRemove

	// PlanReplace removes the existing diversion and re-adds it with
	// the caller's holder/target. The only two-step, rollback-bearing
	// case.
	PlanReplace
)

func (k PlanKind) String() string {
	switch k {
	case PlanDirect:
		return "direct"
	case PlanReject:
		return "reject"
	case PlanForceRemove:
		return "force-remove"
	case PlanReplace:
		return "replace"
	}
	return "unknown"
}

// Plan is the closed decision produced once by buildPlan and consumed once
// by the executor.
type Plan struct {
	Kind PlanKind

	// OldHolder is the existing diversion's holder, kept for the restore
	// half of PlanReplace's rollback.
	OldHolder string
}

// buildPlan classifies the probed state against the request.
func buildPlan(p probe, req Request) Plan {
	switch {
	case p.test.ExitCode == 0:
		return Plan{Kind: PlanDirect}
	case !req.Force:
		return Plan{Kind: PlanReject}
	case !p.exists:
		// The test conflict cannot come from an existing diversion;
		// treat it like a clean apply.
		return Plan{Kind: PlanDirect}
	case req.State == Absent:
		return Plan{Kind: PlanForceRemove}
	default:
		return Plan{Kind: PlanReplace, OldHolder: p.holder}
	}
}
