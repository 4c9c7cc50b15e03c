package divert

import (
	"context"

	"github.com/raphi011/divert/internal/dpkg"
)

// probe is the read-only view of a path's diversion state: the current
// holder and the outcome of test-running the caller's literal operation.
type probe struct {
	holder string
	exists bool
	test   dpkg.Outcome
}

// probeState queries the registry without mutating it: two invocations,
// both read-only.
func probeState(ctx context.Context, reg Registry, req Request) (probe, error) {
	holder, exists, err := reg.Owner(ctx, req.Path)
	if err != nil {
		return probe{}, err
	}

	test, err := reg.Apply(ctx, req.invocation(true))
	if err != nil {
		return probe{}, err
	}

	return probe{holder: holder, exists: exists, test: test}, nil
}
