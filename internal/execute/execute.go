// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package execute runs a plan's backend calls, in parallel or one at a
// time, and converts individual backend failures into empty, error-tagged
// results instead of aborting the pass.
// Implements: prd003-planning (R4.1-R4.5);
//
//	docs/ARCHITECTURE § Execution Coordination.
package execute

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/pdiddy/research-orchestrator/internal/plan"
	"github.com/pdiddy/research-orchestrator/pkg/types"
)

// Call binds a backend identifier to its invocation. The orchestrator
// builds one Call per planned backend; the coordinator never knows
// adapter types.
type Call struct {
	Backend types.BackendID
	Run     func(ctx context.Context) ([]types.Item, error)
}

// Result is one backend's ranked list, tagged with its identifier. A
// failed call yields Items == nil and a non-nil Err; the items of a
// failed call never reach fusion, but its identifier still appears so
// callers can see which backends were attempted.
type Result struct {
	Backend types.BackendID
	Items   []types.Item
	Err     error
}

// Run executes the calls under the plan's strategy and returns one Result
// per call, in call order. It never returns an error itself: a backend
// failure is isolated to its own Result and reported as a warning on w
// (R4.2, R4.3).
//
// Two or fewer calls run concurrently. Three run strictly one at a time:
// each backend may hold a large in-memory model, and overlapping all
// three has exhausted system memory, so the wider plan trades latency for
// stability (R4.4).
func Run(ctx context.Context, strategy plan.Strategy, calls []Call, w io.Writer) []Result {
	if len(calls) == 0 {
		return nil
	}
	if strategy == plan.Sequential {
		return runSequential(ctx, calls, w)
	}
	return runParallel(ctx, calls, w)
}

func runParallel(ctx context.Context, calls []Call, w io.Writer) []Result {
	results := make([]Result, len(calls))
	var wg sync.WaitGroup

	for i, c := range calls {
		wg.Add(1)
		go func(i int, c Call) {
			defer wg.Done()
			results[i] = invoke(ctx, c)
		}(i, c)
	}
	wg.Wait()

	for _, r := range results {
		warn(w, r)
	}
	return results
}

func runSequential(ctx context.Context, calls []Call, w io.Writer) []Result {
	results := make([]Result, 0, len(calls))
	for _, c := range calls {
		r := invoke(ctx, c)
		warn(w, r)
		results = append(results, r)
	}
	return results
}

func invoke(ctx context.Context, c Call) Result {
	items, err := c.Run(ctx)
	if err != nil {
		return Result{Backend: c.Backend, Err: fmt.Errorf("%s backend: %w", c.Backend, err)}
	}
	return Result{Backend: c.Backend, Items: items}
}

func warn(w io.Writer, r Result) {
	if r.Err != nil && w != nil {
		fmt.Fprintf(w, "warning: backend %s failed: %v\n", r.Backend, r.Err)
	}
}
