// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package plan maps a classified intent to an execution plan: which
// backends to query, in what order, under which execution strategy, and
// with what per-backend fetch limit.
// Implements: prd003-planning (R1-R3);
//
//	docs/ARCHITECTURE § Backend Planning.
package plan

import (
	"github.com/pdiddy/research-orchestrator/internal/intent"
	"github.com/pdiddy/research-orchestrator/pkg/types"
)

// Strategy is the execution strategy for a plan's backend calls.
type Strategy string

const (
	// Parallel runs all backend calls concurrently.
	Parallel Strategy = "parallel"

	// Sequential runs backend calls one at a time in plan order. Chosen
	// for three-backend plans to bound peak memory: each backend may
	// hold a large in-memory model, and running all three at once has
	// exhausted system memory in practice (R2.2).
	Sequential Strategy = "sequential"
)

// ExecutionPlan is derived deterministically from an intent and never
// mutated afterwards. Backends is ordered; the order is both the
// sequential invocation order and the fusion tie-break order.
type ExecutionPlan struct {
	Backends []types.BackendID
	Strategy Strategy

	// Limit is the per-backend fetch limit. Multi-backend plans fetch
	// double the requested count because fusion reranks and discards
	// lower-ranked items (R3.2).
	Limit int

	// Comprehensive marks a plan that already spans all backends, so
	// escalation has nothing left to add.
	Comprehensive bool
}

// maxConcurrentBackends is the largest backend count still run in
// parallel (R2.1).
const maxConcurrentBackends = 2

// Build derives the execution plan for an intent. requested is the
// caller's result count; it must already be positive.
func Build(it intent.Intent, requested int) ExecutionPlan {
	backends := it.Backends()

	limit := requested
	if len(backends) > 1 {
		limit = requested * 2
	}

	strategy := Parallel
	if len(backends) > maxConcurrentBackends {
		strategy = Sequential
	}

	return ExecutionPlan{
		Backends:      backends,
		Strategy:      strategy,
		Limit:         limit,
		Comprehensive: len(backends) == len(types.AllBackends),
	}
}

// Escalation returns the plan covering the backends not yet queried, in
// canonical declaration order. The widened pass keeps the original
// per-backend limit so new lists fuse symmetrically with the old ones.
func Escalation(used ExecutionPlan) ExecutionPlan {
	seen := make(map[types.BackendID]bool, len(used.Backends))
	for _, b := range used.Backends {
		seen[b] = true
	}

	var remaining []types.BackendID
	for _, b := range types.AllBackends {
		if !seen[b] {
			remaining = append(remaining, b)
		}
	}

	strategy := Parallel
	if len(remaining) > maxConcurrentBackends {
		strategy = Sequential
	}

	return ExecutionPlan{
		Backends:      remaining,
		Strategy:      strategy,
		Limit:         used.Limit,
		Comprehensive: true,
	}
}
