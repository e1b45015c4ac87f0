// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package quality computes confidence and coverage metrics over a fused
// result and decides whether a pass needs escalation to more backends.
// Implements: prd004-fusion (R3);
//
//	docs/ARCHITECTURE § Quality Assessment.
package quality

import (
	"github.com/pdiddy/research-orchestrator/internal/fuse"
	"github.com/pdiddy/research-orchestrator/pkg/types"
)

// Tier is a coarse confidence label over one fused result.
type Tier string

const (
	TierHigh   Tier = "high"
	TierMedium Tier = "medium"
	TierLow    Tier = "low"
)

// Metrics is the quality signal attached to a fused result.
type Metrics struct {
	// Tier reflects the minimum fused score among the top requested
	// results: every top result strong means high confidence.
	Tier Tier `json:"tier" yaml:"tier"`

	// Coverage is the fraction of the requested result count whose
	// fused score clears the coverage threshold, capped at 1.
	Coverage float64 `json:"coverage" yaml:"coverage"`
}

// escalationCoverage is the coverage fraction below which a pass
// escalates (R3.3).
const escalationCoverage = 0.5

// Assess computes metrics for a fused result against the requested result
// count. An empty result is low confidence with zero coverage, which
// triggers escalation whenever unqueried backends remain (R3.4).
func Assess(f fuse.Fused, requested int, cfg types.QualityConfig) Metrics {
	if requested <= 0 {
		requested = 1
	}
	if len(f.Entries) == 0 {
		return Metrics{Tier: TierLow, Coverage: 0}
	}

	topN := requested
	if topN > len(f.Entries) {
		topN = len(f.Entries)
	}

	// Entries are sorted descending, so the minimum of the top N is the
	// last of the window.
	minTop := f.Entries[topN-1].Score

	tier := TierLow
	switch {
	case minTop > cfg.HighScore:
		tier = TierHigh
	case minTop > cfg.MediumScore:
		tier = TierMedium
	}

	covered := 0
	for _, e := range f.Entries {
		if e.Score > cfg.CoverageScore {
			covered++
		}
	}
	coverage := float64(covered) / float64(requested)
	if coverage > 1 {
		coverage = 1
	}

	return Metrics{Tier: tier, Coverage: coverage}
}

// NeedsEscalation reports whether the metrics call for a second pass over
// the remaining backends. Escalation happens at most once per top-level
// query; the caller owns that lifecycle (R3.2).
func NeedsEscalation(m Metrics) bool {
	return m.Tier == TierLow || m.Coverage < escalationCoverage
}
