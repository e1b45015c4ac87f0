package fuse

import (
	"errors"
	"math"
	"testing"

	"github.com/pdiddy/research-orchestrator/internal/execute"
	"github.com/pdiddy/research-orchestrator/pkg/types"
)

func item(id string, source types.BackendID) types.Item {
	return types.Item{ID: id, Title: id, Source: source}
}

func result(b types.BackendID, ids ...string) execute.Result {
	items := make([]types.Item, len(ids))
	for i, id := range ids {
		items[i] = item(id, b)
	}
	return execute.Result{Backend: b, Items: items}
}

var planOrder = []types.BackendID{types.BackendVector, types.BackendGraph, types.BackendMetadata}

func TestFuseScores(t *testing.T) {
	f := Fuse([]execute.Result{
		result(types.BackendVector, "a", "b"),
		result(types.BackendGraph, "b", "a"),
	}, planOrder)

	if len(f.Entries) != 2 {
		t.Fatalf("len(Entries) = %d, want 2", len(f.Entries))
	}

	// Both items appear at ranks 1 and 2 across the two lists, so both
	// score 1/61 + 1/62.
	want := 1.0/61 + 1.0/62
	for _, e := range f.Entries {
		if math.Abs(e.Score-want) > 1e-12 {
			t.Errorf("entry %s score = %v, want %v", e.Item.ID, e.Score, want)
		}
		if len(e.Backends) != 2 {
			t.Errorf("entry %s backends = %v, want both", e.Item.ID, e.Backends)
		}
	}
}

func TestFuseDedupInvariant(t *testing.T) {
	// The same backend fires twice, as happens across initial and
	// escalation passes; identifiers and backend lists must stay unique.
	f := Fuse([]execute.Result{
		result(types.BackendGraph, "a", "b"),
		result(types.BackendGraph, "a", "c"),
		result(types.BackendVector, "a"),
	}, planOrder)

	seen := make(map[string]bool)
	for _, e := range f.Entries {
		if seen[e.Item.ID] {
			t.Errorf("item %s appears twice", e.Item.ID)
		}
		seen[e.Item.ID] = true

		backends := make(map[types.BackendID]bool)
		for _, b := range e.Backends {
			if backends[b] {
				t.Errorf("item %s lists backend %s twice", e.Item.ID, b)
			}
			backends[b] = true
		}
		if len(e.Backends) == 0 {
			t.Errorf("item %s has no contributing backends", e.Item.ID)
		}
	}
}

func TestFuseScoreMonotonicity(t *testing.T) {
	base := Fuse([]execute.Result{
		result(types.BackendVector, "x", "y", "target"),
		result(types.BackendGraph, "z", "target"),
	}, planOrder)

	improved := Fuse([]execute.Result{
		result(types.BackendVector, "x", "target", "y"), // target moves up one rank
		result(types.BackendGraph, "z", "target"),
	}, planOrder)

	if scoreOf(t, improved, "target") <= scoreOf(t, base, "target") {
		t.Errorf("improving a rank decreased the fused score: %v -> %v",
			scoreOf(t, base, "target"), scoreOf(t, improved, "target"))
	}
}

func TestFuseTieBreakByPlanOrder(t *testing.T) {
	// Both items score 1/61 from a single first rank; the one from the
	// earlier-declared backend wins.
	f := Fuse([]execute.Result{
		result(types.BackendMetadata, "meta-first"),
		result(types.BackendVector, "vec-first"),
	}, planOrder)

	if f.Entries[0].Item.ID != "vec-first" {
		t.Errorf("tie went to %s, want vec-first (vector precedes metadata in plan order)", f.Entries[0].Item.ID)
	}
	if f.Entries[0].Rank != 1 || f.Entries[1].Rank != 2 {
		t.Errorf("ranks = %d, %d, want 1, 2", f.Entries[0].Rank, f.Entries[1].Rank)
	}
}

func TestFuseSkipsFailedResults(t *testing.T) {
	f := Fuse([]execute.Result{
		{Backend: types.BackendVector, Err: errors.New("connection refused")},
		result(types.BackendGraph, "a"),
	}, planOrder)

	if len(f.Entries) != 1 || f.Entries[0].Item.ID != "a" {
		t.Fatalf("Entries = %+v, want only item a", f.Entries)
	}
	if got := f.Backends(); len(got) != 1 || got[0] != types.BackendGraph {
		t.Errorf("Backends() = %v, want [graph]", got)
	}
}

func TestFuseAllEmpty(t *testing.T) {
	f := Fuse([]execute.Result{
		{Backend: types.BackendVector},
		{Backend: types.BackendGraph, Err: errors.New("down")},
	}, planOrder)
	if len(f.Entries) != 0 {
		t.Errorf("Entries = %+v, want none", f.Entries)
	}
}

func TestMergeWeightedConservation(t *testing.T) {
	sub1 := Fuse([]execute.Result{result(types.BackendVector, "shared", "only1")}, planOrder)
	sub2 := Fuse([]execute.Result{result(types.BackendGraph, "shared", "only2")}, planOrder)

	merged := MergeWeighted([]Weighted{
		{Fused: sub1, Weight: 1.0},
		{Fused: sub2, Weight: 0.7},
	})

	// shared ranked first in both sub-results: 1.0*(1/61) + 0.7*(1/61).
	want := 1.0/61 + 0.7/61
	if got := scoreOf(t, merged, "shared"); math.Abs(got-want) > 1e-12 {
		t.Errorf("shared score = %v, want %v", got, want)
	}

	// Provenance is the union across sub-results.
	for _, e := range merged.Entries {
		if e.Item.ID == "shared" && len(e.Backends) != 2 {
			t.Errorf("shared backends = %v, want union of both", e.Backends)
		}
	}

	// only2 carries its weight multiplier.
	want2 := 0.7 / 62
	if got := scoreOf(t, merged, "only2"); math.Abs(got-want2) > 1e-12 {
		t.Errorf("only2 score = %v, want %v", got, want2)
	}
}

func scoreOf(t *testing.T, f Fused, id string) float64 {
	t.Helper()
	for _, e := range f.Entries {
		if e.Item.ID == id {
			return e.Score
		}
	}
	t.Fatalf("item %s not in fused result", id)
	return 0
}
