// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fuse merges multi-backend result lists with reciprocal-rank
// scoring, deduplicates by item identifier, and records which backends
// contributed each item.
// Implements: prd004-fusion (R1-R2);
//
//	docs/ARCHITECTURE § Result Fusion.
package fuse

import (
	"sort"

	"github.com/pdiddy/research-orchestrator/internal/execute"
	"github.com/pdiddy/research-orchestrator/pkg/types"
)

// DampingK is the reciprocal-rank damping constant: an item's fused score
// is the sum over contributing backends of 1/(DampingK+rank). 60 keeps
// single high ranks from dominating items found by several backends.
const DampingK = 60

// Entry is one deduplicated item in a fused result. Backends is the
// order-preserving, duplicate-free list of contributing backends; it is
// never empty.
type Entry struct {
	Item     types.Item        `json:"item" yaml:"item"`
	Score    float64           `json:"score" yaml:"score"`
	Rank     int               `json:"rank" yaml:"rank"`
	Backends []types.BackendID `json:"backends" yaml:"backends"`
}

// Fused is an immutable fusion pass output, ordered by descending fused
// score. An escalation or decomposition merge builds a new Fused value
// rather than mutating an existing one.
type Fused struct {
	Entries []Entry `json:"entries" yaml:"entries"`
}

// Backends returns the deduplicated union of contributing backends across
// all entries, in first-contribution order.
func (f Fused) Backends() []types.BackendID {
	var out []types.BackendID
	seen := make(map[types.BackendID]bool)
	for _, e := range f.Entries {
		for _, b := range e.Backends {
			if !seen[b] {
				seen[b] = true
				out = append(out, b)
			}
		}
	}
	return out
}

// fusionState accumulates one item's contributions across backend lists.
type fusionState struct {
	item     types.Item
	score    float64
	backends []types.BackendID
	// tieOrder is the smallest plan-order index among contributing
	// backends; equal scores sort by it so fusion is deterministic for
	// identical backend responses (R2.4).
	tieOrder int
	// arrival breaks remaining ties by first-seen order.
	arrival int
}

// Fuse merges backend results into a single ranked list. order is the
// plan's backend declaration order and drives tie-breaking; results from
// backends missing from order (never the case in practice) tie-break
// last. Failed or empty results contribute nothing but are accepted so
// callers can pass a coordinator's output unfiltered (R1.1, R1.4).
func Fuse(results []execute.Result, order []types.BackendID) Fused {
	rank := make(map[types.BackendID]int, len(order))
	for i, b := range order {
		rank[b] = i
	}
	orderOf := func(b types.BackendID) int {
		if i, ok := rank[b]; ok {
			return i
		}
		return len(order)
	}

	states := make(map[string]*fusionState)
	var keys []string

	for _, r := range results {
		if r.Err != nil {
			continue
		}
		for pos, it := range r.Items {
			s, ok := states[it.ID]
			if !ok {
				s = &fusionState{item: it, tieOrder: orderOf(r.Backend), arrival: len(keys)}
				states[it.ID] = s
				keys = append(keys, it.ID)
			}
			// An identifier can only gain a backend once, even when
			// the same backend fires again across decomposition or
			// escalation passes (R2.2).
			if !contains(s.backends, r.Backend) {
				s.backends = append(s.backends, r.Backend)
			}
			s.score += 1.0 / float64(DampingK+pos+1)
			if o := orderOf(r.Backend); o < s.tieOrder {
				s.tieOrder = o
			}
		}
	}

	return sorted(states, keys)
}

// Weighted pairs a sub-query's fused result with its importance weight.
type Weighted struct {
	Fused  Fused
	Weight float64
}

// MergeWeighted combines decomposed sub-results: each entry's score is
// multiplied by its sub-query's weight, an item appearing under several
// sub-queries accumulates the sum of its weighted scores, and its
// backends list is the union of the sub-entries' lists (R1.3).
func MergeWeighted(subs []Weighted) Fused {
	states := make(map[string]*fusionState)
	var keys []string

	for _, sub := range subs {
		for _, e := range sub.Fused.Entries {
			s, ok := states[e.Item.ID]
			if !ok {
				s = &fusionState{item: e.Item, tieOrder: len(types.AllBackends), arrival: len(keys)}
				states[e.Item.ID] = s
				keys = append(keys, e.Item.ID)
			}
			s.score += sub.Weight * e.Score
			for _, b := range e.Backends {
				if !contains(s.backends, b) {
					s.backends = append(s.backends, b)
				}
			}
		}
	}

	return sorted(states, keys)
}

func sorted(states map[string]*fusionState, keys []string) Fused {
	entries := make([]Entry, 0, len(keys))
	for _, k := range keys {
		s := states[k]
		entries = append(entries, Entry{Item: s.item, Score: s.score, Backends: s.backends})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := states[entries[i].Item.ID], states[entries[j].Item.ID]
		if a.score != b.score {
			return a.score > b.score
		}
		if a.tieOrder != b.tieOrder {
			return a.tieOrder < b.tieOrder
		}
		return a.arrival < b.arrival
	})

	for i := range entries {
		entries[i].Rank = i + 1
	}
	return Fused{Entries: entries}
}

func contains(list []types.BackendID, b types.BackendID) bool {
	for _, x := range list {
		if x == b {
			return true
		}
	}
	return false
}
