// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the research-orchestrator
// core: the canonical result unit exchanged between backends and the fusion
// layer, backend identifiers, and configuration.
// Implements: prd001-orchestration (Item, R4.1-R4.3);
//
//	docs/ARCHITECTURE § Data Structures.
package types

// BackendID identifies one of the three heterogeneous data sources.
type BackendID string

const (
	// BackendVector is the semantic vector store.
	BackendVector BackendID = "vector"

	// BackendGraph is the relationship graph store.
	BackendGraph BackendID = "graph"

	// BackendMetadata is the bibliographic metadata service.
	BackendMetadata BackendID = "metadata"
)

// AllBackends lists every backend in declaration order. The order is the
// tie-break order for fusion and the invocation order for sequential plans.
var AllBackends = []BackendID{BackendVector, BackendGraph, BackendMetadata}

// Item is the canonical result unit returned by a backend call. Raw scores
// are backend-native and not comparable across backends; cross-backend
// ranking happens in the fusion layer over rank positions only.
type Item struct {
	// ID is the stable identifier (DOI, arXiv ID, or store-local ID).
	ID string `json:"id" yaml:"id"`

	// Title is the display title.
	Title string `json:"title" yaml:"title"`

	// Snippet is a short display excerpt (abstract fragment or match context).
	Snippet string `json:"snippet,omitempty" yaml:"snippet,omitempty"`

	// Authors lists author names in source order.
	Authors []string `json:"authors,omitempty" yaml:"authors,omitempty"`

	// Year is the publication year, zero when unknown.
	Year int `json:"year,omitempty" yaml:"year,omitempty"`

	// Venue is the publication venue, empty when unknown.
	Venue string `json:"venue,omitempty" yaml:"venue,omitempty"`

	// Score is the backend-native score (similarity, relevance rank weight,
	// citation count). Comparable only within one backend's list.
	Score float64 `json:"score" yaml:"score"`

	// Source identifies which backend returned this item.
	Source BackendID `json:"source" yaml:"source"`
}
