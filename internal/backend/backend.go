// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package backend defines the narrow adapter contracts the orchestration
// core consumes, plus reference adapters for each: an HTTP vector search
// service, the OpenAlex metadata API, and a SQLite relationship graph.
// Implements: prd005-backends (R1-R4);
//
//	docs/ARCHITECTURE § Backend Adapters.
package backend

import (
	"context"

	"github.com/pdiddy/research-orchestrator/internal/intent"
	"github.com/pdiddy/research-orchestrator/pkg/types"
)

// VectorSearcher is the semantic vector store contract. Implementations
// return items ranked by descending similarity and an empty list, never
// an error, when nothing is indexed (R1.1).
type VectorSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]types.Item, error)
}

// GraphQuerier is the relationship graph store contract. The strategy
// selects one of the nine exploration algorithms; params carries the
// extracted fields it operates on (R1.2).
type GraphQuerier interface {
	Explore(ctx context.Context, strategy intent.Strategy, params intent.Params, limit int) ([]types.Item, error)
}

// MetadataFilters are the structured bibliographic lookup fields (R1.3).
type MetadataFilters struct {
	Query    string
	Author   string
	Title    string
	YearFrom int
	YearTo   int
}

// IsEmpty reports whether no filter is set.
func (f MetadataFilters) IsEmpty() bool {
	return f == MetadataFilters{}
}

// MetadataSearcher is the bibliographic metadata service contract.
type MetadataSearcher interface {
	Search(ctx context.Context, filters MetadataFilters, limit int) ([]types.Item, error)
}

// PaperFetcher retrieves one paper's full record for summarization.
// The graph store implements it; other adapters need not.
type PaperFetcher interface {
	GetPaper(ctx context.Context, id string) (*Paper, error)
}

// Paper is a full stored record, richer than the Item exchanged during
// search passes.
type Paper struct {
	ID       string   `json:"id" yaml:"id"`
	Title    string   `json:"title" yaml:"title"`
	Abstract string   `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	Authors  []string `json:"authors,omitempty" yaml:"authors,omitempty"`
	Year     int      `json:"year,omitempty" yaml:"year,omitempty"`
	Venue    string   `json:"venue,omitempty" yaml:"venue,omitempty"`
	Concepts []string `json:"concepts,omitempty" yaml:"concepts,omitempty"`

	// Cites and CitedBy list identifiers, not full records.
	Cites   []string `json:"cites,omitempty" yaml:"cites,omitempty"`
	CitedBy []string `json:"cited_by,omitempty" yaml:"cited_by,omitempty"`
}
