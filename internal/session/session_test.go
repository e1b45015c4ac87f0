// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import (
	"path/filepath"
	"testing"

	"github.com/pdiddy/research-orchestrator/internal/fuse"
	"github.com/pdiddy/research-orchestrator/internal/orchestrator"
	"github.com/pdiddy/research-orchestrator/internal/quality"
	"github.com/pdiddy/research-orchestrator/pkg/types"
)

func TestSearchPassRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pass.yaml")

	resp := &orchestrator.SearchResponse{
		PassID:       "8a2f0c1e-0000-4000-8000-000000000001",
		Query:        "who collaborated with Spiegel",
		Mode:         "collaboration",
		Confidence:   0.90,
		BackendsUsed: []types.BackendID{types.BackendGraph},
		Results: []fuse.Entry{
			{
				Item:     types.Item{ID: "author:Cardena", Title: "Cardena", Source: "graph"},
				Score:    1.0 / 61,
				Rank:     1,
				Backends: []types.BackendID{types.BackendGraph},
			},
		},
		Quality: quality.Metrics{Tier: quality.TierMedium, Coverage: 1.0},
	}

	if err := WriteSearch(path, resp); err != nil {
		t.Fatalf("WriteSearch: %v", err)
	}

	pf, err := ReadSearch(path)
	if err != nil {
		t.Fatalf("ReadSearch: %v", err)
	}
	if pf.SavedAt.IsZero() {
		t.Error("SavedAt is zero")
	}
	if pf.Search.PassID != resp.PassID {
		t.Errorf("PassID = %q, want %q", pf.Search.PassID, resp.PassID)
	}
	if pf.Search.Mode != "collaboration" {
		t.Errorf("Mode = %q, want collaboration", pf.Search.Mode)
	}
	if len(pf.Search.Results) != 1 {
		t.Fatalf("got %d results, want 1", len(pf.Search.Results))
	}
	got := pf.Search.Results[0]
	if got.Item.ID != "author:Cardena" || got.Rank != 1 {
		t.Errorf("result = %+v, want author:Cardena at rank 1", got)
	}
	if len(got.Backends) != 1 || got.Backends[0] != types.BackendGraph {
		t.Errorf("provenance = %v, want [graph]", got.Backends)
	}
	if pf.Search.Quality.Tier != quality.TierMedium {
		t.Errorf("quality tier = %q, want medium", pf.Search.Quality.Tier)
	}
}

func TestReadSearchMissingFile(t *testing.T) {
	if _, err := ReadSearch(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestReadSearchEmptyEnvelope(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	if err := WriteSearch(path, nil); err != nil {
		t.Fatalf("WriteSearch: %v", err)
	}
	if _, err := ReadSearch(path); err == nil {
		t.Fatal("expected error for pass file without a search section")
	}
}
