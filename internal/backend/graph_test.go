package backend

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pdiddy/research-orchestrator/internal/intent"
	"github.com/pdiddy/research-orchestrator/pkg/types"
)

func graphSetup(t *testing.T) *GraphStore {
	t.Helper()
	store, err := NewGraphStore(types.GraphConfig{IndexDir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	papers := []Paper{
		{
			ID: "p1", Title: "Dissociation and memory", Year: 2010, Venue: "J Trauma",
			Abstract: "A study of dissociation in traumatic memory.",
			Authors:  []string{"Spiegel", "Loewenstein"},
			Concepts: []string{"dissociation", "memory"},
		},
		{
			ID: "p2", Title: "Dissociation revisited", Year: 2015, Venue: "J Trauma",
			Abstract: "Follow-up work on dissociation.",
			Authors:  []string{"Spiegel", "Cardeña"},
			Concepts: []string{"dissociation"},
			Cites:    []string{"p1"},
		},
		{
			ID: "p3", Title: "Sleep and memory consolidation", Year: 2018, Venue: "Sleep",
			Abstract: "How sleep consolidates memory.",
			Authors:  []string{"Walker"},
			Concepts: []string{"memory", "sleep"},
			Cites:    []string{"p1"},
		},
		{
			ID: "p4", Title: "A century of hypnosis", Year: 2020, Venue: "Annual Review",
			Abstract: "Hypnosis research over a century.",
			Authors:  []string{"Spiegel"},
			Concepts: []string{"hypnosis"},
			Cites:    []string{"p2"},
		},
	}
	ctx := context.Background()
	for _, p := range papers {
		if err := store.AddPaper(ctx, p); err != nil {
			t.Fatalf("AddPaper(%s): %v", p.ID, err)
		}
	}
	return store
}

func ids(items []types.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestGraphCollaboration(t *testing.T) {
	store := graphSetup(t)
	items, err := store.Explore(context.Background(), intent.StrategyCollaboration,
		intent.Params{Author: "Spiegel"}, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Fatalf("items = %v, want 2 collaborators", ids(items))
	}
	for _, it := range items {
		if it.ID == "author:Spiegel" {
			t.Error("the queried author should not list as their own collaborator")
		}
		if it.Source != types.BackendGraph {
			t.Errorf("Source = %q", it.Source)
		}
	}
}

func TestGraphCitationChain(t *testing.T) {
	store := graphSetup(t)
	items, err := store.Explore(context.Background(), intent.StrategyCitationChain,
		intent.Params{Paper: "p4"}, 10)
	if err != nil {
		t.Fatal(err)
	}
	// p4 cites p2, which cites p1: two hops.
	got := ids(items)
	if len(got) != 2 || got[0] != "p2" || got[1] != "p1" {
		t.Errorf("chain = %v, want [p2 p1] ordered by hop distance", got)
	}
	if !(items[0].Score > items[1].Score) {
		t.Errorf("closer hop should score higher: %v, %v", items[0].Score, items[1].Score)
	}
}

func TestGraphInfluence(t *testing.T) {
	store := graphSetup(t)
	items, err := store.Explore(context.Background(), intent.StrategyInfluence,
		intent.Params{}, 10)
	if err != nil {
		t.Fatal(err)
	}
	// p1 has two incoming citations, p2 one.
	got := ids(items)
	if len(got) != 2 || got[0] != "p1" {
		t.Errorf("influence order = %v, want p1 first", got)
	}
	if items[0].Score != 2 {
		t.Errorf("p1 citation count = %v, want 2", items[0].Score)
	}
}

func TestGraphRelated(t *testing.T) {
	store := graphSetup(t)
	items, err := store.Explore(context.Background(), intent.StrategyRelated,
		intent.Params{Paper: "p1"}, 10)
	if err != nil {
		t.Fatal(err)
	}
	got := make(map[string]bool)
	for _, id := range ids(items) {
		got[id] = true
	}
	// p2 shares Spiegel and dissociation, p3 shares memory, p4 shares Spiegel.
	for _, want := range []string{"p2", "p3", "p4"} {
		if !got[want] {
			t.Errorf("related results %v missing %s", ids(items), want)
		}
	}
	if got["p1"] {
		t.Error("reference paper should not relate to itself")
	}
}

func TestGraphConceptNetwork(t *testing.T) {
	store := graphSetup(t)
	items, err := store.Explore(context.Background(), intent.StrategyConceptNetwork,
		intent.Params{Concept: "dissociation"}, 10)
	if err != nil {
		t.Fatal(err)
	}
	got := ids(items)
	if len(got) != 2 {
		t.Fatalf("concept network = %v, want p1 and p2", got)
	}
}

func TestGraphTemporal(t *testing.T) {
	store := graphSetup(t)
	items, err := store.Explore(context.Background(), intent.StrategyTemporal,
		intent.Params{Concept: "dissociation", YearFrom: 2010, YearTo: 2016}, 10)
	if err != nil {
		t.Fatal(err)
	}
	got := ids(items)
	if len(got) != 2 || got[0] != "p1" || got[1] != "p2" {
		t.Errorf("temporal = %v, want [p1 p2] oldest first", got)
	}
}

func TestGraphVenues(t *testing.T) {
	store := graphSetup(t)
	items, err := store.Explore(context.Background(), intent.StrategyVenue,
		intent.Params{}, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 3 {
		t.Fatalf("venues = %v, want 3", ids(items))
	}
	if items[0].ID != "venue:J Trauma" || items[0].Score != 2 {
		t.Errorf("top venue = %+v, want J Trauma with 2 papers", items[0])
	}
}

func TestGraphComprehensive(t *testing.T) {
	store := graphSetup(t)
	items, err := store.Explore(context.Background(), intent.StrategyComprehensive,
		intent.Params{Concept: "memory"}, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) == 0 {
		t.Fatal("comprehensive search found nothing for an indexed term")
	}
}

func TestGraphContentSimilarity(t *testing.T) {
	store := graphSetup(t)
	items, err := store.Explore(context.Background(), intent.StrategyContentSimilarity,
		intent.Params{Paper: "p1"}, 10)
	if err != nil {
		t.Fatal(err)
	}
	for _, it := range items {
		if it.ID == "p1" {
			t.Error("reference paper should be excluded from its own similarity list")
		}
	}
	if len(items) == 0 {
		t.Error("p2 shares title terms with p1 and should match")
	}
}

func TestGraphMissingParamsDegrade(t *testing.T) {
	store := graphSetup(t)
	for _, strategy := range []intent.Strategy{
		intent.StrategyCitationChain,
		intent.StrategyContentSimilarity,
		intent.StrategyRelated,
		intent.StrategyCollaboration,
		intent.StrategyConceptNetwork,
	} {
		items, err := store.Explore(context.Background(), strategy, intent.Params{}, 10)
		if err != nil {
			t.Errorf("%s with empty params errored: %v", strategy, err)
		}
		if len(items) != 0 {
			t.Errorf("%s with empty params = %v, want empty", strategy, ids(items))
		}
	}
}

func TestGraphGetPaper(t *testing.T) {
	store := graphSetup(t)
	p, err := store.GetPaper(context.Background(), "p1")
	if err != nil {
		t.Fatal(err)
	}
	if p == nil {
		t.Fatal("p1 should exist")
	}
	if p.Title != "Dissociation and memory" || p.Year != 2010 {
		t.Errorf("paper = %+v", p)
	}
	if len(p.Authors) != 2 || p.Authors[0] != "Spiegel" {
		t.Errorf("authors = %v, want source order", p.Authors)
	}
	if len(p.CitedBy) != 2 {
		t.Errorf("cited by = %v, want p2 and p3", p.CitedBy)
	}

	missing, err := store.GetPaper(context.Background(), "nope")
	if err != nil {
		t.Fatal(err)
	}
	if missing != nil {
		t.Error("unknown paper should return nil without error")
	}
}

func TestLoadCorpus(t *testing.T) {
	store, err := NewGraphStore(types.GraphConfig{IndexDir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	corpus := `papers:
  - id: c1
    title: First paper
    year: 2019
    authors: [Ada]
  - id: ""
    title: broken entry
  - id: c2
    title: Second paper
    cites: [c1]
`
	path := filepath.Join(t.TempDir(), "corpus.yaml")
	if err := os.WriteFile(path, []byte(corpus), 0o644); err != nil {
		t.Fatal(err)
	}

	var warnings testWriter
	summary, err := store.LoadCorpus(context.Background(), path, &warnings)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Loaded != 2 || summary.Failed != 1 {
		t.Errorf("summary = %+v, want 2 loaded, 1 failed", summary)
	}
	if len(warnings) == 0 {
		t.Error("skipped paper should produce a warning")
	}
}

type testWriter []byte

func (w *testWriter) Write(p []byte) (int, error) {
	*w = append(*w, p...)
	return len(p), nil
}
