package intent

import (
	"testing"

	"github.com/pdiddy/research-orchestrator/pkg/types"
)

func TestClassifyCategories(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Intent
		conf float64
	}{
		{"citation", "which papers cite the transformer paper", Citation, 0.90},
		{"collaboration", "who collaborated with Spiegel", Collaboration, 0.90},
		{"influence", "most influential papers on attention", Influence, 0.90},
		{"content similarity", "papers similar to BERT", ContentSimilarity, 0.85},
		{"relationship", "papers related to 10.1038/nature14539", Relationship, 0.90},
		{"temporal", "how has dissociation research evolved", Temporal, 0.85},
		{"venue", "papers published in the NeurIPS conference", Venue, 0.80},
		{"metadata", "papers by Hinton", Metadata, 0.80},
		{"comprehensive", "everything about sparse autoencoders", Comprehensive, 0.85},
		{"semantic fallback", "sparse autoencoder feature steering", Semantic, 0.70},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.text)
			if got.Intent != tt.want {
				t.Errorf("Classify(%q).Intent = %q, want %q", tt.text, got.Intent, tt.want)
			}
			if got.Confidence != tt.conf {
				t.Errorf("Classify(%q).Confidence = %v, want %v", tt.text, got.Confidence, tt.conf)
			}
		})
	}
}

func TestClassifyDeterministic(t *testing.T) {
	const text = "papers similar to but not related to attention mechanisms by Vaswani from 2017"
	first := Classify(text)
	for i := 0; i < 10; i++ {
		got := Classify(text)
		if got != first {
			t.Fatalf("run %d: Classify returned %+v, first run returned %+v", i, got, first)
		}
	}
}

// A query containing both "similar to" and "related to" must classify as
// content similarity: the similarity vocabulary is the more specific of the
// two overlapping families and is checked first.
func TestPatternPriority(t *testing.T) {
	got := Classify("papers similar to but not related to attention")
	if got.Intent != ContentSimilarity {
		t.Errorf("Intent = %q, want %q", got.Intent, ContentSimilarity)
	}
}

func TestConfidenceIsCategoryConstant(t *testing.T) {
	// Weak and strong matches of the same category carry identical
	// confidence. Confidence reflects category identity only.
	weak := Classify("anything that cites X")
	strong := Classify("citations citing cited papers with many citations")
	if weak.Intent != Citation || strong.Intent != Citation {
		t.Fatalf("both should classify as citation, got %q and %q", weak.Intent, strong.Intent)
	}
	if weak.Confidence != strong.Confidence {
		t.Errorf("confidence varies with match strength: %v vs %v", weak.Confidence, strong.Confidence)
	}
}

func TestIntentBackends(t *testing.T) {
	tests := []struct {
		intent Intent
		want   []types.BackendID
	}{
		{Semantic, []types.BackendID{types.BackendVector}},
		{ContentSimilarity, []types.BackendID{types.BackendVector}},
		{Collaboration, []types.BackendID{types.BackendGraph}},
		{Metadata, []types.BackendID{types.BackendMetadata}},
		{Temporal, []types.BackendID{types.BackendGraph, types.BackendMetadata}},
		{Comprehensive, []types.BackendID{types.BackendVector, types.BackendGraph, types.BackendMetadata}},
	}
	for _, tt := range tests {
		got := tt.intent.Backends()
		if len(got) != len(tt.want) {
			t.Errorf("%s: backends = %v, want %v", tt.intent, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("%s: backends = %v, want %v", tt.intent, got, tt.want)
				break
			}
		}
	}
}

func TestValid(t *testing.T) {
	if !Valid("collaboration") {
		t.Error("Valid(collaboration) = false")
	}
	if Valid("telepathy") {
		t.Error("Valid(telepathy) = true")
	}
}
