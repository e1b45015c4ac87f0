package quality

import (
	"testing"

	"github.com/pdiddy/research-orchestrator/internal/fuse"
	"github.com/pdiddy/research-orchestrator/pkg/types"
)

func fused(scores ...float64) fuse.Fused {
	entries := make([]fuse.Entry, len(scores))
	for i, s := range scores {
		entries[i] = fuse.Entry{
			Item:     types.Item{ID: string(rune('a' + i))},
			Score:    s,
			Rank:     i + 1,
			Backends: []types.BackendID{types.BackendVector},
		}
	}
	return fuse.Fused{Entries: entries}
}

func cfg() types.QualityConfig { return types.DefaultQualityConfig() }

func TestAssessTiers(t *testing.T) {
	tests := []struct {
		name      string
		scores    []float64
		requested int
		tier      Tier
	}{
		{"all strong", []float64{0.05, 0.04, 0.032}, 3, TierHigh},
		{"weakest top result medium", []float64{0.05, 0.02}, 2, TierMedium},
		{"weakest top result low", []float64{0.05, 0.005}, 2, TierLow},
		{"window smaller than requested", []float64{0.05}, 10, TierHigh},
		{"empty", nil, 10, TierLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Assess(fused(tt.scores...), tt.requested, cfg())
			if m.Tier != tt.tier {
				t.Errorf("Tier = %q, want %q", m.Tier, tt.tier)
			}
		})
	}
}

func TestAssessCoverage(t *testing.T) {
	// Three of ten requested clear the coverage threshold.
	m := Assess(fused(0.05, 0.03, 0.02, 0.005, 0.001), 10, cfg())
	if m.Coverage != 0.3 {
		t.Errorf("Coverage = %v, want 0.3", m.Coverage)
	}

	// Coverage caps at 1 when more results clear than were requested.
	m = Assess(fused(0.05, 0.04, 0.03), 2, cfg())
	if m.Coverage != 1.0 {
		t.Errorf("Coverage = %v, want 1.0", m.Coverage)
	}
}

func TestAssessEmptyResult(t *testing.T) {
	m := Assess(fuse.Fused{}, 10, cfg())
	if m.Tier != TierLow || m.Coverage != 0 {
		t.Errorf("empty result metrics = %+v, want low/0", m)
	}
}

func TestNeedsEscalation(t *testing.T) {
	tests := []struct {
		name string
		m    Metrics
		want bool
	}{
		{"low tier", Metrics{Tier: TierLow, Coverage: 0.9}, true},
		{"poor coverage", Metrics{Tier: TierHigh, Coverage: 0.4}, true},
		{"boundary coverage stays", Metrics{Tier: TierMedium, Coverage: 0.5}, false},
		{"healthy", Metrics{Tier: TierHigh, Coverage: 0.8}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NeedsEscalation(tt.m); got != tt.want {
				t.Errorf("NeedsEscalation(%+v) = %v, want %v", tt.m, got, tt.want)
			}
		})
	}
}
