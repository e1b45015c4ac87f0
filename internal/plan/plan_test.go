package plan

import (
	"testing"

	"github.com/pdiddy/research-orchestrator/internal/intent"
	"github.com/pdiddy/research-orchestrator/pkg/types"
)

func TestBuildStrategyByBackendCount(t *testing.T) {
	tests := []struct {
		name     string
		intent   intent.Intent
		backends int
		strategy Strategy
	}{
		{"single backend parallel-eligible", intent.Semantic, 1, Parallel},
		{"two backends parallel", intent.Temporal, 2, Parallel},
		{"three backends sequential", intent.Comprehensive, 3, Sequential},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Build(tt.intent, 10)
			if len(p.Backends) != tt.backends {
				t.Errorf("len(Backends) = %d, want %d", len(p.Backends), tt.backends)
			}
			if p.Strategy != tt.strategy {
				t.Errorf("Strategy = %q, want %q", p.Strategy, tt.strategy)
			}
		})
	}
}

func TestBuildLimitDoubling(t *testing.T) {
	single := Build(intent.Semantic, 10)
	if single.Limit != 10 {
		t.Errorf("single-backend limit = %d, want 10", single.Limit)
	}
	multi := Build(intent.Comprehensive, 10)
	if multi.Limit != 20 {
		t.Errorf("multi-backend limit = %d, want 20", multi.Limit)
	}
}

func TestBuildComprehensiveFlag(t *testing.T) {
	if Build(intent.Semantic, 10).Comprehensive {
		t.Error("single-backend plan marked comprehensive")
	}
	if !Build(intent.Comprehensive, 10).Comprehensive {
		t.Error("all-backend plan not marked comprehensive")
	}
}

func TestBuildDeterministic(t *testing.T) {
	a := Build(intent.Collaboration, 10)
	b := Build(intent.Collaboration, 10)
	if a.Strategy != b.Strategy || a.Limit != b.Limit || len(a.Backends) != len(b.Backends) {
		t.Errorf("plans differ: %+v vs %+v", a, b)
	}
}

func TestEscalationCoversRemaining(t *testing.T) {
	initial := Build(intent.Collaboration, 10) // graph only
	esc := Escalation(initial)

	if len(esc.Backends) != 2 {
		t.Fatalf("len(esc.Backends) = %d, want 2", len(esc.Backends))
	}
	want := map[types.BackendID]bool{types.BackendVector: true, types.BackendMetadata: true}
	for _, b := range esc.Backends {
		if !want[b] {
			t.Errorf("unexpected escalation backend %q", b)
		}
	}
	if !esc.Comprehensive {
		t.Error("escalation plan should be comprehensive")
	}
	if esc.Strategy != Parallel {
		t.Errorf("two-backend escalation strategy = %q, want parallel", esc.Strategy)
	}
}

func TestEscalationOfComprehensiveIsEmpty(t *testing.T) {
	esc := Escalation(Build(intent.Comprehensive, 10))
	if len(esc.Backends) != 0 {
		t.Errorf("escalating a comprehensive plan should leave no backends, got %v", esc.Backends)
	}
}
