package decompose

import "testing"

func TestDecomposeSingle(t *testing.T) {
	subs := Decompose("sparse autoencoder interpretability")
	if len(subs) != 1 {
		t.Fatalf("len(subs) = %d, want 1", len(subs))
	}
	if subs[0].Text != "sparse autoencoder interpretability" || subs[0].Weight != 1.0 {
		t.Errorf("subs[0] = %+v, want original text with weight 1.0", subs[0])
	}
}

func TestDecomposeBooleanAnd(t *testing.T) {
	subs := Decompose("attention mechanisms AND sparse coding")
	if len(subs) != 2 {
		t.Fatalf("len(subs) = %d, want 2", len(subs))
	}
	for _, s := range subs {
		if s.Weight != 1.0 {
			t.Errorf("AND segment %q weight = %v, want 1.0", s.Text, s.Weight)
		}
	}
}

func TestDecomposeBooleanOr(t *testing.T) {
	subs := Decompose("transformers OR recurrent networks")
	if len(subs) != 2 {
		t.Fatalf("len(subs) = %d, want 2", len(subs))
	}
	for _, s := range subs {
		if s.Weight != 0.7 {
			t.Errorf("OR segment %q weight = %v, want 0.7", s.Text, s.Weight)
		}
	}
}

func TestDecomposeMixedBoolean(t *testing.T) {
	subs := Decompose("attention AND convolution OR recurrence")
	if len(subs) != 3 {
		t.Fatalf("len(subs) = %d, want 3", len(subs))
	}
	if subs[0].Weight != 1.0 {
		t.Errorf("AND segment weight = %v, want 1.0", subs[0].Weight)
	}
	if subs[1].Weight != 0.7 || subs[2].Weight != 0.7 {
		t.Errorf("OR segment weights = %v, %v, want 0.7", subs[1].Weight, subs[2].Weight)
	}
}

func TestDecomposeNaturalConjunction(t *testing.T) {
	subs := Decompose("memory consolidation and sleep architecture")
	if len(subs) != 2 {
		t.Fatalf("len(subs) = %d, want 2", len(subs))
	}
	if subs[0].Text != "memory consolidation" || subs[1].Text != "sleep architecture" {
		t.Errorf("segments = %q, %q", subs[0].Text, subs[1].Text)
	}
}

func TestDecomposeCommaList(t *testing.T) {
	subs := Decompose("attention mechanisms, sparse coding, mixture of experts")
	if len(subs) != 3 {
		t.Fatalf("len(subs) = %d, want 3", len(subs))
	}
	if subs[0].Weight != 1.0 {
		t.Errorf("head weight = %v, want 1.0", subs[0].Weight)
	}
	for _, s := range subs[1:] {
		if s.Weight != 0.7 {
			t.Errorf("list segment %q weight = %v, want 0.7", s.Text, s.Weight)
		}
	}
}

func TestDecomposeSupportingContext(t *testing.T) {
	subs := Decompose("dissociation in the context of trauma")
	if len(subs) != 2 {
		t.Fatalf("len(subs) = %d, want 2", len(subs))
	}
	if subs[0].Weight != 1.0 {
		t.Errorf("primary weight = %v, want 1.0", subs[0].Weight)
	}
	if subs[1].Weight != 0.5 {
		t.Errorf("supporting weight = %v, want 0.5", subs[1].Weight)
	}
}

func TestDecomposeComparePhrase(t *testing.T) {
	subs := Decompose("compare sparse autoencoders with transcoders")
	if len(subs) != 2 {
		t.Fatalf("len(subs) = %d, want 2", len(subs))
	}
	if subs[0].Text != "sparse autoencoders" || subs[1].Text != "transcoders" {
		t.Errorf("segments = %q, %q", subs[0].Text, subs[1].Text)
	}
	for _, s := range subs {
		if s.Weight != 1.0 {
			t.Errorf("compared topic %q weight = %v, want 1.0", s.Text, s.Weight)
		}
	}
}

func TestDecomposeWeightsInRange(t *testing.T) {
	queries := []string{
		"a AND b OR c",
		"attention, convolution, recurrence",
		"memory as well as sleep",
		"x versus y",
		"plain single query",
	}
	for _, q := range queries {
		for _, s := range Decompose(q) {
			if s.Weight <= 0 || s.Weight > 1 {
				t.Errorf("Decompose(%q): weight %v out of (0,1] for %q", q, s.Weight, s.Text)
			}
		}
	}
}

func TestDecomposeDropsShortFragments(t *testing.T) {
	subs := Decompose("attention mechanisms, ML, of")
	for _, s := range subs {
		if s.Text == "of" {
			t.Errorf("fragment %q should have been dropped", s.Text)
		}
	}
}
