package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestAspectWeights_Validate(t *testing.T) {
	w := AspectWeights{AspectFood: 0.8, AspectPrice: 0.0, AspectWaiting: 1.0}
	if err := w.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAspectWeights_Validate_UnknownAspect(t *testing.T) {
	w := AspectWeights{"taste": 0.5}
	err := w.Validate()
	if err == nil {
		t.Fatal("expected error for unknown aspect")
	}
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestAspectWeights_Validate_OutOfRange(t *testing.T) {
	for _, v := range []float64{-0.1, 1.1, 5.0} {
		w := AspectWeights{AspectFood: v}
		if err := w.Validate(); err == nil {
			t.Errorf("expected error for weight %v", v)
		}
	}
}

func TestStoredPreferences_Validate(t *testing.T) {
	p := StoredPreferences{AspectFood: 4.5, AspectService: 0, AspectPrice: 5}
	if err := p.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := StoredPreferences{AspectFood: 5.5}
	err := bad.Validate()
	if err == nil {
		t.Fatal("expected error for value above stored scale")
	}
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestMergeAspectWeights_HintWins(t *testing.T) {
	stored := StoredPreferences{AspectFood: 2.0}
	hints := AspectWeights{AspectFood: 0.9}

	merged := MergeAspectWeights(stored, hints)
	if merged[AspectFood] != 0.9 {
		t.Errorf("merged[food] = %v, want hint value 0.9", merged[AspectFood])
	}
}

func TestMergeAspectWeights_ExplicitZeroHintOverrides(t *testing.T) {
	// Явный 0.0 в хинте — это мнение, а не отсутствие значения.
	stored := StoredPreferences{AspectPrice: 5.0}
	hints := AspectWeights{AspectPrice: 0.0}

	merged := MergeAspectWeights(stored, hints)
	v, ok := merged[AspectPrice]
	if !ok {
		t.Fatal("price must be present in merged weights")
	}
	if v != 0.0 {
		t.Errorf("merged[price] = %v, want 0.0", v)
	}
}

func TestMergeAspectWeights_StoredNormalized(t *testing.T) {
	stored := StoredPreferences{AspectFood: 5.0, AspectService: 2.5, AspectAmbience: 0}

	merged := MergeAspectWeights(stored, nil)
	if merged[AspectFood] != 1.0 {
		t.Errorf("merged[food] = %v, want 1.0", merged[AspectFood])
	}
	if merged[AspectService] != 0.5 {
		t.Errorf("merged[service] = %v, want 0.5", merged[AspectService])
	}
	if v, ok := merged[AspectAmbience]; !ok || v != 0 {
		t.Errorf("merged[ambience] = (%v, %v), want (0, true)", v, ok)
	}
}

func TestMergeAspectWeights_AbsentStaysAbsent(t *testing.T) {
	stored := StoredPreferences{AspectFood: 4.0}
	hints := AspectWeights{AspectService: 0.7}

	merged := MergeAspectWeights(stored, hints)
	if _, ok := merged[AspectPrice]; ok {
		t.Error("price was never expressed and must not appear in the merge")
	}
	if len(merged) != 2 {
		t.Errorf("merged has %d entries, want 2", len(merged))
	}
}

func TestMergeAspectWeights_EmptyInputs(t *testing.T) {
	merged := MergeAspectWeights(nil, nil)
	if len(merged) != 0 {
		t.Errorf("merge of nothing = %v, want empty", merged)
	}
	// Подстановка дефолта — политика вызывающего, не merge.
}

func TestBalancedDefaultWeights(t *testing.T) {
	def := BalancedDefaultWeights()
	for _, a := range []Aspect{AspectFood, AspectService, AspectAmbience, AspectPrice} {
		if def[a] != 0.5 {
			t.Errorf("default[%s] = %v, want 0.5", a, def[a])
		}
	}
	if len(def) != 4 {
		t.Errorf("default has %d entries, want 4", len(def))
	}
}

func TestPreferenceClause(t *testing.T) {
	w := AspectWeights{AspectFood: 0.8, AspectPrice: 0.2}
	got := w.PreferenceClause()
	want := "User preferences: Food importance: 0.80; Price importance: 0.20"
	if got != want {
		t.Errorf("PreferenceClause() = %q, want %q", got, want)
	}
}

func TestPreferenceClause_OmitsZeroAndAbsent(t *testing.T) {
	w := AspectWeights{AspectFood: 0.6, AspectService: 0.0}
	got := w.PreferenceClause()
	if strings.Contains(got, "Service") {
		t.Errorf("zero-weight aspect leaked into clause: %q", got)
	}
	if !strings.Contains(got, "Food importance: 0.60") {
		t.Errorf("clause missing food weight: %q", got)
	}
}

func TestPreferenceClause_Empty(t *testing.T) {
	if got := (AspectWeights{}).PreferenceClause(); got != "" {
		t.Errorf("empty weights clause = %q, want \"\"", got)
	}
	if got := (AspectWeights{AspectFood: 0}).PreferenceClause(); got != "" {
		t.Errorf("all-zero weights clause = %q, want \"\"", got)
	}
}

func TestPreferenceClause_PresentationOrder(t *testing.T) {
	w := AspectWeights{AspectWaiting: 0.3, AspectFood: 0.9}
	got := w.PreferenceClause()
	food := strings.Index(got, "Food")
	waiting := strings.Index(got, "Waiting")
	if food == -1 || waiting == -1 || food > waiting {
		t.Errorf("aspects out of presentation order: %q", got)
	}
}

func TestAspectWeights_Clone(t *testing.T) {
	w := AspectWeights{AspectFood: 0.5}
	c := w.Clone()
	c[AspectFood] = 0.9
	if w[AspectFood] != 0.5 {
		t.Error("clone shares storage with original")
	}
	if AspectWeights(nil).Clone() != nil {
		t.Error("nil clone must stay nil")
	}
}

func TestStoredPreferences_Clone(t *testing.T) {
	p := StoredPreferences{AspectFood: 4.0}
	c := p.Clone()
	c[AspectFood] = 1.0
	if p[AspectFood] != 4.0 {
		t.Error("clone shares storage with original")
	}
	if StoredPreferences(nil).Clone() != nil {
		t.Error("nil clone must stay nil")
	}
}
