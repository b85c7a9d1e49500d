package domain

import (
	"fmt"
	"strings"
)

// StoredScaleMax is the maximum of the stored preference scale (0..5).
const StoredScaleMax = 5.0

// AspectWeights maps aspects to per-query importances in [0,1].
// A missing key means "no opinion" and is semantically distinct from an
// explicit 0.0 ("the user said this aspect does not matter right now").
// Never collapse the two: merge conflict resolution depends on it.
type AspectWeights map[Aspect]float64

// Validate checks all keys are canonical aspects and values lie in [0,1].
func (w AspectWeights) Validate() error {
	for a, v := range w {
		if !a.IsValid() {
			return fmt.Errorf("unknown aspect %q: %w", a, ErrInvalidArgument)
		}
		if v < 0 || v > 1 {
			return fmt.Errorf("weight for %s must be in [0,1], got %.3f: %w", a, v, ErrInvalidArgument)
		}
	}
	return nil
}

// Clone returns a shallow copy. Nil stays nil.
func (w AspectWeights) Clone() AspectWeights {
	if w == nil {
		return nil
	}
	c := make(AspectWeights, len(w))
	for a, v := range w {
		c[a] = v
	}
	return c
}

// PreferenceClause renders the nonzero weights as reranker conditioning
// text: "User preferences: Food importance: 0.80; Price importance: 0.20".
// Zero and absent weights are both omitted; empty output means the clause
// should not be attached at all.
func (w AspectWeights) PreferenceClause() string {
	var parts []string
	for _, a := range aspectOrder {
		v, ok := w[a]
		if !ok || v <= 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s importance: %.2f", a.Title(), v))
	}
	if len(parts) == 0 {
		return ""
	}
	return "User preferences: " + strings.Join(parts, "; ")
}

// StoredPreferences maps aspects to long-lived preference scores on the
// 0..5 scale kept in the preference store.
type StoredPreferences map[Aspect]float64

// Validate checks all keys are canonical aspects and values lie in [0,5].
func (p StoredPreferences) Validate() error {
	for a, v := range p {
		if !a.IsValid() {
			return fmt.Errorf("unknown aspect %q: %w", a, ErrInvalidArgument)
		}
		if v < 0 || v > StoredScaleMax {
			return fmt.Errorf("preference for %s must be in [0,%g], got %.3f: %w",
				a, StoredScaleMax, v, ErrInvalidArgument)
		}
	}
	return nil
}

// Clone returns a shallow copy. Nil stays nil.
func (p StoredPreferences) Clone() StoredPreferences {
	if p == nil {
		return nil
	}
	c := make(StoredPreferences, len(p))
	for a, v := range p {
		c[a] = v
	}
	return c
}

// MergeAspectWeights resolves the per-query weight vector from stored
// preferences and query-derived hints. Per aspect, independently:
//
//  1. hint present (including exactly 0.0) → the hint wins;
//  2. else stored preference present → stored value normalized to 0..1;
//  3. else the aspect is omitted.
//
// The result may be empty; it is the CALLER's policy to substitute a
// default then (see BalancedDefaultWeights). Merge itself never invents
// an opinion the user did not express.
func MergeAspectWeights(stored StoredPreferences, hints AspectWeights) AspectWeights {
	merged := make(AspectWeights)
	for _, a := range aspectOrder {
		if v, ok := hints[a]; ok {
			merged[a] = v
			continue
		}
		if v, ok := stored[a]; ok {
			merged[a] = v / StoredScaleMax
		}
	}
	return merged
}

// BalancedDefaultWeights is the fallback vector the orchestrator injects
// when the merge yields no opinion at all.
func BalancedDefaultWeights() AspectWeights {
	return AspectWeights{
		AspectFood:     0.5,
		AspectService:  0.5,
		AspectAmbience: 0.5,
		AspectPrice:    0.5,
	}
}
