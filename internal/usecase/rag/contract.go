package rag

import (
	"context"

	"github.com/seoulbites/matzip/internal/domain"
	"github.com/seoulbites/matzip/internal/usecase/retrieval"
)

// IntentAnalyzer extracts structured intent from a raw user query.
type IntentAnalyzer interface {
	Analyze(ctx context.Context, query string) (domain.Intent, error)
}

// PreferenceReader loads a user's stored aspect preferences.
type PreferenceReader interface {
	Get(ctx context.Context, userID string) (domain.StoredPreferences, error)
}

// Ranker runs the retrieve-filter-rerank pipeline for one query.
type Ranker interface {
	Rank(ctx context.Context, intent domain.Intent, weights domain.AspectWeights) ([]retrieval.Candidate, error)
}

// Translator converts reviewer pattern text into Korean.
type Translator interface {
	TranslateToKorean(ctx context.Context, text string) (string, error)
}

// Narrator writes the conversational answer shown above the results.
type Narrator interface {
	Narrate(ctx context.Context, queryEN string, names []string, weights domain.AspectWeights) (string, error)
}
