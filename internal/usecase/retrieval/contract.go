package retrieval

import (
	"context"

	"github.com/seoulbites/matzip/internal/corpus"
	"github.com/seoulbites/matzip/internal/domain"
)

// SnapshotProvider hands out the immutable corpus snapshot.
type SnapshotProvider interface {
	Snapshot(ctx context.Context) (*corpus.Snapshot, error)
}

// Embedder vectorizes the query into the corpus embedding space.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// CrossEncoder scores (query, text) pairs for fine-grained relevance.
// Scores are raw model outputs; the caller normalizes over its pool.
type CrossEncoder interface {
	Score(ctx context.Context, query string, texts []string) ([]float64, error)
}
