// Package corpus loads and serves the immutable restaurant corpus: the
// enriched documents, their embedding matrix and the lexical index built
// over their searchable text.
package corpus

import (
	"fmt"

	"github.com/seoulbites/matzip/internal/domain"
	"github.com/seoulbites/matzip/internal/index/bm25"
)

// Corpus is an in-memory snapshot of the restaurant collection. Document i
// corresponds to embedding matrix row i for the lifetime of the snapshot.
type Corpus struct {
	docs   []domain.Restaurant
	matrix *Matrix
	byID   map[string]int
}

// NewCorpus builds a corpus from documents and their row-aligned embeddings.
func NewCorpus(docs []domain.Restaurant, matrix *Matrix) (*Corpus, error) {
	if matrix == nil {
		return nil, fmt.Errorf("missing embedding matrix: %w", domain.ErrCorpusMisaligned)
	}
	if len(docs) != matrix.Rows() {
		return nil, fmt.Errorf("%d documents for %d embedding rows: %w", len(docs), matrix.Rows(), domain.ErrCorpusMisaligned)
	}
	byID := make(map[string]int, len(docs))
	for i := range docs {
		id := docs[i].PlaceID()
		if _, dup := byID[id]; dup {
			return nil, fmt.Errorf("duplicate place id %q: %w", id, domain.ErrCorpusMisaligned)
		}
		byID[id] = i
	}
	return &Corpus{docs: docs, matrix: matrix, byID: byID}, nil
}

// Len returns the number of documents.
func (c *Corpus) Len() int { return len(c.docs) }

// Dim returns the embedding dimension.
func (c *Corpus) Dim() int { return c.matrix.Dim() }

// At returns the document at row i.
func (c *Corpus) At(i int) *domain.Restaurant { return &c.docs[i] }

// Get looks a document up by place id.
func (c *Corpus) Get(placeID string) (*domain.Restaurant, error) {
	i, ok := c.byID[placeID]
	if !ok {
		return nil, fmt.Errorf("place %q: %w", placeID, domain.ErrRestaurantNotFound)
	}
	return &c.docs[i], nil
}

// SemanticScores scores every document against the query embedding, in
// row order.
func (c *Corpus) SemanticScores(query []float32) ([]float64, error) {
	return c.matrix.Scores(query)
}

// Texts returns the lexical document texts in row order.
func (c *Corpus) Texts() []string {
	texts := make([]string, len(c.docs))
	for i := range c.docs {
		texts[i] = c.docs[i].BM25Text()
	}
	return texts
}

// Snapshot bundles a loaded corpus with the lexical index built over it.
type Snapshot struct {
	Corpus  *Corpus
	Lexical *bm25.Index
}
