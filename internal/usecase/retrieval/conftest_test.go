package retrieval

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/seoulbites/matzip/internal/corpus"
	"github.com/seoulbites/matzip/internal/domain"
	"github.com/seoulbites/matzip/internal/index/bm25"
)

type mockEmbedder struct {
	result domain.EmbeddingResult
	err    error
	calls  int
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.calls++
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return m.result, nil
}

type mockEncoder struct {
	scoreFn   func(query string, texts []string) ([]float64, error)
	lastQuery string
	calls     int
}

func (m *mockEncoder) Score(_ context.Context, query string, texts []string) ([]float64, error) {
	m.calls++
	m.lastQuery = query
	if m.scoreFn != nil {
		return m.scoreFn(query, texts)
	}
	return make([]float64, len(texts)), nil
}

type staticSnapshots struct {
	snap *corpus.Snapshot
	err  error
}

func (p *staticSnapshots) Snapshot(_ context.Context) (*corpus.Snapshot, error) {
	return p.snap, p.err
}

// fixture describes one test document.
type fixture struct {
	id      string
	text    string
	types   []string
	borough domain.Borough
	rating  *float64
	conf    float64
	vec     []float32
}

func newSnapshot(t *testing.T, dim int, docs []fixture) *corpus.Snapshot {
	t.Helper()

	restaurants := make([]domain.Restaurant, 0, len(docs))
	var data []float32
	for _, d := range docs {
		r, err := domain.NewRestaurant(domain.RestaurantFields{
			PlaceID:    d.id,
			Name:       "Restaurant " + d.id,
			BM25Text:   d.text,
			Types:      d.types,
			Borough:    d.borough,
			Rating:     d.rating,
			Confidence: d.conf,
		})
		if err != nil {
			t.Fatalf("build restaurant %s: %v", d.id, err)
		}
		restaurants = append(restaurants, r)

		if len(d.vec) != dim {
			t.Fatalf("fixture %s vector has dim %d, expected %d", d.id, len(d.vec), dim)
		}
		data = append(data, d.vec...)
	}

	matrix, err := corpus.NewMatrix(data, len(docs), dim)
	if err != nil {
		t.Fatalf("build matrix: %v", err)
	}
	corp, err := corpus.NewCorpus(restaurants, matrix)
	if err != nil {
		t.Fatalf("build corpus: %v", err)
	}

	return &corpus.Snapshot{Corpus: corp, Lexical: bm25.NewIndex(corp.Texts())}
}

func newTestService(snap *corpus.Snapshot, emb *mockEmbedder, enc *mockEncoder, cfg Config) *Service {
	return New(&staticSnapshots{snap: snap}, emb, enc, cfg, zap.NewNop())
}

func ratingOf(v float64) *float64 { return &v }
