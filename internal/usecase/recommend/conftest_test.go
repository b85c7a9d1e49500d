package recommend

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/seoulbites/matzip/internal/corpus"
	"github.com/seoulbites/matzip/internal/domain"
	"github.com/seoulbites/matzip/internal/index/bm25"
)

type staticSnapshots struct {
	snap *corpus.Snapshot
	err  error
}

func (p *staticSnapshots) Snapshot(_ context.Context) (*corpus.Snapshot, error) {
	return p.snap, p.err
}

// fixture describes one test restaurant.
type fixture struct {
	id       string
	grid     string
	district string
	ptype    string
	rating   *float64
	sent     map[domain.Aspect]float64
}

func newService(t *testing.T, docs []fixture) *Service {
	t.Helper()

	restaurants := make([]domain.Restaurant, 0, len(docs))
	var data []float32
	for _, d := range docs {
		r, err := domain.NewRestaurant(domain.RestaurantFields{
			PlaceID:     d.id,
			Name:        "Restaurant " + d.id,
			Grid:        d.grid,
			District:    d.district,
			PrimaryType: d.ptype,
			Rating:      d.rating,
			Sentiments:  d.sent,
		})
		if err != nil {
			t.Fatalf("build restaurant %s: %v", d.id, err)
		}
		restaurants = append(restaurants, r)
		data = append(data, 1) // 1-dim stubs, the cascade never reads embeddings
	}

	matrix, err := corpus.NewMatrix(data, len(docs), 1)
	if err != nil {
		t.Fatalf("build matrix: %v", err)
	}
	corp, err := corpus.NewCorpus(restaurants, matrix)
	if err != nil {
		t.Fatalf("build corpus: %v", err)
	}

	snap := &corpus.Snapshot{Corpus: corp, Lexical: bm25.NewIndex(corp.Texts())}
	return New(&staticSnapshots{snap: snap}, DefaultConfig(), zap.NewNop())
}

func ratingOf(v float64) *float64 { return &v }

func sentiments(food, service float64) map[domain.Aspect]float64 {
	return map[domain.Aspect]float64{
		domain.AspectFood:    food,
		domain.AspectService: service,
	}
}
