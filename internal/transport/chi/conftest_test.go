package chi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/seoulbites/matzip/internal/domain"
	"github.com/seoulbites/matzip/internal/domain/search/request"
	healthuc "github.com/seoulbites/matzip/internal/usecase/health"
	raguc "github.com/seoulbites/matzip/internal/usecase/rag"
	recommenduc "github.com/seoulbites/matzip/internal/usecase/recommend"
)

type mockSearcher struct {
	fn      func(ctx context.Context, req request.Search) (*raguc.Output, error)
	lastReq request.Search
	calls   int
}

func (m *mockSearcher) Search(ctx context.Context, req request.Search) (*raguc.Output, error) {
	m.calls++
	m.lastReq = req
	return m.fn(ctx, req)
}

type mockRestaurants struct {
	fn    func(ctx context.Context, placeID string) (*domain.Restaurant, error)
	calls int
}

func (m *mockRestaurants) Restaurant(ctx context.Context, placeID string) (*domain.Restaurant, error) {
	m.calls++
	return m.fn(ctx, placeID)
}

type mockRecommender struct {
	fn        func(ctx context.Context, placeID string, limit int) ([]recommenduc.Match, error)
	lastLimit int
	calls     int
}

func (m *mockRecommender) FindSimilar(ctx context.Context, placeID string, limit int) ([]recommenduc.Match, error) {
	m.calls++
	m.lastLimit = limit
	return m.fn(ctx, placeID, limit)
}

type mockPrefs struct {
	getFn      func(ctx context.Context, userID string) (domain.StoredPreferences, error)
	upsertFn   func(ctx context.Context, userID string, prefs domain.StoredPreferences) error
	lastUpsert domain.StoredPreferences
	upserts    int
}

func (m *mockPrefs) Get(ctx context.Context, userID string) (domain.StoredPreferences, error) {
	return m.getFn(ctx, userID)
}

func (m *mockPrefs) Upsert(ctx context.Context, userID string, prefs domain.StoredPreferences) error {
	m.upserts++
	m.lastUpsert = prefs.Clone()
	return m.upsertFn(ctx, userID, prefs)
}

type mockHealth struct {
	fn func(ctx context.Context) healthuc.Report
}

func (m *mockHealth) Check(ctx context.Context) healthuc.Report {
	return m.fn(ctx)
}

// deps bundles happy-path mocks; tests override the fields they exercise.
type deps struct {
	searcher    *mockSearcher
	restaurants *mockRestaurants
	recommender *mockRecommender
	prefs       *mockPrefs
	health      *mockHealth
}

func newDeps(t *testing.T) *deps {
	t.Helper()

	pizza := testRestaurant(t, "p1", "Joe's Pizza", ratingOf(4.5))
	return &deps{
		searcher: &mockSearcher{fn: func(_ context.Context, _ request.Search) (*raguc.Output, error) {
			return &raguc.Output{
				Answer: "맛집 추천이에요!",
				Results: []raguc.Result{
					{Restaurant: pizza, Score: 2.5, Pattern: "바삭한 도우 칭찬", PatternSource: domain.PatternSourceKorean},
				},
			}, nil
		}},
		restaurants: &mockRestaurants{fn: func(_ context.Context, _ string) (*domain.Restaurant, error) {
			return pizza, nil
		}},
		recommender: &mockRecommender{fn: func(_ context.Context, _ string, _ int) ([]recommenduc.Match, error) {
			return []recommenduc.Match{
				{Restaurant: pizza, Reason: recommenduc.ReasonDistrict},
			}, nil
		}},
		prefs: &mockPrefs{
			getFn: func(_ context.Context, _ string) (domain.StoredPreferences, error) {
				return domain.StoredPreferences{domain.AspectFood: 4.5}, nil
			},
			upsertFn: func(_ context.Context, _ string, _ domain.StoredPreferences) error {
				return nil
			},
		},
		health: &mockHealth{fn: func(_ context.Context) healthuc.Report {
			return healthuc.Report{
				Status: healthuc.Healthy,
				Checks: map[string]healthuc.CheckResult{"store": healthuc.CheckOK},
			}
		}},
	}
}

// router mounts a server over the deps the way main does.
func (d *deps) router() http.Handler {
	s := NewServer(d.searcher, d.restaurants, d.recommender, d.prefs, d.health, zap.NewNop())
	r := chi.NewRouter()
	s.Register(r)
	return r
}

// do runs one request against the routed server and returns the recorder.
func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader = http.NoBody
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func testRestaurant(t *testing.T, id, name string, rating *float64) *domain.Restaurant {
	t.Helper()

	r, err := domain.NewRestaurant(domain.RestaurantFields{
		PlaceID:     id,
		Name:        name,
		Address:     "123 Mott St",
		Grid:        "MN17",
		District:    "Manhattan CD 5",
		PrimaryType: "pizza_restaurant",
		Rating:      rating,
		RatingCount: 812,
		Sentiments: map[domain.Aspect]float64{
			domain.AspectFood: 0.9,
		},
	})
	if err != nil {
		t.Fatalf("build restaurant %s: %v", id, err)
	}
	return &r
}

func ratingOf(v float64) *float64 { return &v }
