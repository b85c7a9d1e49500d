package chi

import (
	"context"

	"github.com/seoulbites/matzip/internal/domain"
	"github.com/seoulbites/matzip/internal/domain/search/request"
	healthuc "github.com/seoulbites/matzip/internal/usecase/health"
	raguc "github.com/seoulbites/matzip/internal/usecase/rag"
	recommenduc "github.com/seoulbites/matzip/internal/usecase/recommend"
)

// ChatSearcher runs the conversational search pipeline.
type ChatSearcher interface {
	Search(ctx context.Context, req request.Search) (*raguc.Output, error)
}

// RestaurantFinder looks corpus documents up by place id.
type RestaurantFinder interface {
	Restaurant(ctx context.Context, placeID string) (*domain.Restaurant, error)
}

// SimilarFinder runs the similarity cascade for one source restaurant.
type SimilarFinder interface {
	FindSimilar(ctx context.Context, placeID string, limit int) ([]recommenduc.Match, error)
}

// PreferenceStore reads and updates stored per-user aspect preferences.
type PreferenceStore interface {
	Get(ctx context.Context, userID string) (domain.StoredPreferences, error)
	Upsert(ctx context.Context, userID string, prefs domain.StoredPreferences) error
}

// HealthChecker aggregates dependency probes into one report.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}
