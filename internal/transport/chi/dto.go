package chi

import (
	"github.com/seoulbites/matzip/internal/domain"
	"github.com/seoulbites/matzip/internal/tags"
	raguc "github.com/seoulbites/matzip/internal/usecase/rag"
	recommenduc "github.com/seoulbites/matzip/internal/usecase/recommend"
)

// errorCode is the machine-readable error discriminator in error bodies.
type errorCode string

const (
	codeBadRequest             errorCode = "bad_request"
	codeValidationFailed       errorCode = "validation_failed"
	codeUnauthorized           errorCode = "unauthorized"
	codeRestaurantNotFound     errorCode = "restaurant_not_found"
	codeUserNotFound           errorCode = "user_not_found"
	codeEmbeddingProviderError errorCode = "embedding_provider_error"
	codeInternalError          errorCode = "internal_error"
)

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

// chatSearchRequest is the POST /v1/chat/search body. user_preferences
// absent means "use the stored profile"; present (even empty) it replaces
// the profile for this request. top_n and translate_top_n are optional.
type chatSearchRequest struct {
	UserID          string             `json:"user_id"`
	Query           string             `json:"query"`
	UserPreferences map[string]float64 `json:"user_preferences"`
	TopN            int                `json:"top_n"`
	TranslateTopN   int                `json:"translate_top_n"`
}

type chatSearchResponse struct {
	Answer      string           `json:"answer"`
	Restaurants []restaurantItem `json:"restaurants"`
}

type restaurantItem struct {
	PlaceID       string   `json:"place_id"`
	Name          string   `json:"name"`
	Rating        *float64 `json:"rating,omitempty"`
	Score         float64  `json:"score"`
	GeneratedTags []string `json:"generated_tags"`
	KoreanPattern string   `json:"korean_pattern,omitempty"`
	PatternSource string   `json:"pattern_source,omitempty"`
}

type restaurantDetail struct {
	PlaceID          string   `json:"place_id"`
	Name             string   `json:"name"`
	Address          string   `json:"address,omitempty"`
	Grid             string   `json:"grid,omitempty"`
	District         string   `json:"district,omitempty"`
	Borough          string   `json:"borough,omitempty"`
	PrimaryType      string   `json:"primary_type,omitempty"`
	Rating           *float64 `json:"rating,omitempty"`
	UserRatingsTotal int      `json:"user_ratings_total,omitempty"`
	GeneratedTags    []string `json:"generated_tags"`
}

type recommendResponse struct {
	PlaceID         string          `json:"place_id"`
	Recommendations []recommendItem `json:"recommendations"`
}

type recommendItem struct {
	PlaceID       string   `json:"place_id"`
	Name          string   `json:"name"`
	Rating        *float64 `json:"rating,omitempty"`
	District      string   `json:"district,omitempty"`
	PrimaryType   string   `json:"primary_type,omitempty"`
	GeneratedTags []string `json:"generated_tags"`
	MatchReason   string   `json:"match_reason"`
}

type preferencesResponse struct {
	UserID      string             `json:"user_id"`
	Preferences map[string]float64 `json:"preferences"`
}

type rootResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Version string `json:"version"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func searchOutputToWire(out *raguc.Output) chatSearchResponse {
	items := make([]restaurantItem, len(out.Results))
	for i, res := range out.Results {
		r := res.Restaurant
		items[i] = restaurantItem{
			PlaceID:       r.PlaceID(),
			Name:          r.Name(),
			Rating:        ratingPtr(r),
			Score:         res.Score,
			GeneratedTags: tagList(r),
			KoreanPattern: res.Pattern,
			PatternSource: res.PatternSource,
		}
	}
	return chatSearchResponse{Answer: out.Answer, Restaurants: items}
}

func restaurantToWire(r *domain.Restaurant) restaurantDetail {
	return restaurantDetail{
		PlaceID:          r.PlaceID(),
		Name:             r.Name(),
		Address:          r.Address(),
		Grid:             r.Grid(),
		District:         r.District(),
		Borough:          r.Borough().String(),
		PrimaryType:      r.PrimaryType(),
		Rating:           ratingPtr(r),
		UserRatingsTotal: r.RatingCount(),
		GeneratedTags:    tagList(r),
	}
}

func matchesToWire(placeID string, matches []recommenduc.Match) recommendResponse {
	items := make([]recommendItem, len(matches))
	for i, m := range matches {
		items[i] = recommendItem{
			PlaceID:       m.Restaurant.PlaceID(),
			Name:          m.Restaurant.Name(),
			Rating:        ratingPtr(m.Restaurant),
			District:      m.Restaurant.District(),
			PrimaryType:   m.Restaurant.PrimaryType(),
			GeneratedTags: tagList(m.Restaurant),
			MatchReason:   m.Reason,
		}
	}
	return recommendResponse{PlaceID: placeID, Recommendations: items}
}

func preferencesToWire(userID string, prefs domain.StoredPreferences) preferencesResponse {
	out := make(map[string]float64, len(prefs))
	for a, v := range prefs {
		out[string(a)] = v
	}
	return preferencesResponse{UserID: userID, Preferences: out}
}

// storedPreferencesFromWire keeps the absent/empty distinction: a nil map
// stays nil (use the stored profile). Keys are validated downstream.
func storedPreferencesFromWire(m map[string]float64) domain.StoredPreferences {
	if m == nil {
		return nil
	}
	prefs := make(domain.StoredPreferences, len(m))
	for k, v := range m {
		prefs[domain.Aspect(k)] = v
	}
	return prefs
}

func ratingPtr(r *domain.Restaurant) *float64 {
	if v, ok := r.Rating(); ok {
		return &v
	}
	return nil
}

// tagList never returns nil so the field marshals as [] instead of null.
func tagList(r *domain.Restaurant) []string {
	list := tags.FromRestaurant(r, 0)
	if list == nil {
		return []string{}
	}
	return list
}
