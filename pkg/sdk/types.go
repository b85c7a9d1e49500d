package matzip

// Pattern source values in RankedRestaurant.PatternSource.
const (
	PatternSourceKorean    = "korean"
	PatternSourceNonKorean = "non_korean"
)

// ChatSearchRequest is one conversational search query.
//
// UserPreferences overrides the stored profile for this request only.
// Leave it nil to use the stored profile; pass an empty non-nil map to
// ignore the profile. Values are on the 0..5 scale. TopN and
// TranslateTopN fall back to server defaults when zero.
type ChatSearchRequest struct {
	UserID          string             `json:"user_id,omitempty"`
	Query           string             `json:"query"`
	UserPreferences map[string]float64 `json:"user_preferences"`
	TopN            int                `json:"top_n,omitempty"`
	TranslateTopN   int                `json:"translate_top_n,omitempty"`
}

// ChatSearchResponse is the narrated answer plus the ranked results.
type ChatSearchResponse struct {
	Answer      string             `json:"answer"`
	Restaurants []RankedRestaurant `json:"restaurants"`
}

// RankedRestaurant is one search hit. Rating is nil for unrated places.
// KoreanPattern carries the reviewer pattern in Korean when one exists;
// PatternSource says which reviewer population it came from.
type RankedRestaurant struct {
	PlaceID       string   `json:"place_id"`
	Name          string   `json:"name"`
	Rating        *float64 `json:"rating,omitempty"`
	Score         float64  `json:"score"`
	GeneratedTags []string `json:"generated_tags"`
	KoreanPattern string   `json:"korean_pattern,omitempty"`
	PatternSource string   `json:"pattern_source,omitempty"`
}

// Restaurant is the full detail record of one place.
type Restaurant struct {
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

// RecommendResponse lists places similar to the source restaurant.
type RecommendResponse struct {
	PlaceID         string           `json:"place_id"`
	Recommendations []Recommendation `json:"recommendations"`
}

// Recommendation is one similar place with the verbatim Korean reason
// tag of the similarity tier that produced it.
type Recommendation struct {
	PlaceID       string   `json:"place_id"`
	Name          string   `json:"name"`
	Rating        *float64 `json:"rating,omitempty"`
	District      string   `json:"district,omitempty"`
	PrimaryType   string   `json:"primary_type,omitempty"`
	GeneratedTags []string `json:"generated_tags"`
	MatchReason   string   `json:"match_reason"`
}

// Preferences is one user's stored aspect profile on the 0..5 scale.
type Preferences struct {
	UserID      string             `json:"user_id"`
	Preferences map[string]float64 `json:"preferences"`
}

// Health is the aggregated server health report.
// Status is "ok", "degraded" or "error"; Checks maps component names
// to "ok" or "error".
type Health struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
