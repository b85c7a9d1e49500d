package domain

import (
	"fmt"
	"sort"
)

// RestaurantFields carries the raw column values of one corpus row.
// Optional columns keep their "missing" state: Rating nil means unrated,
// an aspect absent from Sentiments/ZScores means never scored.
type RestaurantFields struct {
	PlaceID     string
	Name        string
	BM25Text    string
	Types       []string // normalized type tags
	PrimaryType string
	Borough     Borough
	Grid        string // fine-grained area code, e.g. MN17
	District    string // coarse district, e.g. Manhattan CD 5
	Address     string
	Phone       string
	Rating      *float64
	RatingCount int
	Confidence  float64
	Sentiments  map[Aspect]float64
	ZScores     map[Aspect]float64
	Summary     string
}

// Restaurant is one searchable corpus document (immutable value object).
type Restaurant struct {
	placeID     string
	name        string
	bm25Text    string
	types       []string
	primaryType string
	borough     Borough
	grid        string
	district    string
	address     string
	phone       string
	rating      float64
	rated       bool
	ratingCount int
	confidence  float64
	sentiments  map[Aspect]float64
	zScores     map[Aspect]float64
	summary     string
}

// NewRestaurant validates and creates a Restaurant.
func NewRestaurant(f RestaurantFields) (Restaurant, error) {
	if f.PlaceID == "" {
		return Restaurant{}, fmt.Errorf("place id is required: %w", ErrInvalidArgument)
	}
	if f.Name == "" {
		return Restaurant{}, fmt.Errorf("restaurant name is required: %w", ErrInvalidArgument)
	}
	if f.Rating != nil && (*f.Rating < 0 || *f.Rating > 5) {
		return Restaurant{}, fmt.Errorf("rating must be in [0,5], got %.2f: %w", *f.Rating, ErrInvalidArgument)
	}
	for a := range f.Sentiments {
		if !a.IsValid() {
			return Restaurant{}, fmt.Errorf("unknown sentiment aspect %q: %w", a, ErrInvalidArgument)
		}
	}
	return ReconstructRestaurant(f), nil
}

// ReconstructRestaurant creates a Restaurant without validation
// (snapshot hydration).
func ReconstructRestaurant(f RestaurantFields) Restaurant {
	r := Restaurant{
		placeID:     f.PlaceID,
		name:        f.Name,
		bm25Text:    f.BM25Text,
		types:       append([]string(nil), f.Types...),
		primaryType: f.PrimaryType,
		borough:     f.Borough,
		grid:        f.Grid,
		district:    f.District,
		address:     f.Address,
		phone:       f.Phone,
		ratingCount: f.RatingCount,
		confidence:  f.Confidence,
		sentiments:  cloneAspectMap(f.Sentiments),
		zScores:     cloneAspectMap(f.ZScores),
		summary:     f.Summary,
	}
	if f.Rating != nil {
		r.rating = *f.Rating
		r.rated = true
	}
	return r
}

// PlaceID returns the document identifier.
func (r *Restaurant) PlaceID() string { return r.placeID }

// Name returns the display name.
func (r *Restaurant) Name() string { return r.name }

// BM25Text returns the raw text indexed for lexical matching and paired
// with the query in cross-encoder scoring.
func (r *Restaurant) BM25Text() string { return r.bm25Text }

// Types returns the normalized type tags.
func (r *Restaurant) Types() []string { return r.types }

// PrimaryType returns the single dominant type, "" when unknown.
func (r *Restaurant) PrimaryType() string { return r.primaryType }

// Borough returns the borough, "" when unknown.
func (r *Restaurant) Borough() Borough { return r.borough }

// Grid returns the fine-grained area code, "" when unknown.
func (r *Restaurant) Grid() string { return r.grid }

// District returns the coarse district.
func (r *Restaurant) District() string { return r.district }

// Address returns the street address.
func (r *Restaurant) Address() string { return r.address }

// Phone returns the phone number, "" when unknown.
func (r *Restaurant) Phone() string { return r.phone }

// Rating returns the average rating and whether one exists.
// Unrated is not the same as rated 0.0.
func (r *Restaurant) Rating() (float64, bool) { return r.rating, r.rated }

// RatingCount returns the total review count.
func (r *Restaurant) RatingCount() int { return r.ratingCount }

// Confidence returns the per-document confidence score S_conf.
func (r *Restaurant) Confidence() float64 { return r.confidence }

// Sentiment returns the average sentiment for one aspect and whether the
// aspect was ever scored.
func (r *Restaurant) Sentiment(a Aspect) (float64, bool) {
	v, ok := r.sentiments[a]
	return v, ok
}

// Sentiments returns all scored per-aspect sentiment averages.
func (r *Restaurant) Sentiments() map[Aspect]float64 { return cloneAspectMap(r.sentiments) }

// ZScore returns the corpus-wide z-score of one aspect's sentiment and
// whether it exists.
func (r *Restaurant) ZScore(a Aspect) (float64, bool) {
	v, ok := r.zScores[a]
	return v, ok
}

// ZScores returns all corpus-wide z-scores by aspect.
func (r *Restaurant) ZScores() map[Aspect]float64 { return cloneAspectMap(r.zScores) }

// Summary returns the review summary text containing reviewer pattern
// sections.
func (r *Restaurant) Summary() string { return r.summary }

// HasAnyType reports whether any of the restaurant's type tags appears in
// desired. Empty desired always reports false.
func (r *Restaurant) HasAnyType(desired []string) bool {
	if len(desired) == 0 || len(r.types) == 0 {
		return false
	}
	have := make(map[string]struct{}, len(r.types))
	for _, t := range r.types {
		have[t] = struct{}{}
	}
	for _, t := range desired {
		if _, ok := have[t]; ok {
			return true
		}
	}
	return false
}

// TopAttributes returns the aspects whose sentiment average is at least
// minScore, strongest first, capped to maxCount. Unscored aspects never
// qualify.
func (r *Restaurant) TopAttributes(minScore float64, maxCount int) []Aspect {
	var attrs []Aspect
	for _, a := range aspectOrder {
		if v, ok := r.sentiments[a]; ok && v >= minScore {
			attrs = append(attrs, a)
		}
	}
	sort.SliceStable(attrs, func(i, j int) bool {
		return r.sentiments[attrs[i]] > r.sentiments[attrs[j]]
	})
	if maxCount >= 0 && len(attrs) > maxCount {
		attrs = attrs[:maxCount]
	}
	return attrs
}

func cloneAspectMap(m map[Aspect]float64) map[Aspect]float64 {
	if m == nil {
		return nil
	}
	c := make(map[Aspect]float64, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
