package request

import (
	"fmt"

	"github.com/seoulbites/matzip/internal/domain"
)

// Similar parameter limits.
const (
	DefaultSimilarLimit = 5
	MaxSimilarLimit     = 20
)

// Similar is a validated "find similar restaurants" query.
type Similar struct {
	placeID string
	limit   int
}

// NewSimilar validates and normalizes similar request parameters.
// Default limit is 5, capped at 20.
func NewSimilar(placeID string, limit int) (Similar, error) {
	if placeID == "" {
		return Similar{}, fmt.Errorf("place id is required: %w", domain.ErrInvalidArgument)
	}
	if limit <= 0 {
		limit = DefaultSimilarLimit
	}
	if limit > MaxSimilarLimit {
		limit = MaxSimilarLimit
	}
	return Similar{placeID: placeID, limit: limit}, nil
}

// PlaceID returns the source restaurant identifier.
func (r *Similar) PlaceID() string { return r.placeID }

// Limit returns the maximum matches to return.
func (r *Similar) Limit() int { return r.limit }
