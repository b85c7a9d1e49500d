// Package filter defines the hard/soft constraint set applied to one query.
package filter

import (
	"fmt"

	"github.com/seoulbites/matzip/internal/domain"
)

// Filters is a validated, immutable constraint set. Borough and minimum
// rating filter hard (with the empty-pool fallback applied downstream);
// desired types stay a soft preference and never exclude anything.
type Filters struct {
	borough      domain.Borough
	desiredTypes []string
	minRating    float64
	hasMinRating bool
}

// New validates and normalizes filter inputs. Empty borough means no
// borough constraint; minRating <= 0 means no rating constraint; desired
// types are canonicalized, unknown names silently dropped.
func New(borough string, desiredTypes []string, minRating float64) (Filters, error) {
	f := Filters{
		desiredTypes: domain.NormalizeTypes(desiredTypes),
	}
	if borough != "" {
		b, err := domain.ParseBorough(borough)
		if err != nil {
			return Filters{}, fmt.Errorf("borough filter: %w", err)
		}
		f.borough = b
	}
	if minRating > 0 {
		if minRating > 5 {
			return Filters{}, fmt.Errorf("min rating must be in (0,5], got %.2f: %w",
				minRating, domain.ErrInvalidArgument)
		}
		f.minRating = minRating
		f.hasMinRating = true
	}
	return f, nil
}

// Borough returns the borough constraint and whether one is set.
func (f *Filters) Borough() (domain.Borough, bool) { return f.borough, f.borough != "" }

// DesiredTypes returns the canonicalized soft type preference.
func (f *Filters) DesiredTypes() []string { return f.desiredTypes }

// MinRating returns the minimum rating and whether one is set.
func (f *Filters) MinRating() (float64, bool) { return f.minRating, f.hasMinRating }

// HasHardFilters reports whether any hard constraint (borough or rating)
// is present. Desired types do not count: they only feed the type-match
// bonus.
func (f *Filters) HasHardFilters() bool { return f.borough != "" || f.hasMinRating }

// Matches applies the hard constraints to one restaurant.
// A missing rating never disqualifies: unrated is "unknown", not "bad".
func (f *Filters) Matches(r *domain.Restaurant) bool {
	if f.borough != "" && r.Borough() != f.borough {
		return false
	}
	if f.hasMinRating {
		if rating, ok := r.Rating(); ok && rating < f.minRating {
			return false
		}
	}
	return true
}
