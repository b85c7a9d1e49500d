package domain

import (
	"fmt"
	"strings"
)

// Borough is one of the five NYC boroughs used for exact-match filtering.
type Borough string

// Borough constants match the values in the corpus snapshot verbatim.
const (
	BoroughManhattan    Borough = "Manhattan"
	BoroughBrooklyn     Borough = "Brooklyn"
	BoroughQueens       Borough = "Queens"
	BoroughBronx        Borough = "Bronx"
	BoroughStatenIsland Borough = "Staten Island"
)

// IsValid checks if the borough is one of the five supported values.
func (b Borough) IsValid() bool {
	switch b {
	case BoroughManhattan, BoroughBrooklyn, BoroughQueens, BoroughBronx, BoroughStatenIsland:
		return true
	}
	return false
}

// String returns the canonical borough name.
func (b Borough) String() string { return string(b) }

// ParseBorough converts free-form input to a canonical Borough
// (case-insensitive, surrounding whitespace ignored).
func ParseBorough(s string) (Borough, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for _, b := range []Borough{
		BoroughManhattan, BoroughBrooklyn, BoroughQueens, BoroughBronx, BoroughStatenIsland,
	} {
		if strings.ToLower(string(b)) == needle {
			return b, nil
		}
	}
	return "", fmt.Errorf("unknown borough %q: %w", s, ErrInvalidArgument)
}
