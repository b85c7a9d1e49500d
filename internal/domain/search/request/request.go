// Package request holds validated request objects for the serving layer.
package request

import (
	"fmt"

	"github.com/seoulbites/matzip/internal/domain"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength       = 512
	DefaultTopN          = 5
	MaxTopN              = 20
	DefaultTranslateTopN = 2
)

// Search is a validated chat search query.
type Search struct {
	userID        string
	query         string
	preferences   domain.StoredPreferences
	topN          int
	translateTopN int
}

// NewSearch validates and normalizes chat search parameters.
// Defaults: topN=5, translateTopN=2. preferences nil means "use the
// stored profile"; a non-nil map (even empty) overrides the store.
func NewSearch(
	userID, query string,
	preferences domain.StoredPreferences,
	topN, translateTopN int,
) (Search, error) {
	if query == "" {
		return Search{}, fmt.Errorf("query is required: %w", domain.ErrInvalidArgument)
	}
	if len(query) > MaxQueryLength {
		return Search{}, fmt.Errorf("query too long (max %d chars): %w", MaxQueryLength, domain.ErrInvalidArgument)
	}
	if topN <= 0 {
		topN = DefaultTopN
	}
	if topN > MaxTopN {
		topN = MaxTopN
	}
	if translateTopN <= 0 {
		translateTopN = DefaultTranslateTopN
	}
	if translateTopN > topN {
		translateTopN = topN
	}
	if err := preferences.Validate(); err != nil {
		return Search{}, fmt.Errorf("preferences: %w", err)
	}

	return Search{
		userID:        userID,
		query:         query,
		preferences:   preferences.Clone(),
		topN:          topN,
		translateTopN: translateTopN,
	}, nil
}

// UserID returns the requesting user, "" for anonymous searches.
func (r *Search) UserID() string { return r.userID }

// Query returns the raw query text (Korean or English).
func (r *Search) Query() string { return r.query }

// Preferences returns the inline preference override, nil when the stored
// profile should be used.
func (r *Search) Preferences() domain.StoredPreferences { return r.preferences }

// TopN returns the number of results to return.
func (r *Search) TopN() int { return r.topN }

// TranslateTopN returns how many leading results get their reviewer
// pattern translated.
func (r *Search) TranslateTopN() int { return r.translateTopN }
