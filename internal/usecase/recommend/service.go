// Package recommend finds restaurants similar to a source restaurant via
// a cascading tier search. Tiers relax from same-area same-type matches
// with shared strengths down to a plain same-district fallback, and each
// match carries the reason tag of the tier that produced it.
package recommend

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/seoulbites/matzip/internal/corpus"
	"github.com/seoulbites/matzip/internal/domain"
)

// Reason tags shown to the user verbatim, one per cascade tier.
const (
	ReasonGridTypeAttrs     = "같은 지역(grid) + 같은 타입 + 유사한 강점"
	ReasonDistrictTypeAttrs = "같은 구역(district) + 같은 타입 + 유사한 강점"
	ReasonGridAttrs         = "같은 지역(grid) + 유사한 강점"
	ReasonDistrictAttrs     = "같은 구역(district) + 유사한 강점"
	ReasonDistrictType      = "같은 구역(district) + 같은 타입"
	ReasonDistrict          = "같은 구역(district)"
)

// SnapshotProvider hands out the immutable corpus snapshot.
type SnapshotProvider interface {
	Snapshot(ctx context.Context) (*corpus.Snapshot, error)
}

// Config bounds the cascade.
type Config struct {
	// MinScoreThreshold qualifies both the source's top attributes and
	// the candidates matched against them.
	MinScoreThreshold float64
	// MaxTopAttributes caps how many source strengths a candidate must
	// share.
	MaxTopAttributes int
	// DefaultLimit applies when the caller passes limit <= 0.
	DefaultLimit int
}

// DefaultConfig returns the production cascade parameters.
func DefaultConfig() Config {
	return Config{
		MinScoreThreshold: 0.5,
		MaxTopAttributes:  2,
		DefaultLimit:      5,
	}
}

// Match is one similar restaurant and the tier that produced it.
type Match struct {
	Restaurant *domain.Restaurant
	Reason     string
}

// Service runs the similarity cascade over the corpus snapshot.
type Service struct {
	snapshots SnapshotProvider
	cfg       Config
	logger    *zap.Logger
}

// New creates a similarity recommender.
func New(snapshots SnapshotProvider, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{snapshots: snapshots, cfg: cfg, logger: logger}
}

// tier is one cascade step: a verbatim reason tag plus the candidate
// predicate. Tiers are evaluated in order by a shared fill loop, so
// ordering and short-circuit behavior live in one place.
type tier struct {
	reason string
	match  func(cand *domain.Restaurant) bool
}

// FindSimilar returns up to limit restaurants similar to the source,
// best tier first, deduplicated, never including the source itself.
// A missing source wraps domain.ErrRestaurantNotFound.
func (s *Service) FindSimilar(ctx context.Context, placeID string, limit int) ([]Match, error) {
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}

	snap, err := s.snapshots.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("corpus snapshot: %w", err)
	}
	corp := snap.Corpus

	src, err := corp.Get(placeID)
	if err != nil {
		return nil, fmt.Errorf("source restaurant %s: %w", placeID, err)
	}

	attrs := src.TopAttributes(s.cfg.MinScoreThreshold, s.cfg.MaxTopAttributes)
	tiers := s.cascade(src, attrs)

	seen := map[string]struct{}{src.PlaceID(): {}}
	matches := make([]Match, 0, limit)

	for _, t := range tiers {
		if len(matches) >= limit {
			break
		}
		for _, cand := range tierCandidates(corp, t.match, seen, limit-len(matches)) {
			matches = append(matches, Match{Restaurant: cand, Reason: t.reason})
			seen[cand.PlaceID()] = struct{}{}
		}
	}

	s.logger.Debug("Similarity cascade finished",
		zap.String("source", placeID),
		zap.Int("top_attributes", len(attrs)),
		zap.Int("matches", len(matches)))

	return matches, nil
}

// cascade builds the ordered tier list for one source. A tier whose
// required source field (grid or primary type) is absent is left out
// entirely. Without qualifying attributes only the fallback tiers run.
func (s *Service) cascade(src *domain.Restaurant, attrs []domain.Aspect) []tier {
	sameGrid := func(c *domain.Restaurant) bool { return c.Grid() == src.Grid() }
	sameDistrict := func(c *domain.Restaurant) bool { return c.District() == src.District() }
	sameType := func(c *domain.Restaurant) bool { return c.PrimaryType() == src.PrimaryType() }
	attrsOK := func(c *domain.Restaurant) bool {
		for _, a := range attrs {
			if v, ok := c.Sentiment(a); !ok || v < s.cfg.MinScoreThreshold {
				return false
			}
		}
		return true
	}

	hasGrid := src.Grid() != ""
	hasType := src.PrimaryType() != ""

	var tiers []tier
	if len(attrs) > 0 {
		if hasGrid && hasType {
			tiers = append(tiers, tier{ReasonGridTypeAttrs, all(sameGrid, sameType, attrsOK)})
		}
		if hasType {
			tiers = append(tiers, tier{ReasonDistrictTypeAttrs, all(sameDistrict, sameType, attrsOK)})
		}
		if hasGrid {
			tiers = append(tiers, tier{ReasonGridAttrs, all(sameGrid, attrsOK)})
		}
		tiers = append(tiers, tier{ReasonDistrictAttrs, all(sameDistrict, attrsOK)})
	}
	if hasType {
		tiers = append(tiers, tier{ReasonDistrictType, all(sameDistrict, sameType)})
	}
	tiers = append(tiers, tier{ReasonDistrict, sameDistrict})

	return tiers
}

func all(preds ...func(*domain.Restaurant) bool) func(*domain.Restaurant) bool {
	return func(c *domain.Restaurant) bool {
		for _, p := range preds {
			if !p(c) {
				return false
			}
		}
		return true
	}
}

// tierCandidates scans the corpus for unseen rows matching one tier,
// ordered by rating descending with unrated rows last, truncated to max.
func tierCandidates(corp *corpus.Corpus, match func(*domain.Restaurant) bool, seen map[string]struct{}, max int) []*domain.Restaurant {
	var found []*domain.Restaurant
	for i := 0; i < corp.Len(); i++ {
		cand := corp.At(i)
		if _, dup := seen[cand.PlaceID()]; dup {
			continue
		}
		if match(cand) {
			found = append(found, cand)
		}
	}

	sort.SliceStable(found, func(i, j int) bool {
		ri, iRated := found[i].Rating()
		rj, jRated := found[j].Rating()
		if iRated != jRated {
			return iRated
		}
		return ri > rj
	})

	if len(found) > max {
		found = found[:max]
	}
	return found
}
