// Package retrieval runs the hybrid retrieve-filter-rerank pipeline over
// the corpus snapshot: BM25 and embedding scores are fused over the full
// corpus, the top-K sets union into a candidate pool, hard filters trim
// it with a safe fallback, and a cross-encoder reranks what remains.
package retrieval

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/seoulbites/matzip/internal/corpus"
	"github.com/seoulbites/matzip/internal/domain"
	"github.com/seoulbites/matzip/internal/domain/search/filter"
	"github.com/seoulbites/matzip/internal/index/bm25"
	"github.com/seoulbites/matzip/internal/metrics"
)

// Weights are the score-fusion coefficients.
type Weights struct {
	BM25       float64 // lexical share of the hybrid score
	E5         float64 // semantic share of the hybrid score
	Hybrid     float64
	Confidence float64
	Type       float64
	CrossEnc   float64
}

// Config bounds the retrieval pipeline.
type Config struct {
	Weights  Weights
	TopKBM25 int
	TopKE5   int
	TopN     int
}

// DefaultConfig returns the production retrieval parameters. The final
// score leans on the cross-encoder, the most precise of the four signals.
func DefaultConfig() Config {
	return Config{
		Weights: Weights{
			BM25:       0.1,
			E5:         0.9,
			Hybrid:     1.0,
			Confidence: 0.3,
			Type:       0.5,
			CrossEnc:   2.0,
		},
		TopKBM25: 60,
		TopKE5:   60,
		TopN:     20,
	}
}

// Candidate is one scored search result. Per-stage scores stay visible so
// callers can explain a ranking.
type Candidate struct {
	Restaurant *domain.Restaurant
	Hybrid     float64
	TypeMatch  float64
	CrossEnc   float64
	Final      float64
}

// Service ranks the corpus for one query at a time. All state it touches
// is an immutable snapshot, so concurrent Rank calls need no locking.
type Service struct {
	snapshots SnapshotProvider
	embedder  Embedder
	encoder   CrossEncoder
	cfg       Config
	logger    *zap.Logger
}

// New creates a retrieval service.
func New(snapshots SnapshotProvider, embedder Embedder, encoder CrossEncoder, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		snapshots: snapshots,
		embedder:  embedder,
		encoder:   encoder,
		cfg:       cfg,
		logger:    logger,
	}
}

// Rank retrieves, filters and reranks the corpus for one query.
// An empty result is a valid terminal state, not an error.
func (s *Service) Rank(ctx context.Context, intent domain.Intent, weights domain.AspectWeights) ([]Candidate, error) {
	flt, err := filter.New(intent.BoroughEN, intent.DesiredTypes, intent.MinRating)
	if err != nil {
		return nil, fmt.Errorf("query filters: %w", err)
	}

	snap, err := s.snapshots.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("corpus snapshot: %w", err)
	}
	corp := snap.Corpus
	if corp.Len() == 0 {
		return nil, nil
	}

	retrieveStart := time.Now()

	// Lexical scoring and query embedding touch disjoint inputs.
	var lexical, semantic []float64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lexical = snap.Lexical.Scores(bm25.Tokenize(intent.QueryEN))
		return nil
	})
	g.Go(func() error {
		res, err := s.embedder.Embed(gctx, intent.QueryEN)
		if err != nil {
			return fmt.Errorf("embed query: %w", err)
		}
		semantic, err = corp.SemanticScores(res.Embedding)
		if err != nil {
			return fmt.Errorf("semantic scores: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// The hybrid score is normalized over the full corpus so the
	// denominator does not depend on pool composition.
	normLex := minMaxNormalize(lexical)
	normSem := minMaxNormalize(semantic)
	hybrid := make([]float64, corp.Len())
	for i := range hybrid {
		hybrid[i] = s.cfg.Weights.BM25*normLex[i] + s.cfg.Weights.E5*normSem[i]
	}

	pool := unionPool(
		topKIndices(lexical, s.cfg.TopKBM25),
		topKIndices(semantic, s.cfg.TopKE5),
	)
	metrics.SearchPoolSize.Observe(float64(len(pool)))

	filtered := applyFilters(corp, pool, &flt)
	metrics.SearchStageDuration.WithLabelValues("retrieve").Observe(time.Since(retrieveStart).Seconds())

	ce, err := s.crossEncoderScores(ctx, corp, filtered, intent.QueryEN, weights)
	if err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, len(filtered))
	for i, idx := range filtered {
		doc := corp.At(idx)

		typeScore := 0.0
		if doc.HasAnyType(flt.DesiredTypes()) {
			typeScore = 1.0
		}

		final := s.cfg.Weights.Hybrid*hybrid[idx] +
			s.cfg.Weights.Confidence*doc.Confidence() +
			s.cfg.Weights.Type*typeScore +
			s.cfg.Weights.CrossEnc*ce[i]

		candidates = append(candidates, Candidate{
			Restaurant: doc,
			Hybrid:     hybrid[idx],
			TypeMatch:  typeScore,
			CrossEnc:   ce[i],
			Final:      final,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Final > candidates[j].Final
	})
	if len(candidates) > s.cfg.TopN {
		candidates = candidates[:s.cfg.TopN]
	}

	s.logger.Debug("Ranked candidate pool",
		zap.Int("pool", len(filtered)),
		zap.Int("results", len(candidates)))

	return candidates, nil
}

// applyFilters keeps pool entries passing the hard constraints. If
// filtering empties the pool the constraints are discarded and the whole
// pool is kept: a hard filter must never zero out a search that has a
// softer answer.
func applyFilters(corp *corpus.Corpus, pool []int, flt *filter.Filters) []int {
	if !flt.HasHardFilters() {
		return pool
	}

	filtered := make([]int, 0, len(pool))
	for _, idx := range pool {
		if flt.Matches(corp.At(idx)) {
			filtered = append(filtered, idx)
		}
	}

	if len(filtered) == 0 {
		return pool
	}
	return filtered
}

// crossEncoderScores scores the pool with the preference-conditioned
// query and min-max normalizes the result over the pool. An unavailable
// encoder degrades to zero contribution instead of failing the search.
func (s *Service) crossEncoderScores(ctx context.Context, corp *corpus.Corpus, pool []int, queryEN string, weights domain.AspectWeights) ([]float64, error) {
	ceQuery := queryEN
	if clause := weights.PreferenceClause(); clause != "" {
		ceQuery = queryEN + " [PREF] " + clause
	}

	texts := make([]string, len(pool))
	for i, idx := range pool {
		texts[i] = corp.At(idx).BM25Text()
	}

	start := time.Now()
	scores, err := s.encoder.Score(ctx, ceQuery, texts)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.logger.Warn("Cross-encoder unavailable, ranking on hybrid signals only", zap.Error(err))
		return make([]float64, len(pool)), nil
	}
	metrics.SearchStageDuration.WithLabelValues("rerank").Observe(time.Since(start).Seconds())

	return minMaxNormalize(scores), nil
}
