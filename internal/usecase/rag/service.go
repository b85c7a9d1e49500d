// Package rag orchestrates one conversational search request end to end:
// intent extraction, preference merging, retrieval with reranking,
// reviewer-pattern translation and answer narration. Collaborator outages
// short of retrieval itself degrade the response instead of failing it.
package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/seoulbites/matzip/internal/domain"
	"github.com/seoulbites/matzip/internal/domain/search/request"
	"github.com/seoulbites/matzip/internal/metrics"
	"github.com/seoulbites/matzip/internal/usecase/retrieval"
)

// Config tunes the display stage of the pipeline.
type Config struct {
	// NarrateTopN caps how many result names the narrator sees.
	NarrateTopN int
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		NarrateTopN: 5,
	}
}

// Result is one ranked hit prepared for display.
type Result struct {
	Restaurant    *domain.Restaurant
	Score         float64
	Pattern       string // reviewer pattern text, Korean when translation succeeded
	PatternSource string // domain.PatternSourceKorean / PatternSourceNonKorean / ""
}

// Output is the response to one search request.
type Output struct {
	Answer  string
	Results []Result
}

// Service wires the conversational search pipeline.
type Service struct {
	analyzer   IntentAnalyzer
	prefs      PreferenceReader
	ranker     Ranker
	translator Translator
	narrator   Narrator
	cfg        Config
	logger     *zap.Logger
}

// New creates the orchestrator. Non-positive config fields fall back to
// the defaults.
func New(
	analyzer IntentAnalyzer,
	prefs PreferenceReader,
	ranker Ranker,
	translator Translator,
	narrator Narrator,
	cfg Config,
	logger *zap.Logger,
) *Service {
	if cfg.NarrateTopN <= 0 {
		cfg.NarrateTopN = DefaultConfig().NarrateTopN
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		analyzer:   analyzer,
		prefs:      prefs,
		ranker:     ranker,
		translator: translator,
		narrator:   narrator,
		cfg:        cfg,
		logger:     logger,
	}
}

// Search answers one query end to end. Inline preferences on the request,
// when present, replace the stored baseline for this request only. The
// error return is reserved for retrieval failures; analyzer, translator
// and narrator outages degrade the answer instead.
func (s *Service) Search(ctx context.Context, req request.Search) (*Output, error) {
	intent, intentOK := s.extractIntent(ctx, req.Query())
	degraded := !intentOK

	stored := s.storedPreferences(ctx, req.UserID(), req.Preferences())

	weights := domain.MergeAspectWeights(stored, intent.Hints)
	if len(weights) == 0 {
		// Substituting a default for "no opinion at all" is this layer's
		// policy, never the merge's.
		weights = domain.BalancedDefaultWeights()
	}

	candidates, err := s.ranker.Rank(ctx, intent, weights)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("rank candidates: %w", err)
	}

	if len(candidates) == 0 {
		metrics.SearchRequestsTotal.WithLabelValues(statusLabel(degraded)).Inc()
		s.logger.Info("Search matched nothing", zap.String("query", req.Query()))
		return &Output{Answer: noMatchAnswer}, nil
	}

	results := buildResults(candidates, req.TopN())
	s.translatePatterns(ctx, results, req.TranslateTopN())

	answer, narrateOK := s.narrate(ctx, intent.QueryEN, results, weights)
	degraded = degraded || !narrateOK

	metrics.SearchRequestsTotal.WithLabelValues(statusLabel(degraded)).Inc()
	s.logger.Debug("Search completed",
		zap.String("query", req.Query()),
		zap.Int("results", len(results)),
		zap.Bool("degraded", degraded))
	return &Output{Answer: answer, Results: results}, nil
}

// extractIntent runs the analyzer and degrades to a passthrough intent
// (raw query, no filters, no hints) when extraction is unavailable.
func (s *Service) extractIntent(ctx context.Context, query string) (domain.Intent, bool) {
	start := time.Now()
	intent, err := s.analyzer.Analyze(ctx, query)
	metrics.SearchStageDuration.WithLabelValues("intent").Observe(time.Since(start).Seconds())
	if err != nil {
		s.logger.Warn("Intent extraction unavailable, searching on the raw query",
			zap.String("query", query), zap.Error(err))
		return domain.Intent{QueryEN: query}, false
	}
	if strings.TrimSpace(intent.QueryEN) == "" {
		intent.QueryEN = query
	}
	return intent, true
}

// storedPreferences resolves the stored baseline: inline preferences win,
// then the store, then empty. A store outage degrades to empty rather
// than failing the search.
func (s *Service) storedPreferences(ctx context.Context, userID string, inline domain.StoredPreferences) domain.StoredPreferences {
	if len(inline) > 0 {
		return inline
	}
	if userID == "" || s.prefs == nil {
		return nil
	}
	stored, err := s.prefs.Get(ctx, userID)
	switch {
	case err == nil:
		return stored
	case errors.Is(err, domain.ErrUserNotFound):
		return nil
	default:
		s.logger.Warn("Preference lookup failed, searching without stored preferences",
			zap.String("user_id", userID), zap.Error(err))
		return nil
	}
}

// buildResults projects the leading topN candidates into display results,
// attaching each document's preferred reviewer pattern.
func buildResults(candidates []retrieval.Candidate, topN int) []Result {
	if topN > len(candidates) {
		topN = len(candidates)
	}
	results := make([]Result, topN)
	for i, c := range candidates[:topN] {
		source, text := domain.PreferredPattern(c.Restaurant.Summary())
		results[i] = Result{
			Restaurant:    c.Restaurant,
			Score:         c.Final,
			Pattern:       text,
			PatternSource: source,
		}
	}
	return results
}

// translatePatterns translates the reviewer patterns of the leading n
// results in parallel, each goroutine writing back into its own slot.
// Patterns already containing Hangul are left alone, and a failed
// translation keeps the original text.
func (s *Service) translatePatterns(ctx context.Context, results []Result, n int) {
	if n > len(results) {
		n = len(results)
	}
	start := time.Now()
	var g errgroup.Group
	for i := 0; i < n; i++ {
		if results[i].Pattern == "" || domain.ContainsKorean(results[i].Pattern) {
			continue
		}
		i := i
		g.Go(func() error {
			ko, err := s.translator.TranslateToKorean(ctx, results[i].Pattern)
			if err != nil {
				s.logger.Warn("Pattern translation failed, keeping the original text",
					zap.String("place_id", results[i].Restaurant.PlaceID()),
					zap.Error(err))
				return nil
			}
			results[i].Pattern = ko
			return nil
		})
	}
	_ = g.Wait() // workers degrade in place and never return an error
	metrics.SearchStageDuration.WithLabelValues("translate").Observe(time.Since(start).Seconds())
}

// narrate asks the narrator for the conversational answer and falls back
// to the templated one when it is unavailable.
func (s *Service) narrate(ctx context.Context, queryEN string, results []Result, weights domain.AspectWeights) (string, bool) {
	names := make([]string, 0, s.cfg.NarrateTopN)
	for _, r := range results {
		if len(names) == s.cfg.NarrateTopN {
			break
		}
		names = append(names, r.Restaurant.Name())
	}

	start := time.Now()
	answer, err := s.narrator.Narrate(ctx, queryEN, names, weights)
	metrics.SearchStageDuration.WithLabelValues("narrate").Observe(time.Since(start).Seconds())
	if err != nil {
		s.logger.Warn("Narration unavailable, answering from the template", zap.Error(err))
		return fallbackAnswer(queryEN, weights), false
	}
	return answer, true
}

func statusLabel(degraded bool) string {
	if degraded {
		return "degraded"
	}
	return "ok"
}
