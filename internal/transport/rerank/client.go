// Package rerank calls the cross-encoder scoring service over HTTP.
//
// The service follows the text-embeddings-inference rerank contract:
// POST /rerank with {"query", "texts", "raw_scores"} answered by a JSON
// array of {"index", "score"} pairs. raw_scores is requested because the
// caller min-max normalizes over the candidate pool itself.
package rerank

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/seoulbites/matzip/internal/domain"
	"github.com/seoulbites/matzip/internal/metrics"
)

const defaultTimeout = 30 * time.Second

// Config holds the rerank service settings.
type Config struct {
	Endpoint string
	Timeout  time.Duration
	Logger   *zap.Logger
}

// Client scores (query, text) pairs against the rerank service.
type Client struct {
	url    string
	http   *http.Client
	logger *zap.Logger
}

// New creates a rerank client for the given endpoint.
func New(cfg *Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		url:    strings.TrimRight(cfg.Endpoint, "/") + "/rerank",
		http:   &http.Client{Timeout: timeout},
		logger: logger,
	}
}

type rerankRequest struct {
	Query     string   `json:"query"`
	Texts     []string `json:"texts"`
	RawScores bool     `json:"raw_scores"`
}

type rerankEntry struct {
	Index int     `json:"index"`
	Score float64 `json:"score"`
}

// Score returns one relevance score per text, in input order. Failures
// wrap domain.ErrRerankUnavailable so retrieval can degrade instead of
// aborting the search.
func (c *Client) Score(ctx context.Context, query string, texts []string) ([]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	start := time.Now()
	scores, err := c.call(ctx, query, texts)
	duration := time.Since(start)

	if err != nil {
		metrics.RerankRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("rerank %d texts: %v: %w", len(texts), err, domain.ErrRerankUnavailable)
	}

	metrics.RerankRequestsTotal.WithLabelValues("success").Inc()
	metrics.RerankRequestDuration.Observe(duration.Seconds())

	return scores, nil
}

func (c *Client) call(ctx context.Context, query string, texts []string) ([]float64, error) {
	body, err := json.Marshal(rerankRequest{Query: query, Texts: texts, RawScores: true})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rerank call: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("rerank service error %d: %s", resp.StatusCode, string(errBody))
	}

	var entries []rerankEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(entries) != len(texts) {
		return nil, fmt.Errorf("scored %d of %d texts", len(entries), len(texts))
	}

	scores := make([]float64, len(texts))
	for _, e := range entries {
		if e.Index < 0 || e.Index >= len(texts) {
			return nil, fmt.Errorf("score index %d out of range", e.Index)
		}
		scores[e.Index] = e.Score
	}

	return scores, nil
}

// HealthCheck verifies the service answers a minimal rerank request.
func (c *Client) HealthCheck(ctx context.Context) error {
	if _, err := c.Score(ctx, "ping", []string{"ping"}); err != nil {
		return fmt.Errorf("rerank health: %w", err)
	}
	return nil
}
