package openai

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/seoulbites/matzip/internal/domain"
)

// chatCompletionRequest mirrors the OpenAI-compatible chat request body.
type chatCompletionRequest struct {
	Model       string  `json:"model"`
	Temperature float32 `json:"temperature"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func writeChatReply(w http.ResponseWriter, content string) {
	resp := map[string]any{
		"id":     "chatcmpl-test",
		"object": "chat.completion",
		"model":  "test-model",
		"choices": []map[string]any{
			{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": "stop",
			},
		},
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// testChatConfig keeps retries on but makes the backoff negligible.
func testChatConfig(url string) *ChatConfig {
	return &ChatConfig{
		APIKey:  "test-key",
		BaseURL: url,
		Model:   "test-model",
		Retry:   RetryConfig{Attempts: 3, BaseDelay: time.Millisecond, MaxDelay: 4 * time.Millisecond},
		Logger:  zap.NewNop(),
	}
}

func TestAnalyzer_Analyze(t *testing.T) {
	payload := `{
		"query_en": "spicy pizza in a quiet place",
		"filters": {"borough_en": "brooklyn", "desired_types": ["pizza", "italian_restaurant"], "min_rating": 4.0},
		"aspect_weights": {"food": 0.8, "price": 0.0, "ambience": 1.4, "service": null}
	}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		var req chatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "test-model" {
			t.Errorf("model = %q, expected test-model", req.Model)
		}
		if math.Abs(float64(req.Temperature)-0.1) > 1e-6 {
			t.Errorf("temperature = %f, expected 0.1", req.Temperature)
		}
		if len(req.Messages) != 2 {
			t.Fatalf("expected 2 messages, got %d", len(req.Messages))
		}
		if req.Messages[0].Role != "system" || !strings.HasPrefix(req.Messages[0].Content, "You are a query understanding engine") {
			t.Errorf("unexpected system message: %.60s", req.Messages[0].Content)
		}
		if req.Messages[1].Content != "조용한 곳에서 매운 피자" {
			t.Errorf("user message = %q", req.Messages[1].Content)
		}

		writeChatReply(w, payload)
	}))
	defer server.Close()

	a := NewAnalyzer(testChatConfig(server.URL))

	intent, err := a.Analyze(context.Background(), "조용한 곳에서 매운 피자")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if intent.QueryEN != "spicy pizza in a quiet place" {
		t.Errorf("QueryEN = %q", intent.QueryEN)
	}
	if intent.BoroughEN != "Brooklyn" {
		t.Errorf("BoroughEN = %q, expected Brooklyn", intent.BoroughEN)
	}
	wantTypes := []string{"pizza_restaurant", "italian_restaurant"}
	if len(intent.DesiredTypes) != len(wantTypes) {
		t.Fatalf("DesiredTypes = %v, expected %v", intent.DesiredTypes, wantTypes)
	}
	for i, want := range wantTypes {
		if intent.DesiredTypes[i] != want {
			t.Errorf("DesiredTypes[%d] = %q, expected %q", i, intent.DesiredTypes[i], want)
		}
	}
	if intent.MinRating != 4.0 {
		t.Errorf("MinRating = %f, expected 4.0", intent.MinRating)
	}

	if got := len(intent.Hints); got != 3 {
		t.Fatalf("expected 3 hints, got %d: %v", got, intent.Hints)
	}
	if v := intent.Hints[domain.AspectFood]; v != 0.8 {
		t.Errorf("food hint = %f, expected 0.8", v)
	}
	// Явный 0.0 сохраняется: это сигнал "не важно", а не отсутствие мнения
	if v, ok := intent.Hints[domain.AspectPrice]; !ok || v != 0.0 {
		t.Errorf("price hint = %f (present=%v), expected explicit 0.0", v, ok)
	}
	if v := intent.Hints[domain.AspectAmbience]; v != 1.0 {
		t.Errorf("ambience hint = %f, expected clamp to 1.0", v)
	}
	if _, ok := intent.Hints[domain.AspectService]; ok {
		t.Error("null aspect must stay absent")
	}
}

func TestAnalyzer_Analyze_RecoversAfterRetry(t *testing.T) {
	var calls int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		writeChatReply(w, `{"query_en": "pizza", "filters": {}, "aspect_weights": {}}`)
	}))
	defer server.Close()

	a := NewAnalyzer(testChatConfig(server.URL))

	intent, err := a.Analyze(context.Background(), "피자")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if intent.QueryEN != "pizza" {
		t.Errorf("QueryEN = %q", intent.QueryEN)
	}
	if n := atomic.LoadInt32(&calls); n != 3 {
		t.Errorf("expected 3 attempts, got %d", n)
	}
}

func TestAnalyzer_Analyze_RetriesExhausted(t *testing.T) {
	var calls int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	a := NewAnalyzer(testChatConfig(server.URL))

	_, err := a.Analyze(context.Background(), "피자")
	if !errors.Is(err, domain.ErrIntentUnavailable) {
		t.Fatalf("expected ErrIntentUnavailable, got %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 3 {
		t.Errorf("expected 3 attempts, got %d", n)
	}
}

func TestAnalyzer_Analyze_MalformedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeChatReply(w, "sorry, I cannot answer that")
	}))
	defer server.Close()

	a := NewAnalyzer(testChatConfig(server.URL))

	_, err := a.Analyze(context.Background(), "피자")
	if !errors.Is(err, domain.ErrIntentUnavailable) {
		t.Fatalf("expected ErrIntentUnavailable, got %v", err)
	}
}

func TestParseIntent(t *testing.T) {
	tests := []struct {
		name    string
		content string
		check   func(t *testing.T, intent domain.Intent)
	}{
		{
			name:    "code fence stripped",
			content: "```json\n{\"query_en\": \"ramen\", \"filters\": {}, \"aspect_weights\": {}}\n```",
			check: func(t *testing.T, intent domain.Intent) {
				if intent.QueryEN != "ramen" {
					t.Errorf("QueryEN = %q", intent.QueryEN)
				}
			},
		},
		{
			name:    "desired_types as bare string",
			content: `{"query_en": "q", "filters": {"desired_types": "steakhouse"}, "aspect_weights": {}}`,
			check: func(t *testing.T, intent domain.Intent) {
				if len(intent.DesiredTypes) != 1 || intent.DesiredTypes[0] != "steak_house" {
					t.Errorf("DesiredTypes = %v", intent.DesiredTypes)
				}
			},
		},
		{
			name:    "unknown borough dropped",
			content: `{"query_en": "q", "filters": {"borough_en": "Jersey City"}, "aspect_weights": {}}`,
			check: func(t *testing.T, intent domain.Intent) {
				if intent.BoroughEN != "" {
					t.Errorf("BoroughEN = %q, expected empty", intent.BoroughEN)
				}
			},
		},
		{
			name:    "out of range min_rating dropped",
			content: `{"query_en": "q", "filters": {"min_rating": 6.0}, "aspect_weights": {}}`,
			check: func(t *testing.T, intent domain.Intent) {
				if intent.MinRating != 0 {
					t.Errorf("MinRating = %f, expected 0", intent.MinRating)
				}
			},
		},
		{
			name:    "negative hint clamped to zero",
			content: `{"query_en": "q", "filters": {}, "aspect_weights": {"price": -0.5}}`,
			check: func(t *testing.T, intent domain.Intent) {
				if v, ok := intent.Hints[domain.AspectPrice]; !ok || v != 0 {
					t.Errorf("price hint = %f (present=%v)", v, ok)
				}
			},
		},
		{
			name:    "unknown aspect key skipped",
			content: `{"query_en": "q", "filters": {}, "aspect_weights": {"vibes": 0.9, "food": 0.5}}`,
			check: func(t *testing.T, intent domain.Intent) {
				if len(intent.Hints) != 1 {
					t.Errorf("Hints = %v, expected food only", intent.Hints)
				}
			},
		},
		{
			name:    "all null yields nil hints",
			content: `{"query_en": "q", "filters": {}, "aspect_weights": {"food": null, "price": null}}`,
			check: func(t *testing.T, intent domain.Intent) {
				if intent.Hints != nil {
					t.Errorf("Hints = %v, expected nil", intent.Hints)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent, err := parseIntent(tt.content)
			if err != nil {
				t.Fatalf("parseIntent failed: %v", err)
			}
			tt.check(t, intent)
		})
	}
}

func TestParseIntent_Invalid(t *testing.T) {
	if _, err := parseIntent("not json at all"); err == nil {
		t.Fatal("expected error for non-JSON payload")
	}
}

func TestNarrator_Narrate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		user := req.Messages[1].Content
		if !strings.Contains(user, "Joe's Pizza, Lucali") {
			t.Errorf("restaurant names missing from prompt: %q", user)
		}
		if !strings.Contains(user, "Food importance: 0.80") {
			t.Errorf("preference clause missing from prompt: %q", user)
		}

		writeChatReply(w, "맛있는 피자라면 Joe's Pizza를 추천해요!")
	}))
	defer server.Close()

	n := NewNarrator(testChatConfig(server.URL))

	answer, err := n.Narrate(context.Background(), "tasty pizza",
		[]string{"Joe's Pizza", "Lucali"},
		domain.AspectWeights{domain.AspectFood: 0.8})
	if err != nil {
		t.Fatalf("Narrate failed: %v", err)
	}
	if answer != "맛있는 피자라면 Joe's Pizza를 추천해요!" {
		t.Errorf("answer = %q", answer)
	}
}

func TestNarrator_Narrate_Unavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	n := NewNarrator(testChatConfig(server.URL))

	_, err := n.Narrate(context.Background(), "pizza", []string{"Lucali"}, nil)
	if !errors.Is(err, domain.ErrNarrationUnavailable) {
		t.Fatalf("expected ErrNarrationUnavailable, got %v", err)
	}
}

func TestTranslator_TranslateToKorean(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Messages[1].Content != "Korean reviewers praise the broth." {
			t.Errorf("user message = %q", req.Messages[1].Content)
		}
		writeChatReply(w, "한국인 리뷰어들이 국물을 칭찬해요.")
	}))
	defer server.Close()

	tr := NewTranslator(testChatConfig(server.URL))

	out, err := tr.TranslateToKorean(context.Background(), "Korean reviewers praise the broth.")
	if err != nil {
		t.Fatalf("TranslateToKorean failed: %v", err)
	}
	if out != "한국인 리뷰어들이 국물을 칭찬해요." {
		t.Errorf("out = %q", out)
	}
}

func TestTranslator_EmptyInputSkipsCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no API call expected for empty input")
	}))
	defer server.Close()

	tr := NewTranslator(testChatConfig(server.URL))

	out, err := tr.TranslateToKorean(context.Background(), "   ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "" {
		t.Errorf("out = %q, expected empty", out)
	}
}

func TestTranslator_Unavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	tr := NewTranslator(testChatConfig(server.URL))

	_, err := tr.TranslateToKorean(context.Background(), "some pattern")
	if !errors.Is(err, domain.ErrTranslationUnavailable) {
		t.Fatalf("expected ErrTranslationUnavailable, got %v", err)
	}
}
