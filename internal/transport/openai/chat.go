package openai

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/seoulbites/matzip/internal/metrics"
)

// ChatConfig holds the chat-completion provider settings shared by the
// intent analyzer, the narrator and the pattern translator.
type ChatConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
	Retry   RetryConfig
	Logger  *zap.Logger
}

// chatClient is the shared completion plumbing: per-call timeout, bounded
// retry and transport-level metrics keyed by component.
type chatClient struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	retry   RetryConfig
	logger  *zap.Logger
}

func newChatClient(cfg *ChatConfig) *chatClient {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &chatClient{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   cfg.Model,
		timeout: cfg.Timeout,
		retry:   cfg.Retry.withDefaults(),
		logger:  logger,
	}
}

// complete runs one retried chat completion and returns the trimmed
// assistant message.
func (c *chatClient) complete(ctx context.Context, component string, temperature float32, system, user string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	}

	onRetry := func() {
		metrics.LLMRetriesTotal.WithLabelValues(component).Inc()
		c.logger.Warn("Retrying chat completion", zap.String("component", component))
	}

	start := time.Now()

	resp, err := retryWithBackoff(ctx, c.retry, onRetry, func() (openai.ChatCompletionResponse, error) {
		callCtx := ctx
		if c.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, c.timeout)
			defer cancel()
		}
		return c.client.CreateChatCompletion(callCtx, req)
	})

	duration := time.Since(start)

	if err != nil {
		metrics.LLMRequestsTotal.WithLabelValues(component, c.model, "error").Inc()
		return "", err
	}
	if len(resp.Choices) == 0 {
		metrics.LLMRequestsTotal.WithLabelValues(component, c.model, "error").Inc()
		return "", fmt.Errorf("empty completion response")
	}

	metrics.LLMRequestsTotal.WithLabelValues(component, c.model, "success").Inc()
	metrics.LLMRequestDuration.WithLabelValues(component, c.model).Observe(duration.Seconds())

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
