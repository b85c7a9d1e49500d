package openai

import (
	"context"
	"time"
)

// RetryConfig bounds the retry loop around chat completion calls.
type RetryConfig struct {
	Attempts  int
	BaseDelay time.Duration
	MaxDelay  time.Duration
}

// DefaultRetryConfig returns the production policy: three attempts with
// the delay doubling from 1s up to an 8s cap.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		Attempts:  3,
		BaseDelay: time.Second,
		MaxDelay:  8 * time.Second,
	}
}

func (c RetryConfig) withDefaults() RetryConfig {
	if c.Attempts <= 0 {
		return DefaultRetryConfig()
	}
	return c
}

// retryWithBackoff runs fn up to cfg.Attempts times. The delay between
// attempts doubles from cfg.BaseDelay and is capped at cfg.MaxDelay.
// Context cancellation stops the loop between attempts; onRetry fires
// before each re-attempt.
func retryWithBackoff[T any](ctx context.Context, cfg RetryConfig, onRetry func(), fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error
	delay := cfg.BaseDelay

	for attempt := 0; attempt < cfg.Attempts; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
		if attempt == cfg.Attempts-1 {
			break
		}
		if onRetry != nil {
			onRetry()
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(delay):
		}

		delay *= 2
		if delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}

	return zero, lastErr
}
