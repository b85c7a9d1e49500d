package domain

import "errors"

var (
	// ErrRestaurantNotFound signals a missing restaurant document.
	ErrRestaurantNotFound = errors.New("restaurant not found")
	// ErrUserNotFound signals a user with no stored preferences.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidArgument signals a request that fails domain validation.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrCorpusMisaligned signals a snapshot whose document table and
	// embedding matrix disagree (row count or dimensions).
	ErrCorpusMisaligned = errors.New("corpus misaligned")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrRerankUnavailable signals a cross-encoder service failure.
	ErrRerankUnavailable = errors.New("rerank service unavailable")
	// ErrIntentUnavailable signals intent extraction failed after retries.
	ErrIntentUnavailable = errors.New("intent extraction unavailable")
	// ErrNarrationUnavailable signals answer generation failed after retries.
	ErrNarrationUnavailable = errors.New("narration unavailable")
	// ErrTranslationUnavailable signals pattern translation failed after retries.
	ErrTranslationUnavailable = errors.New("translation unavailable")
)
