package matzip

import (
	"errors"
	"fmt"

	"github.com/seoulbites/matzip/internal/domain"
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrRestaurantNotFound     = domain.ErrRestaurantNotFound
	ErrUserNotFound           = domain.ErrUserNotFound
	ErrInvalidArgument        = domain.ErrInvalidArgument
	ErrEmbeddingProviderError = domain.ErrEmbeddingProviderError
)

// ErrUnauthorized is returned when the server rejects the API key.
var ErrUnauthorized = errors.New("unauthorized")

// APIError is a structured error response from the server. Unwrap maps
// the machine-readable code onto a sentinel, so errors.Is works against
// ErrRestaurantNotFound and friends.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("matzip: %s (status %d, code %s)", e.Message, e.StatusCode, e.Code)
}

func (e *APIError) Unwrap() error {
	switch e.Code {
	case "restaurant_not_found":
		return ErrRestaurantNotFound
	case "user_not_found":
		return ErrUserNotFound
	case "bad_request", "validation_failed":
		return ErrInvalidArgument
	case "unauthorized":
		return ErrUnauthorized
	case "embedding_provider_error":
		return ErrEmbeddingProviderError
	}
	return nil
}
