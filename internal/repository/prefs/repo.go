// Package prefs persists long-lived per-user aspect preferences
// (0..5 scale) as one hash per user.
package prefs

import (
	"context"
	"fmt"

	"github.com/seoulbites/matzip/internal/domain"
)

// store is the consumer interface for preference persistence (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
}

// Repo implements usecase preference lookups and updates.
type Repo struct {
	store store
}

// New creates a preference repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Get returns the user's stored preferences.
func (r *Repo) Get(ctx context.Context, userID string) (domain.StoredPreferences, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required: %w", domain.ErrInvalidArgument)
	}
	fields, err := r.store.HGetAll(ctx, prefsKey(userID))
	if err != nil {
		return nil, fmt.Errorf("hgetall preferences %s: %w", userID, err)
	}
	// пустой hash — профиль никогда не сохранялся
	if len(fields) == 0 {
		return nil, fmt.Errorf("user %s: %w", userID, domain.ErrUserNotFound)
	}
	return parseFields(fields)
}

// Upsert merges the given aspects into the user's stored preferences.
// Aspects not named keep their stored values.
func (r *Repo) Upsert(ctx context.Context, userID string, prefs domain.StoredPreferences) error {
	if userID == "" {
		return fmt.Errorf("user id is required: %w", domain.ErrInvalidArgument)
	}
	if len(prefs) == 0 {
		return fmt.Errorf("at least one preference is required: %w", domain.ErrInvalidArgument)
	}
	if err := prefs.Validate(); err != nil {
		return err
	}
	if err := r.store.HSet(ctx, prefsKey(userID), buildFields(prefs)); err != nil {
		return fmt.Errorf("hset preferences %s: %w", userID, err)
	}
	return nil
}

func prefsKey(userID string) string {
	return fmt.Sprintf("%suser:%s:prefs", domain.KeyPrefix, userID)
}
