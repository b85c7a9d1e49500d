package prefs

import "context"

// mockHashStore implements the consumer interface for tests.
type mockHashStore struct {
	hsetFn    func(ctx context.Context, key string, fields map[string]string) error
	hgetallFn func(ctx context.Context, key string) (map[string]string, error)
}

func (m *mockHashStore) HSet(ctx context.Context, key string, fields map[string]string) error {
	if m.hsetFn != nil {
		return m.hsetFn(ctx, key, fields)
	}
	return nil
}

func (m *mockHashStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if m.hgetallFn != nil {
		return m.hgetallFn(ctx, key)
	}
	return map[string]string{}, nil
}
