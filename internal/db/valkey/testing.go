package valkey

import "github.com/redis/rueidis"

// NewStoreForTest wraps an existing rueidis client so tests can inject a mock.
func NewStoreForTest(c rueidis.Client) *Store {
	return &Store{client: c}
}
