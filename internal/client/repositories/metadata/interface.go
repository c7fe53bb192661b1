// Package metadata persists small per-profile key/value pairs (session tokens)
// in the local SQLite database.
package metadata

import (
	"context"
)

// Repository is a key/value store scoped to a single profile.
//
// Get returns (nil, nil) when the key is absent. Delete of an absent key is
// not an error.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
