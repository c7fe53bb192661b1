// Package session stores the access/refresh token pair of the signed-in user.
//
// A Store is injected into the API clients instead of living in ambient global
// state, so every test and every CLI profile gets its own session. Tokens are
// opaque strings: no store validates their format.
//
// Three stores are provided:
//   - MemoryStore:   process-local, for tests and throwaway sessions.
//   - MetadataStore: the local SQLite database, optionally sealed with a passphrase.
//   - RedisStore:    a Redis instance shared by several processes.
package session

import (
	"context"
	"errors"
)

// Storage keys of the two tokens.
const (
	AccessTokenKey  = "access_token"
	RefreshTokenKey = "refresh_token"
)

// ErrStorage wraps every failure of the underlying storage backend.
var ErrStorage = errors.New("session storage failure")

// Tokens is the stored token pair. Empty strings mean "absent".
type Tokens struct {
	AccessToken  string
	RefreshToken string
}

func (t Tokens) HasAccess() bool  { return t.AccessToken != "" }
func (t Tokens) HasRefresh() bool { return t.RefreshToken != "" }

// Store reads and writes the token pair.
//
// SetTokens always replaces the access token; an empty refresh leaves the
// stored refresh token untouched. Clear removes both tokens. Concurrent
// writers follow last-writer-wins.
type Store interface {
	Tokens(ctx context.Context) (Tokens, error)
	SetTokens(ctx context.Context, access, refresh string) error
	Clear(ctx context.Context) error
}
