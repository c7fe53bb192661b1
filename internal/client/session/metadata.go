package session

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/hotelbook/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/hotelbook/internal/cryptox"
	"github.com/dmitrijs2005/hotelbook/internal/dbx"
)

const saltKey = "token_salt"

// MetadataStore keeps tokens in the session_metadata table of the local
// SQLite database, under one profile.
//
// When built with a passphrase, token values are sealed with AES-GCM under an
// argon2id key; the per-profile salt is kept next to them in clear.
type MetadataStore struct {
	db   *sql.DB
	repo *metadata.SQLiteRepository
	key  []byte
}

// NewMetadataStore binds a store to profile. An empty passphrase stores
// tokens in clear.
func NewMetadataStore(ctx context.Context, db *sql.DB, profile string, passphrase []byte) (*MetadataStore, error) {
	s := &MetadataStore{db: db, repo: metadata.NewSQLiteRepository(db, profile)}
	if len(passphrase) == 0 {
		return s, nil
	}

	salt, err := s.repo.Get(ctx, saltKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	if salt == nil {
		salt = make([]byte, 16)
		if _, err := rand.Read(salt); err != nil {
			return nil, fmt.Errorf("generate salt: %w", err)
		}
		if err := s.repo.Set(ctx, saltKey, salt); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrStorage, err)
		}
	}

	s.key = cryptox.DeriveKey(passphrase, salt)
	return s, nil
}

func (s *MetadataStore) Tokens(ctx context.Context) (Tokens, error) {
	access, err := s.read(ctx, s.repo, AccessTokenKey)
	if err != nil {
		return Tokens{}, err
	}
	refresh, err := s.read(ctx, s.repo, RefreshTokenKey)
	if err != nil {
		return Tokens{}, err
	}
	return Tokens{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *MetadataStore) SetTokens(ctx context.Context, access, refresh string) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repo.WithDB(tx)
		if err := s.write(ctx, repo, AccessTokenKey, access); err != nil {
			return err
		}
		if refresh == "" {
			return nil
		}
		return s.write(ctx, repo, RefreshTokenKey, refresh)
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return nil
}

func (s *MetadataStore) Clear(ctx context.Context) error {
	if err := s.repo.Delete(ctx, AccessTokenKey, RefreshTokenKey); err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return nil
}

func (s *MetadataStore) read(ctx context.Context, repo metadata.Repository, key string) (string, error) {
	raw, err := repo.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrStorage, err)
	}
	if raw == nil || s.key == nil {
		return string(raw), nil
	}

	plain, err := cryptox.Open(s.key, raw)
	if err != nil {
		return "", fmt.Errorf("%w: unseal %s: %w", ErrStorage, key, err)
	}
	return string(plain), nil
}

func (s *MetadataStore) write(ctx context.Context, repo metadata.Repository, key, value string) error {
	raw := []byte(value)
	if s.key != nil {
		sealed, err := cryptox.Seal(s.key, raw)
		if err != nil {
			return fmt.Errorf("seal %s: %w", key, err)
		}
		raw = sealed
	}
	return repo.Set(ctx, key, raw)
}
