package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisCmdable is the part of the go-redis client used by RedisStore.
type RedisCmdable interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	MSet(ctx context.Context, values ...any) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisStore keeps tokens under "<prefix>:<profile>:<key>" so several
// processes can share one session.
type RedisStore struct {
	client  RedisCmdable
	prefix  string
	profile string
}

func NewRedisStore(client RedisCmdable, prefix, profile string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, profile: profile}
}

func (s *RedisStore) key(name string) string {
	return fmt.Sprintf("%s:%s:%s", s.prefix, s.profile, name)
}

func (s *RedisStore) Tokens(ctx context.Context) (Tokens, error) {
	access, err := s.get(ctx, AccessTokenKey)
	if err != nil {
		return Tokens{}, err
	}
	refresh, err := s.get(ctx, RefreshTokenKey)
	if err != nil {
		return Tokens{}, err
	}
	return Tokens{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *RedisStore) get(ctx context.Context, name string) (string, error) {
	v, err := s.client.Get(ctx, s.key(name)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: redis get %s: %w", ErrStorage, name, err)
	}
	return v, nil
}

func (s *RedisStore) SetTokens(ctx context.Context, access, refresh string) error {
	values := []any{s.key(AccessTokenKey), access}
	if refresh != "" {
		values = append(values, s.key(RefreshTokenKey), refresh)
	}
	if err := s.client.MSet(ctx, values...).Err(); err != nil {
		return fmt.Errorf("%w: redis mset: %w", ErrStorage, err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key(AccessTokenKey), s.key(RefreshTokenKey)).Err(); err != nil {
		return fmt.Errorf("%w: redis del: %w", ErrStorage, err)
	}
	return nil
}
