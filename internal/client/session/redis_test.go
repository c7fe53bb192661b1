package session

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ RedisCmdable = (*redis.Client)(nil)

type fakeRedis struct {
	data map[string]string
	err  error

	lastDel []string
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}}
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) MSet(ctx context.Context, values ...any) *redis.StatusCmd {
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	for i := 0; i+1 < len(values); i += 2 {
		f.data[fmt.Sprint(values[i])] = fmt.Sprint(values[i+1])
	}
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	f.lastDel = keys
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestRedisStore_Contract(t *testing.T) {
	storeContract(t, NewRedisStore(newFakeRedis(), "hotelbook", "default"))
}

func TestRedisStore_KeyLayout(t *testing.T) {
	f := newFakeRedis()
	s := NewRedisStore(f, "hotelbook", "work")
	ctx := context.Background()

	require.NoError(t, s.SetTokens(ctx, "A", "R"))
	assert.Equal(t, "A", f.data["hotelbook:work:access_token"])
	assert.Equal(t, "R", f.data["hotelbook:work:refresh_token"])

	require.NoError(t, s.Clear(ctx))
	assert.ElementsMatch(t, []string{"hotelbook:work:access_token", "hotelbook:work:refresh_token"}, f.lastDel)
}

func TestRedisStore_ErrorsWrapped(t *testing.T) {
	f := newFakeRedis()
	f.err = errors.New("connection refused")
	s := NewRedisStore(f, "hotelbook", "default")
	ctx := context.Background()

	_, err := s.Tokens(ctx)
	require.ErrorIs(t, err, ErrStorage)
	require.ErrorContains(t, err, "connection refused")
	require.ErrorIs(t, s.SetTokens(ctx, "A", ""), ErrStorage)
	require.ErrorIs(t, s.Clear(ctx), ErrStorage)
}
