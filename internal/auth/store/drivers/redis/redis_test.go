package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aussiebroadwan/authstate/internal/auth/store"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, ttl time.Duration) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s, err := New(Config{Client: client, TTL: ttl})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s, mr
}

func TestNewValidation(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)

	_, err = New(Config{Client: redis.NewClient(&redis.Options{}), TTL: -time.Second})
	require.Error(t, err)
}

func TestSetGetDelete(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestStore(t, 0)

	_, err := s.Get(ctx, "conn:jwttoken")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Set(ctx, "conn:jwttoken", "tok"))
	require.True(t, mr.Exists(DefaultKeyPrefix+"conn:jwttoken"))

	v, err := s.Get(ctx, "conn:jwttoken")
	require.NoError(t, err)
	require.Equal(t, "tok", v)

	require.NoError(t, s.Delete(ctx, "conn:jwttoken"))
	require.NoError(t, s.Delete(ctx, "conn:jwttoken"))

	_, err = s.Get(ctx, "conn:jwttoken")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestTTL(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestStore(t, 45*time.Minute)

	require.NoError(t, s.Set(ctx, "jwttoken", "tok"))
	require.Equal(t, 45*time.Minute, mr.TTL(DefaultKeyPrefix+"jwttoken"))

	mr.FastForward(46 * time.Minute)

	_, err := s.Get(ctx, "jwttoken")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestUnavailable(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestStore(t, 0)

	require.NoError(t, s.Ping(ctx))
	mr.Close()

	require.Error(t, s.Ping(ctx))

	err := s.Set(ctx, "jwttoken", "tok")
	require.Error(t, err)

	_, err = s.Get(ctx, "jwttoken")
	require.Error(t, err)
	require.NotErrorIs(t, err, store.ErrNotFound)
}

func TestScopedOverRedis(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestStore(t, 0)

	scoped := store.Scoped(s, "01HQ")
	require.NoError(t, scoped.Set(ctx, "jwttoken", "tok"))
	require.True(t, mr.Exists(DefaultKeyPrefix+"01HQ:jwttoken"))
}
