package memory_test

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/authstate/internal/auth/store"
	"github.com/aussiebroadwan/authstate/internal/auth/store/drivers/memory"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	_, err := s.Get(ctx, "jwttoken")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Set(ctx, "jwttoken", "a"))
	require.NoError(t, s.Set(ctx, "jwttoken", "b"))

	v, err := s.Get(ctx, "jwttoken")
	require.NoError(t, err)
	require.Equal(t, "b", v)
	require.Equal(t, 1, s.Len())

	require.NoError(t, s.Delete(ctx, "jwttoken"))
	require.NoError(t, s.Delete(ctx, "jwttoken"))

	_, err = s.Get(ctx, "jwttoken")
	require.ErrorIs(t, err, store.ErrNotFound)
	require.NoError(t, s.Ping(ctx))
}

func TestScopedIsolation(t *testing.T) {
	ctx := context.Background()
	shared := memory.New()

	a := store.Scoped(shared, "conn-a")
	b := store.Scoped(shared, "conn-b")

	require.NoError(t, a.Set(ctx, "jwttoken", "token-a"))

	_, err := b.Get(ctx, "jwttoken")
	require.ErrorIs(t, err, store.ErrNotFound)

	v, err := shared.Get(ctx, "conn-a:jwttoken")
	require.NoError(t, err)
	require.Equal(t, "token-a", v)

	require.NoError(t, b.Delete(ctx, "jwttoken"))
	v, err = a.Get(ctx, "jwttoken")
	require.NoError(t, err)
	require.Equal(t, "token-a", v)
}
