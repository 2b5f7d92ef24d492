package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryStore_GetAbsentReturnsNil(t *testing.T) {
	s := NewMemoryStore()

	v, err := s.Get(context.Background(), "missing")
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestMemoryStore_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Set(ctx, "users", []byte(`[]`)))

	v, err := s.Get(ctx, "users")
	require.NoError(t, err)
	require.Equal(t, []byte(`[]`), v)

	require.NoError(t, s.Delete(ctx, "users"))

	v, err = s.Get(ctx, "users")
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Set(ctx, "k", []byte("abc")))

	v, err := s.Get(ctx, "k")
	require.NoError(t, err)
	v[0] = 'z'

	again, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("abc"), again)
}

func TestMemoryStore_Clear(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Set(ctx, "a", []byte("1")))
	require.NoError(t, s.Set(ctx, "b", []byte("2")))
	require.NoError(t, s.Clear(ctx))

	for _, key := range []string{"a", "b"} {
		v, err := s.Get(ctx, key)
		require.NoError(t, err)
		require.Nil(t, v)
	}
}
