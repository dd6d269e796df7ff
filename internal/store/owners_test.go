package store_test

import (
	"context"
	"testing"

	"github.com/serroba/miniurl/internal/shortener"
	"github.com/serroba/miniurl/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOwnerStore_Register(t *testing.T) {
	t.Run("registered owner exists", func(t *testing.T) {
		s := store.NewOwnerStore()

		require.NoError(t, s.Register(context.Background(), "owner-1"))

		ok, err := s.Exists(context.Background(), "owner-1")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("unknown owner does not exist", func(t *testing.T) {
		s := store.NewOwnerStore()

		ok, err := s.Exists(context.Background(), "ghost")

		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("registering twice keeps existing codes", func(t *testing.T) {
		s := store.NewOwnerStore()
		_ = s.Register(context.Background(), "owner-1")
		_ = s.Append(context.Background(), "owner-1", "abc")

		_ = s.Register(context.Background(), "owner-1")

		codes, _ := s.Codes(context.Background(), "owner-1")
		assert.Equal(t, []shortener.Code{"abc"}, codes)
	})
}

func TestOwnerStore_Codes(t *testing.T) {
	t.Run("keeps insertion order", func(t *testing.T) {
		s := store.NewOwnerStore()
		_ = s.Register(context.Background(), "owner-1")

		for _, code := range []shortener.Code{"c", "a", "b"} {
			require.NoError(t, s.Append(context.Background(), "owner-1", code))
		}

		codes, err := s.Codes(context.Background(), "owner-1")

		require.NoError(t, err)
		assert.Equal(t, []shortener.Code{"c", "a", "b"}, codes)
	})

	t.Run("returns a copy", func(t *testing.T) {
		s := store.NewOwnerStore()
		_ = s.Register(context.Background(), "owner-1")
		_ = s.Append(context.Background(), "owner-1", "a")

		codes, _ := s.Codes(context.Background(), "owner-1")
		codes[0] = "mutated"

		again, _ := s.Codes(context.Background(), "owner-1")
		assert.Equal(t, []shortener.Code{"a"}, again)
	})

	t.Run("unknown owner returns ErrUnknownOwner", func(t *testing.T) {
		s := store.NewOwnerStore()

		_, err := s.Codes(context.Background(), "ghost")

		assert.ErrorIs(t, err, shortener.ErrUnknownOwner)
	})
}

func TestOwnerStore_Append(t *testing.T) {
	s := store.NewOwnerStore()

	err := s.Append(context.Background(), "ghost", "abc")

	assert.ErrorIs(t, err, shortener.ErrUnknownOwner)
}

func TestOwnerStore_Remove(t *testing.T) {
	t.Run("removes the code and keeps the rest in order", func(t *testing.T) {
		s := store.NewOwnerStore()
		_ = s.Register(context.Background(), "owner-1")
		_ = s.Append(context.Background(), "owner-1", "a")
		_ = s.Append(context.Background(), "owner-1", "b")
		_ = s.Append(context.Background(), "owner-1", "c")

		require.NoError(t, s.Remove(context.Background(), "owner-1", "b"))

		codes, _ := s.Codes(context.Background(), "owner-1")
		assert.Equal(t, []shortener.Code{"a", "c"}, codes)
	})

	t.Run("ignores unknown owners and codes", func(t *testing.T) {
		s := store.NewOwnerStore()
		_ = s.Register(context.Background(), "owner-1")

		assert.NoError(t, s.Remove(context.Background(), "ghost", "a"))
		assert.NoError(t, s.Remove(context.Background(), "owner-1", "missing"))
	})
}
