package boltstore_test

import (
	"path/filepath"
	"testing"

	apperrors "github.com/jrsteele09/go-portal-session/internal/errors"
	"github.com/jrsteele09/go-portal-session/sessions/boltstore"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T, path string) *boltstore.Store {
	t.Helper()
	store, err := boltstore.Open(path, "")
	require.NoError(t, err)
	return store
}

func TestStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "session.db")

	t.Run("get missing key", func(t *testing.T) {
		store := openStore(t, path)
		defer store.Close()

		_, err := store.Get("pool-1")
		require.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("value survives reopen", func(t *testing.T) {
		store := openStore(t, path)
		require.NoError(t, store.Set("pool-1", "token-1"))
		require.NoError(t, store.Close())

		store = openStore(t, path)
		defer store.Close()
		value, err := store.Get("pool-1")
		require.NoError(t, err)
		require.Equal(t, "token-1", value)
	})

	t.Run("clear removes every key", func(t *testing.T) {
		store := openStore(t, path)
		defer store.Close()

		require.NoError(t, store.Set("pool-1", "token-1"))
		require.NoError(t, store.Set("other", "value"))
		require.NoError(t, store.Clear())

		_, err := store.Get("pool-1")
		require.ErrorIs(t, err, apperrors.ErrNotFound)
		_, err = store.Get("other")
		require.ErrorIs(t, err, apperrors.ErrNotFound)

		require.NoError(t, store.Set("pool-1", "token-2"))
		value, err := store.Get("pool-1")
		require.NoError(t, err)
		require.Equal(t, "token-2", value)
	})
}

func TestStore_NilStore(t *testing.T) {
	var store *boltstore.Store
	_, err := store.Get("k")
	require.Error(t, err)
	require.Error(t, store.Set("k", "v"))
	require.Error(t, store.Clear())
	require.NoError(t, store.Close())
}
