package localstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	require.NoError(t, store.RunMigrations("migrations"))

	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_GetMissingKey(t *testing.T) {
	store := newSQLiteStore(t)

	_, err := store.Get(context.Background(), "cart-storage")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestSQLiteStore_SetGetDelete(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "cart-storage", []byte(`{"cart_id":"cart_1"}`)))

	got, err := store.Get(ctx, "cart-storage")
	require.NoError(t, err)
	assert.Equal(t, `{"cart_id":"cart_1"}`, string(got))

	require.NoError(t, store.Delete(ctx, "cart-storage"))
	_, err = store.Get(ctx, "cart-storage")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestSQLiteStore_SetOverwrites(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "recentSearches", []byte(`["a"]`)))
	require.NoError(t, store.Set(ctx, "recentSearches", []byte(`["b","a"]`)))

	got, err := store.Get(ctx, "recentSearches")
	require.NoError(t, err)
	assert.Equal(t, `["b","a"]`, string(got))
}

func TestSQLiteStore_KeysAreIndependent(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "user-storage", []byte(`{"authenticated":true}`)))
	require.NoError(t, store.Set(ctx, "wishlist-storage", []byte(`[]`)))

	require.NoError(t, store.Delete(ctx, "user-storage"))

	got, err := store.Get(ctx, "wishlist-storage")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))
}
