package localstore

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a miniredis server and returns a RedisStore instance
func setupTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { client.Close() })

	return NewRedisStore(client), mr
}

func TestRedisStore_Get_Success(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()

	mr.Set(redisKey("sess:abc:cart-storage"), `{"cart_id":"cart_1"}`)

	got, err := store.Get(ctx, "sess:abc:cart-storage")
	require.NoError(t, err)
	assert.Equal(t, `{"cart_id":"cart_1"}`, string(got))
}

func TestRedisStore_Get_Missing(t *testing.T) {
	store, _ := setupTestRedis(t)

	got, err := store.Get(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrKeyNotFound)
	assert.Nil(t, got)
}

func TestRedisStore_SetThenGet(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "wishlist-storage", []byte(`[{"id":"prod_1"}]`)))

	// Entries persist without expiry, same as browser local storage.
	assert.Equal(t, int64(0), int64(mr.TTL(redisKey("wishlist-storage"))))

	got, err := store.Get(ctx, "wishlist-storage")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"prod_1"}]`, string(got))
}

func TestRedisStore_Delete(t *testing.T) {
	store, _ := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "user-storage", []byte(`{}`)))
	require.NoError(t, store.Delete(ctx, "user-storage"))

	_, err := store.Get(ctx, "user-storage")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}
