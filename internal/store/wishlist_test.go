package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitrine/storefront/internal/domain"
)

func TestWishlistAdd_Idempotent(t *testing.T) {
	s := NewWishlistStore(context.Background(), newMemStore(), "wishlist-storage", testLogger())

	product := domain.Product{ID: "prod_1", Title: "Shirt", Handle: "shirt"}
	s.Add(context.Background(), product)
	s.Add(context.Background(), product)

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "prod_1", items[0].ID)
	assert.True(t, s.Contains("prod_1"))
}

func TestWishlistRemove(t *testing.T) {
	s := NewWishlistStore(context.Background(), newMemStore(), "wishlist-storage", testLogger())

	s.Add(context.Background(), domain.Product{ID: "prod_1"})
	s.Add(context.Background(), domain.Product{ID: "prod_2"})
	s.Remove(context.Background(), "prod_1")

	assert.False(t, s.Contains("prod_1"))
	assert.True(t, s.Contains("prod_2"))
	assert.Len(t, s.Items(), 1)
}

func TestWishlist_PersistsFullSnapshots(t *testing.T) {
	local := newMemStore()
	ctx := context.Background()

	s := NewWishlistStore(ctx, local, "wishlist-storage", testLogger())
	s.Add(ctx, domain.Product{ID: "prod_1", Title: "Shirt", Thumbnail: "https://cdn/shirt.jpg"})

	// A fresh store over the same key sees the full snapshot, not just ids.
	reloaded := NewWishlistStore(ctx, local, "wishlist-storage", testLogger())
	items := reloaded.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "Shirt", items[0].Title)
	assert.Equal(t, "https://cdn/shirt.jpg", items[0].Thumbnail)
}

func TestWishlistRemove_MissingIDIsNoop(t *testing.T) {
	s := NewWishlistStore(context.Background(), newMemStore(), "wishlist-storage", testLogger())
	s.Remove(context.Background(), "prod_nope")
	assert.Empty(t, s.Items())
}
