package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/vitrine/storefront/internal/domain"
	"github.com/vitrine/storefront/internal/localstore"
)

// WishlistStore is device-local only: full product snapshots, no backend
// sync, uniqueness by product id.
type WishlistStore struct {
	mu    sync.Mutex
	local localstore.Store
	key   string
	log   *slog.Logger

	items []domain.Product
}

func NewWishlistStore(ctx context.Context, local localstore.Store, key string, log *slog.Logger) *WishlistStore {
	s := &WishlistStore{
		local: local,
		key:   key,
		log:   log,
	}

	data, err := local.Get(ctx, key)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &s.items); err != nil {
			log.Error("failed to decode persisted wishlist", "error", err)
			s.items = nil
		}
	case !errors.Is(err, localstore.ErrKeyNotFound):
		log.Error("failed to load persisted wishlist", "error", err)
	}

	return s
}

// Add stores a product snapshot. Adding an id already present is a no-op.
func (s *WishlistStore) Add(ctx context.Context, product domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.items {
		if item.ID == product.ID {
			return
		}
	}
	s.items = append(s.items, product)
	s.persistLocked(ctx)
}

func (s *WishlistStore) Remove(ctx context.Context, productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, item := range s.items {
		if item.ID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.persistLocked(ctx)
			return
		}
	}
}

func (s *WishlistStore) Contains(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.items {
		if item.ID == productID {
			return true
		}
	}
	return false
}

func (s *WishlistStore) Items() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Product, len(s.items))
	copy(out, s.items)
	return out
}

func (s *WishlistStore) persistLocked(ctx context.Context) {
	items := s.items
	if items == nil {
		items = []domain.Product{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		s.log.Error("failed to encode wishlist", "error", err)
		return
	}
	if err := s.local.Set(ctx, s.key, data); err != nil {
		s.log.Error("failed to persist wishlist", "error", err)
	}
}
