// Package store holds the client-side state containers: cart, user,
// wishlist and recent searches. Each store owns its slice of state
// exclusively, persists its own localstore key, and notifies subscribers
// after every change. Displayed totals always come from the last backend
// payload, never from local arithmetic.
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

// CartBackend is the slice of the commerce API the cart store needs.
type CartBackend interface {
	CreateCart(ctx context.Context) (*domain.Cart, error)
	GetCart(ctx context.Context, cartID string) (*domain.Cart, error)
	AddLineItem(ctx context.Context, cartID, variantID string, quantity int) (*domain.Cart, error)
	UpdateLineItem(ctx context.Context, cartID, lineID string, quantity int) (*domain.Cart, error)
	RemoveLineItem(ctx context.Context, cartID, lineID string) (*domain.Cart, error)
}

// CartSnapshot is what subscribers and renderers see.
type CartSnapshot struct {
	Cart       *domain.Cart `json:"cart"`
	CartID     string       `json:"cart_id"`
	ItemCount  int          `json:"item_count"`
	Subtotal   int64        `json:"subtotal"`
	Loading    bool         `json:"loading"`
	DrawerOpen bool         `json:"drawer_open"`
}

// cartState is the persisted subset: the id only, never the contents.
type cartState struct {
	CartID string `json:"cart_id"`
}

type CartStore struct {
	mu      sync.Mutex
	backend CartBackend
	local   localstore.Store
	key     string
	log     *slog.Logger

	cart       *domain.Cart
	cartID     string
	itemCount  int
	subtotal   int64
	loading    bool
	drawerOpen bool
	subs       []func(CartSnapshot)
}

func NewCartStore(ctx context.Context, backend CartBackend, local localstore.Store, key string, log *slog.Logger) *CartStore {
	s := &CartStore{
		backend: backend,
		local:   local,
		key:     key,
		log:     log,
	}

	data, err := local.Get(ctx, key)
	switch {
	case err == nil:
		var st cartState
		if err := json.Unmarshal(data, &st); err != nil {
			log.Error("failed to decode persisted cart state", "error", err)
		} else {
			s.cartID = st.CartID
		}
	case !errors.Is(err, localstore.ErrKeyNotFound):
		log.Error("failed to load persisted cart state", "error", err)
	}

	return s
}

// Subscribe registers fn to run after every state change.
func (s *CartStore) Subscribe(fn func(CartSnapshot)) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

func (s *CartStore) Snapshot() CartSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *CartStore) snapshotLocked() CartSnapshot {
	return CartSnapshot{
		Cart:       s.cart,
		CartID:     s.cartID,
		ItemCount:  s.itemCount,
		Subtotal:   s.subtotal,
		Loading:    s.loading,
		DrawerOpen: s.drawerOpen,
	}
}

// Init fetches the cached cart or creates a fresh one. A failed fetch
// (including a stale id the backend no longer knows) falls back to the
// create path; only a failed create is surfaced.
func (s *CartStore) Init(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true

	var err error
	if s.cartID != "" {
		var cart *domain.Cart
		cart, err = s.backend.GetCart(ctx, s.cartID)
		if err == nil {
			s.applyLocked(cart)
		} else {
			s.log.Error("failed to initialize cart", "cart_id", s.cartID, "error", err)
			err = s.createLocked(ctx)
		}
	} else {
		err = s.createLocked(ctx)
	}

	s.loading = false
	s.finish()
	return err
}

func (s *CartStore) createLocked(ctx context.Context) error {
	cart, err := s.backend.CreateCart(ctx)
	if err != nil {
		return err
	}
	s.applyLocked(cart)
	s.cartID = cart.ID
	s.persistLocked(ctx)
	return nil
}

// Refresh re-reads the cart from the backend. No-op without a cart id.
func (s *CartStore) Refresh(ctx context.Context) {
	s.mu.Lock()
	if s.cartID == "" {
		s.mu.Unlock()
		return
	}
	s.loading = true

	cart, err := s.backend.GetCart(ctx, s.cartID)
	if err != nil {
		s.log.Error("failed to refresh cart", "cart_id", s.cartID, "error", err)
	} else {
		s.applyLocked(cart)
	}

	s.loading = false
	s.finish()
}

// AddItem ensures a cart exists, sends the line item and opens the
// drawer. Backend failures are logged and swallowed.
func (s *CartStore) AddItem(ctx context.Context, variantID string, quantity int) {
	s.mu.Lock()
	s.loading = true

	if s.cartID == "" {
		if err := s.createLocked(ctx); err != nil {
			s.log.Error("failed to add item to cart", "variant_id", variantID, "error", err)
			s.loading = false
			s.finish()
			return
		}
	}

	cart, err := s.backend.AddLineItem(ctx, s.cartID, variantID, quantity)
	if err != nil {
		s.log.Error("failed to add item to cart", "variant_id", variantID, "error", err)
	} else {
		s.applyLocked(cart)
		s.drawerOpen = true
	}

	s.loading = false
	s.finish()
}

// UpdateItem changes a line's quantity. Quantities below 1 are a no-op;
// removal is its own operation.
func (s *CartStore) UpdateItem(ctx context.Context, lineID string, quantity int) {
	if quantity < 1 {
		return
	}

	s.mu.Lock()
	if s.cartID == "" {
		s.mu.Unlock()
		return
	}
	s.loading = true

	cart, err := s.backend.UpdateLineItem(ctx, s.cartID, lineID, quantity)
	if err != nil {
		s.log.Error("failed to update item quantity", "line_id", lineID, "error", err)
	} else {
		s.applyLocked(cart)
	}

	s.loading = false
	s.finish()
}

func (s *CartStore) RemoveItem(ctx context.Context, lineID string) {
	s.mu.Lock()
	if s.cartID == "" {
		s.mu.Unlock()
		return
	}
	s.loading = true

	cart, err := s.backend.RemoveLineItem(ctx, s.cartID, lineID)
	if err != nil {
		s.log.Error("failed to remove item from cart", "line_id", lineID, "error", err)
	} else {
		s.applyLocked(cart)
	}

	s.loading = false
	s.finish()
}

func (s *CartStore) ToggleDrawer() {
	s.mu.Lock()
	s.drawerOpen = !s.drawerOpen
	s.finish()
}

func (s *CartStore) OpenDrawer() {
	s.mu.Lock()
	s.drawerOpen = true
	s.finish()
}

func (s *CartStore) CloseDrawer() {
	s.mu.Lock()
	s.drawerOpen = false
	s.finish()
}

// applyLocked replaces local state with a backend payload. Item count is
// the number of lines, subtotal the server-computed figure.
func (s *CartStore) applyLocked(cart *domain.Cart) {
	s.cart = cart
	s.itemCount = len(cart.Items)
	s.subtotal = cart.Subtotal
}

func (s *CartStore) persistLocked(ctx context.Context) {
	data, err := json.Marshal(cartState{CartID: s.cartID})
	if err != nil {
		s.log.Error("failed to encode cart state", "error", err)
		return
	}
	if err := s.local.Set(ctx, s.key, data); err != nil {
		s.log.Error("failed to persist cart state", "error", err)
	}
}

// finish snapshots under the held lock, releases it, then notifies.
func (s *CartStore) finish() {
	snap := s.snapshotLocked()
	subs := make([]func(CartSnapshot), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}
