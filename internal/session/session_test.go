package session

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitrine/storefront/internal/backend"
	"github.com/vitrine/storefront/internal/checkout"
	"github.com/vitrine/storefront/internal/domain"
	"github.com/vitrine/storefront/internal/localstore"
)

type memLocal struct {
	entries map[string][]byte
}

func (m *memLocal) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.entries[key]
	if !ok {
		return nil, localstore.ErrKeyNotFound
	}
	return v, nil
}

func (m *memLocal) Set(_ context.Context, key string, value []byte) error {
	m.entries[key] = value
	return nil
}

func (m *memLocal) Delete(_ context.Context, key string) error {
	delete(m.entries, key)
	return nil
}

func (m *memLocal) Close() error { return nil }

type cartBackendStub struct{}

func (cartBackendStub) CreateCart(context.Context) (*domain.Cart, error) {
	return &domain.Cart{ID: "cart_1"}, nil
}
func (cartBackendStub) GetCart(context.Context, string) (*domain.Cart, error) {
	return &domain.Cart{ID: "cart_1"}, nil
}
func (cartBackendStub) AddLineItem(context.Context, string, string, int) (*domain.Cart, error) {
	return &domain.Cart{ID: "cart_1"}, nil
}
func (cartBackendStub) UpdateLineItem(context.Context, string, string, int) (*domain.Cart, error) {
	return &domain.Cart{ID: "cart_1"}, nil
}
func (cartBackendStub) RemoveLineItem(context.Context, string, string) (*domain.Cart, error) {
	return &domain.Cart{ID: "cart_1"}, nil
}
func (cartBackendStub) ListProducts(context.Context, backend.ProductQuery) (*backend.ProductList, error) {
	return &backend.ProductList{}, nil
}
func (cartBackendStub) GetProduct(context.Context, string) (*domain.Product, error) {
	return &domain.Product{}, nil
}
func (cartBackendStub) ListCollections(context.Context) ([]domain.Collection, error) {
	return nil, nil
}
func (cartBackendStub) GetCollection(context.Context, string) (*domain.Collection, error) {
	return &domain.Collection{}, nil
}

func newManager() *Manager {
	log := slog.New(slog.DiscardHandler)
	return NewManager(cartBackendStub{}, &memLocal{entries: map[string][]byte{}}, log)
}

func TestManagerGet_SameSessionForSameID(t *testing.T) {
	m := newManager()
	ctx := context.Background()

	a := m.Get(ctx, "sess_a")
	b := m.Get(ctx, "sess_a")
	assert.Same(t, a, b)
}

func TestManagerGet_SessionsAreIsolated(t *testing.T) {
	m := newManager()
	ctx := context.Background()

	a := m.Get(ctx, "sess_a")
	b := m.Get(ctx, "sess_b")

	a.Wishlist.Add(ctx, domain.Product{ID: "prod_1"})
	assert.True(t, a.Wishlist.Contains("prod_1"))
	assert.False(t, b.Wishlist.Contains("prod_1"))
}

func TestSessionState_PersistsAcrossManagers(t *testing.T) {
	local := &memLocal{entries: map[string][]byte{}}
	log := slog.New(slog.DiscardHandler)
	ctx := context.Background()

	m1 := NewManager(cartBackendStub{}, local, log)
	s1 := m1.Get(ctx, "sess_a")
	s1.Searches.Record(ctx, "vestidos")
	require.NoError(t, s1.Cart.Init(ctx))

	// A new manager over the same localstore (process restart) sees the
	// persisted slice of the session.
	m2 := NewManager(cartBackendStub{}, local, log)
	s2 := m2.Get(ctx, "sess_a")
	assert.Equal(t, []string{"vestidos"}, s2.Searches.List())
	assert.Equal(t, "cart_1", s2.Cart.Snapshot().CartID)
}

func TestBeginCheckout_DiscardsPreviousDraft(t *testing.T) {
	m := newManager()
	s := m.Get(context.Background(), "sess_a")
	log := slog.New(slog.DiscardHandler)

	newFlow := func() *checkout.Flow {
		return checkout.NewFlow(nil, s.Cart, time.Duration(0), log)
	}

	first := s.BeginCheckout(newFlow)
	second := s.BeginCheckout(newFlow)
	assert.NotSame(t, first, second)

	got, ok := s.Checkout()
	require.True(t, ok)
	assert.Same(t, second, got)

	s.EndCheckout()
	_, ok = s.Checkout()
	assert.False(t, ok)
}

func TestManagerGet_EvictsIdleSessions(t *testing.T) {
	local := &memLocal{entries: map[string][]byte{}}
	log := slog.New(slog.DiscardHandler)
	ctx := context.Background()

	m := NewManager(cartBackendStub{}, local, log)
	clock := time.Now()
	m.now = func() time.Time { return clock }

	a := m.Get(ctx, "sess_a")
	a.Searches.Record(ctx, "vestidos")

	// Within the TTL the cached session comes back.
	clock = clock.Add(sessionIdleTTL / 2)
	assert.Same(t, a, m.Get(ctx, "sess_a"))

	// Past the TTL the entry is evicted; the rebuilt session reloads its
	// persisted state from localstore.
	clock = clock.Add(sessionIdleTTL + time.Minute)
	rebuilt := m.Get(ctx, "sess_a")
	assert.NotSame(t, a, rebuilt)
	assert.Equal(t, []string{"vestidos"}, rebuilt.Searches.List())
}

func TestNewID_Unique(t *testing.T) {
	assert.NotEqual(t, NewID(), NewID())
}
