// Package session binds a visitor (cookie id) to one set of client-state
// stores. Store state is persisted through localstore under keys
// namespaced by session id, so a returning visitor gets their cart id,
// wishlist and search history back.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vitrine/storefront/internal/catalog"
	"github.com/vitrine/storefront/internal/checkout"
	"github.com/vitrine/storefront/internal/localstore"
	"github.com/vitrine/storefront/internal/store"
)

// Persisted key names, one per store. Each is loaded and saved
// independently.
const (
	keyCart     = "cart-storage"
	keyUser     = "user-storage"
	keyWishlist = "wishlist-storage"
	keySearches = "recentSearches"
)

// sessionIdleTTL bounds the in-memory session cache. Evicting an idle
// session only drops live state (search results, checkout draft); the
// persisted keys survive in localstore and reload on the next visit.
const sessionIdleTTL = 30 * time.Minute

// Backend is everything a session's stores and controllers need from
// the commerce API.
type Backend interface {
	store.CartBackend
	catalog.Backend
}

type Session struct {
	ID       string
	Cart     *store.CartStore
	User     *store.UserStore
	Wishlist *store.WishlistStore
	Searches *store.RecentSearches

	// Search is shared across the session's requests so its generation
	// counter can discard responses superseded by a newer query.
	Search *catalog.Search

	mu   sync.Mutex
	flow *checkout.Flow
}

// BeginCheckout replaces any in-progress flow with a fresh one; the old
// draft is discarded.
func (s *Session) BeginCheckout(newFlow func() *checkout.Flow) *checkout.Flow {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flow = newFlow()
	return s.flow
}

// Checkout returns the in-progress flow, if any.
func (s *Session) Checkout() (*checkout.Flow, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flow, s.flow != nil
}

// EndCheckout drops the flow and its draft.
func (s *Session) EndCheckout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flow = nil
}

type sessionEntry struct {
	session  *Session
	lastSeen time.Time
}

// Manager hands out sessions keyed by id, creating store sets on first
// use and evicting entries idle past the TTL.
type Manager struct {
	mu       sync.Mutex
	backend  Backend
	local    localstore.Store
	log      *slog.Logger
	sessions map[string]*sessionEntry
	now      func() time.Time
}

func NewManager(b Backend, local localstore.Store, log *slog.Logger) *Manager {
	return &Manager{
		backend:  b,
		local:    local,
		log:      log,
		sessions: map[string]*sessionEntry{},
		now:      time.Now,
	}
}

func NewID() string {
	return uuid.NewString()
}

// Get returns the session for id, building its stores (and loading their
// persisted state) on first sight.
func (m *Manager) Get(ctx context.Context, id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.evictLocked(now)

	if e, ok := m.sessions[id]; ok {
		e.lastSeen = now
		return e.session
	}

	log := m.log.With("session_id", id)
	searches := store.NewRecentSearches(ctx, m.local, storeKey(id, keySearches), log)
	s := &Session{
		ID:       id,
		Cart:     store.NewCartStore(ctx, m.backend, m.local, storeKey(id, keyCart), log),
		User:     store.NewUserStore(ctx, m.local, storeKey(id, keyUser), log),
		Wishlist: store.NewWishlistStore(ctx, m.local, storeKey(id, keyWishlist), log),
		Searches: searches,
		Search:   catalog.NewSearch(m.backend, searches, log),
	}
	m.sessions[id] = &sessionEntry{session: s, lastSeen: now}
	return s
}

func (m *Manager) evictLocked(now time.Time) {
	for id, e := range m.sessions {
		if now.Sub(e.lastSeen) > sessionIdleTTL {
			delete(m.sessions, id)
		}
	}
}

func storeKey(sessionID, name string) string {
	return fmt.Sprintf("sess:%s:%s", sessionID, name)
}
