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

// userState is persisted in full. There is no token or expiry here:
// session validity is assumed, not verified.
type userState struct {
	User          *domain.Customer `json:"user"`
	Authenticated bool             `json:"authenticated"`
}

type UserStore struct {
	mu    sync.Mutex
	local localstore.Store
	key   string
	log   *slog.Logger

	state userState
}

func NewUserStore(ctx context.Context, local localstore.Store, key string, log *slog.Logger) *UserStore {
	s := &UserStore{
		local: local,
		key:   key,
		log:   log,
	}

	data, err := local.Get(ctx, key)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &s.state); err != nil {
			log.Error("failed to decode persisted user state", "error", err)
			s.state = userState{}
		}
	case !errors.Is(err, localstore.ErrKeyNotFound):
		log.Error("failed to load persisted user state", "error", err)
	}

	return s
}

func (s *UserStore) Login(ctx context.Context, customer domain.Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = userState{User: &customer, Authenticated: true}
	s.persistLocked(ctx)
}

func (s *UserStore) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = userState{}
	s.persistLocked(ctx)
}

func (s *UserStore) Current() (domain.Customer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.Authenticated || s.state.User == nil {
		return domain.Customer{}, false
	}
	return *s.state.User, true
}

func (s *UserStore) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Authenticated
}

func (s *UserStore) persistLocked(ctx context.Context) {
	data, err := json.Marshal(s.state)
	if err != nil {
		s.log.Error("failed to encode user state", "error", err)
		return
	}
	if err := s.local.Set(ctx, s.key, data); err != nil {
		s.log.Error("failed to persist user state", "error", err)
	}
}
