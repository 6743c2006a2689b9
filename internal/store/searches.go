package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/vitrine/storefront/internal/localstore"
)

// recentSearchLimit caps the history at 5 entries, most recent first.
const recentSearchLimit = 5

// RecentSearches keeps the device-local search history.
type RecentSearches struct {
	mu    sync.Mutex
	local localstore.Store
	key   string
	log   *slog.Logger

	terms []string
}

func NewRecentSearches(ctx context.Context, local localstore.Store, key string, log *slog.Logger) *RecentSearches {
	s := &RecentSearches{
		local: local,
		key:   key,
		log:   log,
	}

	data, err := local.Get(ctx, key)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &s.terms); err != nil {
			log.Error("failed to decode recent searches", "error", err)
			s.terms = nil
		}
	case !errors.Is(err, localstore.ErrKeyNotFound):
		log.Error("failed to load recent searches", "error", err)
	}

	return s
}

// Record prepends a query. A query already in the history is not
// re-recorded and keeps its position.
func (s *RecentSearches) Record(ctx context.Context, query string) {
	if query == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, term := range s.terms {
		if term == query {
			return
		}
	}

	keep := s.terms
	if len(keep) > recentSearchLimit-1 {
		keep = keep[:recentSearchLimit-1]
	}
	s.terms = append([]string{query}, keep...)
	s.persistLocked(ctx)
}

func (s *RecentSearches) List() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, len(s.terms))
	copy(out, s.terms)
	return out
}

func (s *RecentSearches) persistLocked(ctx context.Context) {
	data, err := json.Marshal(s.terms)
	if err != nil {
		s.log.Error("failed to encode recent searches", "error", err)
		return
	}
	if err := s.local.Set(ctx, s.key, data); err != nil {
		s.log.Error("failed to persist recent searches", "error", err)
	}
}
