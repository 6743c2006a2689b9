package catalog

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/vitrine/storefront/internal/backend"
	"github.com/vitrine/storefront/internal/domain"
	"github.com/vitrine/storefront/internal/store"
)

// PopularSearches is the fixed suggestion vocabulary. Suggestions are a
// local substring match, not a backend service.
var PopularSearches = []string{
	"Camisetas", "Calças", "Vestidos", "Acessórios", "Eletrônicos", "Calçados",
}

const (
	suggestionMinQuery = 2
	suggestionLimit    = 5
)

type SearchSnapshot struct {
	Query   string           `json:"query"`
	Results []domain.Product `json:"results"`
	Recent  []string         `json:"recent"`
	Popular []string         `json:"popular"`
	Loading bool             `json:"loading"`
}

// Search runs text queries against the backend. Each Run bumps a
// generation counter; a response that comes back after a newer query has
// started is discarded instead of overwriting fresher results.
type Search struct {
	mu      sync.Mutex
	backend Backend
	recent  *store.RecentSearches
	log     *slog.Logger

	query   string
	results []domain.Product
	gen     uint64
	loading bool
}

func NewSearch(b Backend, recent *store.RecentSearches, log *slog.Logger) *Search {
	return &Search{
		backend: b,
		recent:  recent,
		log:     log,
	}
}

// Suggestions filters the popular terms by case-insensitive substring.
// Queries shorter than two characters suggest nothing.
func Suggestions(query string) []string {
	if len([]rune(query)) < suggestionMinQuery {
		return nil
	}

	lower := strings.ToLower(query)
	var out []string
	for _, term := range PopularSearches {
		if strings.Contains(strings.ToLower(term), lower) {
			out = append(out, term)
			if len(out) == suggestionLimit {
				break
			}
		}
	}
	return out
}

// Run performs one search. Successful searches are recorded in the
// recent-search history.
func (s *Search) Run(ctx context.Context, query string) {
	if query == "" {
		return
	}

	s.mu.Lock()
	s.gen++
	myGen := s.gen
	s.query = query
	s.loading = true
	s.mu.Unlock()

	list, err := s.backend.ListProducts(ctx, backend.ProductQuery{Query: query})

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != myGen {
		// A newer query superseded this one while it was in flight.
		return
	}
	s.loading = false

	if err != nil {
		s.log.Error("failed to search products", "query", query, "error", err)
		return
	}

	s.results = list.Products
	s.recent.Record(ctx, query)
}

// Clear resets the query and results, the "x" affordance on the search box.
func (s *Search) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.query = ""
	s.results = nil
	s.loading = false
}

func (s *Search) Snapshot() SearchSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return SearchSnapshot{
		Query:   s.query,
		Results: s.results,
		Recent:  s.recent.List(),
		Popular: PopularSearches,
		Loading: s.loading,
	}
}
