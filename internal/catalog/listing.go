package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/vitrine/storefront/internal/backend"
	"github.com/vitrine/storefront/internal/domain"
)

// ItemsPerPage is fixed; the backend drives pagination through its
// reported total count.
const ItemsPerPage = 12

type SortKey string

const (
	SortPriceAsc   SortKey = "price-asc"
	SortPriceDesc  SortKey = "price-desc"
	SortNameAsc    SortKey = "name-asc"
	SortNameDesc   SortKey = "name-desc"
	SortNewest     SortKey = "newest"
	SortPopularity SortKey = "popularity"
)

var sortKeys = map[SortKey]bool{
	SortPriceAsc:   true,
	SortPriceDesc:  true,
	SortNameAsc:    true,
	SortNameDesc:   true,
	SortNewest:     true,
	SortPopularity: true,
}

func ParseSortKey(s string) (SortKey, bool) {
	key := SortKey(s)
	return key, sortKeys[key]
}

// Brand is a sidebar filter entry. The set is fixed; a brand facet is not
// part of the backend catalog surface.
type Brand struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

var Brands = []Brand{
	{ID: "brand1", Name: "Brand 1", Count: 12},
	{ID: "brand2", Name: "Brand 2", Count: 8},
	{ID: "brand3", Name: "Brand 3", Count: 5},
	{ID: "brand4", Name: "Brand 4", Count: 3},
}

type ListingSnapshot struct {
	Collection    *domain.Collection  `json:"collection,omitempty"`
	Collections   []domain.Collection `json:"collections"`
	Products      []domain.Product    `json:"products"`
	SortBy        SortKey             `json:"sort_by"`
	Page          int                 `json:"page"`
	TotalPages    int                 `json:"total_pages"`
	ActiveFilters []string            `json:"active_filters"`
	Loading       bool                `json:"loading"`
	Error         string              `json:"error,omitempty"`
}

// Listing drives a category page: fetches the collection's product page
// by limit/offset and tracks sort and filter selections.
//
// Brand, price and sort selections only feed the active-filter chips;
// they are not forwarded to the backend query, so the fetched result set
// does not change.
type Listing struct {
	mu      sync.Mutex
	backend Backend
	log     *slog.Logger

	handle         string
	collection     *domain.Collection
	collections    []domain.Collection
	products       []domain.Product
	sortBy         SortKey
	selectedBrands map[string]bool
	priceMin       int64
	priceMax       int64
	page           int
	totalPages     int
	loading        bool
	loadErr        string
}

func NewListing(b Backend, log *slog.Logger) *Listing {
	return &Listing{
		backend:        b,
		log:            log,
		sortBy:         SortNewest,
		selectedBrands: map[string]bool{},
		priceMin:       0,
		priceMax:       1000,
		page:           1,
	}
}

// SetHandle points the listing at a category route param. Changing it
// requires a Load to take effect.
func (l *Listing) SetHandle(handle string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.handle = handle
}

// SetPage moves to a 1-based page. Requires a Load to take effect.
func (l *Listing) SetPage(page int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if page < 1 {
		page = 1
	}
	l.page = page
}

func (l *Listing) SetSort(key SortKey) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if sortKeys[key] {
		l.sortBy = key
	}
}

func (l *Listing) ToggleBrand(brandID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.selectedBrands[brandID] {
		delete(l.selectedBrands, brandID)
	} else {
		l.selectedBrands[brandID] = true
	}
}

func (l *Listing) SetPriceRange(min, max int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.priceMin, l.priceMax = min, max
}

// Load fetches the sidebar collections and the current product page. The
// two calls are independent and run concurrently.
func (l *Listing) Load(ctx context.Context) {
	l.mu.Lock()
	handle := l.handle
	page := l.page
	l.loading = true
	l.loadErr = ""
	l.mu.Unlock()

	var (
		collections []domain.Collection
		collection  *domain.Collection
		list        *backend.ProductList
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		collections, err = l.backend.ListCollections(gctx)
		return err
	})

	g.Go(func() error {
		query := backend.ProductQuery{
			Limit:  ItemsPerPage,
			Offset: (page - 1) * ItemsPerPage,
		}
		if handle != "" {
			var err error
			collection, err = l.backend.GetCollection(gctx, handle)
			if err != nil {
				return err
			}
			query.CollectionID = collection.ID
		}
		var err error
		list, err = l.backend.ListProducts(gctx, query)
		return err
	})

	err := g.Wait()

	l.mu.Lock()
	defer l.mu.Unlock()
	l.loading = false
	if err != nil {
		l.log.Error("failed to load category page", "handle", handle, "page", page, "error", err)
		l.loadErr = "Não foi possível carregar os produtos."
		return
	}

	l.collections = collections
	l.collection = collection
	l.products = list.Products
	l.totalPages = (list.Count + ItemsPerPage - 1) / ItemsPerPage
}

func (l *Listing) Snapshot() ListingSnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	return ListingSnapshot{
		Collection:    l.collection,
		Collections:   l.collections,
		Products:      l.products,
		SortBy:        l.sortBy,
		Page:          l.page,
		TotalPages:    l.totalPages,
		ActiveFilters: l.activeFiltersLocked(),
		Loading:       l.loading,
		Error:         l.loadErr,
	}
}

// activeFiltersLocked renders the filter chips: one per selected brand,
// plus the price range when it differs from the default.
func (l *Listing) activeFiltersLocked() []string {
	var chips []string
	for _, b := range Brands {
		if l.selectedBrands[b.ID] {
			chips = append(chips, b.Name)
		}
	}
	if l.priceMin != 0 || l.priceMax != 1000 {
		chips = append(chips, fmt.Sprintf("R$%d - R$%d", l.priceMin, l.priceMax))
	}
	return chips
}
