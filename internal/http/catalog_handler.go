package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/vitrine/storefront/internal/catalog"
)

// listingFromRequest builds a category listing from route and query
// state. Every request rebuilds the listing; pagination, sort and
// filters all arrive as query parameters.
func (s *Server) listingFromRequest(r *http.Request, handle string) *catalog.Listing {
	l := catalog.NewListing(s.backend, s.log)
	l.SetHandle(handle)

	q := r.URL.Query()
	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		l.SetPage(page)
	}
	if key, ok := catalog.ParseSortKey(q.Get("sort")); ok {
		l.SetSort(key)
	}
	for _, brand := range q["brand"] {
		l.ToggleBrand(brand)
	}
	if q.Has("price_min") || q.Has("price_max") {
		min, _ := strconv.ParseInt(q.Get("price_min"), 10, 64)
		max, err := strconv.ParseInt(q.Get("price_max"), 10, 64)
		if err != nil {
			max = 1000
		}
		l.SetPriceRange(min, max)
	}
	return l
}

// ProductsHandler is the all-products index, a listing with no
// collection scope.
func (s *Server) ProductsHandler(w http.ResponseWriter, r *http.Request) {
	l := s.listingFromRequest(r, "")
	l.Load(r.Context())

	snap := l.Snapshot()
	if snap.Error != "" {
		respondError(w, http.StatusBadGateway, "backend_unavailable", snap.Error)
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

// ProductDetailHandler loads one product. Option selections arrive as
// repeated "option" parameters in "optionID:value" form; the quantity
// stepper as "quantity".
func (s *Server) ProductDetailHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	d := catalog.NewDetail(s.backend, s.log)
	if err := d.Load(r.Context(), id); err != nil {
		handleBackendError(w, err)
		return
	}

	q := r.URL.Query()
	for _, sel := range q["option"] {
		optionID, value, ok := strings.Cut(sel, ":")
		if ok {
			d.SelectOption(optionID, value)
		}
	}
	if n, err := strconv.Atoi(q.Get("quantity")); err == nil {
		d.SetQuantity(n)
	}

	respondJSON(w, http.StatusOK, d.Snapshot())
}

func (s *Server) CollectionsHandler(w http.ResponseWriter, r *http.Request) {
	collections, err := s.backend.ListCollections(r.Context())
	if err != nil {
		handleBackendError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"collections": collections})
}

// CollectionHandler is the category page for one collection handle.
func (s *Server) CollectionHandler(w http.ResponseWriter, r *http.Request) {
	handle := chi.URLParam(r, "handle")

	l := s.listingFromRequest(r, handle)
	l.Load(r.Context())

	snap := l.Snapshot()
	if snap.Error != "" {
		respondError(w, http.StatusBadGateway, "backend_unavailable", snap.Error)
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

// SearchHandler runs a text search on the session's shared controller:
// successful queries land in the recent-search history, and a response
// that comes back after a newer query from the same session has started
// is discarded by the controller's generation counter.
func (s *Server) SearchHandler(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	if q := r.URL.Query().Get("q"); q != "" {
		sess.Search.Run(r.Context(), q)
	}
	respondJSON(w, http.StatusOK, sess.Search.Snapshot())
}

// ClearSearchHandler resets the session's query and results, the "x"
// affordance on the search box.
func (s *Server) ClearSearchHandler(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	sess.Search.Clear()
	respondJSON(w, http.StatusOK, sess.Search.Snapshot())
}

func (s *Server) SuggestionsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	suggestions := catalog.Suggestions(q)
	if suggestions == nil {
		suggestions = []string{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"suggestions": suggestions})
}

func (s *Server) BrandsHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"brands": catalog.Brands})
}
