package http

import (
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/vitrine/storefront/internal/backend"
	"github.com/vitrine/storefront/internal/domain"
	"github.com/vitrine/storefront/internal/store"
)

const featuredLimit = 8

type homeResponse struct {
	Collections []domain.Collection `json:"collections"`
	Featured    []domain.Product    `json:"featured_products"`
	Cart        store.CartSnapshot  `json:"cart"`
}

// HomeHandler assembles the landing page: collection strip, the featured
// product grid and the visitor's cart, initialized on first visit. The
// backend fetches run concurrently.
func (s *Server) HomeHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := sessionFrom(ctx)

	var (
		collections []domain.Collection
		featured    *backend.ProductList
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		collections, err = s.backend.ListCollections(gctx)
		return err
	})

	g.Go(func() error {
		var err error
		featured, err = s.backend.ListProducts(gctx, backend.ProductQuery{Limit: featuredLimit})
		return err
	})

	// Cart init failure never takes the page down; the visitor gets the
	// empty cart snapshot and the catalog content regardless.
	g.Go(func() error {
		if err := sess.Cart.Init(gctx); err != nil {
			s.log.Error("failed to initialize cart on home page", "error", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		handleBackendError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, homeResponse{
		Collections: collections,
		Featured:    featured.Products,
		Cart:        sess.Cart.Snapshot(),
	})
}

func NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	respondError(w, http.StatusNotFound, "page_not_found", "Página não encontrada.")
}
