package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vitrine/storefront/internal/domain"
)

type wishlistResponse struct {
	Items []domain.Product `json:"items"`
}

func (s *Server) WishlistHandler(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	respondJSON(w, http.StatusOK, wishlistResponse{Items: sess.Wishlist.Items()})
}

// AddWishlistHandler stores a full product snapshot, fetched fresh from
// the backend so the wishlist survives catalog changes. Duplicate adds
// are no-ops.
func (s *Server) AddWishlistHandler(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	var req struct {
		ProductID string `json:"product_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "product_id is required")
		return
	}

	product, err := s.backend.GetProduct(r.Context(), req.ProductID)
	if err != nil {
		handleBackendError(w, err)
		return
	}

	sess.Wishlist.Add(r.Context(), *product)
	respondJSON(w, http.StatusOK, wishlistResponse{Items: sess.Wishlist.Items()})
}

func (s *Server) RemoveWishlistHandler(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	productID := chi.URLParam(r, "productID")

	sess.Wishlist.Remove(r.Context(), productID)
	respondJSON(w, http.StatusOK, wishlistResponse{Items: sess.Wishlist.Items()})
}
