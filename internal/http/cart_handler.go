package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type addItemRequest struct {
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

// CartHandler returns the session's cart, refreshed from the backend
// when one exists. Visitors without a cart see the empty snapshot; the
// cart is created lazily by init or the first add.
func (s *Server) CartHandler(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	if sess.Cart.Snapshot().CartID != "" {
		sess.Cart.Refresh(r.Context())
	}
	respondJSON(w, http.StatusOK, sess.Cart.Snapshot())
}

// CartInitHandler fetches the cached cart or creates a new one.
func (s *Server) CartInitHandler(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	if err := sess.Cart.Init(r.Context()); err != nil {
		handleBackendError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sess.Cart.Snapshot())
}

// AddItemHandler adds a variant to the cart. Backend failures do not
// fail the request; the snapshot simply comes back unchanged, the same
// notify-and-carry-on behavior the cart store applies everywhere.
func (s *Server) AddItemHandler(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.VariantID == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "variant_id is required")
		return
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	sess.Cart.AddItem(r.Context(), req.VariantID, req.Quantity)
	respondJSON(w, http.StatusOK, sess.Cart.Snapshot())
}

func (s *Server) UpdateItemHandler(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	lineID := chi.URLParam(r, "lineID")

	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	sess.Cart.UpdateItem(r.Context(), lineID, req.Quantity)
	respondJSON(w, http.StatusOK, sess.Cart.Snapshot())
}

func (s *Server) RemoveItemHandler(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	lineID := chi.URLParam(r, "lineID")

	sess.Cart.RemoveItem(r.Context(), lineID)
	respondJSON(w, http.StatusOK, sess.Cart.Snapshot())
}

func (s *Server) OpenDrawerHandler(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	sess.Cart.OpenDrawer()
	respondJSON(w, http.StatusOK, sess.Cart.Snapshot())
}

func (s *Server) CloseDrawerHandler(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	sess.Cart.CloseDrawer()
	respondJSON(w, http.StatusOK, sess.Cart.Snapshot())
}

func (s *Server) ToggleDrawerHandler(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	sess.Cart.ToggleDrawer()
	respondJSON(w, http.StatusOK, sess.Cart.Snapshot())
}
