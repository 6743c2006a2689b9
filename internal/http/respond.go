package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/vitrine/storefront/internal/backend"
	"github.com/vitrine/storefront/internal/checkout"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleBackendError maps commerce-backend failures onto the storefront's
// error envelope. Missing resources are page-level empty states; anything
// else degrades to a bad-gateway notification. Nothing retries.
func handleBackendError(w http.ResponseWriter, err error) {
	if errors.Is(err, backend.ErrNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "resource not found")
		return
	}
	respondError(w, http.StatusBadGateway, "backend_unavailable", "commerce backend request failed")
}

// handleCheckoutError distinguishes user-fixable validation failures from
// backend ones.
func handleCheckoutError(w http.ResponseWriter, err error) {
	var verr *checkout.ValidationError
	if errors.As(err, &verr) {
		respondError(w, http.StatusBadRequest, "validation_failed", verr.Message)
		return
	}
	handleBackendError(w, err)
}
