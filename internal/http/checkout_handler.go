package http

import (
	"encoding/json"
	"net/http"

	"github.com/vitrine/storefront/internal/checkout"
	"github.com/vitrine/storefront/internal/domain"
)

type shippingInfoRequest struct {
	Email           string         `json:"email"`
	ShippingAddress domain.Address `json:"shipping_address"`
	UseSameAddress  *bool          `json:"use_same_address"`
	BillingAddress  domain.Address `json:"billing_address"`
}

type shippingMethodRequest struct {
	ShippingMethodID string `json:"shipping_method_id"`
}

type paymentRequest struct {
	PaymentMethod   checkout.PaymentMethod `json:"payment_method"`
	Card            checkout.CardDetails   `json:"card"`
	SavePaymentInfo bool                   `json:"save_payment_info"`
	AcceptTerms     bool                   `json:"accept_terms"`
}

// BeginCheckoutHandler starts a fresh flow, discarding any previous
// draft. An empty cart cannot enter checkout.
func (s *Server) BeginCheckoutHandler(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	sess.Cart.Refresh(r.Context())
	if sess.Cart.Snapshot().ItemCount == 0 {
		respondError(w, http.StatusConflict, "cart_empty", "Seu carrinho está vazio.")
		return
	}

	flow := sess.BeginCheckout(func() *checkout.Flow {
		return checkout.NewFlow(s.backend, sess.Cart, s.processingDelay, s.log)
	})
	respondJSON(w, http.StatusOK, flow.Snapshot())
}

func (s *Server) CheckoutHandler(w http.ResponseWriter, r *http.Request) {
	flow, ok := checkoutFrom(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, flow.Snapshot())
}

func (s *Server) ShippingInfoHandler(w http.ResponseWriter, r *http.Request) {
	flow, ok := checkoutFrom(w, r)
	if !ok {
		return
	}

	var req shippingInfoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	useSame := true
	if req.UseSameAddress != nil {
		useSame = *req.UseSameAddress
	}

	if err := flow.SubmitShippingInfo(req.Email, req.ShippingAddress, useSame, req.BillingAddress); err != nil {
		handleCheckoutError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, flow.Snapshot())
}

func (s *Server) ShippingMethodHandler(w http.ResponseWriter, r *http.Request) {
	flow, ok := checkoutFrom(w, r)
	if !ok {
		return
	}

	var req shippingMethodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	if err := flow.SubmitShippingMethod(req.ShippingMethodID); err != nil {
		handleCheckoutError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, flow.Snapshot())
}

// PaymentHandler runs the final step: validation, the simulated
// processing delay, then the address push and cart completion against
// the backend.
func (s *Server) PaymentHandler(w http.ResponseWriter, r *http.Request) {
	flow, ok := checkoutFrom(w, r)
	if !ok {
		return
	}

	var req paymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	err := flow.SubmitPayment(r.Context(), req.PaymentMethod, req.Card, req.SavePaymentInfo, req.AcceptTerms)
	if err != nil {
		handleCheckoutError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, flow.Snapshot())
}

func (s *Server) CheckoutBackHandler(w http.ResponseWriter, r *http.Request) {
	flow, ok := checkoutFrom(w, r)
	if !ok {
		return
	}
	flow.Back()
	respondJSON(w, http.StatusOK, flow.Snapshot())
}

func checkoutFrom(w http.ResponseWriter, r *http.Request) (*checkout.Flow, bool) {
	sess := sessionFrom(r.Context())
	flow, ok := sess.Checkout()
	if !ok {
		respondError(w, http.StatusNotFound, "checkout_not_started", "no checkout in progress")
		return nil, false
	}
	return flow, true
}
