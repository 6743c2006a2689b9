package http

import (
	"encoding/json"
	"net/http"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// LoginHandler authenticates against the backend and, on success,
// stores the customer snapshot in the session's user store. Any backend
// rejection reads as bad credentials to the visitor; the real cause is
// logged.
func (s *Server) LoginHandler(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "email and password are required")
		return
	}

	customer, err := s.backend.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.log.Error("login failed", "email", req.Email, "error", err)
		respondError(w, http.StatusUnauthorized, "invalid_credentials", "E-mail ou senha inválidos.")
		return
	}

	sess.User.Login(r.Context(), *customer)
	respondJSON(w, http.StatusOK, map[string]any{"user": customer})
}

func (s *Server) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	sess.User.Logout(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) CurrentUserHandler(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	user, ok := sess.User.Current()
	if !ok {
		respondError(w, http.StatusUnauthorized, "not_authenticated", "not authenticated")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"user": user})
}

// RegisterHandler creates the customer and logs the session in, the
// same post-signup behavior the login form has.
func (s *Server) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "email and password are required")
		return
	}

	customer, err := s.backend.CreateCustomer(r.Context(), req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		handleBackendError(w, err)
		return
	}

	sess.User.Login(r.Context(), *customer)
	respondJSON(w, http.StatusCreated, map[string]any{"user": customer})
}

func (s *Server) OrdersHandler(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	if !sess.User.IsAuthenticated() {
		respondError(w, http.StatusUnauthorized, "not_authenticated", "not authenticated")
		return
	}

	orders, err := s.backend.CustomerOrders(r.Context())
	if err != nil {
		handleBackendError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"orders": orders})
}
