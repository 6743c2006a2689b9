// Package http is the storefront's HTTP surface. Handlers translate
// routes into store and backend operations and respond with JSON view
// state; they hold no state of their own beyond the session's stores.
package http

import (
	"log/slog"
	"time"

	"github.com/vitrine/storefront/internal/backend"
)

type Server struct {
	backend         *backend.Client
	log             *slog.Logger
	processingDelay time.Duration
}

func NewServer(client *backend.Client, processingDelay time.Duration, log *slog.Logger) *Server {
	return &Server{
		backend:         client,
		log:             log,
		processingDelay: processingDelay,
	}
}
