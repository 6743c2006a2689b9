package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/vitrine/storefront/internal/session"
)

// NewRouter wires every storefront route. All routes run under the
// session middleware.
func NewRouter(s *Server, manager *session.Manager) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))
	r.Use(SessionMiddleware(manager))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/", s.HomeHandler)
	r.Get("/faq", FAQHandler)

	r.Get("/products", s.ProductsHandler)
	r.Get("/products/{id}", s.ProductDetailHandler)
	r.Get("/collections", s.CollectionsHandler)
	r.Get("/collections/{handle}", s.CollectionHandler)
	r.Get("/brands", s.BrandsHandler)

	r.Get("/search", s.SearchHandler)
	r.Post("/search/clear", s.ClearSearchHandler)
	r.Get("/search/suggestions", s.SuggestionsHandler)

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", s.CartHandler)
		r.Post("/", s.CartInitHandler)
		r.Post("/items", s.AddItemHandler)
		r.Post("/items/{lineID}", s.UpdateItemHandler)
		r.Delete("/items/{lineID}", s.RemoveItemHandler)
		r.Post("/drawer/open", s.OpenDrawerHandler)
		r.Post("/drawer/close", s.CloseDrawerHandler)
		r.Post("/drawer/toggle", s.ToggleDrawerHandler)
	})

	r.Route("/wishlist", func(r chi.Router) {
		r.Get("/", s.WishlistHandler)
		r.Post("/", s.AddWishlistHandler)
		r.Delete("/{productID}", s.RemoveWishlistHandler)
	})

	r.Post("/auth", s.LoginHandler)
	r.Get("/auth", s.CurrentUserHandler)
	r.Delete("/auth", s.LogoutHandler)
	r.Post("/customers", s.RegisterHandler)
	r.Get("/customers/me/orders", s.OrdersHandler)

	r.Route("/checkout", func(r chi.Router) {
		r.Post("/", s.BeginCheckoutHandler)
		r.Get("/", s.CheckoutHandler)
		r.Post("/shipping-info", s.ShippingInfoHandler)
		r.Post("/shipping-method", s.ShippingMethodHandler)
		r.Post("/payment", s.PaymentHandler)
		r.Post("/back", s.CheckoutBackHandler)
	})

	r.NotFound(NotFoundHandler)

	return otelhttp.NewHandler(r, "storefront")
}
