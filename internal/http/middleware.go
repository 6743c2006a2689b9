package http

import (
	"context"
	"net/http"

	"github.com/vitrine/storefront/internal/session"
)

// SessionCookie carries the visitor id; it is the only server-side
// coupling between a browser and its client-state stores. The cookie
// must outlive the browser session: every persisted key (cart id,
// wishlist, search history) is namespaced by this id.
const (
	SessionCookie       = "storefront_session"
	sessionCookieMaxAge = 365 * 24 * 60 * 60
)

type ctxKey int

const sessionKey ctxKey = iota

// SessionMiddleware attaches the request's session to the context,
// minting a new id (and cookie) for first-time visitors.
func SessionMiddleware(manager *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
				id = c.Value
			} else {
				id = session.NewID()
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookie,
					Value:    id,
					Path:     "/",
					MaxAge:   sessionCookieMaxAge,
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			sess := manager.Get(r.Context(), id)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey, sess)))
		})
	}
}

func sessionFrom(ctx context.Context) *session.Session {
	s, _ := ctx.Value(sessionKey).(*session.Session)
	return s
}
