package middleware

import (
	"context"
	"net/http"

	"authgate/internal/delivery/http/handler"
	"authgate/internal/domain/user"
)

// Resolver maps a session token to its current identity. A nil user with a
// nil error means unauthenticated.
type Resolver interface {
	Resolve(ctx context.Context, token string) (*user.User, error)
}

// Session reads the session cookie and, when it resolves to an identity,
// attaches it to the request context. Requests without a valid session pass
// through untouched; store failures are surfaced, not treated as anonymous.
func Session(resolver Resolver, cookieName string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookieName)
			if err != nil {
				next(w, r)
				return
			}

			u, err := resolver.Resolve(r.Context(), cookie.Value)
			if err != nil {
				handler.SendError(w, "Session lookup failed", http.StatusInternalServerError)
				return
			}
			if u != nil {
				ctx := context.WithValue(r.Context(), handler.UserContextKey, u)
				r = r.WithContext(ctx)
			}
			next(w, r)
		}
	}
}

// RequireAuth lets a request through only when the session middleware put an
// identity on the context; everyone else gets the same redirect.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if handler.GetUserFromContext(r.Context()) == nil {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next(w, r)
	}
}

// GetUserFromContext retrieves the user from request context
func GetUserFromContext(ctx context.Context) *user.User {
	return handler.GetUserFromContext(ctx)
}
