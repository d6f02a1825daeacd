package router

import (
	"net/http"

	"authgate/internal/delivery/http/handler"
	"authgate/internal/delivery/http/middleware"
)

// Handlers holds all HTTP handlers
type Handlers struct {
	Auth *handler.AuthHandler
}

// Setup configures all routes for the application
func Setup(handlers Handlers, resolver middleware.Resolver, cookieName string) *http.ServeMux {
	mux := http.NewServeMux()

	// Middleware helpers
	secure := middleware.SecurityHeaders
	session := middleware.Session(resolver, cookieName)

	// Chain helper
	chain := func(h http.HandlerFunc, middlewares ...func(http.HandlerFunc) http.HandlerFunc) http.HandlerFunc {
		for i := len(middlewares) - 1; i >= 0; i-- {
			h = middlewares[i](h)
		}
		return h
	}

	// Auth routes (public)
	mux.HandleFunc("/auth/login", chain(handlers.Auth.Login, secure))
	mux.HandleFunc("/auth/register", chain(handlers.Auth.Register, secure))
	mux.HandleFunc("/auth/activate", chain(handlers.Auth.Activate, secure))
	mux.HandleFunc("/auth/me", chain(handlers.Auth.Me, secure, session))
	mux.HandleFunc("/logout", chain(handlers.Auth.Logout, secure))

	// Authenticated routes
	mux.HandleFunc("/account", chain(handler.Account, secure, session, middleware.RequireAuth))

	// Public root
	mux.HandleFunc("/", chain(handler.Home, secure))

	return mux
}
