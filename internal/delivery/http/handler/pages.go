package handler

import (
	"fmt"
	"net/http"
)

// Home handles GET /
func Home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	SendText(w, http.StatusOK, "Hi.")
}

// Account handles GET /account; the route is gated by the auth middleware so
// the identity is always present here.
func Account(w http.ResponseWriter, r *http.Request) {
	u := GetUserFromContext(r.Context())
	if u == nil {
		SendError(w, "Authentication required", http.StatusUnauthorized)
		return
	}
	SendText(w, http.StatusOK, fmt.Sprintf("Hi, %s.", u.Username))
}
