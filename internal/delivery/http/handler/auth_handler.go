package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"authgate/internal/application/auth"
	"authgate/internal/application/registration"
	domain "authgate/internal/domain/auth"
	"authgate/internal/domain/user"
)

// AuthService is the session-manager surface the handlers need.
type AuthService interface {
	Login(ctx context.Context, identifier, secret string) (string, *user.User, error)
	Destroy(ctx context.Context, token string) error
	TTL() time.Duration
}

// Registrar runs the registration sequence.
type Registrar interface {
	Register(ctx context.Context, in registration.Input) (*user.User, error)
	Activate(ctx context.Context, token string) error
}

type AuthHandler struct {
	auth          AuthService
	registrar     Registrar
	cookieName    string
	secureCookies bool
}

func NewAuthHandler(auth AuthService, registrar Registrar, cookieName string, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		auth:          auth,
		registrar:     registrar,
		cookieName:    cookieName,
		secureCookies: secureCookies,
	}
}

// Login handles POST /auth/login. Both success and bad credentials redirect
// to / — the only observable difference is whether a session cookie was set.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		SendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.LoginRequest
	if !decodeBody(r, &req, func() {
		req.Email = r.PostFormValue("email")
		req.Passwd = r.PostFormValue("passwd")
	}) {
		SendError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	token, _, err := h.auth.Login(r.Context(), req.Email, req.Passwd)
	if err != nil {
		h.loginFailure(w, r, err)
		return
	}

	http.SetCookie(w, h.sessionCookie(token, h.auth.TTL()))
	http.Redirect(w, r, "/", http.StatusFound)
}

// Register handles POST /auth/register and answers with plain status text.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		SendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.RegisterRequest
	if !decodeBody(r, &req, func() {
		req.Username = r.PostFormValue("username")
		req.Email = r.PostFormValue("email")
		req.Name = r.PostFormValue("name")
		req.Password = r.PostFormValue("password")
	}) {
		SendText(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	_, err := h.registrar.Register(r.Context(), registration.Input{
		Username: req.Username,
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})

	var regErr *registration.Error
	if errors.As(err, &regErr) {
		switch regErr.Kind {
		case registration.KindInvalidInput:
			SendText(w, http.StatusBadRequest, regErr.Err.Error())
		case registration.KindUsernameTaken:
			SendText(w, http.StatusConflict, "Username already in use.")
		case registration.KindEmailTaken:
			SendText(w, http.StatusConflict, "Email already in use.")
		case registration.KindCheckFailed:
			SendText(w, http.StatusInternalServerError, "Error checking for existing account.")
		case registration.KindCreationFailed:
			SendText(w, http.StatusInternalServerError, "Error creating new user.")
		case registration.KindNotificationFailed:
			// The account exists; only delivery failed.
			SendText(w, http.StatusOK, "New user created, but the activation e-mail could not be sent.")
		default:
			SendText(w, http.StatusInternalServerError, "Error creating new user.")
		}
		return
	}
	if err != nil {
		SendText(w, http.StatusInternalServerError, "Error creating new user.")
		return
	}

	SendText(w, http.StatusOK, "New user created. Please check your e-mail for first-login authentication token.")
}

// Activate handles GET /auth/activate?token=...
func (h *AuthHandler) Activate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		SendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	token := r.URL.Query().Get("token")
	err := h.registrar.Activate(r.Context(), token)
	switch {
	case err == nil:
		SendText(w, http.StatusOK, "Account activated.")
	case errors.Is(err, user.ErrNotFound):
		SendText(w, http.StatusNotFound, "Invalid activation token.")
	default:
		var regErr *registration.Error
		if errors.As(err, &regErr) && regErr.Kind == registration.KindInvalidInput {
			SendText(w, http.StatusBadRequest, "Missing activation token.")
			return
		}
		SendText(w, http.StatusInternalServerError, "Error activating account.")
	}
}

// Logout handles GET /logout: destroy the session, expire the cookie, go home.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(h.cookieName); err == nil {
		if err := h.auth.Destroy(r.Context(), cookie.Value); err != nil {
			SendError(w, "Failed to logout", http.StatusInternalServerError)
			return
		}
	}

	expired := h.sessionCookie("", 0)
	expired.MaxAge = -1
	http.SetCookie(w, expired)
	http.Redirect(w, r, "/", http.StatusFound)
}

// Me handles GET /auth/me with the identity the session middleware resolved.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		SendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	u := GetUserFromContext(r.Context())
	if u == nil {
		SendError(w, "Authentication required", http.StatusUnauthorized)
		return
	}
	SendSuccess(w, "", u.ToResponse())
}

func (h *AuthHandler) loginFailure(w http.ResponseWriter, r *http.Request, err error) {
	// Bad credentials redirect exactly like success, minus the cookie.
	// Infrastructure failures must not be dressed up as a rejected login.
	if errors.Is(err, auth.ErrInvalidCredentials) {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	SendError(w, "Login unavailable", http.StatusInternalServerError)
}

func (h *AuthHandler) sessionCookie(token string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     h.cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(ttl.Seconds()),
	}
}

// decodeBody fills a request struct from a JSON body, or via the form
// fallback when the client posts urlencoded data.
func decodeBody(r *http.Request, v any, formFallback func()) bool {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "application/json") {
		return json.NewDecoder(r.Body).Decode(v) == nil
	}
	if err := r.ParseForm(); err != nil {
		return false
	}
	formFallback()
	return true
}
