package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"authgate/internal/delivery/http/handler"
	"authgate/internal/domain/user"
)

type fakeResolver struct {
	users map[string]*user.User
	err   error
}

func (f *fakeResolver) Resolve(ctx context.Context, token string) (*user.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.users[token], nil
}

func TestSessionAttachesIdentity(t *testing.T) {
	resolver := &fakeResolver{users: map[string]*user.User{
		"tok-1": {ID: "u-1", Username: "bob"},
	}}

	var got *user.User
	next := func(w http.ResponseWriter, r *http.Request) {
		got = GetUserFromContext(r.Context())
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "tok-1"})
	Session(resolver, "sid")(next)(httptest.NewRecorder(), req)

	assert.NotNil(t, got)
	assert.Equal(t, "u-1", got.ID)
}

func TestSessionWithoutCookiePassesThrough(t *testing.T) {
	resolver := &fakeResolver{}

	called := false
	next := func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Nil(t, GetUserFromContext(r.Context()))
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	Session(resolver, "sid")(next)(httptest.NewRecorder(), req)

	assert.True(t, called)
}

func TestSessionInvalidTokenIsAnonymousNotError(t *testing.T) {
	resolver := &fakeResolver{users: map[string]*user.User{}}

	called := false
	next := func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Nil(t, GetUserFromContext(r.Context()))
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "expired"})
	rec := httptest.NewRecorder()
	Session(resolver, "sid")(next)(rec, req)

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSessionStoreFailureIsAnError(t *testing.T) {
	resolver := &fakeResolver{err: errors.New("redis down")}

	next := func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run when the session store is down")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "tok-1"})
	rec := httptest.NewRecorder()
	Session(resolver, "sid")(next)(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRequireAuthRedirectsAnonymous(t *testing.T) {
	next := func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("guarded handler must not run unauthenticated")
	}

	req := httptest.NewRequest(http.MethodGet, "/account", nil)
	rec := httptest.NewRecorder()
	RequireAuth(next)(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestRequireAuthAdmitsResolvedIdentity(t *testing.T) {
	called := false
	next := func(w http.ResponseWriter, r *http.Request) {
		called = true
	}

	req := httptest.NewRequest(http.MethodGet, "/account", nil)
	ctx := context.WithValue(req.Context(), handler.UserContextKey, &user.User{ID: "u-1"})
	RequireAuth(next)(httptest.NewRecorder(), req.WithContext(ctx))

	assert.True(t, called)
}
