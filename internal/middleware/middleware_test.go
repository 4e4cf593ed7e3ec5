package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"devblog/internal/auth"
	"devblog/internal/config"
	"devblog/internal/reqctx"

	"github.com/stretchr/testify/assert"
)

func chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

var tokens = auth.NewStaticTokens([]config.StaticToken{
	{Token: "admin-token", Role: auth.RoleAdmin, UserID: "1", Name: "Admin"},
	{Token: "user-token", Role: auth.RoleUser, UserID: "100", Name: "Reader"},
})

func serve(h http.Handler, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticate_Optional(t *testing.T) {
	var seen *auth.Principal
	h := chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = auth.FromContext(r.Context())
		uid, _ := reqctx.GetUserID(r.Context())
		w.Header().Set("X-User", uid)
	}), Authenticate(tokens))

	rec := serve(h, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, seen)

	rec = serve(h, "Bearer user-token")
	assert.Equal(t, http.StatusOK, rec.Code)
	if assert.NotNil(t, seen) {
		assert.Equal(t, "100", seen.UserID)
	}
	assert.Equal(t, "100", rec.Header().Get("X-User"))

	assert.Equal(t, http.StatusUnauthorized, serve(h, "Bearer nope").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(h, "Basic abc").Code)
}

func TestOnlyRole(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	h := chain(ok, Authenticate(tokens), OnlyRole(auth.RoleAdmin))

	assert.Equal(t, http.StatusUnauthorized, serve(h, "").Code)
	assert.Equal(t, http.StatusForbidden, serve(h, "Bearer user-token").Code)
	assert.Equal(t, http.StatusOK, serve(h, "Bearer admin-token").Code)

	// администратор проходит любую роль
	authorOnly := chain(ok, Authenticate(tokens), AnyRole(auth.RoleAuthor))
	assert.Equal(t, http.StatusOK, serve(authorOnly, "Bearer admin-token").Code)
}

func TestRequireAuth(t *testing.T) {
	h := chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}), Authenticate(tokens), RequireAuth)
	assert.Equal(t, http.StatusUnauthorized, serve(h, "").Code)
	assert.Equal(t, http.StatusOK, serve(h, "Bearer user-token").Code)
}

func TestRequestIDAndRecoverer(t *testing.T) {
	h := chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := reqctx.GetRequestID(r.Context()); !ok {
			t.Error("request id missing")
		}
		panic("boom")
	}), RequestID, Logging, Recoverer)

	rec := serve(h, "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(HeaderRequestID))
	assert.Contains(t, rec.Body.String(), `"success":false`)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(HeaderRequestID))
}
