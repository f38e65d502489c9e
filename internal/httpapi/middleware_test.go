package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"leadcrm/backend/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	h := requestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, seen, 36)
	assert.Equal(t, seen, rec.Header().Get(requestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
}

func TestLoggingMiddleware(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	h := requestIDMiddleware(loggingMiddleware(zap.New(core), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})))

	req := httptest.NewRequest(http.MethodPost, "/brew", nil)
	req.Header.Set(requestIDHeader, "rid-1")
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "POST", fields["method"])
	assert.Equal(t, "/brew", fields["path"])
	assert.EqualValues(t, http.StatusTeapot, fields["status"])
	assert.Equal(t, "rid-1", fields["request_id"])
}

func TestRecoverMiddleware(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	env := newTestServer(t)
	env.server.logger = zap.New(core)

	h := env.server.recoverMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("kaboom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assertError(t, rec, http.StatusInternalServerError, "Server error")
	assert.Equal(t, 1, logs.FilterMessage("request failed").Len())
}

func TestRequireAuth_StoresClaims(t *testing.T) {
	env := newTestServer(t)
	tok, err := env.issuer.Issue(77, "claims@example.com")
	require.NoError(t, err)

	var got *auth.Claims
	h := env.server.requireAuth(func(w http.ResponseWriter, r *http.Request) {
		c, ok := claimsFromContext(r.Context())
		require.True(t, ok)
		got = c
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	h(httptest.NewRecorder(), req)

	require.NotNil(t, got)
	assert.Equal(t, int64(77), got.ID)
	assert.Equal(t, "claims@example.com", got.Email)
}

func TestRequireAuth_Rejections(t *testing.T) {
	env := newTestServer(t)
	called := false
	h := env.server.requireAuth(func(w http.ResponseWriter, r *http.Request) { called = true })

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assertError(t, rec, http.StatusUnauthorized, "No token")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwdw==")
	rec = httptest.NewRecorder()
	h(rec, req)
	assertError(t, rec, http.StatusForbidden, "Invalid token")

	assert.False(t, called)
}

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		kind   errorKind
		status int
		msg    string
	}{
		{errAuthMissing, http.StatusUnauthorized, "No token"},
		{errAuthInvalid, http.StatusForbidden, "Invalid token"},
		{errUserExists, http.StatusBadRequest, "User exists"},
		{errInvalidCredentials, http.StatusBadRequest, "Invalid credentials"},
		{errLeadNotFound, http.StatusBadRequest, "Lead not found"},
		{errBadRequest, http.StatusBadRequest, "Invalid JSON"},
		{errRouteNotFound, http.StatusNotFound, "Not found"},
		{errUnexpected, http.StatusInternalServerError, "Server error"},
		{errorKind(99), http.StatusInternalServerError, "Server error"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.status, tt.kind.status())
		assert.Equal(t, tt.msg, tt.kind.message())
	}
}

func TestLeadMutations_AreAudited(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	env := newTestServer(t)
	env.server.logger = zap.New(core)
	tok, err := env.issuer.Issue(5, "auditor@example.com")
	require.NoError(t, err)

	rec := env.do(t, http.MethodPost, "/api/leads", tok, leadRequest{Name: "x"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodDelete, "/api/leads/1", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	created := logs.FilterMessage("lead created").All()
	require.Len(t, created, 1)
	fields := created[0].ContextMap()
	assert.EqualValues(t, 1, fields["lead_id"])
	assert.EqualValues(t, 5, fields["user_id"])
	assert.Equal(t, "auditor@example.com", fields["user_email"])
	assert.Equal(t, 1, logs.FilterMessage("lead deleted").Len())
}
