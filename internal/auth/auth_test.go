package auth

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-32-characters-long!!"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// capturePrincipal records the principal seen by the wrapped handler.
func capturePrincipal(seen *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*seen = PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestPrincipalFromContext_DefaultsToSystem(t *testing.T) {
	assert.Equal(t, SystemPrincipal, PrincipalFromContext(context.Background()))
	assert.Equal(t, "alice", PrincipalFromContext(WithPrincipal(context.Background(), "alice")))
	assert.Equal(t, SystemPrincipal, PrincipalFromContext(WithPrincipal(context.Background(), "")))
}

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)

	token, err := tm.GenerateToken("alice")
	require.NoError(t, err)

	subject, err := tm.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)
}

func TestTokenManager_RejectsBadTokens(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)

	other, err := NewTokenManager("another-secret-of-adequate-length", time.Hour).GenerateToken("alice")
	require.NoError(t, err)

	expired, err := NewTokenManager(testSecret, -time.Minute).GenerateToken("alice")
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"garbage":      "not.a.token",
		"wrong secret": other,
		"expired":      expired,
		"no subject":   noSubject,
	} {
		_, err := tm.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken, name)
	}
}

func TestPrincipalMiddleware_AnonymousGetsUUID(t *testing.T) {
	var seen string
	handler := PrincipalMiddleware(NewTokenManager(testSecret, time.Hour), discardLogger())(capturePrincipal(&seen))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/members", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	_, err := uuid.Parse(seen)
	assert.NoError(t, err, "principal %q should be a UUID", seen)
}

func TestPrincipalMiddleware_BearerSubject(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)
	token, err := tm.GenerateToken("alice")
	require.NoError(t, err)

	var seen string
	handler := PrincipalMiddleware(tm, discardLogger())(capturePrincipal(&seen))

	req := httptest.NewRequest(http.MethodPost, "/members", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", seen)
}

func TestPrincipalMiddleware_RejectsInvalidHeader(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)

	for _, header := range []string{"Bearer nope", "Basic dXNlcjpwYXNz", "Bearer"} {
		var seen string
		handler := PrincipalMiddleware(tm, discardLogger())(capturePrincipal(&seen))

		req := httptest.NewRequest(http.MethodGet, "/members", nil)
		req.Header.Set("Authorization", header)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code, header)
		assert.Empty(t, seen, header)
	}
}

func TestPrincipalMiddleware_NoTokenManagerIgnoresHeader(t *testing.T) {
	var seen string
	handler := PrincipalMiddleware(nil, discardLogger())(capturePrincipal(&seen))

	req := httptest.NewRequest(http.MethodGet, "/members", nil)
	req.Header.Set("Authorization", "Bearer whatever")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	_, err := uuid.Parse(seen)
	assert.NoError(t, err)
}
