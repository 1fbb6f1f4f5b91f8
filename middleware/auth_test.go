package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestJWTAuthMiddlewareMissingHeader(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	handler := JWTAuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/conversations/u1", nil))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestJWTAuthMiddlewareMalformedHeader(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	handler := JWTAuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/conversations/u1", nil)
	req.Header.Set("Authorization", "Token abcdef")

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestJWTAuthMiddlewareRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	forged := signToken(t, "attacker-secret", jwt.MapClaims{
		"sub": "u1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	handler := JWTAuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/conversations/u1", nil)
	req.Header.Set("Authorization", "Bearer "+forged)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestJWTAuthMiddlewareRejectsExpiredToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	expired := signToken(t, "test-secret", jwt.MapClaims{
		"sub": "u1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	handler := JWTAuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/conversations/u1", nil)
	req.Header.Set("Authorization", "Bearer "+expired)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestJWTAuthMiddlewarePopulatesContext(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	valid := signToken(t, "test-secret", jwt.MapClaims{
		"sub":   "u1",
		"email": "dev@example.com",
		"role":  "user",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	var gotUserID, gotEmail, gotRole string
	handler := JWTAuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = GetUserID(r.Context())
		gotEmail, _ = GetEmail(r.Context())
		gotRole, _ = GetRole(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/conversations/u1", nil)
	req.Header.Set("Authorization", "Bearer "+valid)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "u1", gotUserID)
	assert.Equal(t, "dev@example.com", gotEmail)
	assert.Equal(t, "user", gotRole)
}

func TestAdminOnlyMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	chain := JWTAuthMiddleware(AdminOnlyMiddleware(next))

	userToken := signToken(t, "test-secret", jwt.MapClaims{
		"sub": "u1", "role": "user", "exp": time.Now().Add(time.Hour).Unix(),
	})
	adminToken := signToken(t, "test-secret", jwt.MapClaims{
		"sub": "a1", "role": "admin", "exp": time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodPost, "/send-message", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	rr := httptest.NewRecorder()
	chain.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "POLICY_ERROR", body["error"])

	req = httptest.NewRequest(http.MethodPost, "/send-message", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rr = httptest.NewRecorder()
	chain.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}
