package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"codearena/internal/contextutils"
	"codearena/internal/response"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testSecret = "test-secret"
	testIssuer = "codearena"
)

func newTestAuthMiddleware() *AuthMiddleware {
	builder := response.NewBuilder(response.DefaultConfig(), zap.NewNop())
	return NewAuthMiddleware(AuthConfig{JWTSecret: testSecret, JWTIssuer: testIssuer}, builder, zap.NewNop())
}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func validClaims(role string) jwt.MapClaims {
	return jwt.MapClaims{
		"user_id": 7,
		"role":    role,
		"iss":     testIssuer,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
}

func TestRequireAuth(t *testing.T) {
	am := newTestAuthMiddleware()

	var gotUserID int64
	var gotRole string
	handler := am.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = contextutils.GetUserID(r.Context())
		gotRole = contextutils.GetUserRole(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, validClaims("admin")))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, int64(7), gotUserID)
		assert.Equal(t, "admin", gotRole)
	})

	t.Run("missing header", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Token abc")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, validClaims("user"))
		signed, err := token.SignedString([]byte("other-secret"))
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer "+signed)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		claims := validClaims("user")
		claims["exp"] = time.Now().Add(-time.Hour).Unix()

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, claims))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("missing expiration", func(t *testing.T) {
		claims := validClaims("user")
		delete(claims, "exp")

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, claims))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		claims := validClaims("user")
		claims["iss"] = "someone-else"

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, claims))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("missing user identity", func(t *testing.T) {
		claims := validClaims("user")
		delete(claims, "user_id")

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, claims))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestRequireAdmin(t *testing.T) {
	am := newTestAuthMiddleware()

	handler := am.RequireAuth(am.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	t.Run("admin role passes", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, validClaims("admin")))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("non-admin rejected", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, validClaims("user")))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestOptionalAuth(t *testing.T) {
	am := newTestAuthMiddleware()

	var gotUserID int64
	handler := am.OptionalAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = contextutils.GetUserID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("anonymous passes through", func(t *testing.T) {
		gotUserID = -1
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, int64(0), gotUserID)
	})

	t.Run("valid token attaches identity", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, validClaims("user")))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, int64(7), gotUserID)
	})
}
