// file: internal/middleware/auth.go
package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"codearena/internal/contextutils"
	"codearena/internal/response"
	"codearena/internal/services"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// AuthConfig holds token verification settings
type AuthConfig struct {
	JWTSecret string
	JWTIssuer string
}

// AuthMiddleware verifies bearer tokens issued by the platform's identity
// service and places the caller's identity into the request context.
type AuthMiddleware struct {
	config  AuthConfig
	builder *response.Builder
	logger  *zap.Logger
}

// NewAuthMiddleware creates an auth middleware
func NewAuthMiddleware(config AuthConfig, builder *response.Builder, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		config:  config,
		builder: builder,
		logger:  logger,
	}
}

// RequireAuth rejects requests without a valid bearer token
func (am *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, role, err := am.authenticate(r)
		if err != nil {
			am.builder.WriteError(w, r, err)
			return
		}

		ctx := contextutils.WithUserID(r.Context(), userID)
		ctx = contextutils.WithUserRole(ctx, role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin rejects authenticated requests lacking the admin role.
// It must run inside RequireAuth.
func (am *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !contextutils.IsAdmin(r.Context()) {
			am.logger.Warn("Admin access denied",
				zap.Int64("user_id", contextutils.GetUserID(r.Context())),
				zap.String("path", r.URL.Path),
			)
			am.builder.WriteError(w, r, services.NewForbiddenError("admin access required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// OptionalAuth attaches identity when a valid token is present but lets
// anonymous requests through.
func (am *AuthMiddleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userID, role, err := am.authenticate(r); err == nil {
			ctx := contextutils.WithUserID(r.Context(), userID)
			ctx = contextutils.WithUserRole(ctx, role)
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}

func (am *AuthMiddleware) authenticate(r *http.Request) (int64, string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return 0, "", services.NewUnauthorizedError("missing authorization header")
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return 0, "", services.NewUnauthorizedError("malformed authorization header")
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(am.config.JWTSecret), nil
	}, jwt.WithIssuer(am.config.JWTIssuer), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return 0, "", services.NewUnauthorizedError("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", services.NewUnauthorizedError("invalid token claims")
	}

	userID, ok := claims["user_id"].(float64)
	if !ok || userID <= 0 {
		return 0, "", services.NewUnauthorizedError("token missing user identity")
	}

	role, _ := claims["role"].(string)
	return int64(userID), role, nil
}
