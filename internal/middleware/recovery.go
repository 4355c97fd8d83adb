// file: internal/middleware/recovery.go
package middleware

import (
	"fmt"
	"net/http"

	"codearena/internal/contextutils"

	"go.uber.org/zap"
)

// Recovery converts panics into logged 500 responses so one bad request
// cannot take the server down.
func Recovery(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					requestID := contextutils.GetRequestID(r.Context())

					logger.Error("Panic recovered",
						zap.String("request_id", requestID),
						zap.Any("panic_error", err),
						zap.String("panic_type", fmt.Sprintf("%T", err)),
						zap.String("method", r.Method),
						zap.String("path", r.URL.Path),
						zap.String("remote_addr", getClientIP(r)),
						zap.Stack("stack_trace"),
					)

					w.Header().Set("Content-Type", "application/json; charset=utf-8")
					w.Header().Set("X-Content-Type-Options", "nosniff")
					w.WriteHeader(http.StatusInternalServerError)
					fmt.Fprintf(w, `{"success":false,"error":{"type":"INTERNAL_ERROR","message":"Internal server error"},"request_id":%q}`, requestID)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
