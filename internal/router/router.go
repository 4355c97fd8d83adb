// file: internal/router/router.go
package router

import (
	"encoding/json"
	"net/http"

	"codearena/internal/config"
	"codearena/internal/handlers/api/v1/achievements"
	"codearena/internal/handlers/api/v1/feedback"
	"codearena/internal/handlers/api/v1/reports"
	"codearena/internal/handlers/api/v1/settings"
	"codearena/internal/handlers/api/v1/stats"
	"codearena/internal/handlers/api/v1/uploads"
	"codearena/internal/middleware"
	"codearena/internal/response"
	"codearena/internal/services"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// New wires the full HTTP surface: middleware stack, API v1 routes and
// health endpoints.
func New(sc *services.ServiceCollection, cfg *config.Config, logger *zap.Logger) http.Handler {
	responseConfig := response.DefaultConfig()
	responseConfig.MaskInternalErrors = cfg.IsProduction()
	responseConfig.PrettyJSON = cfg.IsDevelopment()
	builder := response.NewBuilder(responseConfig, logger)

	auth := middleware.NewAuthMiddleware(middleware.AuthConfig{
		JWTSecret: cfg.Auth.JWTSecret,
		JWTIssuer: cfg.Auth.JWTIssuer,
	}, builder, logger)

	achievementsController := achievements.NewController(sc, builder, logger)
	statsController := stats.NewController(sc, builder, logger)
	reportsController := reports.NewController(sc, builder, logger)
	feedbackController := feedback.NewController(sc, builder, logger)
	settingsController := settings.NewController(sc, builder, logger)
	uploadsController := uploads.NewController(sc, builder, logger)

	r := chi.NewRouter()

	r.Use(middleware.RequestID(logger))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.StructuredLogging(logger))

	// Health endpoints stay unauthenticated for probes.
	r.Get("/health", healthHandler(sc))
	r.Get("/healthz", livenessHandler())
	r.Get("/readyz", healthHandler(sc))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.RequireAuth)

		// Read surface available to any authenticated caller
		r.Get("/achievements", achievementsController.List)
		r.Get("/achievements/stats", statsController.AchievementStats)
		r.Get("/achievements/{id}", achievementsController.Get)
		r.Get("/users/{id}/achievements", achievementsController.UserAchievements)
		r.Post("/reports", reportsController.Create)
		r.Post("/feedback", feedbackController.Create)

		// Administrative surface
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAdmin)

			r.Post("/achievements", achievementsController.Create)
			r.Put("/achievements/{id}", achievementsController.Update)
			r.Delete("/achievements/{id}", achievementsController.SoftDelete)
			r.Delete("/achievements/{id}/hard", achievementsController.HardDelete)
			r.Post("/achievements/{id}/restore", achievementsController.Restore)
			r.Post("/achievements/{id}/award", achievementsController.Award)

			r.Get("/stats/system", statsController.SystemGrowth)

			r.Get("/reports", reportsController.List)
			r.Get("/reports/{id}", reportsController.Get)
			r.Put("/reports/{id}/status", reportsController.UpdateStatus)
			r.Delete("/reports/{id}", reportsController.Delete)

			r.Get("/feedback", feedbackController.List)
			r.Get("/feedback/{id}", feedbackController.Get)
			r.Put("/feedback/{id}/status", feedbackController.UpdateStatus)
			r.Delete("/feedback/{id}", feedbackController.Delete)

			r.Get("/settings", settingsController.List)
			r.Get("/settings/{key}", settingsController.Get)
			r.Put("/settings/{key}", settingsController.Upsert)
			r.Delete("/settings/{key}", settingsController.Delete)

			r.Post("/uploads/achievement-image", uploadsController.AchievementImage)
		})
	})

	return r
}

// healthHandler reports dependency health with a 503 on failure
func healthHandler(sc *services.ServiceCollection) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		health := sc.HealthCheck(r.Context())

		status := http.StatusOK
		if health.Status != "healthy" {
			status = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(health)
	}
}

// livenessHandler reports process liveness only
func livenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}
