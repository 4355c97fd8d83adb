// file: internal/handlers/api/v1/stats/stats_controller.go
package stats

import (
	"net/http"
	"time"

	"codearena/internal/response"
	"codearena/internal/services"

	"go.uber.org/zap"
)

// Controller handles the read-only statistics endpoints
type Controller struct {
	services *services.ServiceCollection
	builder  *response.Builder
	logger   *zap.Logger
}

// NewController creates a new stats controller
func NewController(sc *services.ServiceCollection, builder *response.Builder, logger *zap.Logger) *Controller {
	return &Controller{
		services: sc,
		builder:  builder,
		logger:   logger,
	}
}

// AchievementStats returns the catalog summary
func (c *Controller) AchievementStats(w http.ResponseWriter, r *http.Request) {
	stats, err := c.services.StatsService.GetAchievementStats(r.Context())
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}

	c.builder.WriteSuccess(w, r, stats)
}

// SystemGrowth returns platform growth over a date range.
// The range defaults to the trailing 30 days.
func (c *Controller) SystemGrowth(w http.ResponseWriter, r *http.Request) {
	to := time.Now().UTC()
	from := to.AddDate(0, 0, -30)

	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.builder.WriteError(w, r, services.NewValidationError("from must be RFC 3339", err))
			return
		}
		from = parsed
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.builder.WriteError(w, r, services.NewValidationError("to must be RFC 3339", err))
			return
		}
		to = parsed
	}

	growth, err := c.services.StatsService.GetSystemGrowth(r.Context(), from, to)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}

	c.builder.WriteSuccess(w, r, growth)
}
