// file: internal/handlers/api/v1/settings/settings_controller.go
package settings

import (
	"encoding/json"
	"net/http"

	"codearena/internal/contextutils"
	"codearena/internal/response"
	"codearena/internal/services"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Controller handles runtime settings endpoints
type Controller struct {
	services *services.ServiceCollection
	builder  *response.Builder
	logger   *zap.Logger
}

// NewController creates a new settings controller
func NewController(sc *services.ServiceCollection, builder *response.Builder, logger *zap.Logger) *Controller {
	return &Controller{
		services: sc,
		builder:  builder,
		logger:   logger,
	}
}

// List returns every setting
func (c *Controller) List(w http.ResponseWriter, r *http.Request) {
	settings, err := c.services.SettingService.ListSettings(r.Context())
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}

	c.builder.WriteSuccess(w, r, settings)
}

// Get returns one setting by key
func (c *Controller) Get(w http.ResponseWriter, r *http.Request) {
	setting, err := c.services.SettingService.GetSetting(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}

	c.builder.WriteSuccess(w, r, setting)
}

// Upsert writes a setting
func (c *Controller) Upsert(w http.ResponseWriter, r *http.Request) {
	var req services.UpsertSettingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.builder.WriteError(w, r, services.NewValidationError("invalid request body", err))
		return
	}
	if key := chi.URLParam(r, "key"); key != "" {
		req.Key = key
	}
	req.UpdatedBy = contextutils.GetUserID(r.Context())

	setting, err := c.services.SettingService.UpsertSetting(r.Context(), &req)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}

	c.builder.WriteSuccess(w, r, setting)
}

// Delete removes a setting by key
func (c *Controller) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.services.SettingService.DeleteSetting(r.Context(), chi.URLParam(r, "key")); err != nil {
		c.builder.WriteError(w, r, err)
		return
	}

	c.builder.WriteNoContent(w, r)
}
