// file: internal/handlers/api/v1/uploads/uploads_controller.go
package uploads

import (
	"net/http"

	"codearena/internal/response"
	"codearena/internal/services"

	"go.uber.org/zap"
)

// maxUploadMemory bounds in-memory buffering while parsing multipart bodies
const maxUploadMemory = 10 << 20

// Controller handles achievement asset uploads
type Controller struct {
	services *services.ServiceCollection
	builder  *response.Builder
	logger   *zap.Logger
}

// NewController creates a new uploads controller
func NewController(sc *services.ServiceCollection, builder *response.Builder, logger *zap.Logger) *Controller {
	return &Controller{
		services: sc,
		builder:  builder,
		logger:   logger,
	}
}

// AchievementImage uploads an achievement icon or image asset
func (c *Controller) AchievementImage(w http.ResponseWriter, r *http.Request) {
	if c.services.FileService == nil {
		c.builder.WriteError(w, r, services.NewBusinessError("uploads are not configured", "UPLOADS_DISABLED"))
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		c.builder.WriteError(w, r, services.NewValidationError("invalid multipart body", err))
		return
	}

	_, header, err := r.FormFile("file")
	if err != nil {
		c.builder.WriteError(w, r, services.NewValidationError("file field is required", err))
		return
	}

	uploaded, err := c.services.FileService.UploadAchievementImage(r.Context(), header)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}

	c.builder.WriteCreated(w, r, uploaded)
}
