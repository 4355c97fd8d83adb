// file: internal/handlers/api/v1/achievements/achievements_controller.go
package achievements

import (
	"encoding/json"
	"net/http"
	"strconv"

	"codearena/internal/contextutils"
	"codearena/internal/response"
	"codearena/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/schema"
	"go.uber.org/zap"
)

// Controller handles the achievement catalog and awarding endpoints
type Controller struct {
	services *services.ServiceCollection
	builder  *response.Builder
	logger   *zap.Logger
	decoder  *schema.Decoder
}

// NewController creates a new achievements controller
func NewController(sc *services.ServiceCollection, builder *response.Builder, logger *zap.Logger) *Controller {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)

	return &Controller{
		services: sc,
		builder:  builder,
		logger:   logger,
		decoder:  decoder,
	}
}

// Create handles achievement creation
func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	var req services.CreateAchievementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.builder.WriteError(w, r, services.NewValidationError("invalid request body", err))
		return
	}
	req.CreatedBy = contextutils.GetUserID(r.Context())

	achievement, err := c.services.AchievementService.CreateAchievement(r.Context(), &req)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}

	c.builder.WriteCreated(w, r, achievement)
}

// List handles filtered catalog listing
func (c *Controller) List(w http.ResponseWriter, r *http.Request) {
	var req services.ListAchievementsRequest
	if err := c.decoder.Decode(&req, r.URL.Query()); err != nil {
		c.builder.WriteError(w, r, services.NewValidationError("invalid query parameters", err))
		return
	}
	req.IsAdmin = contextutils.IsAdmin(r.Context())

	page, err := c.services.AchievementService.ListAchievements(r.Context(), &req)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}

	c.builder.WriteSuccess(w, r, page)
}

// Get handles single achievement retrieval with its badge holders
func (c *Controller) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := c.idParam(w, r)
	if !ok {
		return
	}

	detail, err := c.services.AchievementService.GetAchievementByID(r.Context(), id, contextutils.IsAdmin(r.Context()))
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}

	c.builder.WriteSuccess(w, r, detail)
}

// Update handles partial achievement updates
func (c *Controller) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := c.idParam(w, r)
	if !ok {
		return
	}

	var req services.UpdateAchievementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.builder.WriteError(w, r, services.NewValidationError("invalid request body", err))
		return
	}
	req.AchievementID = id
	req.UpdatedBy = contextutils.GetUserID(r.Context())

	achievement, err := c.services.AchievementService.UpdateAchievement(r.Context(), &req)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}

	c.builder.WriteSuccess(w, r, achievement)
}

// SoftDelete handles reversible removal from the catalog
func (c *Controller) SoftDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := c.idParam(w, r)
	if !ok {
		return
	}

	if err := c.services.AchievementService.SoftDeleteAchievement(r.Context(), id, contextutils.GetUserID(r.Context())); err != nil {
		c.builder.WriteError(w, r, err)
		return
	}

	c.builder.WriteNoContent(w, r)
}

// HardDelete handles permanent removal
func (c *Controller) HardDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := c.idParam(w, r)
	if !ok {
		return
	}

	if err := c.services.AchievementService.HardDeleteAchievement(r.Context(), id); err != nil {
		c.builder.WriteError(w, r, err)
		return
	}

	c.builder.WriteNoContent(w, r)
}

// Restore handles un-deleting a soft-deleted achievement
func (c *Controller) Restore(w http.ResponseWriter, r *http.Request) {
	id, ok := c.idParam(w, r)
	if !ok {
		return
	}

	achievement, err := c.services.AchievementService.RestoreAchievement(r.Context(), id)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}

	c.builder.WriteSuccess(w, r, achievement)
}

// awardRequest is the award endpoint body
type awardRequest struct {
	UserID int64 `json:"user_id"`
}

// Award grants an achievement's badge to a user
func (c *Controller) Award(w http.ResponseWriter, r *http.Request) {
	id, ok := c.idParam(w, r)
	if !ok {
		return
	}

	var req awardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.builder.WriteError(w, r, services.NewValidationError("invalid request body", err))
		return
	}
	if req.UserID <= 0 {
		c.builder.WriteError(w, r, services.NewValidationError("user_id is required", nil))
		return
	}

	result, err := c.services.AchievementService.AwardAchievement(r.Context(), req.UserID, id)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}

	c.builder.WriteSuccess(w, r, result)
}

// UserAchievements returns a user's unlocked/locked partition of the catalog
func (c *Controller) UserAchievements(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || userID <= 0 {
		c.builder.WriteError(w, r, services.NewValidationError("invalid user ID", err))
		return
	}

	achievements, err := c.services.AchievementService.GetUserAchievements(r.Context(), userID)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}

	c.builder.WriteSuccess(w, r, achievements)
}

func (c *Controller) idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		c.builder.WriteError(w, r, services.NewValidationError("invalid achievement ID", err))
		return 0, false
	}
	return id, true
}
