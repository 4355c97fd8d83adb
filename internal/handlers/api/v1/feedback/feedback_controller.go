// file: internal/handlers/api/v1/feedback/feedback_controller.go
package feedback

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

// Controller handles feedback triage endpoints
type Controller struct {
	services *services.ServiceCollection
	builder  *response.Builder
	logger   *zap.Logger
	decoder  *schema.Decoder
}

// NewController creates a new feedback controller
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

// Create records feedback from the caller
func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	var req services.CreateFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.builder.WriteError(w, r, services.NewValidationError("invalid request body", err))
		return
	}
	req.UserID = contextutils.GetUserID(r.Context())

	feedback, err := c.services.FeedbackService.CreateFeedback(r.Context(), &req)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}

	c.builder.WriteCreated(w, r, feedback)
}

// List returns a status-filtered page of feedback
func (c *Controller) List(w http.ResponseWriter, r *http.Request) {
	var req services.ListStatusRequest
	if err := c.decoder.Decode(&req, r.URL.Query()); err != nil {
		c.builder.WriteError(w, r, services.NewValidationError("invalid query parameters", err))
		return
	}

	page, err := c.services.FeedbackService.ListFeedback(r.Context(), &req)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}

	c.builder.WriteSuccess(w, r, page)
}

// Get returns a single piece of feedback
func (c *Controller) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := c.idParam(w, r)
	if !ok {
		return
	}

	feedback, err := c.services.FeedbackService.GetFeedbackByID(r.Context(), id)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}

	c.builder.WriteSuccess(w, r, feedback)
}

// statusRequest is the update-status endpoint body
type statusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus moves feedback to a new triage state
func (c *Controller) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := c.idParam(w, r)
	if !ok {
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.builder.WriteError(w, r, services.NewValidationError("invalid request body", err))
		return
	}

	feedback, err := c.services.FeedbackService.UpdateFeedbackStatus(r.Context(), id, req.Status)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}

	c.builder.WriteSuccess(w, r, feedback)
}

// Delete removes feedback
func (c *Controller) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := c.idParam(w, r)
	if !ok {
		return
	}

	if err := c.services.FeedbackService.DeleteFeedback(r.Context(), id); err != nil {
		c.builder.WriteError(w, r, err)
		return
	}

	c.builder.WriteNoContent(w, r)
}

func (c *Controller) idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		c.builder.WriteError(w, r, services.NewValidationError("invalid feedback ID", err))
		return 0, false
	}
	return id, true
}
