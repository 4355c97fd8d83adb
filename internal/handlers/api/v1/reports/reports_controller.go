// file: internal/handlers/api/v1/reports/reports_controller.go
package reports

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

// Controller handles report moderation endpoints
type Controller struct {
	services *services.ServiceCollection
	builder  *response.Builder
	logger   *zap.Logger
	decoder  *schema.Decoder
}

// NewController creates a new reports controller
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

// Create files a new report on behalf of the caller
func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	var req services.CreateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.builder.WriteError(w, r, services.NewValidationError("invalid request body", err))
		return
	}
	req.ReporterID = contextutils.GetUserID(r.Context())

	report, err := c.services.ReportService.CreateReport(r.Context(), &req)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}

	c.builder.WriteCreated(w, r, report)
}

// List returns a status-filtered page of reports
func (c *Controller) List(w http.ResponseWriter, r *http.Request) {
	var req services.ListStatusRequest
	if err := c.decoder.Decode(&req, r.URL.Query()); err != nil {
		c.builder.WriteError(w, r, services.NewValidationError("invalid query parameters", err))
		return
	}

	page, err := c.services.ReportService.ListReports(r.Context(), &req)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}

	c.builder.WriteSuccess(w, r, page)
}

// Get returns a single report
func (c *Controller) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := c.idParam(w, r)
	if !ok {
		return
	}

	report, err := c.services.ReportService.GetReportByID(r.Context(), id)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}

	c.builder.WriteSuccess(w, r, report)
}

// UpdateStatus moves a report through the moderation states
func (c *Controller) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := c.idParam(w, r)
	if !ok {
		return
	}

	var req services.UpdateReportStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.builder.WriteError(w, r, services.NewValidationError("invalid request body", err))
		return
	}
	req.ReportID = id
	req.ModeratorID = contextutils.GetUserID(r.Context())

	report, err := c.services.ReportService.UpdateReportStatus(r.Context(), &req)
	if err != nil {
		c.builder.WriteError(w, r, err)
		return
	}

	c.builder.WriteSuccess(w, r, report)
}

// Delete removes a report
func (c *Controller) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := c.idParam(w, r)
	if !ok {
		return
	}

	if err := c.services.ReportService.DeleteReport(r.Context(), id); err != nil {
		c.builder.WriteError(w, r, err)
		return
	}

	c.builder.WriteNoContent(w, r)
}

func (c *Controller) idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		c.builder.WriteError(w, r, services.NewValidationError("invalid report ID", err))
		return 0, false
	}
	return id, true
}
