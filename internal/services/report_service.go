// file: internal/services/report_service.go
package services

import (
	"context"
	"strings"
	"time"

	"codearena/internal/models"
	"codearena/internal/repositories"
	"codearena/internal/validation"

	"go.uber.org/zap"
)

// reportService implements moderation of user and content reports
type reportService struct {
	reports repositories.ReportRepository
	logger  *zap.Logger
}

// NewReportService creates a new report service
func NewReportService(reports repositories.ReportRepository, logger *zap.Logger) ReportService {
	return &reportService{reports: reports, logger: logger}
}

// CreateReport files a new report in pending state
func (s *reportService) CreateReport(ctx context.Context, req *CreateReportRequest) (*models.Report, error) {
	req.Reason = strings.TrimSpace(req.Reason)
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError(err.Error(), err)
	}

	report := &models.Report{
		ReporterID: req.ReporterID,
		TargetType: req.TargetType,
		TargetID:   req.TargetID,
		Reason:     req.Reason,
		Details:    req.Details,
		Status:     "pending",
	}

	if err := s.reports.Create(ctx, report); err != nil {
		return nil, WrapInternalError("failed to create report", err)
	}

	return report, nil
}

// GetReportByID retrieves a single report
func (s *reportService) GetReportByID(ctx context.Context, id int64) (*models.Report, error) {
	report, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return nil, WrapInternalError("failed to get report", err)
	}
	if report == nil {
		return nil, NewNotFoundError("report not found")
	}
	return report, nil
}

// ListReports returns a paginated page of reports, optionally by status
func (s *reportService) ListReports(ctx context.Context, req *ListStatusRequest) (*models.PaginatedResponse[*models.Report], error) {
	if req.Status != "" && !slicesContains(models.ReportStatuses, req.Status) {
		return nil, NewValidationError("invalid report status filter", nil)
	}

	params := PaginationFromPage(req.Page, req.Limit, req.Sort, req.Order)
	page, err := s.reports.List(ctx, req.Status, params)
	if err != nil {
		return nil, WrapInternalError("failed to list reports", err)
	}
	return page, nil
}

// UpdateReportStatus moves a report through the moderation state machine.
// Entering a terminal state stamps the resolving moderator and time.
func (s *reportService) UpdateReportStatus(ctx context.Context, req *UpdateReportStatusRequest) (*models.Report, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError(err.Error(), err)
	}

	var resolvedBy *int64
	var resolvedAt *time.Time
	if req.Status == "resolved" || req.Status == "dismissed" {
		now := time.Now().UTC()
		resolvedBy = &req.ModeratorID
		resolvedAt = &now
	}

	found, err := s.reports.UpdateStatus(ctx, req.ReportID, req.Status, resolvedBy, resolvedAt)
	if err != nil {
		return nil, WrapInternalError("failed to update report status", err)
	}
	if !found {
		return nil, NewNotFoundError("report not found")
	}

	s.logger.Info("Report status updated",
		zap.Int64("report_id", req.ReportID),
		zap.String("status", req.Status),
		zap.Int64("moderator_id", req.ModeratorID),
	)

	return s.GetReportByID(ctx, req.ReportID)
}

// DeleteReport removes a report entirely
func (s *reportService) DeleteReport(ctx context.Context, id int64) error {
	found, err := s.reports.Delete(ctx, id)
	if err != nil {
		return WrapInternalError("failed to delete report", err)
	}
	if !found {
		return NewNotFoundError("report not found")
	}
	return nil
}

func slicesContains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
