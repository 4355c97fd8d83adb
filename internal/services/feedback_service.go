// file: internal/services/feedback_service.go
package services

import (
	"context"
	"strings"

	"codearena/internal/models"
	"codearena/internal/repositories"
	"codearena/internal/validation"

	"go.uber.org/zap"
)

// feedbackStatuses lists the valid triage states for feedback
var feedbackStatuses = []string{"new", "in_review", "closed"}

// feedbackService implements feedback triage
type feedbackService struct {
	feedback repositories.FeedbackRepository
	logger   *zap.Logger
}

// NewFeedbackService creates a new feedback service
func NewFeedbackService(feedback repositories.FeedbackRepository, logger *zap.Logger) FeedbackService {
	return &feedbackService{feedback: feedback, logger: logger}
}

// CreateFeedback records a new piece of feedback in "new" state
func (s *feedbackService) CreateFeedback(ctx context.Context, req *CreateFeedbackRequest) (*models.Feedback, error) {
	req.Category = strings.TrimSpace(req.Category)
	req.Message = strings.TrimSpace(req.Message)
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError(err.Error(), err)
	}

	feedback := &models.Feedback{
		UserID:   req.UserID,
		Category: req.Category,
		Message:  req.Message,
		Rating:   req.Rating,
		Status:   "new",
	}

	if err := s.feedback.Create(ctx, feedback); err != nil {
		return nil, WrapInternalError("failed to create feedback", err)
	}

	return feedback, nil
}

// GetFeedbackByID retrieves a single piece of feedback
func (s *feedbackService) GetFeedbackByID(ctx context.Context, id int64) (*models.Feedback, error) {
	feedback, err := s.feedback.GetByID(ctx, id)
	if err != nil {
		return nil, WrapInternalError("failed to get feedback", err)
	}
	if feedback == nil {
		return nil, NewNotFoundError("feedback not found")
	}
	return feedback, nil
}

// ListFeedback returns a paginated page of feedback, optionally by status
func (s *feedbackService) ListFeedback(ctx context.Context, req *ListStatusRequest) (*models.PaginatedResponse[*models.Feedback], error) {
	if req.Status != "" && !slicesContains(feedbackStatuses, req.Status) {
		return nil, NewValidationError("invalid feedback status filter", nil)
	}

	params := PaginationFromPage(req.Page, req.Limit, req.Sort, req.Order)
	page, err := s.feedback.List(ctx, req.Status, params)
	if err != nil {
		return nil, WrapInternalError("failed to list feedback", err)
	}
	return page, nil
}

// UpdateFeedbackStatus moves feedback to a new triage state
func (s *feedbackService) UpdateFeedbackStatus(ctx context.Context, id int64, status string) (*models.Feedback, error) {
	if !slicesContains(feedbackStatuses, status) {
		return nil, NewValidationError("status must be one of: "+strings.Join(feedbackStatuses, ", "), nil)
	}

	found, err := s.feedback.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, WrapInternalError("failed to update feedback status", err)
	}
	if !found {
		return nil, NewNotFoundError("feedback not found")
	}

	return s.GetFeedbackByID(ctx, id)
}

// DeleteFeedback removes feedback entirely
func (s *feedbackService) DeleteFeedback(ctx context.Context, id int64) error {
	found, err := s.feedback.Delete(ctx, id)
	if err != nil {
		return WrapInternalError("failed to delete feedback", err)
	}
	if !found {
		return NewNotFoundError("feedback not found")
	}
	return nil
}
