// file: internal/repositories/feedback_repository.go
package repositories

import (
	"context"
	"fmt"

	"codearena/internal/database"
	"codearena/internal/models"

	"go.uber.org/zap"
)

// feedbackRepository implements FeedbackRepository on Postgres
type feedbackRepository struct {
	*BaseRepository
}

// NewFeedbackRepository creates a new feedback repository
func NewFeedbackRepository(db *database.Manager, logger *zap.Logger) FeedbackRepository {
	return &feedbackRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

const feedbackColumns = `id, user_id, category, message, rating, status, created_at, updated_at`

var feedbackSortColumns = map[string]bool{
	"created_at": true, "updated_at": true, "rating": true, "id": true,
}

// Create persists a new piece of feedback
func (r *feedbackRepository) Create(ctx context.Context, feedback *models.Feedback) error {
	query := `
		INSERT INTO feedback (user_id, category, message, rating, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err := r.QueryRowContext(
		ctx, query,
		feedback.UserID, feedback.Category, feedback.Message,
		feedback.Rating, feedback.Status,
	).Scan(&feedback.ID, &feedback.CreatedAt, &feedback.UpdatedAt)

	if err != nil {
		r.GetLogger().Error("Failed to create feedback",
			zap.Error(err),
			zap.Int64("user_id", feedback.UserID),
		)
		return fmt.Errorf("failed to create feedback: %w", err)
	}

	return nil
}

// GetByID retrieves feedback by ID
func (r *feedbackRepository) GetByID(ctx context.Context, id int64) (*models.Feedback, error) {
	query := fmt.Sprintf(`SELECT %s FROM feedback WHERE id = $1`, feedbackColumns)

	var feedback models.Feedback
	err := r.QueryRowContext(ctx, query, id).Scan(
		&feedback.ID, &feedback.UserID, &feedback.Category, &feedback.Message,
		&feedback.Rating, &feedback.Status, &feedback.CreatedAt, &feedback.UpdatedAt,
	)

	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get feedback by ID: %w", err)
	}

	return &feedback, nil
}

// List returns a paginated page of feedback, optionally filtered by status
func (r *feedbackRepository) List(ctx context.Context, status string, params models.PaginationParams) (*models.PaginatedResponse[*models.Feedback], error) {
	whereClause := ""
	var args []interface{}
	if status != "" {
		whereClause = " WHERE status = $1"
		args = append(args, status)
	}

	total, err := r.GetTotalCount(ctx, "SELECT COUNT(*) FROM feedback"+whereClause, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count feedback: %w", err)
	}

	params = r.NormalizePagination(params, feedbackSortColumns, "created_at")
	query := fmt.Sprintf("SELECT %s FROM feedback%s%s",
		feedbackColumns, whereClause, r.OrderLimitClause(params))

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	defer rows.Close()

	var items []*models.Feedback
	for rows.Next() {
		var feedback models.Feedback
		if err := rows.Scan(
			&feedback.ID, &feedback.UserID, &feedback.Category, &feedback.Message,
			&feedback.Rating, &feedback.Status, &feedback.CreatedAt, &feedback.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan feedback: %w", err)
		}
		items = append(items, &feedback)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate feedback: %w", err)
	}

	return &models.PaginatedResponse[*models.Feedback]{
		Data:       items,
		Pagination: r.BuildPaginationMeta(params, total),
	}, nil
}

// UpdateStatus moves feedback to a new triage state
func (r *feedbackRepository) UpdateStatus(ctx context.Context, id int64, status string) (bool, error) {
	result, err := r.ExecContext(ctx,
		`UPDATE feedback SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return false, fmt.Errorf("failed to update feedback status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read feedback update result: %w", err)
	}

	return affected > 0, nil
}

// Delete removes feedback
func (r *feedbackRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.ExecContext(ctx, `DELETE FROM feedback WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete feedback: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read feedback delete result: %w", err)
	}

	return affected > 0, nil
}
