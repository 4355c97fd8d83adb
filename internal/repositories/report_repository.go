// file: internal/repositories/report_repository.go
package repositories

import (
	"context"
	"fmt"
	"time"

	"codearena/internal/database"
	"codearena/internal/models"

	"go.uber.org/zap"
)

// reportRepository implements ReportRepository on Postgres
type reportRepository struct {
	*BaseRepository
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *database.Manager, logger *zap.Logger) ReportRepository {
	return &reportRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

const reportColumns = `
	id, reporter_id, target_type, target_id, reason, details,
	status, resolved_by, resolved_at, created_at, updated_at`

var reportSortColumns = map[string]bool{
	"created_at": true, "updated_at": true, "status": true, "id": true,
}

// Create persists a new report in pending state
func (r *reportRepository) Create(ctx context.Context, report *models.Report) error {
	query := `
		INSERT INTO reports (reporter_id, target_type, target_id, reason, details, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	err := r.QueryRowContext(
		ctx, query,
		report.ReporterID, report.TargetType, report.TargetID,
		report.Reason, report.Details, report.Status,
	).Scan(&report.ID, &report.CreatedAt, &report.UpdatedAt)

	if err != nil {
		r.GetLogger().Error("Failed to create report",
			zap.Error(err),
			zap.Int64("reporter_id", report.ReporterID),
		)
		return fmt.Errorf("failed to create report: %w", err)
	}

	return nil
}

// GetByID retrieves a report by ID
func (r *reportRepository) GetByID(ctx context.Context, id int64) (*models.Report, error) {
	query := fmt.Sprintf(`SELECT %s FROM reports WHERE id = $1`, reportColumns)

	var report models.Report
	err := r.QueryRowContext(ctx, query, id).Scan(
		&report.ID, &report.ReporterID, &report.TargetType, &report.TargetID,
		&report.Reason, &report.Details, &report.Status,
		&report.ResolvedBy, &report.ResolvedAt,
		&report.CreatedAt, &report.UpdatedAt,
	)

	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get report by ID: %w", err)
	}

	return &report, nil
}

// List returns a paginated page of reports, optionally filtered by status
func (r *reportRepository) List(ctx context.Context, status string, params models.PaginationParams) (*models.PaginatedResponse[*models.Report], error) {
	whereClause := ""
	var args []interface{}
	if status != "" {
		whereClause = " WHERE status = $1"
		args = append(args, status)
	}

	total, err := r.GetTotalCount(ctx, "SELECT COUNT(*) FROM reports"+whereClause, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count reports: %w", err)
	}

	params = r.NormalizePagination(params, reportSortColumns, "created_at")
	query := fmt.Sprintf("SELECT %s FROM reports%s%s",
		reportColumns, whereClause, r.OrderLimitClause(params))

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []*models.Report
	for rows.Next() {
		var report models.Report
		if err := rows.Scan(
			&report.ID, &report.ReporterID, &report.TargetType, &report.TargetID,
			&report.Reason, &report.Details, &report.Status,
			&report.ResolvedBy, &report.ResolvedAt,
			&report.CreatedAt, &report.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, &report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reports: %w", err)
	}

	return &models.PaginatedResponse[*models.Report]{
		Data:       reports,
		Pagination: r.BuildPaginationMeta(params, total),
	}, nil
}

// UpdateStatus moves a report to a new moderation state
func (r *reportRepository) UpdateStatus(ctx context.Context, id int64, status string, resolvedBy *int64, resolvedAt *time.Time) (bool, error) {
	query := `
		UPDATE reports
		SET status = $1, resolved_by = $2, resolved_at = $3, updated_at = NOW()
		WHERE id = $4`

	result, err := r.ExecContext(ctx, query, status, resolvedBy, resolvedAt, id)
	if err != nil {
		return false, fmt.Errorf("failed to update report status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read report update result: %w", err)
	}

	return affected > 0, nil
}

// Delete removes a report
func (r *reportRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.ExecContext(ctx, `DELETE FROM reports WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete report: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read report delete result: %w", err)
	}

	return affected > 0, nil
}
