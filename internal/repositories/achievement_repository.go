// file: internal/repositories/achievement_repository.go
package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"codearena/internal/database"
	"codearena/internal/models"

	"go.uber.org/zap"
)

// achievementRepository implements AchievementRepository on Postgres
type achievementRepository struct {
	*BaseRepository
}

// NewAchievementRepository creates a new achievement repository
func NewAchievementRepository(db *database.Manager, logger *zap.Logger) AchievementRepository {
	return &achievementRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

// achievementColumns is the canonical select list, including the derived
// users-earned count recomputed on every read.
const achievementColumns = `
	a.id, a.name, a.description, a.icon, a.image, a.type,
	a.condition_type, a.condition_value, a.points, a.badge,
	a.is_active, a.is_deleted, a.deleted_at, a.deleted_by,
	a.created_by, a.updated_by, a.created_at, a.updated_at,
	(SELECT COUNT(*) FROM users u WHERE a.badge = ANY(u.badges)) AS users_earned_count`

var achievementSortColumns = map[string]bool{
	"created_at": true, "updated_at": true, "name": true,
	"points": true, "type": true, "id": true,
}

// ===============================
// BASIC CRUD OPERATIONS
// ===============================

// Create persists a new active, non-deleted achievement
func (r *achievementRepository) Create(ctx context.Context, achievement *models.Achievement) error {
	query := `
		INSERT INTO achievements (
			name, description, icon, image, type,
			condition_type, condition_value, points, badge,
			is_active, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, is_deleted, created_at, updated_at`

	err := r.QueryRowContext(
		ctx, query,
		achievement.Name, achievement.Description, achievement.Icon,
		achievement.Image, achievement.Type,
		achievement.Condition.Type, achievement.Condition.Value,
		achievement.Points, achievement.Badge,
		achievement.IsActive, achievement.CreatedBy,
	).Scan(
		&achievement.ID, &achievement.IsDeleted,
		&achievement.CreatedAt, &achievement.UpdatedAt,
	)

	if err != nil {
		r.GetLogger().Error("Failed to create achievement",
			zap.Error(err),
			zap.String("name", achievement.Name),
		)
		return fmt.Errorf("failed to create achievement: %w", err)
	}

	r.GetLogger().Info("Achievement created",
		zap.Int64("achievement_id", achievement.ID),
		zap.String("name", achievement.Name),
		zap.String("badge", achievement.Badge),
	)

	return nil
}

// GetByID retrieves an achievement by ID. Soft-deleted rows are only visible
// when includeDeleted is set.
func (r *achievementRepository) GetByID(ctx context.Context, id int64, includeDeleted bool) (*models.Achievement, error) {
	query := fmt.Sprintf(`SELECT %s FROM achievements a WHERE a.id = $1`, achievementColumns)
	if !includeDeleted {
		query += ` AND a.is_deleted = false`
	}

	achievement, err := r.scanRow(r.QueryRowContext(ctx, query, id))
	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get achievement by ID: %w", err)
	}

	return achievement, nil
}

// GetByName retrieves an achievement by its trimmed name, deleted rows
// included, since name uniqueness spans the whole catalog.
func (r *achievementRepository) GetByName(ctx context.Context, name string) (*models.Achievement, error) {
	query := fmt.Sprintf(`SELECT %s FROM achievements a WHERE a.name = $1`, achievementColumns)

	achievement, err := r.scanRow(r.QueryRowContext(ctx, query, name))
	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get achievement by name: %w", err)
	}

	return achievement, nil
}

// Update rewrites the mutable fields of an achievement
func (r *achievementRepository) Update(ctx context.Context, achievement *models.Achievement) error {
	query := `
		UPDATE achievements SET
			name = $1, description = $2, icon = $3, image = $4, type = $5,
			condition_type = $6, condition_value = $7, points = $8, badge = $9,
			is_active = $10, updated_by = $11, updated_at = NOW()
		WHERE id = $12
		RETURNING updated_at`

	err := r.QueryRowContext(
		ctx, query,
		achievement.Name, achievement.Description, achievement.Icon,
		achievement.Image, achievement.Type,
		achievement.Condition.Type, achievement.Condition.Value,
		achievement.Points, achievement.Badge,
		achievement.IsActive, achievement.UpdatedBy,
		achievement.ID,
	).Scan(&achievement.UpdatedAt)

	if err != nil {
		r.GetLogger().Error("Failed to update achievement",
			zap.Error(err),
			zap.Int64("achievement_id", achievement.ID),
		)
		return fmt.Errorf("failed to update achievement: %w", err)
	}

	return nil
}

// ===============================
// SOFT-DELETE STATE MACHINE
// ===============================

// SoftDelete flags the achievement deleted and forces it inactive. Returns
// false when the id does not resolve.
func (r *achievementRepository) SoftDelete(ctx context.Context, id, deletedBy int64, at time.Time) (bool, error) {
	query := `
		UPDATE achievements
		SET is_deleted = true, is_active = false,
		    deleted_at = $1, deleted_by = $2, updated_at = NOW()
		WHERE id = $3`

	result, err := r.ExecContext(ctx, query, at, deletedBy, id)
	if err != nil {
		return false, fmt.Errorf("failed to soft delete achievement: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read soft delete result: %w", err)
	}

	return affected > 0, nil
}

// Restore clears the delete stamps. It deliberately leaves is_active alone:
// reactivation is a separate decision from undeletion.
func (r *achievementRepository) Restore(ctx context.Context, id int64) (bool, error) {
	query := `
		UPDATE achievements
		SET is_deleted = false, deleted_at = NULL, deleted_by = NULL, updated_at = NOW()
		WHERE id = $1`

	result, err := r.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to restore achievement: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read restore result: %w", err)
	}

	return affected > 0, nil
}

// HardDelete permanently removes the record
func (r *achievementRepository) HardDelete(ctx context.Context, id int64) (bool, error) {
	result, err := r.ExecContext(ctx, `DELETE FROM achievements WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to hard delete achievement: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read hard delete result: %w", err)
	}

	if affected > 0 {
		r.GetLogger().Info("Achievement permanently deleted", zap.Int64("achievement_id", id))
	}

	return affected > 0, nil
}

// ===============================
// LISTING AND STATISTICS READS
// ===============================

// List returns a filtered, paginated page of achievements with total count
func (r *achievementRepository) List(ctx context.Context, filter AchievementFilter, params models.PaginationParams) (*models.PaginatedResponse[*models.Achievement], error) {
	var clauses []string
	var args []interface{}
	argIndex := 1

	if !filter.IncludeDeleted {
		clauses = append(clauses, "a.is_deleted = false")
	}
	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		clauses = append(clauses, fmt.Sprintf(
			"(a.name ILIKE $%d OR a.description ILIKE $%d OR a.badge ILIKE $%d)",
			argIndex, argIndex, argIndex))
		args = append(args, pattern)
		argIndex++
	}
	if filter.Type != "" {
		clauses = append(clauses, fmt.Sprintf("a.type = $%d", argIndex))
		args = append(args, filter.Type)
		argIndex++
	}
	if filter.IsActive != nil {
		clauses = append(clauses, fmt.Sprintf("a.is_active = $%d", argIndex))
		args = append(args, *filter.IsActive)
		argIndex++
	}

	whereClause := ""
	if len(clauses) > 0 {
		whereClause = " WHERE " + strings.Join(clauses, " AND ")
	}

	total, err := r.GetTotalCount(ctx, "SELECT COUNT(*) FROM achievements a"+whereClause, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count achievements: %w", err)
	}

	params = r.NormalizePagination(params, achievementSortColumns, "created_at")
	query := fmt.Sprintf("SELECT %s FROM achievements a%s%s",
		achievementColumns, whereClause, r.OrderLimitClause(params))

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list achievements: %w", err)
	}
	defer rows.Close()

	var achievements []*models.Achievement
	for rows.Next() {
		achievement, err := r.scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan achievement: %w", err)
		}
		achievements = append(achievements, achievement)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate achievements: %w", err)
	}

	return &models.PaginatedResponse[*models.Achievement]{
		Data:       achievements,
		Pagination: r.BuildPaginationMeta(params, total),
	}, nil
}

// ListAll returns every non-deleted achievement in catalog order. With
// activeOnly set, inactive achievements are excluded as well.
func (r *achievementRepository) ListAll(ctx context.Context, activeOnly bool) ([]*models.Achievement, error) {
	query := fmt.Sprintf(`SELECT %s FROM achievements a WHERE a.is_deleted = false`, achievementColumns)
	if activeOnly {
		query += ` AND a.is_active = true`
	}
	query += ` ORDER BY a.id ASC`

	rows, err := r.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list all achievements: %w", err)
	}
	defer rows.Close()

	var achievements []*models.Achievement
	for rows.Next() {
		achievement, err := r.scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan achievement: %w", err)
		}
		achievements = append(achievements, achievement)
	}

	return achievements, rows.Err()
}

// CountByState returns the total, active and soft-deleted catalog counts
func (r *achievementRepository) CountByState(ctx context.Context) (total, active, deleted int, err error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE is_active = true AND is_deleted = false),
			COUNT(*) FILTER (WHERE is_deleted = true)
		FROM achievements`

	if err = r.QueryRowContext(ctx, query).Scan(&total, &active, &deleted); err != nil {
		return 0, 0, 0, fmt.Errorf("failed to count achievements by state: %w", err)
	}
	return total, active, deleted, nil
}

// CountByType groups non-deleted achievements by type
func (r *achievementRepository) CountByType(ctx context.Context) (map[string]int, error) {
	rows, err := r.QueryContext(ctx,
		`SELECT type, COUNT(*) FROM achievements WHERE is_deleted = false GROUP BY type`)
	if err != nil {
		return nil, fmt.Errorf("failed to count achievements by type: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var achievementType string
		var count int
		if err := rows.Scan(&achievementType, &count); err != nil {
			return nil, fmt.Errorf("failed to scan type count: %w", err)
		}
		counts[achievementType] = count
	}

	return counts, rows.Err()
}

// ===============================
// SCAN HELPERS
// ===============================

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *achievementRepository) scanRow(row rowScanner) (*models.Achievement, error) {
	var a models.Achievement
	err := row.Scan(
		&a.ID, &a.Name, &a.Description, &a.Icon, &a.Image, &a.Type,
		&a.Condition.Type, &a.Condition.Value, &a.Points, &a.Badge,
		&a.IsActive, &a.IsDeleted, &a.DeletedAt, &a.DeletedBy,
		&a.CreatedBy, &a.UpdatedBy, &a.CreatedAt, &a.UpdatedAt,
		&a.UsersEarnedCount,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
