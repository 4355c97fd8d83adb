// file: internal/repositories/user_repository.go
package repositories

import (
	"context"
	"fmt"

	"codearena/internal/database"
	"codearena/internal/models"

	"go.uber.org/zap"
)

// userRepository implements the UserRepository collaborator on Postgres
type userRepository struct {
	*BaseRepository
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.Manager, logger *zap.Logger) UserRepository {
	return &userRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

// GetByID retrieves the minimal user projection this subsystem works with
func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `
		SELECT id, username, badges, experience, created_at, updated_at
		FROM users
		WHERE id = $1`

	var user models.User
	err := r.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.Username, &user.Badges,
		&user.Experience, &user.CreatedAt, &user.UpdatedAt,
	)

	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return &user, nil
}

// GetByBadge returns users holding the given badge token, ranked by
// descending experience.
func (r *userRepository) GetByBadge(ctx context.Context, badge string, limit int) ([]*models.User, error) {
	query := `
		SELECT id, username, badges, experience, created_at, updated_at
		FROM users
		WHERE $1 = ANY(badges)
		ORDER BY experience DESC, id ASC
		LIMIT $2`

	rows, err := r.QueryContext(ctx, query, badge, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get users by badge: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(
			&user.ID, &user.Username, &user.Badges,
			&user.Experience, &user.CreatedAt, &user.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, &user)
	}

	return users, rows.Err()
}

// AwardBadge grants the badge and credits points in one conditional update.
// The WHERE guard makes the membership check and the mutation a single atomic
// statement, so two concurrent awards for the same (user, badge) pair cannot
// both succeed.
func (r *userRepository) AwardBadge(ctx context.Context, userID int64, badge string, points int) (bool, error) {
	query := `
		UPDATE users
		SET badges = array_append(badges, $1),
		    experience = experience + $2,
		    updated_at = NOW()
		WHERE id = $3 AND NOT ($1 = ANY(badges))`

	result, err := r.ExecContext(ctx, query, badge, points, userID)
	if err != nil {
		return false, fmt.Errorf("failed to award badge: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read award result: %w", err)
	}

	if affected > 0 {
		r.GetLogger().Info("Badge awarded",
			zap.Int64("user_id", userID),
			zap.String("badge", badge),
			zap.Int("points", points),
		)
	}

	return affected > 0, nil
}
