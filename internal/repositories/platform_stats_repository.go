// file: internal/repositories/platform_stats_repository.go
package repositories

import (
	"context"
	"fmt"
	"time"

	"codearena/internal/database"

	"go.uber.org/zap"
)

// platformStatsRepository implements the count queries the system stats
// reporter composes from the user, challenge and submission collaborators.
type platformStatsRepository struct {
	*BaseRepository
}

// NewPlatformStatsRepository creates a new platform stats repository
func NewPlatformStatsRepository(db *database.Manager, logger *zap.Logger) PlatformStatsRepository {
	return &platformStatsRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

func (r *platformStatsRepository) countInRange(ctx context.Context, table string, from, to time.Time) (int, error) {
	var count int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE created_at >= $1 AND created_at < $2`, table)
	if err := r.QueryRowContext(ctx, query, from, to).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return count, nil
}

// CountUsers counts users registered inside the range
func (r *platformStatsRepository) CountUsers(ctx context.Context, from, to time.Time) (int, error) {
	return r.countInRange(ctx, "users", from, to)
}

// CountChallenges counts challenges published inside the range
func (r *platformStatsRepository) CountChallenges(ctx context.Context, from, to time.Time) (int, error) {
	return r.countInRange(ctx, "challenges", from, to)
}

// CountSubmissions counts submissions made inside the range
func (r *platformStatsRepository) CountSubmissions(ctx context.Context, from, to time.Time) (int, error) {
	return r.countInRange(ctx, "submissions", from, to)
}

// CountChallengesByDifficulty groups the range's challenges by difficulty
func (r *platformStatsRepository) CountChallengesByDifficulty(ctx context.Context, from, to time.Time) (map[string]int, error) {
	query := `
		SELECT difficulty, COUNT(*)
		FROM challenges
		WHERE created_at >= $1 AND created_at < $2
		GROUP BY difficulty`

	rows, err := r.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to count challenges by difficulty: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var difficulty string
		var count int
		if err := rows.Scan(&difficulty, &count); err != nil {
			return nil, fmt.Errorf("failed to scan difficulty count: %w", err)
		}
		counts[difficulty] = count
	}

	return counts, rows.Err()
}
