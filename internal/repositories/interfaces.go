// file: internal/repositories/interfaces.go
package repositories

import (
	"context"
	"time"

	"codearena/internal/models"
)

// ===============================
// CORE REPOSITORY INTERFACES
// ===============================

// AchievementFilter carries the listing dimensions of the achievement catalog.
type AchievementFilter struct {
	// Query is a case-insensitive substring match over name, description and badge.
	Query string
	// Type restricts results to one achievement type when non-empty.
	Type string
	// IsActive filters on the active flag when set.
	IsActive *bool
	// IncludeDeleted also returns soft-deleted rows. Callers are expected to
	// set this only for administrative requests.
	IncludeDeleted bool
}

// AchievementRepository defines the contract for the achievement catalog store
type AchievementRepository interface {
	Create(ctx context.Context, achievement *models.Achievement) error
	GetByID(ctx context.Context, id int64, includeDeleted bool) (*models.Achievement, error)
	GetByName(ctx context.Context, name string) (*models.Achievement, error)
	Update(ctx context.Context, achievement *models.Achievement) error

	// Soft-delete state machine
	SoftDelete(ctx context.Context, id, deletedBy int64, at time.Time) (bool, error)
	Restore(ctx context.Context, id int64) (bool, error)
	HardDelete(ctx context.Context, id int64) (bool, error)

	// Listing and statistics reads
	List(ctx context.Context, filter AchievementFilter, params models.PaginationParams) (*models.PaginatedResponse[*models.Achievement], error)
	ListAll(ctx context.Context, activeOnly bool) ([]*models.Achievement, error)
	CountByState(ctx context.Context) (total, active, deleted int, err error)
	CountByType(ctx context.Context) (map[string]int, error)
}

// UserRepository defines the collaborator contract for user data. This
// subsystem never creates users; it reads them and mutates badge/experience
// through the conditional award primitive.
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByBadge(ctx context.Context, badge string, limit int) ([]*models.User, error)

	// AwardBadge appends badge to the user's badge set and credits points in a
	// single conditional update. It returns false when the badge was already
	// present, so concurrent award attempts serialize at the storage layer.
	AwardBadge(ctx context.Context, userID int64, badge string, points int) (bool, error)
}

// ReportRepository defines the contract for moderation report storage
type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	GetByID(ctx context.Context, id int64) (*models.Report, error)
	List(ctx context.Context, status string, params models.PaginationParams) (*models.PaginatedResponse[*models.Report], error)
	UpdateStatus(ctx context.Context, id int64, status string, resolvedBy *int64, resolvedAt *time.Time) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// FeedbackRepository defines the contract for feedback storage
type FeedbackRepository interface {
	Create(ctx context.Context, feedback *models.Feedback) error
	GetByID(ctx context.Context, id int64) (*models.Feedback, error)
	List(ctx context.Context, status string, params models.PaginationParams) (*models.PaginatedResponse[*models.Feedback], error)
	UpdateStatus(ctx context.Context, id int64, status string) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// SettingRepository defines the contract for runtime settings storage
type SettingRepository interface {
	Get(ctx context.Context, key string) (*models.Setting, error)
	List(ctx context.Context) ([]*models.Setting, error)
	Upsert(ctx context.Context, setting *models.Setting) error
	Delete(ctx context.Context, key string) (bool, error)
}

// PlatformStatsRepository exposes the count queries the system stats reporter
// composes over the user, challenge and submission collaborators.
type PlatformStatsRepository interface {
	CountUsers(ctx context.Context, from, to time.Time) (int, error)
	CountChallenges(ctx context.Context, from, to time.Time) (int, error)
	CountSubmissions(ctx context.Context, from, to time.Time) (int, error)
	CountChallengesByDifficulty(ctx context.Context, from, to time.Time) (map[string]int, error)
}
