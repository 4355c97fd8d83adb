// file: internal/services/types.go
package services

import (
	"time"

	"codearena/internal/models"
)

// ===============================
// ACHIEVEMENT REQUESTS
// ===============================

// CreateAchievementRequest carries the fields of a new catalog entry
type CreateAchievementRequest struct {
	Name        string           `json:"name" validate:"required,max=100"`
	Description string           `json:"description" validate:"required,max=1000"`
	Icon        string           `json:"icon" validate:"omitempty,max=255"`
	Image       *string          `json:"image,omitempty"`
	Type        string           `json:"type" validate:"required"`
	Condition   models.Condition `json:"condition"`
	Points      int              `json:"points" validate:"min=0"`
	Badge       string           `json:"badge" validate:"required,max=100"`
	IsActive    *bool            `json:"is_active,omitempty"`
	CreatedBy   int64            `json:"-"`
}

// UpdateAchievementRequest carries a partial update. Identity, audit-creation
// and soft-delete fields have no representation here: they cannot be set
// through an update.
type UpdateAchievementRequest struct {
	AchievementID int64             `json:"-"`
	Name          *string           `json:"name,omitempty"`
	Description   *string           `json:"description,omitempty"`
	Icon          *string           `json:"icon,omitempty"`
	Image         *string           `json:"image,omitempty"`
	Type          *string           `json:"type,omitempty"`
	Condition     *models.Condition `json:"condition,omitempty"`
	Points        *int              `json:"points,omitempty"`
	Badge         *string           `json:"badge,omitempty"`
	IsActive      *bool             `json:"is_active,omitempty"`
	UpdatedBy     int64             `json:"-"`
}

// ListAchievementsRequest carries the listing filters. The schema tags let the
// controller decode it straight from the query string.
type ListAchievementsRequest struct {
	Query          string `schema:"q"`
	Type           string `schema:"type"`
	IsActive       *bool  `schema:"is_active"`
	IncludeDeleted bool   `schema:"include_deleted"`
	Page           int    `schema:"page"`
	Limit          int    `schema:"limit"`
	Sort           string `schema:"sort"`
	Order          string `schema:"order"`

	// IsAdmin is derived from the caller's role, never from the query string.
	IsAdmin bool `schema:"-"`
}

// AchievementDetail is the GetByID projection: the record plus its holders.
type AchievementDetail struct {
	Achievement   *models.Achievement `json:"achievement"`
	EarnedBy      []*models.User      `json:"earned_by"`
	RecentEarners []*models.User      `json:"recent_earners"`
}

// AwardResult is returned by a successful award operation
type AwardResult struct {
	User        *models.User        `json:"user"`
	Achievement *models.Achievement `json:"achievement"`
}

// UserAchievementView annotates an achievement with the caller's unlock state
type UserAchievementView struct {
	*models.Achievement
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlocked_at,omitempty"`
}

// UserAchievements partitions the active catalog for one user
type UserAchievements struct {
	Unlocked      []*UserAchievementView `json:"unlocked"`
	Locked        []*UserAchievementView `json:"locked"`
	UnlockedCount int                    `json:"unlocked_count"`
	TotalCount    int                    `json:"total_count"`
	Progress      int                    `json:"progress"`
}

// ===============================
// STATISTICS TYPES
// ===============================

// AchievementStats is the summary view over the whole catalog
type AchievementStats struct {
	Total     int                   `json:"total"`
	Active    int                   `json:"active"`
	Inactive  int                   `json:"inactive"`
	Deleted   int                   `json:"deleted"`
	ByType    []TypeCount           `json:"by_type"`
	TopEarned []*models.Achievement `json:"top_earned"`
}

// TypeCount is one bucket of the by-type breakdown
type TypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// DifficultyCount is one bucket of the challenges-by-difficulty breakdown
type DifficultyCount struct {
	Difficulty string `json:"difficulty"`
	Count      int    `json:"count"`
}

// SystemGrowthStats composes platform-wide counts over a date range
type SystemGrowthStats struct {
	From                  time.Time             `json:"from"`
	To                    time.Time             `json:"to"`
	NewUsers              int                   `json:"new_users"`
	NewChallenges         int                   `json:"new_challenges"`
	NewSubmissions        int                   `json:"new_submissions"`
	ChallengesByDifficulty []DifficultyCount    `json:"challenges_by_difficulty"`
	TopEarnedAchievements []*models.Achievement `json:"top_earned_achievements"`
	AchievementsByType    []TypeCount           `json:"achievements_by_type"`
}

// ===============================
// MODERATION REQUESTS
// ===============================

// CreateReportRequest carries a new user/content report
type CreateReportRequest struct {
	ReporterID int64   `json:"reporter_id" validate:"required"`
	TargetType string  `json:"target_type" validate:"required,oneof=user challenge submission comment"`
	TargetID   int64   `json:"target_id" validate:"required"`
	Reason     string  `json:"reason" validate:"required,max=100"`
	Details    *string `json:"details,omitempty" validate:"omitempty,max=2000"`
}

// UpdateReportStatusRequest moves a report through the moderation states
type UpdateReportStatusRequest struct {
	ReportID    int64  `json:"-"`
	Status      string `json:"status" validate:"required,oneof=pending reviewing resolved dismissed"`
	ModeratorID int64  `json:"-"`
}

// CreateFeedbackRequest carries a new piece of feedback
type CreateFeedbackRequest struct {
	UserID   int64  `json:"user_id" validate:"required"`
	Category string `json:"category" validate:"required,max=100"`
	Message  string `json:"message" validate:"required,max=5000"`
	Rating   *int   `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
}

// UpsertSettingRequest writes a runtime setting
type UpsertSettingRequest struct {
	Key         string  `json:"key" validate:"required,max=100"`
	Value       string  `json:"value" validate:"required"`
	ValueType   string  `json:"value_type" validate:"required,oneof=string int float bool json"`
	Description *string `json:"description,omitempty"`
	UpdatedBy   int64   `json:"-"`
}

// ListStatusRequest is the shared status-filtered listing request used by the
// reports and feedback services.
type ListStatusRequest struct {
	Status string `schema:"status"`
	Page   int    `schema:"page"`
	Limit  int    `schema:"limit"`
	Sort   string `schema:"sort"`
	Order  string `schema:"order"`
}

// PaginationFromPage converts page/limit input to offset pagination
func PaginationFromPage(page, limit int, sort, order string) models.PaginationParams {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return models.PaginationParams{
		Limit:  limit,
		Offset: (page - 1) * limit,
		Sort:   sort,
		Order:  order,
	}
}
