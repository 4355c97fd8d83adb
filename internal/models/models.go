// file: internal/models/models.go
package models

import (
	"strings"
	"time"

	"github.com/lib/pq"
)

// ===============================
// CORE ENTITIES
// ===============================

// AchievementType enumerates the fixed set of achievement categories.
const (
	AchievementTypeChallenge  = "challenge"
	AchievementTypeStreak     = "streak"
	AchievementTypePoints     = "points"
	AchievementTypeSpecial    = "special"
	AchievementTypeSupport    = "support"
	AchievementTypeTeamwork   = "teamwork"
	AchievementTypeCreativity = "creativity"
)

// AchievementTypes lists every valid achievement type in catalog order.
var AchievementTypes = []string{
	AchievementTypeChallenge,
	AchievementTypeStreak,
	AchievementTypePoints,
	AchievementTypeSpecial,
	AchievementTypeSupport,
	AchievementTypeTeamwork,
	AchievementTypeCreativity,
}

// IsValidAchievementType reports whether t is part of the fixed enumeration.
func IsValidAchievementType(t string) bool {
	for _, valid := range AchievementTypes {
		if t == valid {
			return true
		}
	}
	return false
}

// Condition describes the external rule that should trigger an award.
// The service stores and returns it but never evaluates it.
type Condition struct {
	Type  string  `json:"type" db:"condition_type" validate:"required"`
	Value float64 `json:"value" db:"condition_value"`
}

// Achievement represents a catalog entry for an unlockable badge.
type Achievement struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name" validate:"required,max=100"`
	Description string    `json:"description" db:"description" validate:"required,max=1000"`
	Icon        string    `json:"icon" db:"icon" validate:"omitempty,max=255"`
	Image       *string   `json:"image,omitempty" db:"image"`
	Type        string    `json:"type" db:"type" validate:"required"`
	Condition   Condition `json:"condition" db:"-"`
	Points      int       `json:"points" db:"points" validate:"min=0"`
	Badge       string    `json:"badge" db:"badge" validate:"required,max=100"`
	IsActive    bool      `json:"is_active" db:"is_active"`

	// Soft-delete state
	IsDeleted bool       `json:"is_deleted" db:"is_deleted"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
	DeletedBy *int64     `json:"deleted_by,omitempty" db:"deleted_by"`

	// Audit
	CreatedBy *int64    `json:"created_by,omitempty" db:"created_by"`
	UpdatedBy *int64    `json:"updated_by,omitempty" db:"updated_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// Computed fields (not in DB)
	UsersEarnedCount int `json:"users_earned_count" db:"-"`
}

// TrimStrings normalizes the user-supplied string fields in place.
func (a *Achievement) TrimStrings() {
	a.Name = strings.TrimSpace(a.Name)
	a.Description = strings.TrimSpace(a.Description)
	a.Icon = strings.TrimSpace(a.Icon)
	a.Badge = strings.TrimSpace(a.Badge)
	a.Condition.Type = strings.TrimSpace(a.Condition.Type)
	if a.Image != nil {
		img := strings.TrimSpace(*a.Image)
		a.Image = &img
	}
}

// User represents a platform member as seen by this subsystem.
// The user store is a collaborator; only the fields the awarding engine
// and the aggregator touch are modeled here.
type User struct {
	ID         int64          `json:"id" db:"id"`
	Username   string         `json:"username" db:"username" validate:"required,min=3,max=50"`
	Badges     pq.StringArray `json:"badges" db:"badges"`
	Experience int            `json:"experience" db:"experience"`
	CreatedAt  time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at" db:"updated_at"`
}

// HasBadge reports whether the user's badge set contains token.
func (u *User) HasBadge(token string) bool {
	for _, b := range u.Badges {
		if b == token {
			return true
		}
	}
	return false
}

// Report represents a user or content report awaiting moderation.
type Report struct {
	ID         int64      `json:"id" db:"id"`
	ReporterID int64      `json:"reporter_id" db:"reporter_id" validate:"required"`
	TargetType string     `json:"target_type" db:"target_type" validate:"required,oneof=user challenge submission comment"`
	TargetID   int64      `json:"target_id" db:"target_id" validate:"required"`
	Reason     string     `json:"reason" db:"reason" validate:"required,max=100"`
	Details    *string    `json:"details,omitempty" db:"details" validate:"omitempty,max=2000"`
	Status     string     `json:"status" db:"status" validate:"oneof=pending reviewing resolved dismissed"`
	ResolvedBy *int64     `json:"resolved_by,omitempty" db:"resolved_by"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty" db:"resolved_at"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}

// ReportStatuses lists the valid moderation states for a report.
var ReportStatuses = []string{"pending", "reviewing", "resolved", "dismissed"}

// Feedback represents a piece of user feedback about the platform.
type Feedback struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id" validate:"required"`
	Category  string    `json:"category" db:"category" validate:"required,max=100"`
	Message   string    `json:"message" db:"message" validate:"required,max=5000"`
	Rating    *int      `json:"rating,omitempty" db:"rating" validate:"omitempty,min=1,max=5"`
	Status    string    `json:"status" db:"status" validate:"oneof=new in_review closed"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Setting represents a tunable runtime setting stored as a typed key/value pair.
type Setting struct {
	Key         string    `json:"key" db:"key" validate:"required,max=100"`
	Value       string    `json:"value" db:"value" validate:"required"`
	ValueType   string    `json:"value_type" db:"value_type" validate:"oneof=string int float bool json"`
	Description *string   `json:"description,omitempty" db:"description"`
	UpdatedBy   *int64    `json:"updated_by,omitempty" db:"updated_by"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// ===============================
// PAGINATION
// ===============================

// PaginationParams carries offset/limit pagination with sorting.
type PaginationParams struct {
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
	Sort   string `json:"sort"`
	Order  string `json:"order"`
}

// PaginationMeta describes the page that was returned.
type PaginationMeta struct {
	CurrentPage  int   `json:"current_page"`
	TotalPages   int   `json:"total_pages"`
	TotalItems   int64 `json:"total_items"`
	ItemsPerPage int   `json:"items_per_page"`
	HasNext      bool  `json:"has_next"`
	HasPrev      bool  `json:"has_prev"`
}

// PaginatedResponse wraps a page of results with its metadata.
type PaginatedResponse[T any] struct {
	Data       []T            `json:"data"`
	Pagination PaginationMeta `json:"pagination"`
}
