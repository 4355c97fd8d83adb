// file: internal/services/achievement_service.go
package services

import (
	"context"
	"math"
	"strings"
	"time"

	"codearena/internal/models"
	"codearena/internal/repositories"

	"go.uber.org/zap"
)

// Number of badge holders returned on the achievement detail view, and how
// many of them are surfaced as recent earners.
const (
	maxEarnersOnDetail = 50
	recentEarnersCount = 10
)

// achievementService implements the catalog store and the awarding engine
type achievementService struct {
	achievements repositories.AchievementRepository
	users        repositories.UserRepository
	logger       *zap.Logger
}

// NewAchievementService creates a new achievement service
func NewAchievementService(
	achievements repositories.AchievementRepository,
	users repositories.UserRepository,
	logger *zap.Logger,
) AchievementService {
	return &achievementService{
		achievements: achievements,
		users:        users,
		logger:       logger,
	}
}

// ===============================
// CATALOG OPERATIONS
// ===============================

// CreateAchievement validates and persists a new active catalog entry
func (s *achievementService) CreateAchievement(ctx context.Context, req *CreateAchievementRequest) (*models.Achievement, error) {
	achievement := &models.Achievement{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		Image:       req.Image,
		Type:        req.Type,
		Condition:   req.Condition,
		Points:      req.Points,
		Badge:       req.Badge,
		IsActive:    true,
		CreatedBy:   &req.CreatedBy,
	}
	if req.IsActive != nil {
		achievement.IsActive = *req.IsActive
	}
	achievement.TrimStrings()

	if err := s.validateAchievementFields(achievement); err != nil {
		return nil, err
	}

	existing, err := s.achievements.GetByName(ctx, achievement.Name)
	if err != nil {
		return nil, WrapInternalError("failed to check achievement name", err)
	}
	if existing != nil {
		return nil, NewDuplicateNameError(achievement.Name)
	}

	if err := s.achievements.Create(ctx, achievement); err != nil {
		return nil, WrapInternalError("failed to create achievement", err)
	}

	return achievement, nil
}

// ListAchievements returns a filtered catalog page. Soft-deleted rows are only
// included for administrative callers.
func (s *achievementService) ListAchievements(ctx context.Context, req *ListAchievementsRequest) (*models.PaginatedResponse[*models.Achievement], error) {
	if req.Type != "" && !models.IsValidAchievementType(req.Type) {
		return nil, NewValidationError("invalid achievement type filter", nil)
	}

	filter := repositories.AchievementFilter{
		Query:          strings.TrimSpace(req.Query),
		Type:           req.Type,
		IsActive:       req.IsActive,
		IncludeDeleted: req.IncludeDeleted && req.IsAdmin,
	}
	params := PaginationFromPage(req.Page, req.Limit, req.Sort, req.Order)

	page, err := s.achievements.List(ctx, filter, params)
	if err != nil {
		return nil, WrapInternalError("failed to list achievements", err)
	}

	return page, nil
}

// GetAchievementByID returns the record plus the users who hold its badge,
// ranked by experience, with the top slice surfaced as recent earners.
func (s *achievementService) GetAchievementByID(ctx context.Context, id int64, includeDeleted bool) (*AchievementDetail, error) {
	achievement, err := s.achievements.GetByID(ctx, id, includeDeleted)
	if err != nil {
		return nil, WrapInternalError("failed to get achievement", err)
	}
	if achievement == nil {
		return nil, NewNotFoundError("achievement not found")
	}

	earners, err := s.users.GetByBadge(ctx, achievement.Badge, maxEarnersOnDetail)
	if err != nil {
		return nil, WrapInternalError("failed to load badge holders", err)
	}

	recent := earners
	if len(recent) > recentEarnersCount {
		recent = recent[:recentEarnersCount]
	}

	return &AchievementDetail{
		Achievement:   achievement,
		EarnedBy:      earners,
		RecentEarners: recent,
	}, nil
}

// UpdateAchievement applies a partial update. Identity, audit-creation and
// soft-delete fields are not representable in the request and therefore
// cannot be touched here.
func (s *achievementService) UpdateAchievement(ctx context.Context, req *UpdateAchievementRequest) (*models.Achievement, error) {
	achievement, err := s.achievements.GetByID(ctx, req.AchievementID, true)
	if err != nil {
		return nil, WrapInternalError("failed to get achievement", err)
	}
	if achievement == nil {
		return nil, NewNotFoundError("achievement not found")
	}

	if req.Name != nil {
		achievement.Name = *req.Name
	}
	if req.Description != nil {
		achievement.Description = *req.Description
	}
	if req.Icon != nil {
		achievement.Icon = *req.Icon
	}
	if req.Image != nil {
		achievement.Image = req.Image
	}
	if req.Type != nil {
		achievement.Type = *req.Type
	}
	if req.Condition != nil {
		achievement.Condition = *req.Condition
	}
	if req.Points != nil {
		achievement.Points = *req.Points
	}
	if req.Badge != nil {
		achievement.Badge = *req.Badge
	}
	if req.IsActive != nil {
		achievement.IsActive = *req.IsActive
	}
	achievement.UpdatedBy = &req.UpdatedBy
	achievement.TrimStrings()

	if err := s.validateAchievementFields(achievement); err != nil {
		return nil, err
	}

	// A rename must not collide with any other achievement, deleted included.
	if req.Name != nil {
		existing, err := s.achievements.GetByName(ctx, achievement.Name)
		if err != nil {
			return nil, WrapInternalError("failed to check achievement name", err)
		}
		if existing != nil && existing.ID != achievement.ID {
			return nil, NewDuplicateNameError(achievement.Name)
		}
	}

	if err := s.achievements.Update(ctx, achievement); err != nil {
		return nil, WrapInternalError("failed to update achievement", err)
	}

	return achievement, nil
}

// SoftDeleteAchievement marks the record deleted and forces it inactive
func (s *achievementService) SoftDeleteAchievement(ctx context.Context, id, deletedBy int64) error {
	found, err := s.achievements.SoftDelete(ctx, id, deletedBy, time.Now().UTC())
	if err != nil {
		return WrapInternalError("failed to soft delete achievement", err)
	}
	if !found {
		return NewNotFoundError("achievement not found")
	}

	s.logger.Info("Achievement soft deleted",
		zap.Int64("achievement_id", id),
		zap.Int64("deleted_by", deletedBy),
	)
	return nil
}

// HardDeleteAchievement permanently removes the record. There is no recovery.
func (s *achievementService) HardDeleteAchievement(ctx context.Context, id int64) error {
	found, err := s.achievements.HardDelete(ctx, id)
	if err != nil {
		return WrapInternalError("failed to hard delete achievement", err)
	}
	if !found {
		return NewNotFoundError("achievement not found")
	}
	return nil
}

// RestoreAchievement clears the delete stamps. is_active keeps whatever value
// the delete left behind; reactivation is an explicit separate update.
func (s *achievementService) RestoreAchievement(ctx context.Context, id int64) (*models.Achievement, error) {
	found, err := s.achievements.Restore(ctx, id)
	if err != nil {
		return nil, WrapInternalError("failed to restore achievement", err)
	}
	if !found {
		return nil, NewNotFoundError("achievement not found")
	}

	achievement, err := s.achievements.GetByID(ctx, id, true)
	if err != nil {
		return nil, WrapInternalError("failed to reload achievement", err)
	}

	s.logger.Info("Achievement restored", zap.Int64("achievement_id", id))
	return achievement, nil
}

// ===============================
// AWARDING ENGINE
// ===============================

// AwardAchievement grants the badge and credits points to the user, at most
// once per (user, badge) pair. The membership check and the mutation run as a
// single conditional update at the storage layer.
func (s *achievementService) AwardAchievement(ctx context.Context, userID, achievementID int64) (*AwardResult, error) {
	achievement, err := s.achievements.GetByID(ctx, achievementID, true)
	if err != nil {
		return nil, WrapInternalError("failed to get achievement", err)
	}
	if achievement == nil {
		return nil, NewNotFoundError("achievement not found")
	}
	if achievement.IsDeleted {
		return nil, NewInvalidStateError("cannot award a deleted achievement")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, WrapInternalError("failed to get user", err)
	}
	if user == nil {
		return nil, NewNotFoundError("user not found")
	}

	awarded, err := s.users.AwardBadge(ctx, userID, achievement.Badge, achievement.Points)
	if err != nil {
		return nil, WrapInternalError("failed to award achievement", err)
	}
	if !awarded {
		return nil, NewAlreadyAwardedError(achievement.Badge)
	}

	updated, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, WrapInternalError("failed to reload user", err)
	}

	s.logger.Info("Achievement awarded",
		zap.Int64("user_id", userID),
		zap.Int64("achievement_id", achievementID),
		zap.String("badge", achievement.Badge),
		zap.Int("points", achievement.Points),
	)

	return &AwardResult{User: updated, Achievement: achievement}, nil
}

// GetUserAchievements partitions the active catalog into unlocked and locked
// for one user. The unlock timestamp is approximated by the user's last
// modification time; per-badge award times are not recorded.
func (s *achievementService) GetUserAchievements(ctx context.Context, userID int64) (*UserAchievements, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, WrapInternalError("failed to get user", err)
	}
	if user == nil {
		return nil, NewNotFoundError("user not found")
	}

	catalog, err := s.achievements.ListAll(ctx, true)
	if err != nil {
		return nil, WrapInternalError("failed to load achievements", err)
	}

	result := &UserAchievements{
		Unlocked:   []*UserAchievementView{},
		Locked:     []*UserAchievementView{},
		TotalCount: len(catalog),
	}

	unlockedAt := user.UpdatedAt
	for _, achievement := range catalog {
		view := &UserAchievementView{Achievement: achievement}
		if user.HasBadge(achievement.Badge) {
			view.Unlocked = true
			view.UnlockedAt = &unlockedAt
			result.Unlocked = append(result.Unlocked, view)
		} else {
			result.Locked = append(result.Locked, view)
		}
	}

	result.UnlockedCount = len(result.Unlocked)
	if result.TotalCount > 0 {
		result.Progress = int(math.Round(100 * float64(result.UnlockedCount) / float64(result.TotalCount)))
	}

	return result, nil
}

// ===============================
// VALIDATION
// ===============================

// validateAchievementFields enforces the field rules shared by create and
// update: required strings, the fixed type enumeration, a non-empty condition
// tag and a non-negative point value.
func (s *achievementService) validateAchievementFields(a *models.Achievement) error {
	switch {
	case a.Name == "":
		return NewValidationError("name is required", nil)
	case a.Description == "":
		return NewValidationError("description is required", nil)
	case a.Badge == "":
		return NewValidationError("badge is required", nil)
	case a.Type == "":
		return NewValidationError("type is required", nil)
	}

	if !models.IsValidAchievementType(a.Type) {
		return NewValidationError("type must be one of: "+strings.Join(models.AchievementTypes, ", "), nil)
	}
	if a.Condition.Type == "" {
		return NewValidationError("condition.type is required", nil)
	}
	if math.IsNaN(a.Condition.Value) || math.IsInf(a.Condition.Value, 0) {
		return NewValidationError("condition.value must be a finite number", nil)
	}
	if a.Points < 0 {
		return NewValidationError("points must not be negative", nil)
	}

	return nil
}
