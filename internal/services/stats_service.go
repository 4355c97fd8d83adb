// file: internal/services/stats_service.go
package services

import (
	"context"
	"time"

	"codearena/internal/models"
	"codearena/internal/repositories"

	"go.uber.org/zap"
	"golang.org/x/exp/slices"
)

// topEarnedCap bounds the leaderboard handed to the growth reporter
const topEarnedCap = 10

// challengeDifficulties is the fixed placeholder set substituted when the
// difficulty breakdown would otherwise be empty. Front-ends rely on these
// buckets always being present.
var challengeDifficulties = []string{"easy", "medium", "hard"}

// statsService implements the read-only statistics aggregator. It owns no
// state; every view is recomputed from the catalog and user stores on read.
type statsService struct {
	achievements repositories.AchievementRepository
	platform     repositories.PlatformStatsRepository
	logger       *zap.Logger
}

// NewStatsService creates a new stats service
func NewStatsService(
	achievements repositories.AchievementRepository,
	platform repositories.PlatformStatsRepository,
	logger *zap.Logger,
) StatsService {
	return &statsService{
		achievements: achievements,
		platform:     platform,
		logger:       logger,
	}
}

// GetAchievementStats computes the catalog summary: lifecycle counts, the
// by-type breakdown and the earned-count leaderboard.
func (s *statsService) GetAchievementStats(ctx context.Context) (*AchievementStats, error) {
	total, active, deleted, err := s.achievements.CountByState(ctx)
	if err != nil {
		return nil, WrapInternalError("failed to count achievements", err)
	}

	byType, err := s.byTypeBreakdown(ctx)
	if err != nil {
		return nil, err
	}

	topEarned, err := s.TopEarned(ctx, topEarnedCap)
	if err != nil {
		return nil, err
	}

	return &AchievementStats{
		Total:     total,
		Active:    active,
		Inactive:  total - active - deleted,
		Deleted:   deleted,
		ByType:    byType,
		TopEarned: topEarned,
	}, nil
}

// TopEarned returns the n most-earned non-deleted achievements. The sort is
// stable so achievements with equal earn counts keep their catalog order,
// which keeps the leaderboard deterministic.
func (s *statsService) TopEarned(ctx context.Context, n int) ([]*models.Achievement, error) {
	catalog, err := s.achievements.ListAll(ctx, false)
	if err != nil {
		return nil, WrapInternalError("failed to load achievements", err)
	}

	slices.SortStableFunc(catalog, func(a, b *models.Achievement) int {
		return b.UsersEarnedCount - a.UsersEarnedCount
	})

	if n > 0 && len(catalog) > n {
		catalog = catalog[:n]
	}
	return catalog, nil
}

// GetSystemGrowth composes platform-wide growth counts over a date range from
// the user, challenge and submission collaborators, plus the achievement
// aggregates this service owns.
func (s *statsService) GetSystemGrowth(ctx context.Context, from, to time.Time) (*SystemGrowthStats, error) {
	if !to.After(from) {
		return nil, NewValidationError("range end must be after range start", nil)
	}

	newUsers, err := s.platform.CountUsers(ctx, from, to)
	if err != nil {
		return nil, WrapInternalError("failed to count users", err)
	}
	newChallenges, err := s.platform.CountChallenges(ctx, from, to)
	if err != nil {
		return nil, WrapInternalError("failed to count challenges", err)
	}
	newSubmissions, err := s.platform.CountSubmissions(ctx, from, to)
	if err != nil {
		return nil, WrapInternalError("failed to count submissions", err)
	}

	difficultyCounts, err := s.platform.CountChallengesByDifficulty(ctx, from, to)
	if err != nil {
		return nil, WrapInternalError("failed to count challenges by difficulty", err)
	}

	byType, err := s.byTypeBreakdown(ctx)
	if err != nil {
		return nil, err
	}

	topEarned, err := s.TopEarned(ctx, topEarnedCap)
	if err != nil {
		return nil, err
	}

	return &SystemGrowthStats{
		From:                   from,
		To:                     to,
		NewUsers:               newUsers,
		NewChallenges:          newChallenges,
		NewSubmissions:         newSubmissions,
		ChallengesByDifficulty: difficultyBuckets(difficultyCounts),
		TopEarnedAchievements:  topEarned,
		AchievementsByType:     byType,
	}, nil
}

// byTypeBreakdown renders the per-type counts in the fixed enumeration order.
// Types without any achievement are reported with a zero count rather than
// omitted, so consumers always see the full bucket set.
func (s *statsService) byTypeBreakdown(ctx context.Context) ([]TypeCount, error) {
	counts, err := s.achievements.CountByType(ctx)
	if err != nil {
		return nil, WrapInternalError("failed to count achievements by type", err)
	}

	breakdown := make([]TypeCount, 0, len(models.AchievementTypes))
	for _, achievementType := range models.AchievementTypes {
		breakdown = append(breakdown, TypeCount{
			Type:  achievementType,
			Count: counts[achievementType],
		})
	}
	return breakdown, nil
}

// difficultyBuckets renders the difficulty counts, falling back to the fixed
// zero-count placeholder set when the range produced no challenges.
func difficultyBuckets(counts map[string]int) []DifficultyCount {
	if len(counts) == 0 {
		buckets := make([]DifficultyCount, 0, len(challengeDifficulties))
		for _, difficulty := range challengeDifficulties {
			buckets = append(buckets, DifficultyCount{Difficulty: difficulty, Count: 0})
		}
		return buckets
	}

	buckets := make([]DifficultyCount, 0, len(counts))
	for _, difficulty := range challengeDifficulties {
		if count, ok := counts[difficulty]; ok {
			buckets = append(buckets, DifficultyCount{Difficulty: difficulty, Count: count})
			delete(counts, difficulty)
		}
	}
	extra := make([]string, 0, len(counts))
	for difficulty := range counts {
		extra = append(extra, difficulty)
	}
	slices.Sort(extra)
	for _, difficulty := range extra {
		buckets = append(buckets, DifficultyCount{Difficulty: difficulty, Count: counts[difficulty]})
	}
	return buckets
}
