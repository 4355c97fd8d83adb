// file: internal/repositories/collection.go
package repositories

import (
	"fmt"

	"codearena/internal/database"

	"go.uber.org/zap"
)

// Collection bundles every repository behind one constructor
type Collection struct {
	Achievement   AchievementRepository
	User          UserRepository
	Report        ReportRepository
	Feedback      FeedbackRepository
	Setting       SettingRepository
	PlatformStats PlatformStatsRepository
}

// NewCollection creates all repositories over one database manager
func NewCollection(db *database.Manager, logger *zap.Logger) (*Collection, error) {
	if db == nil {
		return nil, fmt.Errorf("database manager is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Collection{
		Achievement:   NewAchievementRepository(db, logger),
		User:          NewUserRepository(db, logger),
		Report:        NewReportRepository(db, logger),
		Feedback:      NewFeedbackRepository(db, logger),
		Setting:       NewSettingRepository(db, logger),
		PlatformStats: NewPlatformStatsRepository(db, logger),
	}, nil
}
