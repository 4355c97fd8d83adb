// file: internal/services/interface.go
package services

import (
	"context"
	"mime/multipart"
	"time"

	"codearena/internal/models"
)

// AchievementService owns the achievement catalog and the awarding engine
type AchievementService interface {
	// Catalog
	CreateAchievement(ctx context.Context, req *CreateAchievementRequest) (*models.Achievement, error)
	ListAchievements(ctx context.Context, req *ListAchievementsRequest) (*models.PaginatedResponse[*models.Achievement], error)
	GetAchievementByID(ctx context.Context, id int64, includeDeleted bool) (*AchievementDetail, error)
	UpdateAchievement(ctx context.Context, req *UpdateAchievementRequest) (*models.Achievement, error)
	SoftDeleteAchievement(ctx context.Context, id, deletedBy int64) error
	HardDeleteAchievement(ctx context.Context, id int64) error
	RestoreAchievement(ctx context.Context, id int64) (*models.Achievement, error)

	// Awarding engine
	AwardAchievement(ctx context.Context, userID, achievementID int64) (*AwardResult, error)
	GetUserAchievements(ctx context.Context, userID int64) (*UserAchievements, error)
}

// StatsService is the read-only statistics aggregator and the system-wide
// growth reporter built on top of it.
type StatsService interface {
	GetAchievementStats(ctx context.Context) (*AchievementStats, error)
	TopEarned(ctx context.Context, n int) ([]*models.Achievement, error)
	GetSystemGrowth(ctx context.Context, from, to time.Time) (*SystemGrowthStats, error)
}

// ReportService moderates user and content reports
type ReportService interface {
	CreateReport(ctx context.Context, req *CreateReportRequest) (*models.Report, error)
	GetReportByID(ctx context.Context, id int64) (*models.Report, error)
	ListReports(ctx context.Context, req *ListStatusRequest) (*models.PaginatedResponse[*models.Report], error)
	UpdateReportStatus(ctx context.Context, req *UpdateReportStatusRequest) (*models.Report, error)
	DeleteReport(ctx context.Context, id int64) error
}

// FeedbackService tracks user feedback triage
type FeedbackService interface {
	CreateFeedback(ctx context.Context, req *CreateFeedbackRequest) (*models.Feedback, error)
	GetFeedbackByID(ctx context.Context, id int64) (*models.Feedback, error)
	ListFeedback(ctx context.Context, req *ListStatusRequest) (*models.PaginatedResponse[*models.Feedback], error)
	UpdateFeedbackStatus(ctx context.Context, id int64, status string) (*models.Feedback, error)
	DeleteFeedback(ctx context.Context, id int64) error
}

// SettingService stores tunable runtime settings behind a read-through cache
type SettingService interface {
	GetSetting(ctx context.Context, key string) (*models.Setting, error)
	ListSettings(ctx context.Context) ([]*models.Setting, error)
	UpsertSetting(ctx context.Context, req *UpsertSettingRequest) (*models.Setting, error)
	DeleteSetting(ctx context.Context, key string) error
}

// FileService uploads achievement display assets
type FileService interface {
	UploadAchievementImage(ctx context.Context, file *multipart.FileHeader) (*UploadedFile, error)
	DeleteAchievementImage(ctx context.Context, publicID string) error
}

// UploadedFile is the result of a successful asset upload
type UploadedFile struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
	Format   string `json:"format"`
	Size     int    `json:"size"`
}
