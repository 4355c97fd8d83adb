// file: internal/services/service_collection.go
package services

import (
	"context"
	"fmt"
	"time"

	"codearena/internal/cache"
	"codearena/internal/config"
	"codearena/internal/database"
	"codearena/internal/repositories"

	"go.uber.org/zap"
)

// ServiceCollection wires every service over shared infrastructure
type ServiceCollection struct {
	// Core services
	AchievementService AchievementService
	StatsService       StatsService
	ReportService      ReportService
	FeedbackService    FeedbackService
	SettingService     SettingService

	// Infrastructure services
	FileService FileService

	// Infrastructure components
	Repositories *repositories.Collection
	Cache        cache.Cache
	Logger       *zap.Logger
	Config       *config.Config
	DBManager    *database.Manager
}

// ServiceHealth is the aggregate health report of the collection
type ServiceHealth struct {
	Status       string                   `json:"status"`
	Timestamp    time.Time                `json:"timestamp"`
	Dependencies map[string]ServiceStatus `json:"dependencies"`
}

// ServiceStatus reports one dependency
type ServiceStatus struct {
	Name         string        `json:"name"`
	Status       string        `json:"status"` // healthy, unhealthy
	ResponseTime time.Duration `json:"response_time"`
	Error        string        `json:"error,omitempty"`
}

// NewServiceCollection builds the whole service graph in dependency order
func NewServiceCollection(
	dbManager *database.Manager,
	cfg *config.Config,
	logger *zap.Logger,
) (*ServiceCollection, error) {
	if dbManager == nil {
		return nil, fmt.Errorf("database manager is required")
	}
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	sc := &ServiceCollection{
		DBManager: dbManager,
		Config:    cfg,
		Logger:    logger,
	}

	if err := sc.initializeInfrastructure(); err != nil {
		return nil, fmt.Errorf("failed to initialize infrastructure: %w", err)
	}
	if err := sc.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	logger.Info("Service collection initialized")
	return sc, nil
}

func (sc *ServiceCollection) initializeInfrastructure() error {
	cacheConfig := &cache.Config{
		Provider:        sc.Config.Cache.Provider,
		TTL:             sc.Config.Cache.TTL,
		MaxKeys:         sc.Config.Cache.MaxKeys,
		CleanupInterval: 5 * time.Minute,
		RedisURL:        sc.Config.Cache.RedisURL,
		RedisDB:         sc.Config.Cache.RedisDB,
		RedisPassword:   sc.Config.Cache.RedisPassword,
		PoolSize:        sc.Config.Cache.PoolSize,
	}

	c, err := cache.NewCache(cacheConfig, sc.Logger)
	if err != nil {
		return fmt.Errorf("failed to create cache: %w", err)
	}
	sc.Cache = c

	repos, err := repositories.NewCollection(sc.DBManager, sc.Logger)
	if err != nil {
		return fmt.Errorf("failed to create repository collection: %w", err)
	}
	sc.Repositories = repos

	return nil
}

func (sc *ServiceCollection) initializeServices() error {
	// File service is optional: uploads are disabled without credentials.
	if sc.Config.Cloudinary.CloudName != "" {
		fileService, err := NewFileService(FileServiceConfig{
			CloudName:   sc.Config.Cloudinary.CloudName,
			APIKey:      sc.Config.Cloudinary.APIKey,
			APISecret:   sc.Config.Cloudinary.APISecret,
			MaxFileSize: sc.Config.Cloudinary.MaxFileSize,
			MaxRetries:  sc.Config.Cloudinary.MaxRetries,
		}, sc.Logger)
		if err != nil {
			return fmt.Errorf("failed to create file service: %w", err)
		}
		sc.FileService = fileService
	} else {
		sc.Logger.Warn("Cloudinary credentials missing, uploads disabled")
	}

	sc.AchievementService = NewAchievementService(
		sc.Repositories.Achievement,
		sc.Repositories.User,
		sc.Logger,
	)
	sc.StatsService = NewStatsService(
		sc.Repositories.Achievement,
		sc.Repositories.PlatformStats,
		sc.Logger,
	)
	sc.ReportService = NewReportService(sc.Repositories.Report, sc.Logger)
	sc.FeedbackService = NewFeedbackService(sc.Repositories.Feedback, sc.Logger)
	sc.SettingService = NewSettingService(sc.Repositories.Setting, sc.Cache, sc.Logger)

	return nil
}

// HealthCheck probes the database and the cache
func (sc *ServiceCollection) HealthCheck(ctx context.Context) *ServiceHealth {
	health := &ServiceHealth{
		Status:       "healthy",
		Timestamp:    time.Now().UTC(),
		Dependencies: make(map[string]ServiceStatus),
	}

	health.Dependencies["database"] = sc.probe(ctx, "database", sc.DBManager.Health)
	health.Dependencies["cache"] = sc.probe(ctx, "cache", sc.Cache.Health)

	for _, dep := range health.Dependencies {
		if dep.Status != "healthy" {
			health.Status = "unhealthy"
			break
		}
	}

	return health
}

func (sc *ServiceCollection) probe(ctx context.Context, name string, check func(context.Context) error) ServiceStatus {
	start := time.Now()
	status := ServiceStatus{Name: name, Status: "healthy"}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := check(ctx); err != nil {
		status.Status = "unhealthy"
		status.Error = err.Error()
		sc.Logger.Warn("Dependency health check failed",
			zap.String("dependency", name),
			zap.Error(err),
		)
	}

	status.ResponseTime = time.Since(start)
	return status
}

// Shutdown releases infrastructure resources
func (sc *ServiceCollection) Shutdown(ctx context.Context) error {
	sc.Logger.Info("Shutting down service collection")

	var firstErr error
	if sc.Cache != nil {
		if err := sc.Cache.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close cache: %w", err)
		}
	}
	if sc.DBManager != nil {
		if err := sc.DBManager.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close database: %w", err)
		}
	}

	return firstErr
}
