// file: internal/services/setting_service.go
package services

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"codearena/internal/cache"
	"codearena/internal/models"
	"codearena/internal/repositories"
	"codearena/internal/validation"

	"go.uber.org/zap"
)

const (
	settingCachePrefix  = "settings:"
	settingListCacheKey = "settings:__list__"
	settingCacheTTL     = 10 * time.Minute
)

// settingService stores tunable runtime settings. Reads go through the cache;
// every write invalidates the whole settings keyspace so readers never see a
// stale value past one invalidation.
type settingService struct {
	settings repositories.SettingRepository
	cache    cache.Cache
	logger   *zap.Logger
}

// NewSettingService creates a new setting service
func NewSettingService(settings repositories.SettingRepository, c cache.Cache, logger *zap.Logger) SettingService {
	return &settingService{settings: settings, cache: c, logger: logger}
}

// GetSetting retrieves a single setting, cache first
func (s *settingService) GetSetting(ctx context.Context, key string) (*models.Setting, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, NewValidationError("setting key is required", nil)
	}

	cacheKey := settingCachePrefix + key
	if data, found := s.cache.Get(ctx, cacheKey); found {
		var setting models.Setting
		if err := json.Unmarshal(data, &setting); err == nil {
			return &setting, nil
		}
		// Unreadable cache entry; fall through to the store and overwrite it.
		s.logger.Warn("Discarding corrupt cached setting", zap.String("key", key))
	}

	setting, err := s.settings.Get(ctx, key)
	if err != nil {
		return nil, WrapInternalError("failed to get setting", err)
	}
	if setting == nil {
		return nil, NewNotFoundError("setting not found")
	}

	s.cacheSetting(ctx, cacheKey, setting)
	return setting, nil
}

// ListSettings retrieves all settings, cache first
func (s *settingService) ListSettings(ctx context.Context) ([]*models.Setting, error) {
	if data, found := s.cache.Get(ctx, settingListCacheKey); found {
		var settings []*models.Setting
		if err := json.Unmarshal(data, &settings); err == nil {
			return settings, nil
		}
		s.logger.Warn("Discarding corrupt cached setting list")
	}

	settings, err := s.settings.List(ctx)
	if err != nil {
		return nil, WrapInternalError("failed to list settings", err)
	}

	if data, err := json.Marshal(settings); err == nil {
		if err := s.cache.Set(ctx, settingListCacheKey, data, settingCacheTTL); err != nil {
			s.logger.Warn("Failed to cache setting list", zap.Error(err))
		}
	}

	return settings, nil
}

// UpsertSetting writes a setting and invalidates the settings cache
func (s *settingService) UpsertSetting(ctx context.Context, req *UpsertSettingRequest) (*models.Setting, error) {
	req.Key = strings.TrimSpace(req.Key)
	req.Value = strings.TrimSpace(req.Value)
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError(err.Error(), err)
	}
	if err := validateSettingValue(req.Value, req.ValueType); err != nil {
		return nil, err
	}

	setting := &models.Setting{
		Key:         req.Key,
		Value:       req.Value,
		ValueType:   req.ValueType,
		Description: req.Description,
		UpdatedBy:   &req.UpdatedBy,
	}

	if err := s.settings.Upsert(ctx, setting); err != nil {
		return nil, WrapInternalError("failed to upsert setting", err)
	}

	s.invalidate(ctx)

	s.logger.Info("Setting updated",
		zap.String("key", setting.Key),
		zap.String("value_type", setting.ValueType),
		zap.Int64("updated_by", req.UpdatedBy),
	)

	return setting, nil
}

// DeleteSetting removes a setting and invalidates the settings cache
func (s *settingService) DeleteSetting(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return NewValidationError("setting key is required", nil)
	}

	found, err := s.settings.Delete(ctx, key)
	if err != nil {
		return WrapInternalError("failed to delete setting", err)
	}
	if !found {
		return NewNotFoundError("setting not found")
	}

	s.invalidate(ctx)
	return nil
}

func (s *settingService) cacheSetting(ctx context.Context, cacheKey string, setting *models.Setting) {
	data, err := json.Marshal(setting)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey, data, settingCacheTTL); err != nil {
		s.logger.Warn("Failed to cache setting", zap.String("key", setting.Key), zap.Error(err))
	}
}

func (s *settingService) invalidate(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, settingCachePrefix+"*"); err != nil {
		s.logger.Warn("Failed to invalidate settings cache", zap.Error(err))
	}
}

// validateSettingValue checks that the raw value parses as its declared type
func validateSettingValue(value, valueType string) error {
	switch valueType {
	case "string":
		return nil
	case "int":
		if _, err := strconv.ParseInt(value, 10, 64); err != nil {
			return NewValidationError("value is not a valid integer", err)
		}
	case "float":
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return NewValidationError("value is not a valid float", err)
		}
	case "bool":
		if _, err := strconv.ParseBool(value); err != nil {
			return NewValidationError("value is not a valid boolean", err)
		}
	case "json":
		if !json.Valid([]byte(value)) {
			return NewValidationError("value is not valid JSON", nil)
		}
	default:
		return NewValidationError("unknown value type: "+valueType, nil)
	}
	return nil
}
