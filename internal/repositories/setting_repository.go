// file: internal/repositories/setting_repository.go
package repositories

import (
	"context"
	"fmt"

	"codearena/internal/database"
	"codearena/internal/models"

	"go.uber.org/zap"
)

// settingRepository implements SettingRepository on Postgres
type settingRepository struct {
	*BaseRepository
}

// NewSettingRepository creates a new setting repository
func NewSettingRepository(db *database.Manager, logger *zap.Logger) SettingRepository {
	return &settingRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

// Get retrieves a setting by key
func (r *settingRepository) Get(ctx context.Context, key string) (*models.Setting, error) {
	query := `
		SELECT key, value, value_type, description, updated_by, updated_at
		FROM settings
		WHERE key = $1`

	var setting models.Setting
	err := r.QueryRowContext(ctx, query, key).Scan(
		&setting.Key, &setting.Value, &setting.ValueType,
		&setting.Description, &setting.UpdatedBy, &setting.UpdatedAt,
	)

	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get setting: %w", err)
	}

	return &setting, nil
}

// List returns every setting ordered by key
func (r *settingRepository) List(ctx context.Context) ([]*models.Setting, error) {
	query := `
		SELECT key, value, value_type, description, updated_by, updated_at
		FROM settings
		ORDER BY key ASC`

	rows, err := r.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	defer rows.Close()

	var settings []*models.Setting
	for rows.Next() {
		var setting models.Setting
		if err := rows.Scan(
			&setting.Key, &setting.Value, &setting.ValueType,
			&setting.Description, &setting.UpdatedBy, &setting.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		settings = append(settings, &setting)
	}

	return settings, rows.Err()
}

// Upsert inserts or overwrites a setting by key
func (r *settingRepository) Upsert(ctx context.Context, setting *models.Setting) error {
	query := `
		INSERT INTO settings (key, value, value_type, description, updated_by, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			value_type = EXCLUDED.value_type,
			description = EXCLUDED.description,
			updated_by = EXCLUDED.updated_by,
			updated_at = NOW()
		RETURNING updated_at`

	err := r.QueryRowContext(
		ctx, query,
		setting.Key, setting.Value, setting.ValueType,
		setting.Description, setting.UpdatedBy,
	).Scan(&setting.UpdatedAt)

	if err != nil {
		r.GetLogger().Error("Failed to upsert setting",
			zap.Error(err),
			zap.String("key", setting.Key),
		)
		return fmt.Errorf("failed to upsert setting: %w", err)
	}

	return nil
}

// Delete removes a setting by key
func (r *settingRepository) Delete(ctx context.Context, key string) (bool, error) {
	result, err := r.ExecContext(ctx, `DELETE FROM settings WHERE key = $1`, key)
	if err != nil {
		return false, fmt.Errorf("failed to delete setting: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read setting delete result: %w", err)
	}

	return affected > 0, nil
}
