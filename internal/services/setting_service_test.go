package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"codearena/internal/cache"
	"codearena/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSettingRepo struct {
	mu       sync.Mutex
	settings map[string]*models.Setting
	getCalls int
}

func newFakeSettingRepo() *fakeSettingRepo {
	return &fakeSettingRepo{settings: make(map[string]*models.Setting)}
}

func (f *fakeSettingRepo) Get(ctx context.Context, key string) (*models.Setting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	s, ok := f.settings[key]
	if !ok {
		return nil, nil
	}
	clone := *s
	return &clone, nil
}

func (f *fakeSettingRepo) List(ctx context.Context) ([]*models.Setting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.Setting, 0, len(f.settings))
	for _, s := range f.settings {
		clone := *s
		out = append(out, &clone)
	}
	return out, nil
}

func (f *fakeSettingRepo) Upsert(ctx context.Context, setting *models.Setting) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	setting.UpdatedAt = time.Now().UTC()
	clone := *setting
	f.settings[setting.Key] = &clone
	return nil
}

func (f *fakeSettingRepo) Delete(ctx context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.settings[key]; !ok {
		return false, nil
	}
	delete(f.settings, key)
	return true, nil
}

func newTestSettingService(t *testing.T, repo *fakeSettingRepo) SettingService {
	t.Helper()
	c, err := cache.NewCache(cache.DefaultConfig(), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return NewSettingService(repo, c, zap.NewNop())
}

func TestUpsertAndGetSetting(t *testing.T) {
	repo := newFakeSettingRepo()
	svc := newTestSettingService(t, repo)
	ctx := context.Background()

	created, err := svc.UpsertSetting(ctx, &UpsertSettingRequest{
		Key:       "max_daily_awards",
		Value:     "25",
		ValueType: "int",
		UpdatedBy: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "25", created.Value)

	fetched, err := svc.GetSetting(ctx, "max_daily_awards")
	require.NoError(t, err)
	assert.Equal(t, "int", fetched.ValueType)
}

func TestGetSettingReadThroughCache(t *testing.T) {
	repo := newFakeSettingRepo()
	repo.settings["theme"] = &models.Setting{Key: "theme", Value: "dark", ValueType: "string"}
	svc := newTestSettingService(t, repo)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		fetched, err := svc.GetSetting(ctx, "theme")
		require.NoError(t, err)
		assert.Equal(t, "dark", fetched.Value)
	}

	// Only the first read reaches the store; the rest are served from cache.
	assert.Equal(t, 1, repo.getCalls)
}

func TestUpsertSettingInvalidatesCache(t *testing.T) {
	repo := newFakeSettingRepo()
	repo.settings["theme"] = &models.Setting{Key: "theme", Value: "dark", ValueType: "string"}
	svc := newTestSettingService(t, repo)
	ctx := context.Background()

	_, err := svc.GetSetting(ctx, "theme")
	require.NoError(t, err)

	_, err = svc.UpsertSetting(ctx, &UpsertSettingRequest{
		Key:       "theme",
		Value:     "light",
		ValueType: "string",
		UpdatedBy: 1,
	})
	require.NoError(t, err)

	fetched, err := svc.GetSetting(ctx, "theme")
	require.NoError(t, err)
	assert.Equal(t, "light", fetched.Value)
}

func TestUpsertSettingValueTypeMismatch(t *testing.T) {
	svc := newTestSettingService(t, newFakeSettingRepo())

	cases := []struct {
		value     string
		valueType string
	}{
		{"not-a-number", "int"},
		{"1.2.3", "float"},
		{"maybe", "bool"},
		{"{broken", "json"},
	}
	for _, tc := range cases {
		_, err := svc.UpsertSetting(context.Background(), &UpsertSettingRequest{
			Key:       "k",
			Value:     tc.value,
			ValueType: tc.valueType,
			UpdatedBy: 1,
		})
		require.Error(t, err, "value %q should not parse as %s", tc.value, tc.valueType)
		assert.True(t, IsValidationError(err))
	}
}

func TestDeleteSetting(t *testing.T) {
	repo := newFakeSettingRepo()
	repo.settings["theme"] = &models.Setting{Key: "theme", Value: "dark", ValueType: "string"}
	svc := newTestSettingService(t, repo)
	ctx := context.Background()

	require.NoError(t, svc.DeleteSetting(ctx, "theme"))

	_, err := svc.GetSetting(ctx, "theme")
	require.Error(t, err)
	assert.True(t, IsNotFoundError(err))

	err = svc.DeleteSetting(ctx, "theme")
	require.Error(t, err)
	assert.True(t, IsNotFoundError(err))
}
