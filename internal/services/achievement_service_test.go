package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"codearena/internal/models"
	"codearena/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// ===============================
// IN-MEMORY FAKES
// ===============================

type fakeAchievementRepo struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]*models.Achievement
}

func newFakeAchievementRepo() *fakeAchievementRepo {
	return &fakeAchievementRepo{nextID: 1, items: make(map[int64]*models.Achievement)}
}

func (f *fakeAchievementRepo) Create(ctx context.Context, a *models.Achievement) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a.ID = f.nextID
	f.nextID++
	a.CreatedAt = time.Now().UTC()
	a.UpdatedAt = a.CreatedAt
	clone := *a
	f.items[a.ID] = &clone
	return nil
}

func (f *fakeAchievementRepo) GetByID(ctx context.Context, id int64, includeDeleted bool) (*models.Achievement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.items[id]
	if !ok || (a.IsDeleted && !includeDeleted) {
		return nil, nil
	}
	clone := *a
	return &clone, nil
}

func (f *fakeAchievementRepo) GetByName(ctx context.Context, name string) (*models.Achievement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.items {
		if a.Name == name {
			clone := *a
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeAchievementRepo) Update(ctx context.Context, a *models.Achievement) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a.UpdatedAt = time.Now().UTC()
	clone := *a
	f.items[a.ID] = &clone
	return nil
}

// SoftDelete mirrors the unconditional UPDATE of the SQL store: any resolving
// id is re-stamped, deleted or not.
func (f *fakeAchievementRepo) SoftDelete(ctx context.Context, id, deletedBy int64, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.items[id]
	if !ok {
		return false, nil
	}
	a.IsDeleted = true
	a.IsActive = false
	a.DeletedAt = &at
	a.DeletedBy = &deletedBy
	return true, nil
}

func (f *fakeAchievementRepo) Restore(ctx context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.items[id]
	if !ok || !a.IsDeleted {
		return false, nil
	}
	a.IsDeleted = false
	a.DeletedAt = nil
	a.DeletedBy = nil
	return true, nil
}

func (f *fakeAchievementRepo) HardDelete(ctx context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return false, nil
	}
	delete(f.items, id)
	return true, nil
}

func (f *fakeAchievementRepo) List(ctx context.Context, filter repositories.AchievementFilter, params models.PaginationParams) (*models.PaginatedResponse[*models.Achievement], error) {
	all, _ := f.ListAll(ctx, false)
	return &models.PaginatedResponse[*models.Achievement]{
		Data: all,
		Pagination: models.PaginationMeta{
			CurrentPage:  1,
			TotalPages:   1,
			TotalItems:   int64(len(all)),
			ItemsPerPage: params.Limit,
		},
	}, nil
}

func (f *fakeAchievementRepo) ListAll(ctx context.Context, activeOnly bool) ([]*models.Achievement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Achievement
	for id := int64(1); id < f.nextID; id++ {
		a, ok := f.items[id]
		if !ok || a.IsDeleted || (activeOnly && !a.IsActive) {
			continue
		}
		clone := *a
		out = append(out, &clone)
	}
	return out, nil
}

func (f *fakeAchievementRepo) CountByState(ctx context.Context) (int, int, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var total, active, deleted int
	for _, a := range f.items {
		total++
		if a.IsDeleted {
			deleted++
		} else if a.IsActive {
			active++
		}
	}
	return total, active, deleted, nil
}

func (f *fakeAchievementRepo) CountByType(ctx context.Context) (map[string]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := make(map[string]int)
	for _, a := range f.items {
		if !a.IsDeleted {
			counts[a.Type]++
		}
	}
	return counts, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[int64]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	f := &fakeUserRepo{users: make(map[int64]*models.User)}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	clone := *u
	clone.Badges = append([]string(nil), u.Badges...)
	return &clone, nil
}

func (f *fakeUserRepo) GetByBadge(ctx context.Context, badge string, limit int) ([]*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.User
	for _, u := range f.users {
		if u.HasBadge(badge) && len(out) < limit {
			clone := *u
			out = append(out, &clone)
		}
	}
	return out, nil
}

// AwardBadge mirrors the conditional update semantics of the SQL store: the
// membership check and the mutation happen under one lock.
func (f *fakeUserRepo) AwardBadge(ctx context.Context, userID int64, badge string, points int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return false, nil
	}
	if u.HasBadge(badge) {
		return false, nil
	}
	u.Badges = append(u.Badges, badge)
	u.Experience += points
	u.UpdatedAt = time.Now().UTC()
	return true, nil
}

// ===============================
// TEST HELPERS
// ===============================

func newTestAchievementService(achievements *fakeAchievementRepo, users *fakeUserRepo) AchievementService {
	return NewAchievementService(achievements, users, zap.NewNop())
}

func validCreateRequest(name, badge string) *CreateAchievementRequest {
	return &CreateAchievementRequest{
		Name:        name,
		Description: "Complete your first challenge",
		Type:        models.AchievementTypeChallenge,
		Condition:   models.Condition{Type: "challenges_completed", Value: 1},
		Points:      50,
		Badge:       badge,
		CreatedBy:   1,
	}
}

// ===============================
// CATALOG TESTS
// ===============================

func TestCreateAchievement(t *testing.T) {
	repo := newFakeAchievementRepo()
	svc := newTestAchievementService(repo, newFakeUserRepo())

	created, err := svc.CreateAchievement(context.Background(), validCreateRequest("First Blood", "first-blood"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.True(t, created.IsActive)
	assert.False(t, created.IsDeleted)
	require.NotNil(t, created.CreatedBy)
	assert.Equal(t, int64(1), *created.CreatedBy)
}

func TestCreateAchievementTrimsFields(t *testing.T) {
	repo := newFakeAchievementRepo()
	svc := newTestAchievementService(repo, newFakeUserRepo())

	req := validCreateRequest("  Spaced Out  ", "  spaced-out  ")
	created, err := svc.CreateAchievement(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "Spaced Out", created.Name)
	assert.Equal(t, "spaced-out", created.Badge)
}

func TestCreateAchievementDuplicateName(t *testing.T) {
	repo := newFakeAchievementRepo()
	svc := newTestAchievementService(repo, newFakeUserRepo())

	_, err := svc.CreateAchievement(context.Background(), validCreateRequest("First Blood", "first-blood"))
	require.NoError(t, err)

	_, err = svc.CreateAchievement(context.Background(), validCreateRequest("First Blood", "other-badge"))
	require.Error(t, err)
	assert.True(t, IsDuplicateNameError(err))
}

func TestCreateAchievementInvalidType(t *testing.T) {
	repo := newFakeAchievementRepo()
	svc := newTestAchievementService(repo, newFakeUserRepo())

	req := validCreateRequest("First Blood", "first-blood")
	req.Type = "bogus"

	_, err := svc.CreateAchievement(context.Background(), req)
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestUpdateAchievementRenameCollision(t *testing.T) {
	repo := newFakeAchievementRepo()
	svc := newTestAchievementService(repo, newFakeUserRepo())
	ctx := context.Background()

	first, err := svc.CreateAchievement(ctx, validCreateRequest("First Blood", "first-blood"))
	require.NoError(t, err)
	second, err := svc.CreateAchievement(ctx, validCreateRequest("Marathon", "marathon"))
	require.NoError(t, err)

	name := first.Name
	_, err = svc.UpdateAchievement(ctx, &UpdateAchievementRequest{
		AchievementID: second.ID,
		Name:          &name,
		UpdatedBy:     2,
	})
	require.Error(t, err)
	assert.True(t, IsDuplicateNameError(err))
}

func TestUpdateAchievementRenameToSelf(t *testing.T) {
	repo := newFakeAchievementRepo()
	svc := newTestAchievementService(repo, newFakeUserRepo())
	ctx := context.Background()

	created, err := svc.CreateAchievement(ctx, validCreateRequest("First Blood", "first-blood"))
	require.NoError(t, err)

	name := created.Name
	updated, err := svc.UpdateAchievement(ctx, &UpdateAchievementRequest{
		AchievementID: created.ID,
		Name:          &name,
		UpdatedBy:     2,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.UpdatedBy)
	assert.Equal(t, int64(2), *updated.UpdatedBy)
}

func TestSoftDeleteForcesInactiveAndRestoreKeepsIt(t *testing.T) {
	repo := newFakeAchievementRepo()
	svc := newTestAchievementService(repo, newFakeUserRepo())
	ctx := context.Background()

	created, err := svc.CreateAchievement(ctx, validCreateRequest("First Blood", "first-blood"))
	require.NoError(t, err)
	require.True(t, created.IsActive)

	require.NoError(t, svc.SoftDeleteAchievement(ctx, created.ID, 9))

	deleted, err := repo.GetByID(ctx, created.ID, true)
	require.NoError(t, err)
	assert.True(t, deleted.IsDeleted)
	assert.False(t, deleted.IsActive)
	assert.NotNil(t, deleted.DeletedAt)

	// Restore clears the delete stamps but does not flip is_active back.
	restored, err := svc.RestoreAchievement(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, restored.IsDeleted)
	assert.False(t, restored.IsActive)
	assert.Nil(t, restored.DeletedAt)
}

func TestSoftDeleteAlreadyDeletedRestamps(t *testing.T) {
	repo := newFakeAchievementRepo()
	svc := newTestAchievementService(repo, newFakeUserRepo())
	ctx := context.Background()

	created, err := svc.CreateAchievement(ctx, validCreateRequest("First Blood", "first-blood"))
	require.NoError(t, err)

	require.NoError(t, svc.SoftDeleteAchievement(ctx, created.ID, 9))

	// Deleting again succeeds: the stamps refresh but the net state is the same.
	require.NoError(t, svc.SoftDeleteAchievement(ctx, created.ID, 10))

	deleted, err := repo.GetByID(ctx, created.ID, true)
	require.NoError(t, err)
	assert.True(t, deleted.IsDeleted)
	assert.False(t, deleted.IsActive)
	require.NotNil(t, deleted.DeletedBy)
	assert.Equal(t, int64(10), *deleted.DeletedBy)
}

func TestSoftDeleteNotFound(t *testing.T) {
	svc := newTestAchievementService(newFakeAchievementRepo(), newFakeUserRepo())

	err := svc.SoftDeleteAchievement(context.Background(), 42, 1)
	require.Error(t, err)
	assert.True(t, IsNotFoundError(err))
}

func TestGetAchievementByIDHidesDeleted(t *testing.T) {
	repo := newFakeAchievementRepo()
	svc := newTestAchievementService(repo, newFakeUserRepo())
	ctx := context.Background()

	created, err := svc.CreateAchievement(ctx, validCreateRequest("First Blood", "first-blood"))
	require.NoError(t, err)
	require.NoError(t, svc.SoftDeleteAchievement(ctx, created.ID, 1))

	_, err = svc.GetAchievementByID(ctx, created.ID, false)
	require.Error(t, err)
	assert.True(t, IsNotFoundError(err))

	detail, err := svc.GetAchievementByID(ctx, created.ID, true)
	require.NoError(t, err)
	assert.True(t, detail.Achievement.IsDeleted)
}

// ===============================
// AWARDING TESTS
// ===============================

func TestAwardAchievement(t *testing.T) {
	repo := newFakeAchievementRepo()
	users := newFakeUserRepo(&models.User{ID: 7, Username: "dana", Experience: 100})
	svc := newTestAchievementService(repo, users)
	ctx := context.Background()

	created, err := svc.CreateAchievement(ctx, validCreateRequest("First Blood", "first-blood"))
	require.NoError(t, err)

	result, err := svc.AwardAchievement(ctx, 7, created.ID)
	require.NoError(t, err)
	assert.True(t, result.User.HasBadge("first-blood"))
	assert.Equal(t, 150, result.User.Experience)
}

func TestAwardAchievementTwice(t *testing.T) {
	repo := newFakeAchievementRepo()
	users := newFakeUserRepo(&models.User{ID: 7, Username: "dana"})
	svc := newTestAchievementService(repo, users)
	ctx := context.Background()

	created, err := svc.CreateAchievement(ctx, validCreateRequest("First Blood", "first-blood"))
	require.NoError(t, err)

	_, err = svc.AwardAchievement(ctx, 7, created.ID)
	require.NoError(t, err)

	_, err = svc.AwardAchievement(ctx, 7, created.ID)
	require.Error(t, err)
	assert.True(t, IsAlreadyAwardedError(err))

	// The duplicate attempt must not credit points again.
	user, err := users.GetByID(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 50, user.Experience)
}

func TestAwardDeletedAchievement(t *testing.T) {
	repo := newFakeAchievementRepo()
	users := newFakeUserRepo(&models.User{ID: 7, Username: "dana"})
	svc := newTestAchievementService(repo, users)
	ctx := context.Background()

	created, err := svc.CreateAchievement(ctx, validCreateRequest("First Blood", "first-blood"))
	require.NoError(t, err)
	require.NoError(t, svc.SoftDeleteAchievement(ctx, created.ID, 1))

	_, err = svc.AwardAchievement(ctx, 7, created.ID)
	require.Error(t, err)
	assert.True(t, IsInvalidStateError(err))
}

func TestAwardToUnknownUser(t *testing.T) {
	repo := newFakeAchievementRepo()
	svc := newTestAchievementService(repo, newFakeUserRepo())
	ctx := context.Background()

	created, err := svc.CreateAchievement(ctx, validCreateRequest("First Blood", "first-blood"))
	require.NoError(t, err)

	_, err = svc.AwardAchievement(ctx, 999, created.ID)
	require.Error(t, err)
	assert.True(t, IsNotFoundError(err))
}

func TestConcurrentAwardsGrantOnce(t *testing.T) {
	repo := newFakeAchievementRepo()
	users := newFakeUserRepo(&models.User{ID: 7, Username: "dana"})
	svc := newTestAchievementService(repo, users)
	ctx := context.Background()

	created, err := svc.CreateAchievement(ctx, validCreateRequest("First Blood", "first-blood"))
	require.NoError(t, err)

	const attempts = 16
	var wg sync.WaitGroup
	var mu sync.Mutex
	var successes, duplicates int

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.AwardAchievement(ctx, 7, created.ID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case IsAlreadyAwardedError(err):
				duplicates++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, duplicates)

	user, err := users.GetByID(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 50, user.Experience)
	assert.Len(t, user.Badges, 1)
}

// ===============================
// PROGRESS TESTS
// ===============================

func TestGetUserAchievementsProgress(t *testing.T) {
	repo := newFakeAchievementRepo()
	users := newFakeUserRepo(&models.User{ID: 7, Username: "dana"})
	svc := newTestAchievementService(repo, users)
	ctx := context.Background()

	badges := []string{"first-blood", "marathon", "night-owl"}
	names := []string{"First Blood", "Marathon", "Night Owl"}
	ids := make([]int64, 0, len(badges))
	for i := range badges {
		created, err := svc.CreateAchievement(ctx, validCreateRequest(names[i], badges[i]))
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}

	for _, id := range ids[:2] {
		_, err := svc.AwardAchievement(ctx, 7, id)
		require.NoError(t, err)
	}

	result, err := svc.GetUserAchievements(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 3, result.TotalCount)
	assert.Equal(t, 2, result.UnlockedCount)
	assert.Len(t, result.Locked, 1)
	// 2 of 3 rounds to 67.
	assert.Equal(t, 67, result.Progress)

	for _, view := range result.Unlocked {
		assert.True(t, view.Unlocked)
		assert.NotNil(t, view.UnlockedAt)
	}
}

func TestGetUserAchievementsEmptyCatalog(t *testing.T) {
	users := newFakeUserRepo(&models.User{ID: 7, Username: "dana"})
	svc := newTestAchievementService(newFakeAchievementRepo(), users)

	result, err := svc.GetUserAchievements(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 0, result.TotalCount)
	assert.Equal(t, 0, result.Progress)
	assert.NotNil(t, result.Unlocked)
	assert.NotNil(t, result.Locked)
}
