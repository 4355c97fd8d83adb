package achievements

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"codearena/internal/contextutils"
	"codearena/internal/models"
	"codearena/internal/response"
	"codearena/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockAchievementService returns canned results for the handler tests
type mockAchievementService struct {
	createErr error
	awardErr  error
}

func (m *mockAchievementService) CreateAchievement(ctx context.Context, req *services.CreateAchievementRequest) (*models.Achievement, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	return &models.Achievement{
		ID:        1,
		Name:      req.Name,
		Badge:     req.Badge,
		IsActive:  true,
		CreatedBy: &req.CreatedBy,
	}, nil
}

func (m *mockAchievementService) ListAchievements(ctx context.Context, req *services.ListAchievementsRequest) (*models.PaginatedResponse[*models.Achievement], error) {
	return &models.PaginatedResponse[*models.Achievement]{
		Data: []*models.Achievement{{ID: 1, Name: "First Blood"}},
		Pagination: models.PaginationMeta{
			CurrentPage:  1,
			TotalPages:   1,
			TotalItems:   1,
			ItemsPerPage: 20,
		},
	}, nil
}

func (m *mockAchievementService) GetAchievementByID(ctx context.Context, id int64, includeDeleted bool) (*services.AchievementDetail, error) {
	if id != 1 {
		return nil, services.NewNotFoundError("achievement not found")
	}
	return &services.AchievementDetail{
		Achievement: &models.Achievement{ID: 1, Name: "First Blood"},
	}, nil
}

func (m *mockAchievementService) UpdateAchievement(ctx context.Context, req *services.UpdateAchievementRequest) (*models.Achievement, error) {
	return &models.Achievement{ID: req.AchievementID}, nil
}

func (m *mockAchievementService) SoftDeleteAchievement(ctx context.Context, id, deletedBy int64) error {
	return nil
}

func (m *mockAchievementService) HardDeleteAchievement(ctx context.Context, id int64) error {
	return nil
}

func (m *mockAchievementService) RestoreAchievement(ctx context.Context, id int64) (*models.Achievement, error) {
	return &models.Achievement{ID: id}, nil
}

func (m *mockAchievementService) AwardAchievement(ctx context.Context, userID, achievementID int64) (*services.AwardResult, error) {
	if m.awardErr != nil {
		return nil, m.awardErr
	}
	return &services.AwardResult{
		User:        &models.User{ID: userID, Badges: []string{"first-blood"}},
		Achievement: &models.Achievement{ID: achievementID, Badge: "first-blood"},
	}, nil
}

func (m *mockAchievementService) GetUserAchievements(ctx context.Context, userID int64) (*services.UserAchievements, error) {
	return &services.UserAchievements{
		Unlocked:   []*services.UserAchievementView{},
		Locked:     []*services.UserAchievementView{},
		TotalCount: 0,
	}, nil
}

func newTestRouter(svc services.AchievementService) http.Handler {
	builder := response.NewBuilder(response.DefaultConfig(), zap.NewNop())
	controller := NewController(&services.ServiceCollection{AchievementService: svc}, builder, zap.NewNop())

	r := chi.NewRouter()
	r.Post("/achievements", controller.Create)
	r.Get("/achievements", controller.List)
	r.Get("/achievements/{id}", controller.Get)
	r.Post("/achievements/{id}/award", controller.Award)
	r.Delete("/achievements/{id}", controller.SoftDelete)
	return r
}

func asAdmin(req *http.Request) *http.Request {
	ctx := contextutils.WithUserID(req.Context(), 1)
	ctx = contextutils.WithUserRole(ctx, contextutils.RoleAdmin)
	return req.WithContext(ctx)
}

func TestCreateAchievementEndpoint(t *testing.T) {
	router := newTestRouter(&mockAchievementService{})

	body := `{"name":"First Blood","description":"d","type":"challenge","badge":"first-blood","points":50}`
	req := asAdmin(httptest.NewRequest("POST", "/achievements", strings.NewReader(body)))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])

	data, ok := resp["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "First Blood", data["name"])
}

func TestCreateAchievementBadBody(t *testing.T) {
	router := newTestRouter(&mockAchievementService{})

	req := asAdmin(httptest.NewRequest("POST", "/achievements", strings.NewReader("{broken")))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["success"])
}

func TestCreateAchievementDuplicateName(t *testing.T) {
	router := newTestRouter(&mockAchievementService{
		createErr: services.NewDuplicateNameError("First Blood"),
	})

	body := `{"name":"First Blood","description":"d","type":"challenge","badge":"first-blood"}`
	req := asAdmin(httptest.NewRequest("POST", "/achievements", strings.NewReader(body)))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	errDetail, ok := resp["error"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "CONFLICT", errDetail["type"])
	assert.Equal(t, "DUPLICATE_NAME", errDetail["code"])
}

func TestGetAchievementEndpoint(t *testing.T) {
	router := newTestRouter(&mockAchievementService{})

	t.Run("found", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest("GET", "/achievements/1", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("not found", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest("GET", "/achievements/999", nil))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest("GET", "/achievements/abc", nil))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestAwardEndpoint(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		router := newTestRouter(&mockAchievementService{})
		req := asAdmin(httptest.NewRequest("POST", "/achievements/1/award", strings.NewReader(`{"user_id":7}`)))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("missing user_id", func(t *testing.T) {
		router := newTestRouter(&mockAchievementService{})
		req := asAdmin(httptest.NewRequest("POST", "/achievements/1/award", strings.NewReader(`{}`)))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("already awarded", func(t *testing.T) {
		router := newTestRouter(&mockAchievementService{
			awardErr: services.NewAlreadyAwardedError("first-blood"),
		})
		req := asAdmin(httptest.NewRequest("POST", "/achievements/1/award", strings.NewReader(`{"user_id":7}`)))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusConflict, rr.Code)

		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		errDetail, ok := resp["error"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "ALREADY_AWARDED", errDetail["code"])
	})
}

func TestSoftDeleteEndpoint(t *testing.T) {
	router := newTestRouter(&mockAchievementService{})

	req := asAdmin(httptest.NewRequest("DELETE", "/achievements/1", nil))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rr.Body.Bytes())
}
