package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/homestash/internal/config"
	"github.com/homestash/internal/handler"
	"github.com/homestash/internal/middleware"
	"github.com/homestash/internal/models"
	"github.com/homestash/internal/repository"
	"github.com/homestash/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// envelope mirrors the response structure for assertions
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type apiTest struct {
	router *gin.Engine
	token  string
}

func newAPITest(t *testing.T) *apiTest {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "homestash_api_test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Location{},
		&models.Container{},
		&models.Item{},
	))

	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	containerRepo := repository.NewContainerRepository(db)
	itemRepo := repository.NewItemRepository(db)

	authService := service.NewAuthService(userRepo, config.JWTConfig{Secret: "test-secret", ExpireHours: 1})
	categoryService := service.NewCategoryService(categoryRepo, itemRepo)
	locationService := service.NewLocationService(locationRepo, containerRepo, itemRepo)

	router := gin.New()
	api := router.Group("/api")
	handler.NewAuthHandler(authService).RegisterRoutes(api, authService)
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(authService))
	handler.NewCategoryHandler(categoryService).RegisterRoutes(protected)
	handler.NewLocationHandler(locationService, nil).RegisterRoutes(protected)

	_, err = authService.Register(&service.RegisterRequest{
		Email:    "alice@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)
	token, err := authService.Login(&service.LoginRequest{
		Email:    "alice@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)

	return &apiTest{router: router, token: token.AccessToken}
}

func (a *apiTest) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(data)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.token)

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func TestAPIRequiresAuth(t *testing.T) {
	a := newAPITest(t)

	req := httptest.NewRequest(http.MethodGet, "/api/categories", nil)
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/categories", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w = httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCategoryCRUDOverHTTP(t *testing.T) {
	a := newAPITest(t)

	w, env := a.do(t, http.MethodPost, "/api/categories", gin.H{"name": "Tools"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 0, env.Code)
	var created models.Category
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "Tools", created.Name)

	// Duplicate name comes back as a structured 409
	w, env = a.do(t, http.MethodPost, "/api/categories", gin.H{"name": "Tools"})
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, -1004, env.Code)
	var detail struct {
		Kind string `json:"kind"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.Equal(t, "duplicate_name", detail.Kind)

	w, env = a.do(t, http.MethodGet, "/api/categories", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var categories []models.Category
	require.NoError(t, json.Unmarshal(env.Data, &categories))
	assert.Len(t, categories, 1)

	w, _ = a.do(t, http.MethodDelete, fmt.Sprintf("/api/categories/%d", created.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = a.do(t, http.MethodGet, fmt.Sprintf("/api/categories/%d", created.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLocationTreeOverHTTP(t *testing.T) {
	a := newAPITest(t)

	_, env := a.do(t, http.MethodPost, "/api/locations", gin.H{"name": "Garage"})
	var garage models.Location
	require.NoError(t, json.Unmarshal(env.Data, &garage))

	w, env := a.do(t, http.MethodPost, "/api/locations", gin.H{
		"name":               "Shelf A",
		"parent_location_id": garage.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var shelf models.Location
	require.NoError(t, json.Unmarshal(env.Data, &shelf))

	// Tree view nests the shelf under the garage
	_, env = a.do(t, http.MethodGet, "/api/locations", nil)
	var tree []models.Location
	require.NoError(t, json.Unmarshal(env.Data, &tree))
	require.Len(t, tree, 1)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, "Shelf A", tree[0].Children[0].Name)

	// Flat view returns both without nesting
	_, env = a.do(t, http.MethodGet, "/api/locations?flat=true", nil)
	var flat []models.Location
	require.NoError(t, json.Unmarshal(env.Data, &flat))
	assert.Len(t, flat, 2)

	// Re-parenting the garage under its own child is a 409 cycle
	w, env = a.do(t, http.MethodPut, fmt.Sprintf("/api/locations/%d", garage.ID), gin.H{
		"parent_location_id": shelf.ID,
	})
	require.Equal(t, http.StatusConflict, w.Code)
	var detail struct {
		Kind string `json:"kind"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.Equal(t, "cycle", detail.Kind)

	// Deleting the garage while the shelf hangs off it is a 409 with count
	w, env = a.do(t, http.MethodDelete, fmt.Sprintf("/api/locations/%d", garage.ID), nil)
	require.Equal(t, http.StatusConflict, w.Code)
	var blocked struct {
		Kind  string `json:"kind"`
		Count int64  `json:"count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &blocked))
	assert.Equal(t, "child_locations", blocked.Kind)
	assert.EqualValues(t, 1, blocked.Count)
}
