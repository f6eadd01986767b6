package service

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/homestash/internal/models"
	"github.com/homestash/internal/repository"
)

// testEnv wires the full service stack against a throwaway sqlite file
type testEnv struct {
	db *gorm.DB

	userRepo      *repository.UserRepository
	categoryRepo  *repository.CategoryRepository
	locationRepo  *repository.LocationRepository
	containerRepo *repository.ContainerRepository
	itemRepo      *repository.ItemRepository

	categories *CategoryService
	locations  *LocationService
	containers *ContainerService
	items      *ItemService

	userID uint
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "homestash_test.db")
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

	env := &testEnv{
		db:            db,
		userRepo:      repository.NewUserRepository(db),
		categoryRepo:  repository.NewCategoryRepository(db),
		locationRepo:  repository.NewLocationRepository(db),
		containerRepo: repository.NewContainerRepository(db),
		itemRepo:      repository.NewItemRepository(db),
	}
	env.categories = NewCategoryService(env.categoryRepo, env.itemRepo)
	env.locations = NewLocationService(env.locationRepo, env.containerRepo, env.itemRepo)
	env.containers = NewContainerService(env.containerRepo, env.locationRepo, env.itemRepo)
	env.items = NewItemService(env.itemRepo, env.categoryRepo, env.containerRepo, env.locationRepo)

	user := &models.User{
		Username:     "tester",
		Email:        "tester@example.com",
		PasswordHash: "x",
		AuthProvider: models.AuthProviderLocal,
	}
	require.NoError(t, env.userRepo.Create(user))
	env.userID = user.ID

	return env
}

// otherUser registers a second user for ownership-scoping tests
func (env *testEnv) otherUser(t *testing.T) uint {
	t.Helper()
	user := &models.User{
		Username:     "other",
		Email:        "other@example.com",
		PasswordHash: "x",
		AuthProvider: models.AuthProviderLocal,
	}
	require.NoError(t, env.userRepo.Create(user))
	return user.ID
}

func (env *testEnv) mustLocation(t *testing.T, name string, parentID *uint) *models.Location {
	t.Helper()
	loc, err := env.locations.Create(env.userID, &CreateLocationRequest{
		Name:             name,
		ParentLocationID: parentID,
	})
	require.NoError(t, err)
	return loc
}

func (env *testEnv) mustContainer(t *testing.T, name string, locationID, parentID *uint) *models.Container {
	t.Helper()
	container, err := env.containers.Create(env.userID, &CreateContainerRequest{
		Name:              name,
		LocationID:        locationID,
		ParentContainerID: parentID,
	})
	require.NoError(t, err)
	return container
}

func (env *testEnv) mustItem(t *testing.T, name string, req CreateItemRequest) *models.Item {
	t.Helper()
	req.Name = name
	item, err := env.items.Create(env.userID, &req)
	require.NoError(t, err)
	return item
}
