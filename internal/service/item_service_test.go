package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homestash/internal/repository"
)

func TestItemCreateDefaultsAndValidation(t *testing.T) {
	env := newTestEnv(t)

	item := env.mustItem(t, "Drill", CreateItemRequest{})
	assert.Equal(t, 1, item.Quantity)

	qty := 5
	item = env.mustItem(t, "Screws", CreateItemRequest{Quantity: &qty})
	assert.Equal(t, 5, item.Quantity)

	zero := 0
	item = env.mustItem(t, "Placeholder", CreateItemRequest{Quantity: &zero})
	assert.Equal(t, 0, item.Quantity)

	negative := -1
	_, err := env.items.Create(env.userID, &CreateItemRequest{Name: "Bad", Quantity: &negative})
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)

	_, err = env.items.Create(env.userID, &CreateItemRequest{})
	require.ErrorAs(t, err, &validationErr)
}

func TestItemCreateRejectsMissingRefs(t *testing.T) {
	env := newTestEnv(t)
	otherID := env.otherUser(t)

	missing := uint(9999)
	var validationErr *ValidationError

	_, err := env.items.Create(env.userID, &CreateItemRequest{Name: "Drill", CategoryID: &missing})
	require.ErrorAs(t, err, &validationErr)

	_, err = env.items.Create(env.userID, &CreateItemRequest{Name: "Drill", ContainerID: &missing})
	require.ErrorAs(t, err, &validationErr)

	_, err = env.items.Create(env.userID, &CreateItemRequest{Name: "Drill", LocationID: &missing})
	require.ErrorAs(t, err, &validationErr)

	// Another user's location is as good as missing
	theirs, err := env.locations.Create(otherID, &CreateLocationRequest{Name: "Their garage"})
	require.NoError(t, err)
	_, err = env.items.Create(env.userID, &CreateItemRequest{Name: "Drill", LocationID: &theirs.ID})
	require.ErrorAs(t, err, &validationErr)
}

func TestItemPartialUpdateAndClearRefs(t *testing.T) {
	env := newTestEnv(t)

	garage := env.mustLocation(t, "Garage", nil)
	box := env.mustContainer(t, "Box 1", &garage.ID, nil)
	item := env.mustItem(t, "Drill", CreateItemRequest{
		Description: "cordless",
		ContainerID: &box.ID,
		LocationID:  &garage.ID,
	})

	// Clearing one reference leaves the others untouched
	updated, err := env.items.Update(item.ID, env.userID, &UpdateItemRequest{
		ContainerID: NullRef(),
	})
	require.NoError(t, err)
	assert.Nil(t, updated.ContainerID)
	require.NotNil(t, updated.LocationID)
	assert.Equal(t, garage.ID, *updated.LocationID)
	assert.Equal(t, "cordless", updated.Description)

	// An absent field is not a clear
	name := "Cordless drill"
	updated, err = env.items.Update(item.ID, env.userID, &UpdateItemRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Cordless drill", updated.Name)
	require.NotNil(t, updated.LocationID)

	// Negative quantity rejected without touching the record
	negative := -3
	_, err = env.items.Update(item.ID, env.userID, &UpdateItemRequest{Quantity: &negative})
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	got, err := env.items.Get(item.ID, env.userID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Quantity)
}

func TestItemListFilters(t *testing.T) {
	env := newTestEnv(t)

	tools, err := env.categories.Create(env.userID, &CreateCategoryRequest{Name: "Tools"})
	require.NoError(t, err)
	garage := env.mustLocation(t, "Garage", nil)

	env.mustItem(t, "Cordless drill", CreateItemRequest{CategoryID: &tools.ID, LocationID: &garage.ID})
	env.mustItem(t, "Hammer", CreateItemRequest{CategoryID: &tools.ID})
	env.mustItem(t, "Desk lamp", CreateItemRequest{Description: "drill bits not included"})

	bySearch, err := env.items.List(env.userID, repository.ItemFilter{Search: "drill"})
	require.NoError(t, err)
	assert.Len(t, bySearch, 2) // matches name and description

	byCategory, err := env.items.List(env.userID, repository.ItemFilter{CategoryID: &tools.ID})
	require.NoError(t, err)
	assert.Len(t, byCategory, 2)

	byLocation, err := env.items.List(env.userID, repository.ItemFilter{LocationID: &garage.ID})
	require.NoError(t, err)
	require.Len(t, byLocation, 1)
	assert.Equal(t, "Cordless drill", byLocation[0].Name)
	assert.Equal(t, "Tools", byLocation[0].CategoryName)
	assert.Equal(t, "Garage", byLocation[0].LocationName)
}

func TestItemGetResolvesDisplayNames(t *testing.T) {
	env := newTestEnv(t)

	tools, err := env.categories.Create(env.userID, &CreateCategoryRequest{Name: "Tools"})
	require.NoError(t, err)
	garage := env.mustLocation(t, "Garage", nil)
	box := env.mustContainer(t, "Box 1", &garage.ID, nil)

	item := env.mustItem(t, "Drill", CreateItemRequest{
		CategoryID:  &tools.ID,
		ContainerID: &box.ID,
		LocationID:  &garage.ID,
	})

	got, err := env.items.Get(item.ID, env.userID)
	require.NoError(t, err)
	assert.Equal(t, "Tools", got.CategoryName)
	assert.Equal(t, "Box 1", got.ContainerName)
	assert.Equal(t, "Garage", got.LocationName)
}
