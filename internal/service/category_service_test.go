package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homestash/internal/repository"
)

func TestCategoryDuplicateNameRejected(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.categories.Create(env.userID, &CreateCategoryRequest{Name: "Tools"})
	require.NoError(t, err)

	_, err = env.categories.Create(env.userID, &CreateCategoryRequest{Name: "Tools"})
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, ConflictDuplicateName, conflict.Kind)

	// A different user may reuse the name
	otherID := env.otherUser(t)
	_, err = env.categories.Create(otherID, &CreateCategoryRequest{Name: "Tools"})
	assert.NoError(t, err)
}

func TestCategoryUpdateRenameChecksDuplicates(t *testing.T) {
	env := newTestEnv(t)

	tools, err := env.categories.Create(env.userID, &CreateCategoryRequest{Name: "Tools"})
	require.NoError(t, err)
	_, err = env.categories.Create(env.userID, &CreateCategoryRequest{Name: "Electronics"})
	require.NoError(t, err)

	name := "Electronics"
	_, err = env.categories.Update(tools.ID, env.userID, &UpdateCategoryRequest{Name: &name})
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, ConflictDuplicateName, conflict.Kind)

	// Saving with its own unchanged name is not a duplicate
	same := "Tools"
	desc := "hand tools"
	updated, err := env.categories.Update(tools.ID, env.userID, &UpdateCategoryRequest{Name: &same, Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, "hand tools", updated.Description)
}

func TestCategoryDeleteBlockedByItems(t *testing.T) {
	env := newTestEnv(t)

	cat, err := env.categories.Create(env.userID, &CreateCategoryRequest{Name: "Tools"})
	require.NoError(t, err)
	env.mustItem(t, "Drill", CreateItemRequest{CategoryID: &cat.ID})
	env.mustItem(t, "Hammer", CreateItemRequest{CategoryID: &cat.ID})

	err = env.categories.Delete(cat.ID, env.userID)
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, ConflictItems, conflict.Kind)
	assert.EqualValues(t, 2, conflict.Count)

	// Reassign the items, then the delete goes through
	items, err := env.items.List(env.userID, repository.ItemFilter{})
	require.NoError(t, err)
	for _, item := range items {
		_, err := env.items.Update(item.ID, env.userID, &UpdateItemRequest{CategoryID: NullRef()})
		require.NoError(t, err)
	}
	require.NoError(t, env.categories.Delete(cat.ID, env.userID))
}

func TestCategoryListCarriesItemCounts(t *testing.T) {
	env := newTestEnv(t)

	tools, err := env.categories.Create(env.userID, &CreateCategoryRequest{Name: "Tools"})
	require.NoError(t, err)
	empty, err := env.categories.Create(env.userID, &CreateCategoryRequest{Name: "Empty"})
	require.NoError(t, err)
	env.mustItem(t, "Drill", CreateItemRequest{CategoryID: &tools.ID})

	categories, err := env.categories.List(env.userID)
	require.NoError(t, err)
	counts := map[uint]int64{}
	for _, c := range categories {
		counts[c.ID] = c.ItemCount
	}
	assert.EqualValues(t, 1, counts[tools.ID])
	assert.EqualValues(t, 0, counts[empty.ID])
}

func TestCategoryOwnershipScoping(t *testing.T) {
	env := newTestEnv(t)
	otherID := env.otherUser(t)

	cat, err := env.categories.Create(env.userID, &CreateCategoryRequest{Name: "Tools"})
	require.NoError(t, err)

	_, err = env.categories.Get(cat.ID, otherID)
	var notFoundErr *NotFoundError
	assert.True(t, errors.As(err, &notFoundErr))

	err = env.categories.Delete(cat.ID, otherID)
	assert.True(t, errors.As(err, &notFoundErr))
}
