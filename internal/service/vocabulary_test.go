package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/wardrobeapp/wardrobe-server/internal/errors"
)

func TestCreateTag(t *testing.T) {
	f := setupClosetTest(t)
	svc := NewTagService(f.store, testLogger())
	ctx := context.Background()

	tag, err := svc.CreateTag(ctx, f.userID, "Slow Fashion")
	require.NoError(t, err)
	assert.Equal(t, "Slow Fashion", tag.Name)
	assert.Equal(t, "slow-fashion", tag.Slug)

	tags, err := svc.ListTags(ctx, f.userID)
	require.NoError(t, err)
	assert.Len(t, tags, 1)
}

func TestCreateTagRejectsEmptyAndDuplicate(t *testing.T) {
	f := setupClosetTest(t)
	svc := NewTagService(f.store, testLogger())
	ctx := context.Background()

	_, err := svc.CreateTag(ctx, f.userID, "   ")
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = svc.CreateTag(ctx, f.userID, "Work")
	require.NoError(t, err)

	// Same slug, different casing: duplicate.
	_, err = svc.CreateTag(ctx, f.userID, "WORK")
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)
}

func TestDeleteTagClearsReferences(t *testing.T) {
	f := setupClosetTest(t)
	svc := NewTagService(f.store, testLogger())
	ctx := context.Background()

	tag, err := svc.CreateTag(ctx, f.userID, "Work")
	require.NoError(t, err)

	item, err := f.closet.CreateItem(ctx, f.userID, CreateItemRequest{
		Name: "Shirt",
		Type: "Shirts",
		Tags: []string{"Work", "Summer"},
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTag(ctx, f.userID, tag.ID))

	// The item survives, minus the deleted tag.
	got, err := f.closet.GetItem(ctx, f.userID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Summer"}, got.Tags)
}

func TestCreateItemType(t *testing.T) {
	f := setupClosetTest(t)
	svc := NewItemTypeService(f.store, testLogger())
	ctx := context.Background()

	it, err := svc.CreateItemType(ctx, f.userID, "Blazers")
	require.NoError(t, err)
	assert.Equal(t, "blazers", it.Slug)

	_, err = svc.CreateItemType(ctx, f.userID, "blazers")
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)
}

func TestCreateItemTypeRejectsReservedSentinel(t *testing.T) {
	f := setupClosetTest(t)
	svc := NewItemTypeService(f.store, testLogger())

	_, err := svc.CreateItemType(context.Background(), f.userID, "All")
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = svc.CreateItemType(context.Background(), f.userID, "all")
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestDeleteItemTypeKeepsItems(t *testing.T) {
	f := setupClosetTest(t)
	svc := NewItemTypeService(f.store, testLogger())
	ctx := context.Background()

	it, err := svc.CreateItemType(ctx, f.userID, "Blazers")
	require.NoError(t, err)

	item, err := f.closet.CreateItem(ctx, f.userID, CreateItemRequest{
		Name: "Navy Blazer",
		Type: "Blazers",
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteItemType(ctx, f.userID, it.ID))

	// The item keeps its type string; only the vocabulary shrank.
	got, err := f.closet.GetItem(ctx, f.userID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Blazers", got.Type)

	types, err := svc.ListItemTypes(ctx, f.userID)
	require.NoError(t, err)
	assert.Empty(t, types)
}
