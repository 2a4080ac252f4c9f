package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardrobeapp/wardrobe-server/internal/closet"
	"github.com/wardrobeapp/wardrobe-server/internal/domain"
	domainerrors "github.com/wardrobeapp/wardrobe-server/internal/errors"
	"github.com/wardrobeapp/wardrobe-server/internal/media/images"
	"github.com/wardrobeapp/wardrobe-server/internal/store"
	"github.com/wardrobeapp/wardrobe-server/internal/store/sqlite"
	"github.com/wardrobeapp/wardrobe-server/internal/validation"
)

// closetFixture wires closet and outfit services against a temporary
// sqlite store with one user.
type closetFixture struct {
	closet *ClosetService
	outfit *OutfitService
	store  store.Store
	userID string
}

func setupClosetTest(t *testing.T) *closetFixture {
	t.Helper()

	tmpDir := t.TempDir()
	logger := testLogger()

	st, err := sqlite.Open(tmpDir+"/test.db", logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	itemPhotos, err := images.NewStorage(tmpDir, "items")
	require.NoError(t, err)
	outfitPhotos, err := images.NewStorage(tmpDir, "outfits")
	require.NoError(t, err)

	processor := images.NewProcessor(logger)
	validator := validation.New()

	user := &domain.User{
		Syncable:    domain.Syncable{ID: "user-test"},
		ExternalUID: "ext-test",
		Email:       "test@example.com",
		DisplayName: "Test",
		LastLoginAt: time.Now(),
	}
	user.InitTimestamps()
	require.NoError(t, st.CreateUser(context.Background(), user))

	return &closetFixture{
		closet: NewClosetService(st, itemPhotos, processor, validator, logger),
		outfit: NewOutfitService(st, outfitPhotos, processor, validator, logger),
		store:  st,
		userID: "user-test",
	}
}

func (f *closetFixture) createItem(t *testing.T, name, itemType string, category string) *domain.Item {
	t.Helper()
	item, err := f.closet.CreateItem(context.Background(), f.userID, CreateItemRequest{
		Name:         name,
		Type:         itemType,
		CarouselType: category,
	})
	require.NoError(t, err)
	return item
}

func TestCreateAndGetItem(t *testing.T) {
	f := setupClosetTest(t)
	ctx := context.Background()

	item := f.createItem(t, "Blue Oxford Shirt", "Shirts", "top")

	got, err := f.closet.GetItem(ctx, f.userID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Blue Oxford Shirt", got.Name)
	assert.Equal(t, domain.CategoryTop, got.CarouselType)
}

func TestCreateItemRejectsUnknownCategory(t *testing.T) {
	f := setupClosetTest(t)

	_, err := f.closet.CreateItem(context.Background(), f.userID, CreateItemRequest{
		Name:         "Mystery",
		Type:         "Shirts",
		CarouselType: "hat-rack",
	})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestListItemsFiltered(t *testing.T) {
	f := setupClosetTest(t)
	ctx := context.Background()

	f.createItem(t, "Blue Oxford Shirt", "Shirts", "top")
	f.createItem(t, "Black Jeans", "Jeans", "bottom")
	shoes := f.createItem(t, "Running Shoes", "Shoes", "footwear")

	_, err := f.closet.SetFavorite(ctx, f.userID, shoes.ID, true)
	require.NoError(t, err)

	all, err := f.closet.ListItems(ctx, f.userID, closet.DefaultFilter(), false)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	filter := closet.DefaultFilter()
	filter.FavoritesOnly = true
	favs, err := f.closet.ListItems(ctx, f.userID, filter, false)
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, shoes.ID, favs[0].ID)

	filter = closet.DefaultFilter()
	filter.Type = "Jeans"
	jeans, err := f.closet.ListItems(ctx, f.userID, filter, false)
	require.NoError(t, err)
	require.Len(t, jeans, 1)
	assert.Equal(t, "Black Jeans", jeans[0].Name)
}

func TestUpdateItemPartial(t *testing.T) {
	f := setupClosetTest(t)
	ctx := context.Background()

	item := f.createItem(t, "Plain Tee", "T-Shirts", "top")

	newName := "Band Tee"
	updated, err := f.closet.UpdateItem(ctx, f.userID, item.ID, UpdateItemRequest{
		Name: &newName,
		Tags: []string{"casual"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Band Tee", updated.Name)
	assert.Equal(t, []string{"casual"}, updated.Tags)
	// Untouched fields survive.
	assert.Equal(t, "T-Shirts", updated.Type)
}

func TestDeleteItemRemovesContainingOutfits(t *testing.T) {
	f := setupClosetTest(t)
	ctx := context.Background()

	shirt := f.createItem(t, "Shirt", "Shirts", "top")
	pants := f.createItem(t, "Pants", "Jeans", "bottom")

	outfit, err := f.outfit.CreateOutfit(ctx, f.userID, CreateOutfitRequest{
		Name:    "Everyday",
		ItemIDs: []string{shirt.ID, pants.ID},
	})
	require.NoError(t, err)
	survivor, err := f.outfit.CreateOutfit(ctx, f.userID, CreateOutfitRequest{
		Name:    "Pants Only",
		ItemIDs: []string{pants.ID},
	})
	require.NoError(t, err)

	result, err := f.closet.DeleteItem(ctx, f.userID, shirt.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{outfit.ID}, result.DeletedOutfitIDs)

	// The outfit containing the deleted item is gone with it.
	_, err = f.outfit.GetOutfit(ctx, f.userID, outfit.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	got, err := f.outfit.GetOutfit(ctx, f.userID, survivor.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{pants.ID}, got.ItemIDs)
	assert.False(t, got.DeletionCandidate)

	candidates, err := f.outfit.ListDeletionCandidates(ctx, f.userID)
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestMarkForDeletion(t *testing.T) {
	f := setupClosetTest(t)
	ctx := context.Background()

	shirt := f.createItem(t, "Shirt", "Shirts", "top")
	outfit, err := f.outfit.CreateOutfit(ctx, f.userID, CreateOutfitRequest{
		Name:    "Maybe",
		ItemIDs: []string{shirt.ID},
	})
	require.NoError(t, err)

	marked, err := f.outfit.MarkForDeletion(ctx, f.userID, outfit.ID)
	require.NoError(t, err)
	assert.True(t, marked.DeletionCandidate)

	// Marking twice changes nothing.
	again, err := f.outfit.MarkForDeletion(ctx, f.userID, outfit.ID)
	require.NoError(t, err)
	assert.True(t, again.DeletionCandidate)

	candidates, err := f.outfit.ListDeletionCandidates(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, outfit.ID, candidates[0].ID)

	// A flagged outfit stays fully usable until the review confirms.
	got, err := f.outfit.GetOutfit(ctx, f.userID, outfit.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{shirt.ID}, got.ItemIDs)

	_, err = f.outfit.MarkForDeletion(ctx, f.userID, "outfit-missing")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestResolveDeletionCandidate(t *testing.T) {
	f := setupClosetTest(t)
	ctx := context.Background()

	shirt := f.createItem(t, "Shirt", "Shirts", "top")
	pants := f.createItem(t, "Pants", "Jeans", "bottom")

	keep, err := f.outfit.CreateOutfit(ctx, f.userID, CreateOutfitRequest{
		Name:    "Keep Me",
		ItemIDs: []string{shirt.ID, pants.ID},
	})
	require.NoError(t, err)
	drop, err := f.outfit.CreateOutfit(ctx, f.userID, CreateOutfitRequest{
		Name:    "Drop Me",
		ItemIDs: []string{shirt.ID},
	})
	require.NoError(t, err)

	_, err = f.outfit.MarkForDeletion(ctx, f.userID, keep.ID)
	require.NoError(t, err)
	_, err = f.outfit.MarkForDeletion(ctx, f.userID, drop.ID)
	require.NoError(t, err)

	// Cancel keeps the outfit, active again.
	require.NoError(t, f.outfit.ResolveDeletionCandidate(ctx, f.userID, keep.ID, false))
	got, err := f.outfit.GetOutfit(ctx, f.userID, keep.ID)
	require.NoError(t, err)
	assert.False(t, got.DeletionCandidate)

	// Confirm removes the outfit.
	require.NoError(t, f.outfit.ResolveDeletionCandidate(ctx, f.userID, drop.ID, true))
	_, err = f.outfit.GetOutfit(ctx, f.userID, drop.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	// Resolving an unflagged outfit is a conflict.
	err = f.outfit.ResolveDeletionCandidate(ctx, f.userID, keep.ID, true)
	assert.ErrorIs(t, err, domainerrors.ErrConflict)
}

func TestDeleteItemNotFound(t *testing.T) {
	f := setupClosetTest(t)

	_, err := f.closet.DeleteItem(context.Background(), f.userID, "item-missing")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}
