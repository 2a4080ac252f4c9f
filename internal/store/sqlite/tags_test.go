package sqlite

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/wardrobeapp/wardrobe-server/internal/domain"
	"github.com/wardrobeapp/wardrobe-server/internal/store"
)

// makeTestTag creates a domain.Tag with sensible defaults for testing.
func makeTestTag(id, userID, name, slug string) *domain.Tag {
	now := time.Now()
	return &domain.Tag{
		ID:        id,
		UserID:    userID,
		Name:      name,
		Slug:      slug,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestCreateAndListTags(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	insertTestUser(t, s, "user-1")

	for _, td := range []struct{ id, name, slug string }{
		{"tag-1", "Work", "work"},
		{"tag-2", "Casual", "casual"},
		{"tag-3", "Evening", "evening"},
	} {
		if err := s.CreateTag(ctx, makeTestTag(td.id, "user-1", td.name, td.slug)); err != nil {
			t.Fatalf("CreateTag %s: %v", td.id, err)
		}
	}

	got, err := s.ListTags(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListTags: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 tags, got %d", len(got))
	}
	// Sorted by slug ASC.
	if got[0].Slug != "casual" || got[2].Slug != "work" {
		t.Errorf("slug ordering wrong: %s..%s", got[0].Slug, got[2].Slug)
	}
}

func TestCreateTag_DuplicateSlug(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	insertTestUser(t, s, "user-1")
	insertTestUser(t, s, "user-2")

	if err := s.CreateTag(ctx, makeTestTag("tag-d1", "user-1", "Work", "work")); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}
	err := s.CreateTag(ctx, makeTestTag("tag-d2", "user-1", "Work", "work"))
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists for same user, got %v", err)
	}

	// Slugs are scoped per user.
	if err := s.CreateTag(ctx, makeTestTag("tag-d3", "user-2", "Work", "work")); err != nil {
		t.Errorf("same slug for another user should succeed, got %v", err)
	}
}

func TestGetTagBySlug(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	insertTestUser(t, s, "user-1")

	if err := s.CreateTag(ctx, makeTestTag("tag-s", "user-1", "Sport", "sport")); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}

	got, err := s.GetTagBySlug(ctx, "user-1", "sport")
	if err != nil {
		t.Fatalf("GetTagBySlug: %v", err)
	}
	if got.ID != "tag-s" {
		t.Errorf("ID: got %q", got.ID)
	}

	if _, err := s.GetTagBySlug(ctx, "user-1", "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteTagClearsReferences(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	insertTestUser(t, s, "user-1")

	if err := s.CreateTag(ctx, makeTestTag("tag-c", "user-1", "Summer", "summer")); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}

	item := makeTestItem("item-t", "user-1", "Tee")
	item.Tags = []string{"Summer", "Casual"}
	if err := s.CreateItem(ctx, item); err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	outfit := makeTestOutfit("outfit-t", "user-1", "Beach")
	outfit.Tags = []string{"Summer"}
	if err := s.CreateOutfit(ctx, outfit); err != nil {
		t.Fatalf("CreateOutfit: %v", err)
	}

	if err := s.DeleteTag(ctx, "user-1", "tag-c"); err != nil {
		t.Fatalf("DeleteTag: %v", err)
	}

	gotItem, err := s.GetItem(ctx, "user-1", "item-t")
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if !slices.Equal(gotItem.Tags, []string{"Casual"}) {
		t.Errorf("item tags after delete: got %v, want [Casual]", gotItem.Tags)
	}

	gotOutfit, err := s.GetOutfit(ctx, "user-1", "outfit-t")
	if err != nil {
		t.Fatalf("GetOutfit: %v", err)
	}
	if len(gotOutfit.Tags) != 0 {
		t.Errorf("outfit tags after delete: got %v, want none", gotOutfit.Tags)
	}
}

func TestItemTypeVocabulary(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	insertTestUser(t, s, "user-1")

	now := time.Now()
	for _, td := range []struct{ id, name, slug string }{
		{"type-1", "Shirts", "shirts"},
		{"type-2", "Jeans", "jeans"},
	} {
		it := &domain.ItemType{
			ID: td.id, UserID: "user-1", Name: td.name, Slug: td.slug,
			CreatedAt: now, UpdatedAt: now,
		}
		if err := s.CreateItemType(ctx, it); err != nil {
			t.Fatalf("CreateItemType %s: %v", td.id, err)
		}
	}

	types, err := s.ListItemTypes(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListItemTypes: %v", err)
	}
	if len(types) != 2 {
		t.Fatalf("expected 2 types, got %d", len(types))
	}

	if err := s.DeleteItemType(ctx, "user-1", "type-1"); err != nil {
		t.Fatalf("DeleteItemType: %v", err)
	}
	if err := s.DeleteItemType(ctx, "user-1", "type-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second delete should report not found, got %v", err)
	}
}
