package search

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/wardrobeapp/wardrobe-server/internal/domain"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := NewIndex(Options{
		DataPath: t.TempDir(),
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	t.Cleanup(func() { idx.Close() })
	return idx
}

func testItem(id, userID, name, description, itemType string, tags ...string) *domain.Item {
	item := &domain.Item{
		UserID:       userID,
		Name:         name,
		Type:         itemType,
		Description:  description,
		Tags:         tags,
		CarouselType: domain.CategoryTop,
	}
	item.ID = id
	item.CreatedAt = time.Now()
	item.UpdatedAt = time.Now()
	return item
}

func seedIndex(t *testing.T, idx *Index) {
	t.Helper()
	ctx := context.Background()

	items := []*domain.Item{
		testItem("item_1", "user_a", "Blue Oxford Shirt", "Crisp cotton button-down", "Shirts", "work"),
		testItem("item_2", "user_a", "Linen Shirt", "Light summer shirt", "Shirts", "summer"),
		testItem("item_3", "user_a", "Wool Coat", "Heavy winter coat", "Outerwear", "winter", "work"),
		testItem("item_4", "user_b", "Blue Shirt", "The other user's shirt", "Shirts"),
	}
	for _, item := range items {
		if err := idx.IndexItem(ctx, item); err != nil {
			t.Fatalf("IndexItem %s: %v", item.ID, err)
		}
	}

	outfit := &domain.Outfit{
		UserID:      "user_a",
		Name:        "Office Blue",
		Description: "Shirt and slacks for meetings",
		Tags:        []string{"work"},
	}
	outfit.ID = "outfit_1"
	outfit.CreatedAt = time.Now()
	outfit.UpdatedAt = time.Now()
	if err := idx.IndexOutfit(ctx, outfit); err != nil {
		t.Fatalf("IndexOutfit: %v", err)
	}
}

func hitIDs(result *Result) []string {
	ids := make([]string, 0, len(result.Hits))
	for _, h := range result.Hits {
		ids = append(ids, h.ID)
	}
	return ids
}

func TestSearchScopedToUser(t *testing.T) {
	idx := newTestIndex(t)
	seedIndex(t, idx)

	params := DefaultParams("user_a")
	params.Query = "blue"

	result, err := idx.Search(context.Background(), params)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	for _, id := range hitIDs(result) {
		if id == "item_4" {
			t.Error("result leaked another user's document")
		}
	}
	if result.Total == 0 {
		t.Error("expected hits for own documents")
	}
}

func TestSearchRequiresUserID(t *testing.T) {
	idx := newTestIndex(t)
	if _, err := idx.Search(context.Background(), Params{Query: "x", Limit: 10}); err == nil {
		t.Error("missing user id should error")
	}
}

func TestSearchFindsItemsAndOutfits(t *testing.T) {
	idx := newTestIndex(t)
	seedIndex(t, idx)

	params := DefaultParams("user_a")
	params.Query = "blue"

	result, err := idx.Search(context.Background(), params)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	var gotItem, gotOutfit bool
	for _, h := range result.Hits {
		switch h.ID {
		case "item_1":
			gotItem = true
		case "outfit_1":
			gotOutfit = true
		}
	}
	if !gotItem || !gotOutfit {
		t.Errorf("want both item_1 and outfit_1, got %v", hitIDs(result))
	}
}

func TestSearchTypeFilter(t *testing.T) {
	idx := newTestIndex(t)
	seedIndex(t, idx)

	params := DefaultParams("user_a")
	params.Query = "blue"
	params.Types = []string{string(DocTypeOutfit)}

	result, err := idx.Search(context.Background(), params)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	for _, h := range result.Hits {
		if h.Type != DocTypeOutfit {
			t.Errorf("type filter leaked %s (%s)", h.ID, h.Type)
		}
	}
}

func TestSearchTagFilter(t *testing.T) {
	idx := newTestIndex(t)
	seedIndex(t, idx)

	params := DefaultParams("user_a")
	params.Tags = []string{"winter"}

	result, err := idx.Search(context.Background(), params)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(result.Hits) != 1 || result.Hits[0].ID != "item_3" {
		t.Errorf("tag filter: got %v, want [item_3]", hitIDs(result))
	}
}

func TestSearchItemTypeFilter(t *testing.T) {
	idx := newTestIndex(t)
	seedIndex(t, idx)

	params := DefaultParams("user_a")
	params.ItemType = "Outerwear"

	result, err := idx.Search(context.Background(), params)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(result.Hits) != 1 || result.Hits[0].ID != "item_3" {
		t.Errorf("item-type filter: got %v, want [item_3]", hitIDs(result))
	}
}

func TestSearchFuzzyMatch(t *testing.T) {
	idx := newTestIndex(t)
	seedIndex(t, idx)

	// One-character typo still finds the shirt.
	params := DefaultParams("user_a")
	params.Query = "shrit"

	result, err := idx.Search(context.Background(), params)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if result.Total == 0 {
		t.Error("fuzzy match should tolerate a one-character typo")
	}
}

func TestDeleteItemRemovesFromIndex(t *testing.T) {
	idx := newTestIndex(t)
	seedIndex(t, idx)
	ctx := context.Background()

	if err := idx.DeleteItem(ctx, "item_3"); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}

	params := DefaultParams("user_a")
	params.Tags = []string{"winter"}

	result, err := idx.Search(ctx, params)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(result.Hits) != 0 {
		t.Errorf("deleted document still returned: %v", hitIDs(result))
	}
}

func TestReindexReplacesDocument(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	item := testItem("item_9", "user_a", "Green Sweater", "", "Knitwear")
	if err := idx.IndexItem(ctx, item); err != nil {
		t.Fatalf("IndexItem: %v", err)
	}

	item.Name = "Red Sweater"
	if err := idx.IndexItem(ctx, item); err != nil {
		t.Fatalf("re-IndexItem: %v", err)
	}

	params := DefaultParams("user_a")
	params.Query = "green"
	result, err := idx.Search(ctx, params)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	for _, h := range result.Hits {
		if h.ID == "item_9" && h.Name == "Green Sweater" {
			t.Error("stale document version still indexed")
		}
	}

	count, err := idx.DocumentCount()
	if err != nil {
		t.Fatalf("DocumentCount: %v", err)
	}
	if count != 1 {
		t.Errorf("document count: got %d, want 1", count)
	}
}

func TestSearchFacets(t *testing.T) {
	idx := newTestIndex(t)
	seedIndex(t, idx)

	params := DefaultParams("user_a")

	result, err := idx.Search(context.Background(), params)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(result.Facets.Types) == 0 {
		t.Fatal("expected type facets")
	}
	counts := make(map[string]int)
	for _, fc := range result.Facets.Types {
		counts[fc.Value] = fc.Count
	}
	if counts["item"] != 3 || counts["outfit"] != 1 {
		t.Errorf("type facet counts: %v", counts)
	}
}

func TestIndexDocumentsBatch(t *testing.T) {
	idx := newTestIndex(t)

	docs := make([]*Document, 0, 25)
	for i := range 25 {
		item := testItem(fmt.Sprintf("item_batch_%02d", i), "user_a", "Batch Shirt", "", "Shirts")
		docs = append(docs, ItemToDocument(item))
	}
	if err := idx.IndexDocuments(docs); err != nil {
		t.Fatalf("IndexDocuments: %v", err)
	}

	count, err := idx.DocumentCount()
	if err != nil {
		t.Fatalf("DocumentCount: %v", err)
	}
	if count != 25 {
		t.Errorf("document count: got %d, want 25", count)
	}
}

func TestRebuildEmptiesIndex(t *testing.T) {
	idx := newTestIndex(t)
	seedIndex(t, idx)

	if err := idx.Rebuild(); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	count, err := idx.DocumentCount()
	if err != nil {
		t.Fatalf("DocumentCount: %v", err)
	}
	if count != 0 {
		t.Errorf("rebuilt index should be empty, has %d docs", count)
	}
}
