package closet

import (
	"slices"
	"testing"

	"github.com/wardrobeapp/wardrobe-server/internal/domain"
)

func testItems() []*domain.Item {
	return []*domain.Item{
		{Syncable: domain.Syncable{ID: "itm_1"}, Name: "Blue Oxford Shirt", Description: "Light cotton", Type: "Shirts", Favorite: true, Tags: []string{"Work", "Summer"}},
		{Syncable: domain.Syncable{ID: "itm_2"}, Name: "Black Jeans", Description: "Slim fit denim", Type: "Pants", Tags: []string{"Casual"}},
		{Syncable: domain.Syncable{ID: "itm_3"}, Name: "Running Shoes", Description: "Mesh upper", Type: "Shoes", Favorite: true, Tags: []string{"Sport"}},
		{Syncable: domain.Syncable{ID: "itm_4"}, Name: "Wool Coat", Description: "Heavy winter coat", Type: "Outerwear", Tags: []string{"Winter", "Work"}},
		{Syncable: domain.Syncable{ID: "itm_5"}, Name: "Plain Tee", Description: "", Type: "Shirts", Tags: nil},
	}
}

func ids(items []*domain.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestDefaultFilterReturnsEverything(t *testing.T) {
	items := testItems()
	got := FilterItems(items, DefaultFilter())
	if len(got) != len(items) {
		t.Fatalf("default filter returned %d of %d items", len(got), len(items))
	}
	for i := range items {
		if got[i] != items[i] {
			t.Errorf("item %d: order not preserved", i)
		}
	}
}

func TestFilterIsSubsetOfInput(t *testing.T) {
	items := testItems()
	cfg := FilterConfig{Type: "Shirts", Search: "cotton"}
	got := FilterItems(items, cfg)
	for _, it := range got {
		if !slices.Contains(items, it) {
			t.Errorf("filtered result contains item %s not in input", it.ID)
		}
	}
}

func TestTypeFilter(t *testing.T) {
	got := FilterItems(testItems(), FilterConfig{Type: "Shirts"})
	want := []string{"itm_1", "itm_5"}
	if !slices.Equal(ids(got), want) {
		t.Errorf("type filter = %v, want %v", ids(got), want)
	}
}

func TestTypeAllSentinelMatchesEverything(t *testing.T) {
	if got := FilterItems(testItems(), FilterConfig{Type: domain.TypeAll}); len(got) != 5 {
		t.Errorf("type %q matched %d items, want 5", domain.TypeAll, len(got))
	}
}

func TestFavoritesFilter(t *testing.T) {
	got := FilterItems(testItems(), FilterConfig{Type: domain.TypeAll, FavoritesOnly: true})
	want := []string{"itm_1", "itm_3"}
	if !slices.Equal(ids(got), want) {
		t.Errorf("favorites filter = %v, want %v", ids(got), want)
	}
}

func TestSearchIsCaseInsensitiveOverNameAndDescription(t *testing.T) {
	tests := []struct {
		term string
		want []string
	}{
		{"OXFORD", []string{"itm_1"}},       // name, different case
		{"denim", []string{"itm_2"}},        // description only
		{"coat", []string{"itm_4"}},         // appears in both fields
		{"s", []string{"itm_1", "itm_2", "itm_3"}}, // broad substring
		{"velvet", nil},                     // matches nothing
	}
	for _, tt := range tests {
		got := ids(FilterItems(testItems(), FilterConfig{Type: domain.TypeAll, Search: tt.term}))
		if len(got) == 0 {
			got = nil
		}
		if !slices.Equal(got, tt.want) {
			t.Errorf("search %q = %v, want %v", tt.term, got, tt.want)
		}
	}
}

func TestTagFilterIsInclusiveOr(t *testing.T) {
	// An item carrying any one of the active tags matches.
	got := FilterItems(testItems(), FilterConfig{Type: domain.TypeAll, Tags: []string{"Sport", "Winter"}})
	want := []string{"itm_3", "itm_4"}
	if !slices.Equal(ids(got), want) {
		t.Errorf("tag filter = %v, want %v", ids(got), want)
	}
}

func TestTagFilterExcludesUntaggedItems(t *testing.T) {
	got := FilterItems(testItems(), FilterConfig{Type: domain.TypeAll, Tags: []string{"Casual"}})
	for _, it := range got {
		if len(it.Tags) == 0 {
			t.Errorf("untagged item %s matched a tag filter", it.ID)
		}
	}
}

func TestPredicatesCombineConjunctively(t *testing.T) {
	cfg := FilterConfig{
		Type:          "Shirts",
		FavoritesOnly: true,
		Search:        "cotton",
		Tags:          []string{"Work"},
	}
	got := FilterItems(testItems(), cfg)
	if len(got) != 1 || got[0].ID != "itm_1" {
		t.Fatalf("conjunction = %v, want [itm_1]", ids(got))
	}

	// Flipping any single predicate to a non-matching value empties the result.
	for name, broken := range map[string]FilterConfig{
		"type":      {Type: "Pants", FavoritesOnly: true, Search: "cotton", Tags: []string{"Work"}},
		"favorites": {Type: "Shirts", FavoritesOnly: true, Search: "denim", Tags: []string{"Work"}},
		"search":    {Type: "Shirts", FavoritesOnly: true, Search: "nomatch", Tags: []string{"Work"}},
		"tags":      {Type: "Shirts", FavoritesOnly: true, Search: "cotton", Tags: []string{"Sport"}},
	} {
		if got := FilterItems(testItems(), broken); len(got) != 0 {
			t.Errorf("breaking %s predicate still matched %v", name, ids(got))
		}
	}
}

func TestFilterOutfitsIgnoresType(t *testing.T) {
	outfits := []*domain.Outfit{
		{Syncable: domain.Syncable{ID: "out_1"}, Name: "Office Monday", Favorite: true, Tags: []string{"Work"}},
		{Syncable: domain.Syncable{ID: "out_2"}, Name: "Weekend Walk", Tags: []string{"Casual"}},
	}
	got := FilterOutfits(outfits, FilterConfig{Type: "Shirts", FavoritesOnly: true})
	if len(got) != 1 || got[0].ID != "out_1" {
		t.Errorf("outfit filter = %d results, want exactly out_1", len(got))
	}
}

func TestIsDefault(t *testing.T) {
	if !DefaultFilter().IsDefault() {
		t.Error("DefaultFilter should report default")
	}
	if !(FilterConfig{}).IsDefault() {
		t.Error("zero config should report default")
	}
	if (FilterConfig{Search: "x"}).IsDefault() {
		t.Error("config with active search should not report default")
	}
}

func TestShufflePreservesMembership(t *testing.T) {
	items := testItems()
	shuffled := ShuffleItems(items)
	if len(shuffled) != len(items) {
		t.Fatalf("shuffle changed length: %d != %d", len(shuffled), len(items))
	}
	for _, it := range items {
		if !slices.Contains(shuffled, it) {
			t.Errorf("shuffle dropped item %s", it.ID)
		}
	}
	// Original slice order must be untouched.
	if !slices.Equal(ids(items), []string{"itm_1", "itm_2", "itm_3", "itm_4", "itm_5"}) {
		t.Error("shuffle mutated its input")
	}
}
