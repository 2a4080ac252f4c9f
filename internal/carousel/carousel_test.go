package carousel

import (
	"fmt"
	"slices"
	"sync"
	"testing"

	"github.com/wardrobeapp/wardrobe-server/internal/domain"
)

func item(itemID string, cat domain.CarouselCategory) *domain.Item {
	return &domain.Item{
		Syncable:     domain.Syncable{ID: itemID},
		UserID:       "user-1",
		Name:         itemID,
		CarouselType: cat,
	}
}

func fullWardrobe() []*domain.Item {
	return []*domain.Item{
		item("hat-1", domain.CategoryHeadwear),
		item("scarf-1", domain.CategoryAccessory),
		item("top-1", domain.CategoryTop),
		item("top-2", domain.CategoryTop),
		item("dress-1", domain.CategoryOnePiece),
		item("pants-1", domain.CategoryBottom),
		item("pants-2", domain.CategoryBottom),
		item("shoe-1", domain.CategoryFootwear),
		item("unsorted", domain.CategoryAll),
	}
}

func TestNewBucketsItemsIntoLanes(t *testing.T) {
	c := New("user-1", fullWardrobe(), nil)
	sel := c.Selection()

	if sel[domain.LaneAccessory] == nil || sel[domain.LaneAccessory].ID != "hat-1" {
		t.Error("accessory lane should center hat-1 (headwear maps to accessory)")
	}
	if sel[domain.LaneTop] == nil || sel[domain.LaneTop].ID != "top-1" {
		t.Error("top lane should center top-1")
	}
	if sel[domain.LaneBottom] == nil || sel[domain.LaneBottom].ID != "pants-1" {
		t.Error("bottom lane should center pants-1")
	}
	if sel[domain.LaneShoe] == nil || sel[domain.LaneShoe].ID != "shoe-1" {
		t.Error("shoe lane should center shoe-1")
	}
}

func TestCategoryAllItemsAreExcluded(t *testing.T) {
	c := New("user-1", []*domain.Item{item("unsorted", domain.CategoryAll)}, nil)
	for _, lane := range domain.Lanes() {
		if c.CenterItem(lane) != nil {
			t.Errorf("lane %s should be empty, got an item", lane)
		}
	}
}

func TestScrollWrapsAround(t *testing.T) {
	c := New("user-1", fullWardrobe(), nil)

	// top lane ring: top-1, top-2, dress-1
	c.Next(domain.LaneTop)
	if got := c.CenterItem(domain.LaneTop); got == nil || got.ID != "top-2" {
		t.Fatalf("after one Next, top lane = %v, want top-2", got)
	}
	c.Next(domain.LaneTop)
	c.Next(domain.LaneTop)
	if got := c.CenterItem(domain.LaneTop); got == nil || got.ID != "top-1" {
		t.Errorf("after three Next, top lane should wrap back to top-1, got %v", got)
	}

	c.Prev(domain.LaneTop)
	if got := c.CenterItem(domain.LaneTop); got == nil || got.ID != "dress-1" {
		t.Errorf("Prev from first position should wrap to last, got %v", got)
	}
}

func TestOnePieceSuppressesBottomLane(t *testing.T) {
	c := New("user-1", fullWardrobe(), nil)

	// Scroll bottom lane to the second item so restoration is observable.
	c.Next(domain.LaneBottom)
	if got := c.CenterItem(domain.LaneBottom); got.ID != "pants-2" {
		t.Fatalf("setup: bottom lane = %s, want pants-2", got.ID)
	}

	// top-1 -> top-2 -> dress-1 (one-piece)
	c.Next(domain.LaneTop)
	sel := c.Next(domain.LaneTop)
	if sel[domain.LaneTop].ID != "dress-1" {
		t.Fatalf("top lane = %s, want dress-1", sel[domain.LaneTop].ID)
	}
	if sel[domain.LaneBottom] != nil {
		t.Error("bottom lane should be suppressed while a one-piece is centered")
	}

	// Scrolling a suppressed lane is a no-op.
	sel = c.Next(domain.LaneBottom)
	if sel[domain.LaneBottom] != nil {
		t.Error("scrolling a suppressed bottom lane should not revive it")
	}

	// Scroll top away from the one-piece; the previous bottom choice returns.
	sel = c.Next(domain.LaneTop)
	if sel[domain.LaneBottom] == nil || sel[domain.LaneBottom].ID != "pants-2" {
		t.Errorf("bottom lane should restore pants-2, got %v", sel[domain.LaneBottom])
	}
}

// blockCurrent snapshots the centered combination and applies it, the same
// two steps the service runs around its store write.
func blockCurrent(c *Carousel) (*domain.BlockedCombination, bool) {
	combo := c.CurrentCombination()
	if combo == nil {
		return nil, false
	}
	return c.AddBlocked(combo)
}

func TestBlockingIsIdempotent(t *testing.T) {
	c := New("user-1", fullWardrobe(), nil)

	first, added := blockCurrent(c)
	if !added || first == nil {
		t.Fatal("first block should create a record")
	}
	if first.ID == "" || first.UserID != "user-1" {
		t.Errorf("record not populated: %+v", first)
	}

	second, added := blockCurrent(c)
	if added {
		t.Error("blocking the same combination twice should not add a record")
	}
	if second != first {
		t.Error("second block should return the existing record")
	}
	if len(c.Blocked()) != 1 {
		t.Errorf("blocked list holds %d records, want 1", len(c.Blocked()))
	}
}

func TestCurrentCombinationIsSideEffectFree(t *testing.T) {
	c := New("user-1", fullWardrobe(), nil)

	combo := c.CurrentCombination()
	if combo == nil {
		t.Fatal("a populated carousel should snapshot a combination")
	}
	if c.IsBlocked() || len(c.Blocked()) != 0 {
		t.Error("snapshotting must not record a block")
	}

	if _, added := c.AddBlocked(combo); !added {
		t.Fatal("applying the snapshot should add the record")
	}
	if !c.IsBlocked() {
		t.Error("applied snapshot should report blocked")
	}
}

func TestIsBlockedMatchesFlattenedIDSet(t *testing.T) {
	c := New("user-1", fullWardrobe(), nil)
	if c.IsBlocked() {
		t.Fatal("fresh carousel should not report blocked")
	}

	combo, _ := blockCurrent(c)
	if !c.IsBlocked() {
		t.Error("combination just blocked should report blocked")
	}

	// Scrolling any lane off the blocked set clears the flag.
	c.Next(domain.LaneShoe) // only one shoe: wraps to itself, stays blocked
	if !c.IsBlocked() {
		t.Error("single-item lane wrap should leave the combination blocked")
	}
	c.Next(domain.LaneBottom)
	if c.IsBlocked() {
		t.Error("changing the bottom item should unblock the combination")
	}
	c.Prev(domain.LaneBottom)
	if !c.IsBlocked() {
		t.Error("returning to the blocked combination should re-report blocked")
	}

	// A record with the same ids in different lanes still matches.
	want := combo.IDSet()
	swapped := &domain.BlockedCombination{
		AccessoryID: combo.TopID,
		TopID:       combo.AccessoryID,
		BottomID:    combo.BottomID,
		ShoeID:      combo.ShoeID,
	}
	if !swapped.MatchesIDSet(want) {
		t.Error("lane-swapped record should match the flattened id set")
	}
}

func TestBlockEmptySelectionIsRejected(t *testing.T) {
	c := New("user-1", nil, nil)
	if c.CurrentCombination() != nil {
		t.Error("an empty carousel should snapshot nothing")
	}
	combo, added := blockCurrent(c)
	if combo != nil || added {
		t.Error("blocking with no items centered should return (nil, false)")
	}
}

func TestUnblock(t *testing.T) {
	c := New("user-1", fullWardrobe(), nil)
	combo, _ := blockCurrent(c)

	if !c.Unblock(combo.ID) {
		t.Fatal("unblocking an existing record should succeed")
	}
	if c.IsBlocked() {
		t.Error("combination should not report blocked after unblock")
	}
	if c.Unblock(combo.ID) {
		t.Error("unblocking twice should fail")
	}
}

func TestInitialSelectionAvoidsBlockedItems(t *testing.T) {
	blocked := []*domain.BlockedCombination{{
		ID:     "blk-1",
		UserID: "user-1",
		TopID:  "top-1",
	}}
	c := New("user-1", fullWardrobe(), blocked)
	if got := c.CenterItem(domain.LaneTop); got == nil || got.ID != "top-2" {
		t.Errorf("initial top selection = %v, want top-2 (top-1 is in a blocked set)", got)
	}
}

func TestInitialSelectionFallsBackWhenAllBlocked(t *testing.T) {
	items := []*domain.Item{item("top-1", domain.CategoryTop)}
	blocked := []*domain.BlockedCombination{{ID: "blk-1", UserID: "user-1", TopID: "top-1"}}
	c := New("user-1", items, blocked)
	if got := c.CenterItem(domain.LaneTop); got == nil || got.ID != "top-1" {
		t.Error("a fully-blocked lane should still center its first item")
	}
}

func TestShufflePreservesLaneMembership(t *testing.T) {
	items := fullWardrobe()
	c := New("user-1", items, nil)

	for range 20 {
		sel := c.Shuffle()
		if top := sel[domain.LaneTop]; top == nil ||
			!slices.Contains([]string{"top-1", "top-2", "dress-1"}, top.ID) {
			t.Fatalf("shuffled top lane item %v not from the top ring", top)
		}
		if sel[domain.LaneTop].CarouselType.IsOnePiece() && sel[domain.LaneBottom] != nil {
			t.Fatal("shuffle centered a one-piece without suppressing the bottom lane")
		}
	}
}

func TestShuffleNeverSuggestsBlockedWhenAlternativeExists(t *testing.T) {
	// Nine of ten top/bottom pairs are blocked; top-10 is the only top
	// outside every blocked set.
	items := []*domain.Item{item("bottom-1", domain.CategoryBottom)}
	var blocked []*domain.BlockedCombination
	for i := 1; i <= 9; i++ {
		topID := fmt.Sprintf("top-%d", i)
		items = append(items, item(topID, domain.CategoryTop))
		blocked = append(blocked, &domain.BlockedCombination{
			ID:       fmt.Sprintf("blk-%d", i),
			UserID:   "user-1",
			TopID:    topID,
			BottomID: "bottom-1",
		})
	}
	items = append(items, item("top-10", domain.CategoryTop))

	c := New("user-1", items, blocked)
	for range 300 {
		sel := c.Shuffle()
		if c.IsBlocked() {
			t.Fatalf("shuffle suggested a blocked combination: top=%s", sel[domain.LaneTop].ID)
		}
		if top := sel[domain.LaneTop]; top == nil || top.ID != "top-10" {
			t.Fatalf("shuffle centered %v, want top-10 (the only unblocked top)", top)
		}
	}
}

func TestRemoveItemClampsSelection(t *testing.T) {
	c := New("user-1", fullWardrobe(), nil)
	c.Next(domain.LaneBottom) // center pants-2

	c.RemoveItem("pants-2")
	if got := c.CenterItem(domain.LaneBottom); got == nil || got.ID != "pants-1" {
		t.Errorf("after removing centered item, bottom lane = %v, want pants-1", got)
	}

	c.RemoveItem("pants-1")
	if c.CenterItem(domain.LaneBottom) != nil {
		t.Error("emptied lane should center nothing")
	}
}

func TestConcurrentScrollsKeepStateConsistent(t *testing.T) {
	c := New("user-1", fullWardrobe(), nil)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				c.Next(domain.LaneTop)
				c.Prev(domain.LaneBottom)
				c.IsBlocked()
			}
		}()
	}
	wg.Wait()

	sel := c.Selection()
	if top := sel[domain.LaneTop]; top != nil && !top.CarouselType.IsOnePiece() {
		if sel[domain.LaneBottom] == nil {
			t.Error("bottom lane suppressed without a one-piece centered")
		}
	}
}
