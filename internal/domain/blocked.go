package domain

import (
	"slices"
	"time"
)

// BlockedCombination records up to four item ids (one per carousel lane)
// the user has excluded from ever being suggested together again. An empty
// lane means the user had nothing centered there when blocking.
//
// Lane identity is preserved in the record, but matching deliberately
// flattens it: two combinations are the same when their non-empty id sets
// are equal, regardless of which lane each id sat in. That mirrors the
// shipped behavior the carousel is tested against; a per-lane matcher can
// replace IDSet comparison without a schema change.
type BlockedCombination struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	AccessoryID string    `json:"accessory_id,omitempty"`
	TopID       string    `json:"top_id,omitempty"`
	BottomID    string    `json:"bottom_id,omitempty"`
	ShoeID      string    `json:"shoe_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// IDSet returns the sorted non-empty item ids of the combination.
func (b *BlockedCombination) IDSet() []string {
	ids := make([]string, 0, 4)
	for _, id := range []string{b.AccessoryID, b.TopID, b.BottomID, b.ShoeID} {
		if id != "" {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

// IsEmpty returns true if no lane holds an item id.
func (b *BlockedCombination) IsEmpty() bool {
	return b.AccessoryID == "" && b.TopID == "" && b.BottomID == "" && b.ShoeID == ""
}

// MatchesIDSet reports whether ids (sorted, non-empty) equals this
// combination's flattened id set.
func (b *BlockedCombination) MatchesIDSet(ids []string) bool {
	return slices.Equal(b.IDSet(), ids)
}

// ContainsID reports whether the given item id appears in any lane.
func (b *BlockedCombination) ContainsID(itemID string) bool {
	if itemID == "" {
		return false
	}
	return b.AccessoryID == itemID || b.TopID == itemID || b.BottomID == itemID || b.ShoeID == itemID
}
