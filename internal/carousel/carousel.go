// Package carousel implements the four-lane combination picker: per-lane
// rings of candidate items, a centered selection per lane, and the blocked
// combination list that certain selections must never resurface from.
package carousel

import (
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/wardrobeapp/wardrobe-server/internal/domain"
	"github.com/wardrobeapp/wardrobe-server/internal/id"
)

// laneState is one scrollable ring: a fixed candidate list and the index of
// the centered item. index is -1 when the lane is empty or suppressed.
type laneState struct {
	items []*domain.Item
	index int

	// savedIndex remembers the centered bottom item while a one-piece
	// suppresses the lane, so scrolling the top back restores it.
	savedIndex int
}

func (l *laneState) center() *domain.Item {
	if l.index < 0 || l.index >= len(l.items) {
		return nil
	}
	return l.items[l.index]
}

// Carousel holds the selection state for one user. All mutation goes
// through a single mutex; concurrent scrolls serialize rather than
// interleave half-applied lane updates.
type Carousel struct {
	mu      sync.Mutex
	userID  string
	lanes   map[domain.Lane]*laneState
	blocked []*domain.BlockedCombination
}

// Selection is a read-only snapshot of the centered item per lane. A nil
// entry means the lane is empty or suppressed by a one-piece.
type Selection map[domain.Lane]*domain.Item

// New builds a carousel from the user's items and their blocked
// combinations. Items are bucketed into lanes by carousel category; items
// without a lane (category all/default) are left out. The initial centered
// index per lane avoids items that appear in any blocked combination when
// an alternative exists.
func New(userID string, items []*domain.Item, blocked []*domain.BlockedCombination) *Carousel {
	c := &Carousel{
		userID:  userID,
		lanes:   make(map[domain.Lane]*laneState, 4),
		blocked: slices.Clone(blocked),
	}
	for _, lane := range domain.Lanes() {
		c.lanes[lane] = &laneState{index: -1, savedIndex: -1}
	}
	for _, item := range items {
		lane := item.CarouselType.Lane()
		if lane == "" {
			continue
		}
		c.lanes[lane].items = append(c.lanes[lane].items, item)
	}
	c.loadInitialSelection()
	return c
}

// loadInitialSelection walks lanes in selection order and centers, per
// lane, the first candidate not referenced by any blocked combination.
// When every candidate is blocked somewhere the first item wins anyway; a
// conservative skip must not empty a populated lane.
func (c *Carousel) loadInitialSelection() {
	for _, lane := range domain.Lanes() {
		ls := c.lanes[lane]
		if len(ls.items) == 0 {
			continue
		}
		ls.index = 0
		for i, item := range ls.items {
			if !c.idAppearsInBlocked(item.ID) {
				ls.index = i
				break
			}
		}
	}
	c.applyOnePieceRule()
}

func (c *Carousel) idAppearsInBlocked(itemID string) bool {
	for _, b := range c.blocked {
		if b.ContainsID(itemID) {
			return true
		}
	}
	return false
}

// applyOnePieceRule suppresses or restores the bottom lane depending on
// whether the centered top item is a one-piece.
func (c *Carousel) applyOnePieceRule() {
	top := c.lanes[domain.LaneTop].center()
	bottom := c.lanes[domain.LaneBottom]

	if top != nil && top.CarouselType.IsOnePiece() {
		if bottom.index >= 0 {
			bottom.savedIndex = bottom.index
			bottom.index = -1
		}
		return
	}
	if bottom.index < 0 && len(bottom.items) > 0 {
		if bottom.savedIndex >= 0 && bottom.savedIndex < len(bottom.items) {
			bottom.index = bottom.savedIndex
		} else {
			bottom.index = 0
		}
		bottom.savedIndex = -1
	}
}

// Next scrolls the given lane forward one position, wrapping at the end.
// Scrolling an empty or suppressed lane is a no-op.
func (c *Carousel) Next(lane domain.Lane) Selection {
	return c.scroll(lane, 1)
}

// Prev scrolls the given lane backward one position, wrapping at the start.
func (c *Carousel) Prev(lane domain.Lane) Selection {
	return c.scroll(lane, -1)
}

func (c *Carousel) scroll(lane domain.Lane, delta int) Selection {
	c.mu.Lock()
	defer c.mu.Unlock()

	ls, ok := c.lanes[lane]
	if ok && ls.index >= 0 && len(ls.items) > 0 {
		ls.index = ((ls.index+delta)%len(ls.items) + len(ls.items)) % len(ls.items)
		if lane == domain.LaneTop {
			c.applyOnePieceRule()
		}
	}
	return c.snapshot()
}

// Shuffle randomly permutes each lane's candidate ring and re-runs the
// initial selection over the new order. First-fit over the permuted rings
// never centers a blocked combination while any lane still has a candidate
// outside every blocked set.
func (c *Carousel) Shuffle() Selection {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, lane := range domain.Lanes() {
		ls := c.lanes[lane]
		rand.Shuffle(len(ls.items), func(i, j int) {
			ls.items[i], ls.items[j] = ls.items[j], ls.items[i]
		})
		ls.savedIndex = -1
	}
	c.loadInitialSelection()
	return c.snapshot()
}

// Selection returns the current centered item per lane.
func (c *Carousel) Selection() Selection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

func (c *Carousel) snapshot() Selection {
	sel := make(Selection, 4)
	for _, lane := range domain.Lanes() {
		sel[lane] = c.lanes[lane].center()
	}
	return sel
}

// CenterItem returns the centered item for one lane, or nil when the lane
// is empty or suppressed.
func (c *Carousel) CenterItem(lane domain.Lane) *domain.Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	ls, ok := c.lanes[lane]
	if !ok {
		return nil
	}
	return ls.center()
}

// currentCombination captures the centered ids into a lane-preserving
// record. Caller holds c.mu.
func (c *Carousel) currentCombination() *domain.BlockedCombination {
	b := &domain.BlockedCombination{UserID: c.userID}
	if it := c.lanes[domain.LaneAccessory].center(); it != nil {
		b.AccessoryID = it.ID
	}
	if it := c.lanes[domain.LaneTop].center(); it != nil {
		b.TopID = it.ID
	}
	if it := c.lanes[domain.LaneBottom].center(); it != nil {
		b.BottomID = it.ID
	}
	if it := c.lanes[domain.LaneShoe].center(); it != nil {
		b.ShoeID = it.ID
	}
	return b
}

// matchBlocked returns the stored record whose flattened id set equals the
// combination's, or nil. Caller holds c.mu.
func (c *Carousel) matchBlocked(combo *domain.BlockedCombination) *domain.BlockedCombination {
	ids := combo.IDSet()
	for _, b := range c.blocked {
		if b.MatchesIDSet(ids) {
			return b
		}
	}
	return nil
}

func (c *Carousel) currentIsBlocked() bool {
	cur := c.currentCombination()
	if cur.IsEmpty() {
		return false
	}
	return c.matchBlocked(cur) != nil
}

// IsBlocked reports whether the currently centered combination matches a
// blocked record. Matching is over the flattened non-empty id set.
func (c *Carousel) IsBlocked() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentIsBlocked()
}

// CurrentCombination snapshots the centered ids into a lane-preserving
// record, or nil when nothing is centered. The snapshot does not touch the
// blocked list; callers persist it first and apply it via AddBlocked.
func (c *Carousel) CurrentCombination() *domain.BlockedCombination {
	c.mu.Lock()
	defer c.mu.Unlock()

	cur := c.currentCombination()
	if cur.IsEmpty() {
		return nil
	}
	return cur
}

// FindBlocked returns the stored record matching the combination's
// flattened id set, or nil when the combination is not blocked.
func (c *Carousel) FindBlocked(combo *domain.BlockedCombination) *domain.BlockedCombination {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.matchBlocked(combo)
}

// AddBlocked records a combination as blocked. An id and timestamp are
// assigned when the record carries none. Adding is idempotent: an
// equivalent combination (same flattened id set) returns the existing
// record with added false. Adding nil or an empty combination returns
// (nil, false).
func (c *Carousel) AddBlocked(combo *domain.BlockedCombination) (*domain.BlockedCombination, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if combo == nil || combo.IsEmpty() {
		return nil, false
	}
	if existing := c.matchBlocked(combo); existing != nil {
		return existing, false
	}
	if combo.ID == "" {
		combo.ID = id.MustGenerate(id.PrefixBlocked)
	}
	if combo.CreatedAt.IsZero() {
		combo.CreatedAt = time.Now().UTC()
	}
	c.blocked = append(c.blocked, combo)
	return combo, true
}

// Unblock removes a blocked record by id. Returns false if no record with
// that id exists.
func (c *Carousel) Unblock(blockedID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, b := range c.blocked {
		if b.ID == blockedID {
			c.blocked = slices.Delete(c.blocked, i, i+1)
			return true
		}
	}
	return false
}

// Blocked returns a copy of the blocked combination list.
func (c *Carousel) Blocked() []*domain.BlockedCombination {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.blocked)
}

// RemoveItem drops an item from its lane, used when the wardrobe item is
// deleted while a carousel session is live. The centered index clamps to
// stay valid.
func (c *Carousel) RemoveItem(itemID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, ls := range c.lanes {
		for i, item := range ls.items {
			if item.ID != itemID {
				continue
			}
			ls.items = slices.Delete(ls.items, i, i+1)
			switch {
			case len(ls.items) == 0:
				ls.index = -1
			case ls.index > i || ls.index >= len(ls.items):
				ls.index--
			}
			ls.savedIndex = -1
		}
	}
	c.applyOnePieceRule()
}
