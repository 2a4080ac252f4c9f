package domain

import "slices"

// CarouselCategory classifies an item for the combination carousel.
// The category decides which single lane an item can occupy; a one-piece
// garment occupies the top lane and suppresses the bottom lane.
type CarouselCategory string

const (
	CategoryHeadwear  CarouselCategory = "headwear"
	CategoryTop       CarouselCategory = "top"
	CategoryBottom    CarouselCategory = "bottom"
	CategoryFootwear  CarouselCategory = "footwear"
	CategoryAccessory CarouselCategory = "accessory"
	CategoryOnePiece  CarouselCategory = "one-piece"
	// CategoryAll is the unassigned/sentinel category; items carrying it do
	// not appear in any carousel lane.
	CategoryAll     CarouselCategory = "all"
	CategoryDefault CarouselCategory = "default"
)

// Lane identifies one of the four independently scrollable carousel tracks.
type Lane string

const (
	LaneAccessory Lane = "accessory"
	LaneTop       Lane = "top"
	LaneBottom    Lane = "bottom"
	LaneShoe      Lane = "shoe"
)

// Lanes lists all lanes in selection order: accessory first, shoe last.
// Initial selection and shuffle walk lanes in this order.
func Lanes() []Lane {
	return []Lane{LaneAccessory, LaneTop, LaneBottom, LaneShoe}
}

// Lane returns the carousel lane this category occupies, or "" if the
// category does not map to a lane (all/default).
func (c CarouselCategory) Lane() Lane {
	switch c {
	case CategoryTop, CategoryOnePiece:
		return LaneTop
	case CategoryBottom:
		return LaneBottom
	case CategoryFootwear:
		return LaneShoe
	case CategoryHeadwear, CategoryAccessory:
		return LaneAccessory
	default:
		return ""
	}
}

// IsOnePiece returns true for categories that replace a top+bottom pair.
func (c CarouselCategory) IsOnePiece() bool {
	return c == CategoryOnePiece
}

// ValidCategory reports whether s names a known carousel category.
func ValidCategory(s string) bool {
	switch CarouselCategory(s) {
	case CategoryHeadwear, CategoryTop, CategoryBottom, CategoryFootwear,
		CategoryAccessory, CategoryOnePiece, CategoryAll, CategoryDefault:
		return true
	}
	return false
}

// TypeAll is the sentinel item type meaning "no type constraint".
const TypeAll = "All"

// Item is a single clothing article owned by a user.
type Item struct {
	Syncable
	UserID            string           `json:"user_id"`
	Name              string           `json:"name"`
	Type              string           `json:"type"` // From the user's item-type vocabulary
	Description       string           `json:"description,omitempty"`
	Tags              []string         `json:"tags,omitempty"`
	Favorite          bool             `json:"favorite"`
	PhotoPath         string           `json:"photo_path,omitempty"`
	BlurHash          string           `json:"blur_hash,omitempty"`
	CarouselType      CarouselCategory `json:"carousel_type"`
	DeletionCandidate bool             `json:"deletion_candidate"`
}

// HasTag returns true if the item carries the given tag.
func (i *Item) HasTag(tag string) bool {
	return slices.Contains(i.Tags, tag)
}

// AddTag adds a tag if not already present. Returns false if it was there.
func (i *Item) AddTag(tag string) bool {
	if slices.Contains(i.Tags, tag) {
		return false
	}
	i.Tags = append(i.Tags, tag)
	return true
}

// RemoveTag removes a tag from the item. Returns false if it was absent.
func (i *Item) RemoveTag(tag string) bool {
	for idx, t := range i.Tags {
		if t == tag {
			i.Tags = append(i.Tags[:idx], i.Tags[idx+1:]...)
			return true
		}
	}
	return false
}
