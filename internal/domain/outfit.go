package domain

import "slices"

// Outfit is a named collection of items, optionally scheduled onto dates.
// ItemIDs mirror the outfit_items relation rows; the store keeps both in
// step inside a single transaction.
type Outfit struct {
	Syncable
	UserID            string   `json:"user_id"`
	Name              string   `json:"name"`
	Description       string   `json:"description,omitempty"`
	Tags              []string `json:"tags,omitempty"`
	Favorite          bool     `json:"favorite"`
	PhotoPath         string   `json:"photo_path,omitempty"`
	BlurHash          string   `json:"blur_hash,omitempty"`
	ItemIDs           []string `json:"item_ids"`
	DeletionCandidate bool     `json:"deletion_candidate"`
}

// ContainsItem checks if an item ID is part of this outfit.
func (o *Outfit) ContainsItem(itemID string) bool {
	return slices.Contains(o.ItemIDs, itemID)
}

// AddItem adds an item ID to the outfit if not already present.
func (o *Outfit) AddItem(itemID string) bool {
	if slices.Contains(o.ItemIDs, itemID) {
		return false
	}
	o.ItemIDs = append(o.ItemIDs, itemID)
	return true
}

// RemoveItem removes an item ID from the outfit.
func (o *Outfit) RemoveItem(itemID string) bool {
	for i, id := range o.ItemIDs {
		if id == itemID {
			o.ItemIDs = append(o.ItemIDs[:i], o.ItemIDs[i+1:]...)
			return true
		}
	}
	return false
}

// HasTag returns true if the outfit carries the given tag.
func (o *Outfit) HasTag(tag string) bool {
	return slices.Contains(o.Tags, tag)
}
