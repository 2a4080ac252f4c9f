// Package search provides full-text search over the wardrobe using Bleve.
// Items and outfits are indexed as one unified document type with a
// discriminator, so a single query can return both.
package search

import (
	"github.com/wardrobeapp/wardrobe-server/internal/domain"
)

// DocType represents the type of document in the unified index.
type DocType string

// Document types for the search index.
const (
	DocTypeItem   DocType = "item"
	DocTypeOutfit DocType = "outfit"
)

// Document is the unified structure for the Bleve index. Every document
// carries the owning user's id; queries always filter on it so one index
// serves all users.
type Document struct {
	ID     string  `json:"id"`
	Type   DocType `json:"type"`
	UserID string  `json:"user_id"`

	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	// ItemType is the user-vocabulary type (items only).
	ItemType string `json:"item_type,omitempty"`
	// Category is the carousel category (items only).
	Category string `json:"category,omitempty"`

	Tags []string `json:"tags,omitempty"`

	Favorite bool `json:"favorite"`

	// Timestamps for recency sorting. Unix millis.
	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// ToMap converts the document to a map with lowercase field names so they
// match the index mapping; Bleve would otherwise index the capitalized Go
// field names.
func (d *Document) ToMap() map[string]any {
	m := map[string]any{
		"id":         d.ID,
		"type":       string(d.Type),
		"user_id":    d.UserID,
		"name":       d.Name,
		"favorite":   d.Favorite,
		"created_at": d.CreatedAt,
		"updated_at": d.UpdatedAt,
	}

	if d.Description != "" {
		m["description"] = d.Description
	}
	if d.ItemType != "" {
		m["item_type"] = d.ItemType
	}
	if d.Category != "" {
		m["category"] = d.Category
	}
	if len(d.Tags) > 0 {
		m["tags"] = d.Tags
	}

	return m
}

// ItemToDocument converts a closet item to a search document.
func ItemToDocument(item *domain.Item) *Document {
	return &Document{
		ID:          item.ID,
		Type:        DocTypeItem,
		UserID:      item.UserID,
		Name:        item.Name,
		Description: item.Description,
		ItemType:    item.Type,
		Category:    string(item.CarouselType),
		Tags:        item.Tags,
		Favorite:    item.Favorite,
		CreatedAt:   item.CreatedAt.UnixMilli(),
		UpdatedAt:   item.UpdatedAt.UnixMilli(),
	}
}

// OutfitToDocument converts an outfit to a search document.
func OutfitToDocument(outfit *domain.Outfit) *Document {
	return &Document{
		ID:          outfit.ID,
		Type:        DocTypeOutfit,
		UserID:      outfit.UserID,
		Name:        outfit.Name,
		Description: outfit.Description,
		Tags:        outfit.Tags,
		Favorite:    outfit.Favorite,
		CreatedAt:   outfit.CreatedAt.UnixMilli(),
		UpdatedAt:   outfit.UpdatedAt.UnixMilli(),
	}
}
