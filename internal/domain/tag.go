package domain

import "time"

// Tag is an entry in a user's free-form tag vocabulary. Tags are applied
// to items and outfits by slug; deleting a tag clears it from everything
// that referenced it without deleting the items or outfits themselves.
type Tag struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultTags seeds a new user's tag vocabulary.
// Users extend or prune this list after first use.
var DefaultTags = []string{
	"Casual",
	"Work",
	"Sport",
	"Evening",
	"Summer",
	"Winter",
}
