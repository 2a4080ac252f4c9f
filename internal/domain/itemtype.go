package domain

import "time"

// ItemType is an entry in a user's clothing-type vocabulary ("Shirts",
// "Jeans", ...). The sentinel TypeAll never appears in the vocabulary; it
// only exists as a filter value meaning "no type constraint".
type ItemType struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultItemTypes seeds a new user's type vocabulary.
var DefaultItemTypes = []string{
	"Shirts",
	"T-Shirts",
	"Sweaters",
	"Jeans",
	"Trousers",
	"Skirts",
	"Dresses",
	"Jackets",
	"Shoes",
	"Accessories",
}
