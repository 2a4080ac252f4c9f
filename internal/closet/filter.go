// Package closet implements the wardrobe filter engine: the pure
// recomputation of a "currently displayed" list from a full in-memory list
// and a set of independently toggleable predicates.
package closet

import (
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/wardrobeapp/wardrobe-server/internal/domain"
)

// FilterConfig describes the active filter predicate set. Zero values mean
// "predicate inactive"; the filtered list is the conjunction of all active
// predicates.
type FilterConfig struct {
	// Type constrains items to an exact type name. The sentinel
	// domain.TypeAll (the default) means no type constraint. Outfits have
	// no type axis; the field is ignored for them.
	Type string `json:"type"`
	// Tags, when non-empty, requires the entity's tag set to intersect it.
	Tags []string `json:"tags,omitempty"`
	// FavoritesOnly requires the favorite flag to be set.
	FavoritesOnly bool `json:"favorites_only"`
	// Search, when non-empty, requires a case-insensitive substring match
	// against name or description.
	Search string `json:"search"`
}

// DefaultFilter returns the configuration with every predicate inactive.
func DefaultFilter() FilterConfig {
	return FilterConfig{Type: domain.TypeAll}
}

// IsDefault reports whether no predicate is active, i.e. filtering with
// this config returns the input unchanged.
func (c FilterConfig) IsDefault() bool {
	return (c.Type == "" || c.Type == domain.TypeAll) &&
		len(c.Tags) == 0 && !c.FavoritesOnly && c.Search == ""
}

// MatchesAnyTag reports whether any of the active tags appears in the
// entity's tag set. Multiple active tags are inclusive-OR: one shared tag
// is enough. This is the single place that policy lives; switching to
// require-all semantics means changing only this function.
func MatchesAnyTag(entityTags, activeTags []string) bool {
	for _, want := range activeTags {
		if slices.Contains(entityTags, want) {
			return true
		}
	}
	return false
}

// matchesSearch is the case-insensitive substring predicate over name or
// description.
func matchesSearch(name, description, term string) bool {
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(name), term) ||
		strings.Contains(strings.ToLower(description), term)
}

// MatchesItem evaluates the full conjunction for a single item.
// Evaluation short-circuits but is equivalent to testing every active
// predicate.
func (c FilterConfig) MatchesItem(item *domain.Item) bool {
	if c.Type != "" && c.Type != domain.TypeAll && item.Type != c.Type {
		return false
	}
	if c.FavoritesOnly && !item.Favorite {
		return false
	}
	if c.Search != "" && !matchesSearch(item.Name, item.Description, c.Search) {
		return false
	}
	if len(c.Tags) > 0 && !MatchesAnyTag(item.Tags, c.Tags) {
		return false
	}
	return true
}

// MatchesOutfit evaluates the conjunction for a single outfit. The type
// predicate does not apply to outfits.
func (c FilterConfig) MatchesOutfit(outfit *domain.Outfit) bool {
	if c.FavoritesOnly && !outfit.Favorite {
		return false
	}
	if c.Search != "" && !matchesSearch(outfit.Name, outfit.Description, c.Search) {
		return false
	}
	if len(c.Tags) > 0 && !MatchesAnyTag(outfit.Tags, c.Tags) {
		return false
	}
	return true
}

// FilterItems returns the items matching every active predicate, in input
// order. The input is never mutated.
func FilterItems(items []*domain.Item, cfg FilterConfig) []*domain.Item {
	filtered := make([]*domain.Item, 0, len(items))
	for _, item := range items {
		if cfg.MatchesItem(item) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// FilterOutfits returns the outfits matching every active predicate, in
// input order. The input is never mutated.
func FilterOutfits(outfits []*domain.Outfit, cfg FilterConfig) []*domain.Outfit {
	filtered := make([]*domain.Outfit, 0, len(outfits))
	for _, outfit := range outfits {
		if cfg.MatchesOutfit(outfit) {
			filtered = append(filtered, outfit)
		}
	}
	return filtered
}

// ShuffleItems returns a random permutation of the list without altering
// membership. The input is never mutated.
func ShuffleItems(items []*domain.Item) []*domain.Item {
	shuffled := slices.Clone(items)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}

// ShuffleOutfits returns a random permutation of the list without altering
// membership. The input is never mutated.
func ShuffleOutfits(outfits []*domain.Outfit) []*domain.Outfit {
	shuffled := slices.Clone(outfits)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}
