// Package store defines the persistence interface for the wardrobe server.
package store

import (
	"context"

	"github.com/wardrobeapp/wardrobe-server/internal/domain"
)

// SearchIndexer keeps the full-text index in step with store writes.
// Implemented by the search service; a no-op stands in during tests and
// until the index is wired up at startup.
type SearchIndexer interface {
	IndexItem(ctx context.Context, item *domain.Item) error
	DeleteItem(ctx context.Context, itemID string) error
	IndexOutfit(ctx context.Context, outfit *domain.Outfit) error
	DeleteOutfit(ctx context.Context, outfitID string) error
}

// NoopSearchIndexer is a no-op implementation for testing and startup.
type NoopSearchIndexer struct{}

// IndexItem is a no-op.
func (NoopSearchIndexer) IndexItem(context.Context, *domain.Item) error { return nil }

// DeleteItem is a no-op.
func (NoopSearchIndexer) DeleteItem(context.Context, string) error { return nil }

// IndexOutfit is a no-op.
func (NoopSearchIndexer) IndexOutfit(context.Context, *domain.Outfit) error { return nil }

// DeleteOutfit is a no-op.
func (NoopSearchIndexer) DeleteOutfit(context.Context, string) error { return nil }

// NewNoopSearchIndexer creates a new no-op search indexer.
func NewNoopSearchIndexer() SearchIndexer {
	return NoopSearchIndexer{}
}

// Store defines the interface for all persistence operations.
type Store interface {
	// Lifecycle
	Close() error
	SetSearchIndexer(indexer SearchIndexer)

	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByExternalUID(ctx context.Context, uid string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
	DeleteUser(ctx context.Context, id string) error
	ListUserIDs(ctx context.Context) ([]string, error)
	CountUsers(ctx context.Context) (int, error)

	// Auth sessions
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, id string) (*domain.Session, error)
	GetSessionByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error)
	UpdateSession(ctx context.Context, session *domain.Session) error
	RevokeSession(ctx context.Context, id string) error
	ListUserSessions(ctx context.Context, userID string) ([]*domain.Session, error)
	RevokeAllUserSessions(ctx context.Context, userID string) error
	DeleteExpiredSessions(ctx context.Context) (int, error)

	// Items
	CreateItem(ctx context.Context, item *domain.Item) error
	GetItem(ctx context.Context, userID, id string) (*domain.Item, error)
	ListItems(ctx context.Context, userID string) ([]*domain.Item, error)
	UpdateItem(ctx context.Context, item *domain.Item) error
	// DeleteItem soft-deletes the item and, in the same transaction,
	// deletes every outfit that referenced it together with the outfits'
	// relation rows and schedules. Returns the deleted outfit ids.
	DeleteItem(ctx context.Context, userID, id string) ([]string, error)

	// Outfits
	CreateOutfit(ctx context.Context, outfit *domain.Outfit) error
	GetOutfit(ctx context.Context, userID, id string) (*domain.Outfit, error)
	ListOutfits(ctx context.Context, userID string) ([]*domain.Outfit, error)
	UpdateOutfit(ctx context.Context, outfit *domain.Outfit) error
	DeleteOutfit(ctx context.Context, userID, id string) error

	// Schedules
	ScheduleOutfit(ctx context.Context, sched *domain.ScheduledOutfit) (bool, error)
	UnscheduleOutfit(ctx context.Context, userID string, day domain.EpochDay, outfitID string) error
	ListSchedules(ctx context.Context, userID string, from, to domain.EpochDay) ([]*domain.ScheduledOutfit, error)
	ListSchedulesForDay(ctx context.Context, userID string, day domain.EpochDay) ([]*domain.ScheduledOutfit, error)
	ListSchedulesForOutfit(ctx context.Context, userID, outfitID string) ([]*domain.ScheduledOutfit, error)

	// Tag vocabulary
	CreateTag(ctx context.Context, tag *domain.Tag) error
	GetTagBySlug(ctx context.Context, userID, slug string) (*domain.Tag, error)
	ListTags(ctx context.Context, userID string) ([]*domain.Tag, error)
	// DeleteTag removes the vocabulary entry and clears the tag from every
	// item and outfit that carried it, in one transaction.
	DeleteTag(ctx context.Context, userID, id string) error

	// Item-type vocabulary
	CreateItemType(ctx context.Context, it *domain.ItemType) error
	ListItemTypes(ctx context.Context, userID string) ([]*domain.ItemType, error)
	DeleteItemType(ctx context.Context, userID, id string) error

	// Blocked combinations
	CreateBlockedCombination(ctx context.Context, b *domain.BlockedCombination) (bool, error)
	ListBlockedCombinations(ctx context.Context, userID string) ([]*domain.BlockedCombination, error)
	DeleteBlockedCombination(ctx context.Context, userID, id string) error
}
