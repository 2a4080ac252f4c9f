package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/wardrobeapp/wardrobe-server/internal/domain"
	domainerrors "github.com/wardrobeapp/wardrobe-server/internal/errors"
	"github.com/wardrobeapp/wardrobe-server/internal/id"
	"github.com/wardrobeapp/wardrobe-server/internal/normalize"
	"github.com/wardrobeapp/wardrobe-server/internal/store"
)

// ItemTypeService manages a user's clothing-type vocabulary.
type ItemTypeService struct {
	store  store.Store
	logger *slog.Logger
}

// NewItemTypeService creates a new item-type service.
func NewItemTypeService(st store.Store, logger *slog.Logger) *ItemTypeService {
	return &ItemTypeService{store: st, logger: logger}
}

// ListItemTypes returns the user's type vocabulary ordered by slug.
func (s *ItemTypeService) ListItemTypes(ctx context.Context, userID string) ([]*domain.ItemType, error) {
	return s.store.ListItemTypes(ctx, userID)
}

// CreateItemType adds a type to the vocabulary. Empty names, duplicates,
// and the reserved filter sentinel are rejected.
func (s *ItemTypeService) CreateItemType(ctx context.Context, userID, name string) (*domain.ItemType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domainerrors.Validation("type name cannot be empty")
	}
	if strings.EqualFold(name, domain.TypeAll) {
		return nil, domainerrors.Validationf("%q is reserved", domain.TypeAll)
	}
	slug := normalize.Slug(name)
	if slug == "" {
		return nil, domainerrors.Validation("type name must contain letters or digits")
	}

	now := time.Now()
	it := &domain.ItemType{
		ID:        id.MustGenerate(id.PrefixType),
		UserID:    userID,
		Name:      name,
		Slug:      slug,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateItemType(ctx, it); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists(fmt.Sprintf("type %q already exists", name))
		}
		return nil, fmt.Errorf("create item type: %w", err)
	}

	s.logger.Info("item type created", "user_id", userID, "slug", slug)
	return it, nil
}

// DeleteItemType removes a vocabulary entry. Items that carried the type
// keep their type string; only the vocabulary shrinks.
func (s *ItemTypeService) DeleteItemType(ctx context.Context, userID, typeID string) error {
	if err := s.store.DeleteItemType(ctx, userID, typeID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("item type not found")
		}
		return fmt.Errorf("delete item type: %w", err)
	}

	s.logger.Info("item type deleted", "user_id", userID, "type_id", typeID)
	return nil
}
