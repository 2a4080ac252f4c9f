package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/wardrobeapp/wardrobe-server/internal/closet"
	"github.com/wardrobeapp/wardrobe-server/internal/domain"
	domainerrors "github.com/wardrobeapp/wardrobe-server/internal/errors"
	"github.com/wardrobeapp/wardrobe-server/internal/id"
	"github.com/wardrobeapp/wardrobe-server/internal/media/images"
	"github.com/wardrobeapp/wardrobe-server/internal/store"
	"github.com/wardrobeapp/wardrobe-server/internal/validation"
)

// ClosetService manages a user's clothing items and their photos.
type ClosetService struct {
	store     store.Store
	photos    *images.Storage
	processor *images.Processor
	validator *validation.Validator
	logger    *slog.Logger
}

// NewClosetService creates a new closet service.
func NewClosetService(
	st store.Store,
	photos *images.Storage,
	processor *images.Processor,
	validator *validation.Validator,
	logger *slog.Logger,
) *ClosetService {
	return &ClosetService{
		store:     st,
		photos:    photos,
		processor: processor,
		validator: validator,
		logger:    logger,
	}
}

// CreateItemRequest contains new-item data.
type CreateItemRequest struct {
	Name         string   `json:"name" validate:"required,max=200"`
	Type         string   `json:"type" validate:"required,max=100"`
	Description  string   `json:"description,omitempty" validate:"max=2000"`
	Tags         []string `json:"tags,omitempty"`
	Favorite     bool     `json:"favorite"`
	CarouselType string   `json:"carousel_type,omitempty"`
}

// UpdateItemRequest contains item fields to update. Nil pointers leave the
// field unchanged; Tags replaces the whole set when non-nil.
type UpdateItemRequest struct {
	Name         *string  `json:"name,omitempty" validate:"omitempty,max=200"`
	Type         *string  `json:"type,omitempty" validate:"omitempty,max=100"`
	Description  *string  `json:"description,omitempty" validate:"omitempty,max=2000"`
	Tags         []string `json:"tags,omitempty"`
	Favorite     *bool    `json:"favorite,omitempty"`
	CarouselType *string  `json:"carousel_type,omitempty"`
}

// ItemDeletionResult reports the side effects of deleting an item.
type ItemDeletionResult struct {
	ItemID string `json:"item_id"`
	// DeletedOutfitIDs lists outfits removed because they contained the
	// item.
	DeletedOutfitIDs []string `json:"deleted_outfit_ids"`
}

// CreateItem creates a new clothing item.
func (s *ClosetService) CreateItem(ctx context.Context, userID string, req CreateItemRequest) (*domain.Item, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	category := domain.CategoryDefault
	if req.CarouselType != "" {
		if !domain.ValidCategory(req.CarouselType) {
			return nil, domainerrors.Validationf("unknown carousel type %q", req.CarouselType)
		}
		category = domain.CarouselCategory(req.CarouselType)
	}

	itemID, err := id.Generate(id.PrefixItem)
	if err != nil {
		return nil, fmt.Errorf("generate item ID: %w", err)
	}

	item := &domain.Item{
		Syncable: domain.Syncable{
			ID: itemID,
		},
		UserID:       userID,
		Name:         req.Name,
		Type:         req.Type,
		Description:  req.Description,
		Tags:         req.Tags,
		Favorite:     req.Favorite,
		CarouselType: category,
	}
	item.InitTimestamps()

	if err := s.store.CreateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}

	s.logger.Info("item created", "user_id", userID, "item_id", itemID)
	return item, nil
}

// GetItem returns one item, enforcing ownership.
func (s *ClosetService) GetItem(ctx context.Context, userID, itemID string) (*domain.Item, error) {
	item, err := s.store.GetItem(ctx, userID, itemID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("item not found")
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// ListItems returns the user's items, newest additions last, filtered by
// the given config. A zero config returns everything. Shuffle permutes the
// filtered result.
func (s *ClosetService) ListItems(ctx context.Context, userID string, filter closet.FilterConfig, shuffle bool) ([]*domain.Item, error) {
	items, err := s.store.ListItems(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	items = closet.FilterItems(items, filter)
	if shuffle {
		items = closet.ShuffleItems(items)
	}
	return items, nil
}

// UpdateItem applies a partial update to an item.
func (s *ClosetService) UpdateItem(ctx context.Context, userID, itemID string, req UpdateItemRequest) (*domain.Item, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	item, err := s.GetItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Type != nil {
		item.Type = *req.Type
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Tags != nil {
		item.Tags = req.Tags
	}
	if req.Favorite != nil {
		item.Favorite = *req.Favorite
	}
	if req.CarouselType != nil {
		if !domain.ValidCategory(*req.CarouselType) {
			return nil, domainerrors.Validationf("unknown carousel type %q", *req.CarouselType)
		}
		item.CarouselType = domain.CarouselCategory(*req.CarouselType)
	}
	item.Touch()

	if err := s.store.UpdateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	return item, nil
}

// SetFavorite toggles the favorite flag.
func (s *ClosetService) SetFavorite(ctx context.Context, userID, itemID string, favorite bool) (*domain.Item, error) {
	return s.UpdateItem(ctx, userID, itemID, UpdateItemRequest{Favorite: &favorite})
}

// DeleteItem deletes an item. Every outfit containing it is deleted in the
// same transaction; the item's photo is removed afterwards.
func (s *ClosetService) DeleteItem(ctx context.Context, userID, itemID string) (*ItemDeletionResult, error) {
	deleted, err := s.store.DeleteItem(ctx, userID, itemID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("item not found")
		}
		return nil, fmt.Errorf("delete item: %w", err)
	}

	if err := s.photos.Delete(itemID); err != nil {
		s.logger.Warn("failed to delete item photo", "item_id", itemID, "error", err)
	}

	s.logger.Info("item deleted",
		"user_id", userID,
		"item_id", itemID,
		"deleted_outfits", len(deleted),
	)

	return &ItemDeletionResult{ItemID: itemID, DeletedOutfitIDs: deleted}, nil
}

// UploadPhoto normalizes and stores an item photo, and saves its BlurHash
// placeholder on the item row.
func (s *ClosetService) UploadPhoto(ctx context.Context, userID, itemID string, photo []byte) (*domain.Item, error) {
	item, err := s.GetItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	normalized, err := s.processor.Normalize(photo)
	if err != nil {
		return nil, domainerrors.Validation("unsupported or corrupt image").WithCause(err)
	}

	if err := s.photos.Save(itemID, normalized); err != nil {
		return nil, fmt.Errorf("save photo: %w", err)
	}

	hash, err := images.ComputeBlurHash(normalized)
	if err != nil {
		// A missing placeholder degrades the client UI, nothing more.
		s.logger.Warn("failed to compute blurhash", "item_id", itemID, "error", err)
		hash = ""
	}

	item.PhotoPath = s.photos.Path(itemID)
	item.BlurHash = hash
	item.Touch()

	if err := s.store.UpdateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	return item, nil
}

// GetPhoto returns the stored photo bytes for an item.
func (s *ClosetService) GetPhoto(ctx context.Context, userID, itemID string) ([]byte, error) {
	if _, err := s.GetItem(ctx, userID, itemID); err != nil {
		return nil, err
	}
	data, err := s.photos.Get(itemID)
	if err != nil {
		return nil, domainerrors.NotFound("item has no photo")
	}
	return data, nil
}

// DeletePhoto removes an item's photo and clears its placeholder.
func (s *ClosetService) DeletePhoto(ctx context.Context, userID, itemID string) (*domain.Item, error) {
	item, err := s.GetItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	if err := s.photos.Delete(itemID); err != nil {
		return nil, fmt.Errorf("delete photo: %w", err)
	}

	item.PhotoPath = ""
	item.BlurHash = ""
	item.Touch()

	if err := s.store.UpdateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	return item, nil
}
