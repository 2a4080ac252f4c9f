package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/wardrobeapp/wardrobe-server/internal/domain"
	domainerrors "github.com/wardrobeapp/wardrobe-server/internal/errors"
	"github.com/wardrobeapp/wardrobe-server/internal/fashion"
	"github.com/wardrobeapp/wardrobe-server/internal/media/images"
	"github.com/wardrobeapp/wardrobe-server/internal/store"
)

// TryOnService runs the AI dress-up pipeline: avatar preparation and
// composing garments onto the avatar one slot at a time.
type TryOnService struct {
	store      store.Store
	fashion    *fashion.Client
	avatars    *images.Storage
	itemPhotos *images.Storage
	results    *images.Storage
	processor  *images.Processor
	logger     *slog.Logger
}

// NewTryOnService creates a new try-on service.
func NewTryOnService(
	st store.Store,
	fashionClient *fashion.Client,
	avatars *images.Storage,
	itemPhotos *images.Storage,
	results *images.Storage,
	processor *images.Processor,
	logger *slog.Logger,
) *TryOnService {
	return &TryOnService{
		store:      st,
		fashion:    fashionClient,
		avatars:    avatars,
		itemPhotos: itemPhotos,
		results:    results,
		processor:  processor,
		logger:     logger,
	}
}

// TryOnResult is the outcome of a dress-up run.
type TryOnResult struct {
	// Image is the final composed JPEG.
	Image []byte `json:"-"`
	// Steps lists the slots composed, in pipeline order.
	Steps []fashion.DressUpStep `json:"steps"`
	// SkippedItemIDs are requested items that had no photo or no lane and
	// could not participate.
	SkippedItemIDs []string `json:"skipped_item_ids,omitempty"`
}

// UploadAvatar normalizes a person photo, replaces its background via the
// generation service, and stores the result as the user's avatar.
func (s *TryOnService) UploadAvatar(ctx context.Context, userID string, photo []byte) (*domain.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	normalized, err := s.processor.Normalize(photo)
	if err != nil {
		return nil, domainerrors.Validation("unsupported or corrupt image").WithCause(err)
	}

	outputURL, err := s.fashion.PrepareAvatar(ctx, normalized)
	if err != nil {
		return nil, mapFashionError(err)
	}

	avatar, err := s.fashion.Download(ctx, outputURL)
	if err != nil {
		return nil, mapFashionError(err)
	}

	if err := s.avatars.Save(userID, avatar); err != nil {
		return nil, fmt.Errorf("save avatar: %w", err)
	}

	user.AvatarPath = s.avatars.Path(userID)
	user.Touch()
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.logger.Info("avatar uploaded", "user_id", userID)
	return user, nil
}

// GetAvatar returns the stored avatar bytes.
func (s *TryOnService) GetAvatar(ctx context.Context, userID string) ([]byte, error) {
	data, err := s.avatars.Get(userID)
	if err != nil {
		return nil, domainerrors.NotFound("no avatar uploaded")
	}
	return data, nil
}

// DeleteAvatar removes the avatar photo and clears the user row.
func (s *TryOnService) DeleteAvatar(ctx context.Context, userID string) error {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("user not found")
		}
		return fmt.Errorf("get user: %w", err)
	}

	if err := s.avatars.Delete(userID); err != nil {
		return fmt.Errorf("delete avatar: %w", err)
	}

	user.AvatarPath = ""
	user.Touch()
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// DressUpItems composes the given items onto the user's avatar. Items map
// to pipeline slots by carousel lane; when two items claim the same slot
// the first wins and the rest are reported as skipped.
func (s *TryOnService) DressUpItems(ctx context.Context, userID string, itemIDs []string) (*TryOnResult, error) {
	if len(itemIDs) == 0 {
		return nil, domainerrors.Validation("no items to try on")
	}

	avatar, err := s.avatars.Get(userID)
	if err != nil {
		return nil, domainerrors.Validation("upload an avatar photo before trying on clothes")
	}

	garments := make(map[fashion.Slot]string)
	var skipped []string

	for _, itemID := range itemIDs {
		item, err := s.store.GetItem(ctx, userID, itemID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, domainerrors.NotFoundf("item %s not found", itemID)
			}
			return nil, fmt.Errorf("get item %s: %w", itemID, err)
		}

		slot, ok := slotForCategory(item.CarouselType)
		if !ok {
			skipped = append(skipped, itemID)
			continue
		}
		if _, taken := garments[slot]; taken {
			skipped = append(skipped, itemID)
			continue
		}

		photo, err := s.itemPhotos.Get(itemID)
		if err != nil {
			skipped = append(skipped, itemID)
			continue
		}
		garments[slot] = fashion.DataURI(photo)
	}

	if len(garments) == 0 {
		return nil, domainerrors.Validation("none of the items have photos to try on")
	}

	result, err := s.fashion.DressUp(ctx, fashion.DataURI(avatar), garments)
	if err != nil {
		return nil, mapFashionError(err)
	}

	final, err := s.fashion.Download(ctx, result.Image)
	if err != nil {
		return nil, mapFashionError(err)
	}

	s.logger.Info("dress-up complete",
		"user_id", userID,
		"steps", len(result.Steps),
		"skipped", len(skipped),
	)

	return &TryOnResult{
		Image:          final,
		Steps:          result.Steps,
		SkippedItemIDs: skipped,
	}, nil
}

// DressUpOutfit composes an outfit's items onto the user's avatar and
// caches the result keyed by outfit id.
func (s *TryOnService) DressUpOutfit(ctx context.Context, userID, outfitID string) (*TryOnResult, error) {
	outfit, err := s.store.GetOutfit(ctx, userID, outfitID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("outfit not found")
		}
		return nil, fmt.Errorf("get outfit: %w", err)
	}

	result, err := s.DressUpItems(ctx, userID, outfit.ItemIDs)
	if err != nil {
		return nil, err
	}

	if err := s.results.Save(outfitID, result.Image); err != nil {
		s.logger.Warn("failed to cache try-on result", "outfit_id", outfitID, "error", err)
	}

	return result, nil
}

// CachedOutfitResult returns the last composed image for an outfit, if any.
func (s *TryOnService) CachedOutfitResult(ctx context.Context, userID, outfitID string) ([]byte, error) {
	if _, err := s.store.GetOutfit(ctx, userID, outfitID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("outfit not found")
		}
		return nil, fmt.Errorf("get outfit: %w", err)
	}

	data, err := s.results.Get(outfitID)
	if err != nil {
		return nil, domainerrors.NotFound("no try-on result for this outfit")
	}
	return data, nil
}

// slotForCategory maps a carousel category to its dress-up slot. A
// one-piece composes in the top slot; unassigned categories have none.
func slotForCategory(c domain.CarouselCategory) (fashion.Slot, bool) {
	switch c.Lane() {
	case domain.LaneBottom:
		return fashion.SlotBottom, true
	case domain.LaneTop:
		return fashion.SlotTop, true
	case domain.LaneShoe:
		return fashion.SlotShoes, true
	case domain.LaneAccessory:
		return fashion.SlotAccessories, true
	default:
		return "", false
	}
}

// mapFashionError converts fashion client errors to API-facing domain
// errors, keeping the timeout/failure distinction.
func mapFashionError(err error) error {
	switch {
	case errors.Is(err, fashion.ErrTimeout):
		return domainerrors.UpstreamTimeout("the try-on service did not finish in time").WithCause(err)
	case errors.Is(err, fashion.ErrRateLimited):
		return domainerrors.UpstreamFailed("the try-on service is rate limiting us, try again shortly").WithCause(err)
	default:
		return domainerrors.UpstreamFailed("the try-on service failed to process the request").WithCause(err)
	}
}
