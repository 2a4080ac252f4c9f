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

// OutfitService manages outfits, their calendar schedule, and the
// deletion-candidate lifecycle.
type OutfitService struct {
	store     store.Store
	photos    *images.Storage
	processor *images.Processor
	validator *validation.Validator
	logger    *slog.Logger
}

// NewOutfitService creates a new outfit service.
func NewOutfitService(
	st store.Store,
	photos *images.Storage,
	processor *images.Processor,
	validator *validation.Validator,
	logger *slog.Logger,
) *OutfitService {
	return &OutfitService{
		store:     st,
		photos:    photos,
		processor: processor,
		validator: validator,
		logger:    logger,
	}
}

// CreateOutfitRequest contains new-outfit data.
type CreateOutfitRequest struct {
	Name        string   `json:"name" validate:"required,max=200"`
	Description string   `json:"description,omitempty" validate:"max=2000"`
	Tags        []string `json:"tags,omitempty"`
	Favorite    bool     `json:"favorite"`
	ItemIDs     []string `json:"item_ids,omitempty"`
}

// UpdateOutfitRequest contains outfit fields to update. Nil pointers leave
// the field unchanged; Tags and ItemIDs replace the whole set when non-nil.
type UpdateOutfitRequest struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,max=200"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=2000"`
	Tags        []string `json:"tags,omitempty"`
	Favorite    *bool    `json:"favorite,omitempty"`
	ItemIDs     []string `json:"item_ids,omitempty"`
}

// CreateOutfit creates a new outfit. Referencing an unknown item is a
// validation error.
func (s *OutfitService) CreateOutfit(ctx context.Context, userID string, req CreateOutfitRequest) (*domain.Outfit, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	outfitID, err := id.Generate(id.PrefixOutfit)
	if err != nil {
		return nil, fmt.Errorf("generate outfit ID: %w", err)
	}

	outfit := &domain.Outfit{
		Syncable: domain.Syncable{
			ID: outfitID,
		},
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		Tags:        req.Tags,
		Favorite:    req.Favorite,
		ItemIDs:     req.ItemIDs,
	}
	outfit.InitTimestamps()

	if err := s.store.CreateOutfit(ctx, outfit); err != nil {
		if errors.Is(err, store.ErrInvalidInput) {
			return nil, domainerrors.Validation("outfit references an unknown item")
		}
		return nil, fmt.Errorf("create outfit: %w", err)
	}

	s.logger.Info("outfit created", "user_id", userID, "outfit_id", outfitID)
	return outfit, nil
}

// GetOutfit returns one outfit, enforcing ownership.
func (s *OutfitService) GetOutfit(ctx context.Context, userID, outfitID string) (*domain.Outfit, error) {
	outfit, err := s.store.GetOutfit(ctx, userID, outfitID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("outfit not found")
		}
		return nil, fmt.Errorf("get outfit: %w", err)
	}
	return outfit, nil
}

// ListOutfits returns the user's outfits filtered by the given config.
// Shuffle permutes the filtered result.
func (s *OutfitService) ListOutfits(ctx context.Context, userID string, filter closet.FilterConfig, shuffle bool) ([]*domain.Outfit, error) {
	outfits, err := s.store.ListOutfits(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list outfits: %w", err)
	}

	outfits = closet.FilterOutfits(outfits, filter)
	if shuffle {
		outfits = closet.ShuffleOutfits(outfits)
	}
	return outfits, nil
}

// UpdateOutfit applies a partial update to an outfit.
func (s *OutfitService) UpdateOutfit(ctx context.Context, userID, outfitID string, req UpdateOutfitRequest) (*domain.Outfit, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	outfit, err := s.GetOutfit(ctx, userID, outfitID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		outfit.Name = *req.Name
	}
	if req.Description != nil {
		outfit.Description = *req.Description
	}
	if req.Tags != nil {
		outfit.Tags = req.Tags
	}
	if req.Favorite != nil {
		outfit.Favorite = *req.Favorite
	}
	if req.ItemIDs != nil {
		outfit.ItemIDs = req.ItemIDs
	}
	outfit.Touch()

	if err := s.store.UpdateOutfit(ctx, outfit); err != nil {
		if errors.Is(err, store.ErrInvalidInput) {
			return nil, domainerrors.Validation("outfit references an unknown item")
		}
		return nil, fmt.Errorf("update outfit: %w", err)
	}
	return outfit, nil
}

// DeleteOutfit removes the outfit. Its schedule entries and item relations
// go in the same transaction as the row.
func (s *OutfitService) DeleteOutfit(ctx context.Context, userID, outfitID string) error {
	if err := s.store.DeleteOutfit(ctx, userID, outfitID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("outfit not found")
		}
		return fmt.Errorf("delete outfit: %w", err)
	}

	if err := s.photos.Delete(outfitID); err != nil {
		s.logger.Warn("failed to delete outfit photo", "outfit_id", outfitID, "error", err)
	}

	s.logger.Info("outfit deleted", "user_id", userID, "outfit_id", outfitID)
	return nil
}

// MarkForDeletion flags an outfit for deletion review. The flag is an
// annotation only: the outfit stays fully usable until the review confirms
// the delete. Marking an already flagged outfit is a no-op.
func (s *OutfitService) MarkForDeletion(ctx context.Context, userID, outfitID string) (*domain.Outfit, error) {
	outfit, err := s.GetOutfit(ctx, userID, outfitID)
	if err != nil {
		return nil, err
	}
	if outfit.DeletionCandidate {
		return outfit, nil
	}

	outfit.DeletionCandidate = true
	outfit.Touch()
	if err := s.store.UpdateOutfit(ctx, outfit); err != nil {
		return nil, fmt.Errorf("update outfit: %w", err)
	}

	s.logger.Info("outfit marked for deletion review", "user_id", userID, "outfit_id", outfitID)
	return outfit, nil
}

// ListDeletionCandidates returns outfits flagged for deletion review.
func (s *OutfitService) ListDeletionCandidates(ctx context.Context, userID string) ([]*domain.Outfit, error) {
	outfits, err := s.store.ListOutfits(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list outfits: %w", err)
	}

	candidates := make([]*domain.Outfit, 0)
	for _, o := range outfits {
		if o.DeletionCandidate {
			candidates = append(candidates, o)
		}
	}
	return candidates, nil
}

// ResolveDeletionCandidate ends the review for a flagged outfit: confirm
// deletes it, cancel returns it to active.
func (s *OutfitService) ResolveDeletionCandidate(ctx context.Context, userID, outfitID string, confirm bool) error {
	outfit, err := s.GetOutfit(ctx, userID, outfitID)
	if err != nil {
		return err
	}
	if !outfit.DeletionCandidate {
		return domainerrors.Conflict("outfit is not pending deletion review")
	}

	if confirm {
		return s.DeleteOutfit(ctx, userID, outfitID)
	}

	outfit.DeletionCandidate = false
	outfit.Touch()
	if err := s.store.UpdateOutfit(ctx, outfit); err != nil {
		return fmt.Errorf("update outfit: %w", err)
	}
	return nil
}

// ScheduleOutfit associates an outfit with the calendar day of the given
// date. Scheduling the same outfit on the same day twice is a no-op; the
// returned bool reports whether a new association was created.
func (s *OutfitService) ScheduleOutfit(ctx context.Context, userID, outfitID string, day domain.EpochDay) (bool, error) {
	// Ownership check doubles as existence check.
	if _, err := s.GetOutfit(ctx, userID, outfitID); err != nil {
		return false, err
	}

	sched := &domain.ScheduledOutfit{
		Day:      day,
		OutfitID: outfitID,
		UserID:   userID,
	}
	added, err := s.store.ScheduleOutfit(ctx, sched)
	if err != nil {
		return false, fmt.Errorf("schedule outfit: %w", err)
	}

	if added {
		s.logger.Info("outfit scheduled", "user_id", userID, "outfit_id", outfitID, "day", day.String())
	}
	return added, nil
}

// UnscheduleOutfit removes one outfit/day association. The outfit itself
// and its other scheduled dates are untouched.
func (s *OutfitService) UnscheduleOutfit(ctx context.Context, userID, outfitID string, day domain.EpochDay) error {
	if err := s.store.UnscheduleOutfit(ctx, userID, day, outfitID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("outfit is not scheduled on that date")
		}
		return fmt.Errorf("unschedule outfit: %w", err)
	}
	return nil
}

// OutfitsForDay returns the outfits scheduled on a day.
func (s *OutfitService) OutfitsForDay(ctx context.Context, userID string, day domain.EpochDay) ([]*domain.Outfit, error) {
	scheds, err := s.store.ListSchedulesForDay(ctx, userID, day)
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}

	outfits := make([]*domain.Outfit, 0, len(scheds))
	for _, sched := range scheds {
		outfit, err := s.store.GetOutfit(ctx, userID, sched.OutfitID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("get outfit %s: %w", sched.OutfitID, err)
		}
		outfits = append(outfits, outfit)
	}
	return outfits, nil
}

// ScheduledDates returns the distinct days in [from, to] that have at
// least one outfit scheduled, for calendar highlighting.
func (s *OutfitService) ScheduledDates(ctx context.Context, userID string, from, to domain.EpochDay) ([]domain.EpochDay, error) {
	scheds, err := s.store.ListSchedules(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}

	days := make([]domain.EpochDay, 0, len(scheds))
	seen := make(map[domain.EpochDay]bool)
	for _, sched := range scheds {
		if !seen[sched.Day] {
			seen[sched.Day] = true
			days = append(days, sched.Day)
		}
	}
	return days, nil
}

// ScheduleForOutfit returns every day one outfit is scheduled on.
func (s *OutfitService) ScheduleForOutfit(ctx context.Context, userID, outfitID string) ([]domain.EpochDay, error) {
	scheds, err := s.store.ListSchedulesForOutfit(ctx, userID, outfitID)
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}

	days := make([]domain.EpochDay, 0, len(scheds))
	for _, sched := range scheds {
		days = append(days, sched.Day)
	}
	return days, nil
}

// UploadPhoto normalizes and stores an outfit photo with its BlurHash.
func (s *OutfitService) UploadPhoto(ctx context.Context, userID, outfitID string, photo []byte) (*domain.Outfit, error) {
	outfit, err := s.GetOutfit(ctx, userID, outfitID)
	if err != nil {
		return nil, err
	}

	normalized, err := s.processor.Normalize(photo)
	if err != nil {
		return nil, domainerrors.Validation("unsupported or corrupt image").WithCause(err)
	}

	if err := s.photos.Save(outfitID, normalized); err != nil {
		return nil, fmt.Errorf("save photo: %w", err)
	}

	hash, err := images.ComputeBlurHash(normalized)
	if err != nil {
		s.logger.Warn("failed to compute blurhash", "outfit_id", outfitID, "error", err)
		hash = ""
	}

	outfit.PhotoPath = s.photos.Path(outfitID)
	outfit.BlurHash = hash
	outfit.Touch()

	if err := s.store.UpdateOutfit(ctx, outfit); err != nil {
		return nil, fmt.Errorf("update outfit: %w", err)
	}
	return outfit, nil
}

// GetPhoto returns the stored photo bytes for an outfit.
func (s *OutfitService) GetPhoto(ctx context.Context, userID, outfitID string) ([]byte, error) {
	if _, err := s.GetOutfit(ctx, userID, outfitID); err != nil {
		return nil, err
	}
	data, err := s.photos.Get(outfitID)
	if err != nil {
		return nil, domainerrors.NotFound("outfit has no photo")
	}
	return data, nil
}
