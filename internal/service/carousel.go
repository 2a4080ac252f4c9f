package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/wardrobeapp/wardrobe-server/internal/carousel"
	"github.com/wardrobeapp/wardrobe-server/internal/domain"
	domainerrors "github.com/wardrobeapp/wardrobe-server/internal/errors"
	"github.com/wardrobeapp/wardrobe-server/internal/id"
	"github.com/wardrobeapp/wardrobe-server/internal/store"
)

// CarouselService keeps one live combination carousel per user. The
// carousel itself is in-memory selection state; blocked combinations are
// persisted through the store so they survive restarts.
type CarouselService struct {
	store  store.Store
	logger *slog.Logger

	mu        sync.Mutex
	carousels map[string]*carousel.Carousel
}

// NewCarouselService creates a new carousel service.
func NewCarouselService(st store.Store, logger *slog.Logger) *CarouselService {
	return &CarouselService{
		store:     st,
		logger:    logger,
		carousels: make(map[string]*carousel.Carousel),
	}
}

// get returns the user's live carousel, building it from the store on
// first access.
func (s *CarouselService) get(ctx context.Context, userID string) (*carousel.Carousel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.carousels[userID]; ok {
		return c, nil
	}

	c, err := s.build(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.carousels[userID] = c
	return c, nil
}

func (s *CarouselService) build(ctx context.Context, userID string) (*carousel.Carousel, error) {
	items, err := s.store.ListItems(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	blocked, err := s.store.ListBlockedCombinations(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list blocked combinations: %w", err)
	}
	return carousel.New(userID, items, blocked), nil
}

// Reload rebuilds the user's carousel from the store. Called after closet
// writes so lane contents stay current.
func (s *CarouselService) Reload(ctx context.Context, userID string) (carousel.Selection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.build(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.carousels[userID] = c
	return c.Selection(), nil
}

// Evict drops a user's in-memory carousel (logout, account deletion).
func (s *CarouselService) Evict(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carousels, userID)
}

// Selection returns the user's current lane selection.
func (s *CarouselService) Selection(ctx context.Context, userID string) (carousel.Selection, error) {
	c, err := s.get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return c.Selection(), nil
}

// Scroll moves a lane forward or backward and returns the new selection.
func (s *CarouselService) Scroll(ctx context.Context, userID string, lane domain.Lane, forward bool) (carousel.Selection, error) {
	c, err := s.get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if forward {
		return c.Next(lane), nil
	}
	return c.Prev(lane), nil
}

// Shuffle re-rolls every lane, avoiding blocked combinations.
func (s *CarouselService) Shuffle(ctx context.Context, userID string) (carousel.Selection, error) {
	c, err := s.get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return c.Shuffle(), nil
}

// IsBlocked reports whether the current selection matches a blocked
// combination.
func (s *CarouselService) IsBlocked(ctx context.Context, userID string) (bool, error) {
	c, err := s.get(ctx, userID)
	if err != nil {
		return false, err
	}
	return c.IsBlocked(), nil
}

// BlockCurrent blocks the currently centered combination. The record is
// persisted first and applied to the live carousel only once the store has
// accepted it, so a failed write leaves the in-memory state unchanged.
// Blocking an empty selection is a validation error; re-blocking an
// already blocked combination is a no-op.
func (s *CarouselService) BlockCurrent(ctx context.Context, userID string) (*domain.BlockedCombination, error) {
	c, err := s.get(ctx, userID)
	if err != nil {
		return nil, err
	}

	combo := c.CurrentCombination()
	if combo == nil {
		return nil, domainerrors.Validation("nothing selected to block")
	}
	if existing := c.FindBlocked(combo); existing != nil {
		return existing, nil
	}

	combo.ID = id.MustGenerate(id.PrefixBlocked)
	combo.CreatedAt = time.Now().UTC()
	if _, err := s.store.CreateBlockedCombination(ctx, combo); err != nil {
		return nil, fmt.Errorf("persist blocked combination: %w", err)
	}
	combo, _ = c.AddBlocked(combo)

	s.logger.Info("combination blocked", "user_id", userID, "blocked_id", combo.ID)
	return combo, nil
}

// Unblock removes a blocked combination.
func (s *CarouselService) Unblock(ctx context.Context, userID, blockedID string) error {
	c, err := s.get(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.store.DeleteBlockedCombination(ctx, userID, blockedID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("blocked combination not found")
		}
		return fmt.Errorf("delete blocked combination: %w", err)
	}
	c.Unblock(blockedID)
	return nil
}

// ListBlocked returns the user's blocked combinations, newest first.
func (s *CarouselService) ListBlocked(ctx context.Context, userID string) ([]*domain.BlockedCombination, error) {
	return s.store.ListBlockedCombinations(ctx, userID)
}

// HandleItemDeleted removes a deleted item from the live carousel, if one
// is loaded. The store has already dropped its blocked combinations.
func (s *CarouselService) HandleItemDeleted(userID, itemID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.carousels[userID]; ok {
		c.RemoveItem(itemID)
	}
}
