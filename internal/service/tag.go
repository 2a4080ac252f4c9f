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

// TagService manages a user's tag vocabulary. Names are free-form; slugs
// are the identity, so "Slow Fashion" and "slow-fashion" are one entry.
type TagService struct {
	store  store.Store
	logger *slog.Logger
}

// NewTagService creates a new tag service.
func NewTagService(st store.Store, logger *slog.Logger) *TagService {
	return &TagService{store: st, logger: logger}
}

// ListTags returns the user's tag vocabulary ordered by slug.
func (s *TagService) ListTags(ctx context.Context, userID string) ([]*domain.Tag, error) {
	return s.store.ListTags(ctx, userID)
}

// CreateTag adds a tag to the vocabulary. Empty names and duplicates (by
// slug) are rejected.
func (s *TagService) CreateTag(ctx context.Context, userID, name string) (*domain.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domainerrors.Validation("tag name cannot be empty")
	}
	slug := normalize.Slug(name)
	if slug == "" {
		return nil, domainerrors.Validation("tag name must contain letters or digits")
	}

	now := time.Now()
	tag := &domain.Tag{
		ID:        id.MustGenerate(id.PrefixTag),
		UserID:    userID,
		Name:      name,
		Slug:      slug,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateTag(ctx, tag); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists(fmt.Sprintf("tag %q already exists", name))
		}
		return nil, fmt.Errorf("create tag: %w", err)
	}

	s.logger.Info("tag created", "user_id", userID, "slug", slug)
	return tag, nil
}

// DeleteTag removes a vocabulary entry and clears the tag from every item
// and outfit that carried it. The items and outfits themselves survive.
func (s *TagService) DeleteTag(ctx context.Context, userID, tagID string) error {
	if err := s.store.DeleteTag(ctx, userID, tagID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("tag not found")
		}
		return fmt.Errorf("delete tag: %w", err)
	}

	s.logger.Info("tag deleted", "user_id", userID, "tag_id", tagID)
	return nil
}
