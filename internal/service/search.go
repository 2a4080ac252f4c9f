package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wardrobeapp/wardrobe-server/internal/search"
	"github.com/wardrobeapp/wardrobe-server/internal/store"
)

// SearchService fronts the full-text index. The store pushes writes into
// the index as they commit; this service handles queries and the full
// re-index pass.
type SearchService struct {
	index  *search.Index
	store  store.Store
	logger *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(index *search.Index, st store.Store, logger *slog.Logger) *SearchService {
	return &SearchService{index: index, store: st, logger: logger}
}

// Search runs a user-scoped query against the index.
func (s *SearchService) Search(ctx context.Context, params search.Params) (*search.Result, error) {
	if params.Limit <= 0 || params.Limit > 100 {
		params.Limit = 20
	}
	if params.Offset < 0 {
		params.Offset = 0
	}
	return s.index.Search(ctx, params)
}

// DocumentCount reports the number of indexed documents.
func (s *SearchService) DocumentCount() (uint64, error) {
	return s.index.DocumentCount()
}

// ReindexAll rebuilds every user's documents from the store. Run at
// startup when the index is empty but the store is not, e.g. after an
// index mapping bump discarded the old index.
func (s *SearchService) ReindexAll(ctx context.Context) error {
	userIDs, err := s.store.ListUserIDs(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}
	for _, userID := range userIDs {
		if err := s.ReindexUser(ctx, userID); err != nil {
			return fmt.Errorf("reindex user %s: %w", userID, err)
		}
	}
	return nil
}

// ReindexUser rebuilds one user's documents from the store. Used when the
// index and store drift (crash between commit and index write).
func (s *SearchService) ReindexUser(ctx context.Context, userID string) error {
	items, err := s.store.ListItems(ctx, userID)
	if err != nil {
		return fmt.Errorf("list items: %w", err)
	}
	outfits, err := s.store.ListOutfits(ctx, userID)
	if err != nil {
		return fmt.Errorf("list outfits: %w", err)
	}

	docs := make([]*search.Document, 0, len(items)+len(outfits))
	for _, item := range items {
		docs = append(docs, search.ItemToDocument(item))
	}
	for _, outfit := range outfits {
		docs = append(docs, search.OutfitToDocument(outfit))
	}

	if err := s.index.IndexDocuments(docs); err != nil {
		return fmt.Errorf("index documents: %w", err)
	}

	s.logger.Info("reindexed user", "user_id", userID, "documents", len(docs))
	return nil
}
