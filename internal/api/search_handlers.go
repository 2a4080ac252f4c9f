package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/wardrobeapp/wardrobe-server/internal/search"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "search",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search the wardrobe",
		Description: "Full-text search over items and outfits with filters, facets, and highlighting",
		Tags:        []string{"Search"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSearch)

	huma.Register(s.api, huma.Operation{
		OperationID: "reindexSearch",
		Method:      http.MethodPost,
		Path:        "/api/v1/search/reindex",
		Summary:     "Rebuild search index",
		Description: "Re-indexes every item and outfit owned by the user",
		Tags:        []string{"Search"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleReindexSearch)
}

// SearchInput contains query parameters for full-text search.
type SearchInput struct {
	Authorization string   `header:"Authorization"`
	Query         string   `query:"q" doc:"Search text; empty matches everything"`
	Types         []string `query:"types" doc:"Document types to include (item, outfit); empty means both"`
	Tags          []string `query:"tags" doc:"Exact tag filter, OR across tags"`
	ItemType      string   `query:"item_type" doc:"Exact item-type filter"`
	Category      string   `query:"category" doc:"Exact carousel-category filter"`
	Limit         int      `query:"limit" doc:"Page size, default 20, max 100"`
	Offset        int      `query:"offset" doc:"Page offset"`
	SortBy        string   `query:"sort_by" doc:"relevance, name, or recent"`
	SortOrder     string   `query:"sort_order" doc:"asc or desc"`
	Facets        bool     `query:"facets" doc:"Include facet counts"`
	Highlight     bool     `query:"highlight" doc:"Include match highlights"`
}

// SearchOutput wraps the search result for Huma.
type SearchOutput struct {
	Body search.Result
}

func (s *Server) handleSearch(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Search.Search(ctx, search.Params{
		UserID:        userID,
		Query:         input.Query,
		Types:         input.Types,
		Tags:          input.Tags,
		ItemType:      input.ItemType,
		Category:      input.Category,
		Limit:         input.Limit,
		Offset:        input.Offset,
		SortBy:        input.SortBy,
		SortOrder:     input.SortOrder,
		IncludeFacets: input.Facets,
		Highlight:     input.Highlight,
	})
	if err != nil {
		return nil, err
	}

	return &SearchOutput{Body: *result}, nil
}

func (s *Server) handleReindexSearch(ctx context.Context, input *AuthorizedInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Search.ReindexUser(ctx, userID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Reindex complete"}}, nil
}
