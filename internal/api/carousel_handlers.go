package api

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/wardrobeapp/wardrobe-server/internal/carousel"
	"github.com/wardrobeapp/wardrobe-server/internal/domain"
)

func (s *Server) registerCarouselRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getCarousel",
		Method:      http.MethodGet,
		Path:        "/api/v1/carousel",
		Summary:     "Get carousel selection",
		Description: "Returns the current item in each of the four lanes and whether the combination is blocked",
		Tags:        []string{"Carousel"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCarousel)

	huma.Register(s.api, huma.Operation{
		OperationID: "scrollCarousel",
		Method:      http.MethodPost,
		Path:        "/api/v1/carousel/scroll",
		Summary:     "Scroll a lane",
		Description: "Advances one lane forward or backward and returns the new selection",
		Tags:        []string{"Carousel"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleScrollCarousel)

	huma.Register(s.api, huma.Operation{
		OperationID: "shuffleCarousel",
		Method:      http.MethodPost,
		Path:        "/api/v1/carousel/shuffle",
		Summary:     "Shuffle carousel",
		Description: "Jumps every lane to a random position",
		Tags:        []string{"Carousel"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleShuffleCarousel)

	huma.Register(s.api, huma.Operation{
		OperationID: "reloadCarousel",
		Method:      http.MethodPost,
		Path:        "/api/v1/carousel/reload",
		Summary:     "Reload carousel",
		Description: "Rebuilds the lanes from the closet, discarding cached positions",
		Tags:        []string{"Carousel"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleReloadCarousel)

	huma.Register(s.api, huma.Operation{
		OperationID: "blockCombination",
		Method:      http.MethodPost,
		Path:        "/api/v1/carousel/block",
		Summary:     "Block current combination",
		Description: "Marks the currently selected combination as blocked so it is skipped while scrolling",
		Tags:        []string{"Carousel"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleBlockCombination)

	huma.Register(s.api, huma.Operation{
		OperationID: "listBlockedCombinations",
		Method:      http.MethodGet,
		Path:        "/api/v1/carousel/blocked",
		Summary:     "List blocked combinations",
		Tags:        []string{"Carousel"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListBlockedCombinations)

	huma.Register(s.api, huma.Operation{
		OperationID: "unblockCombination",
		Method:      http.MethodDelete,
		Path:        "/api/v1/carousel/blocked/{id}",
		Summary:     "Unblock combination",
		Tags:        []string{"Carousel"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUnblockCombination)
}

// === DTOs ===

// CarouselResponse contains the current lane selection in API responses.
// Lanes with no eligible items are omitted.
type CarouselResponse struct {
	Lanes   map[string]*ItemResponse `json:"lanes" doc:"Current item per lane (accessory, top, bottom, shoe)"`
	Blocked bool                     `json:"blocked" doc:"Whether the current combination is blocked"`
}

// CarouselOutput wraps the carousel selection for Huma.
type CarouselOutput struct {
	Body CarouselResponse
}

// ScrollCarouselInput wraps a single-lane scroll request for Huma.
type ScrollCarouselInput struct {
	Authorization string `header:"Authorization"`
	Body          struct {
		Lane      string `json:"lane" validate:"required,oneof=accessory top bottom shoe" doc:"Lane to scroll"`
		Direction string `json:"direction,omitempty" validate:"omitempty,oneof=forward backward" doc:"Scroll direction, default forward"`
	}
}

// BlockedCombinationResponse contains one blocked combination in API responses.
type BlockedCombinationResponse struct {
	ID          string    `json:"id" doc:"Blocked combination ID"`
	AccessoryID string    `json:"accessory_id,omitempty" doc:"Accessory lane item ID"`
	TopID       string    `json:"top_id,omitempty" doc:"Top lane item ID"`
	BottomID    string    `json:"bottom_id,omitempty" doc:"Bottom lane item ID"`
	ShoeID      string    `json:"shoe_id,omitempty" doc:"Shoe lane item ID"`
	CreatedAt   time.Time `json:"created_at" doc:"When the combination was blocked"`
}

// BlockedCombinationOutput wraps one blocked combination for Huma.
type BlockedCombinationOutput struct {
	Body BlockedCombinationResponse
}

// ListBlockedOutput wraps the blocked combination list for Huma.
type ListBlockedOutput struct {
	Body struct {
		Blocked []BlockedCombinationResponse `json:"blocked" doc:"Blocked combinations"`
		Total   int                          `json:"total" doc:"Number of blocked combinations"`
	}
}

// UnblockInput addresses one blocked combination.
type UnblockInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Blocked combination ID"`
}

// === Handlers ===

func (s *Server) handleGetCarousel(ctx context.Context, input *AuthorizedInput) (*CarouselOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	selection, err := s.services.Carousel.Selection(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.mapCarousel(ctx, userID, selection)
}

func (s *Server) handleScrollCarousel(ctx context.Context, input *ScrollCarouselInput) (*CarouselOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	lane := domain.Lane(input.Body.Lane)
	if !slices.Contains(domain.Lanes(), lane) {
		return nil, huma.Error422UnprocessableEntity("Unknown lane: " + input.Body.Lane)
	}

	forward := input.Body.Direction != "backward"
	selection, err := s.services.Carousel.Scroll(ctx, userID, lane, forward)
	if err != nil {
		return nil, err
	}

	return s.mapCarousel(ctx, userID, selection)
}

func (s *Server) handleShuffleCarousel(ctx context.Context, input *AuthorizedInput) (*CarouselOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	selection, err := s.services.Carousel.Shuffle(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.mapCarousel(ctx, userID, selection)
}

func (s *Server) handleReloadCarousel(ctx context.Context, input *AuthorizedInput) (*CarouselOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	selection, err := s.services.Carousel.Reload(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.mapCarousel(ctx, userID, selection)
}

func (s *Server) handleBlockCombination(ctx context.Context, input *AuthorizedInput) (*BlockedCombinationOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	blocked, err := s.services.Carousel.BlockCurrent(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &BlockedCombinationOutput{Body: mapBlockedCombination(blocked)}, nil
}

func (s *Server) handleListBlockedCombinations(ctx context.Context, input *AuthorizedInput) (*ListBlockedOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	blocked, err := s.services.Carousel.ListBlocked(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := &ListBlockedOutput{}
	out.Body.Blocked = make([]BlockedCombinationResponse, len(blocked))
	for i, b := range blocked {
		out.Body.Blocked[i] = mapBlockedCombination(b)
	}
	out.Body.Total = len(blocked)
	return out, nil
}

func (s *Server) handleUnblockCombination(ctx context.Context, input *UnblockInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Carousel.Unblock(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Combination unblocked"}}, nil
}

func (s *Server) mapCarousel(ctx context.Context, userID string, selection carousel.Selection) (*CarouselOutput, error) {
	blocked, err := s.services.Carousel.IsBlocked(ctx, userID)
	if err != nil {
		return nil, err
	}

	lanes := make(map[string]*ItemResponse, len(selection))
	for lane, item := range selection {
		if item == nil {
			continue
		}
		resp := mapItem(item)
		lanes[string(lane)] = &resp
	}

	return &CarouselOutput{Body: CarouselResponse{Lanes: lanes, Blocked: blocked}}, nil
}

func mapBlockedCombination(b *domain.BlockedCombination) BlockedCombinationResponse {
	return BlockedCombinationResponse{
		ID:          b.ID,
		AccessoryID: b.AccessoryID,
		TopID:       b.TopID,
		BottomID:    b.BottomID,
		ShoeID:      b.ShoeID,
		CreatedAt:   b.CreatedAt,
	}
}
