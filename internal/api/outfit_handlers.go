package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/wardrobeapp/wardrobe-server/internal/closet"
	"github.com/wardrobeapp/wardrobe-server/internal/domain"
	"github.com/wardrobeapp/wardrobe-server/internal/service"
)

func (s *Server) registerOutfitRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listOutfits",
		Method:      http.MethodGet,
		Path:        "/api/v1/outfits",
		Summary:     "List outfits",
		Description: "Returns the user's outfits, optionally filtered and shuffled",
		Tags:        []string{"Outfits"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListOutfits)

	huma.Register(s.api, huma.Operation{
		OperationID: "createOutfit",
		Method:      http.MethodPost,
		Path:        "/api/v1/outfits",
		Summary:     "Create outfit",
		Description: "Creates an outfit from existing items",
		Tags:        []string{"Outfits"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateOutfit)

	huma.Register(s.api, huma.Operation{
		OperationID: "listDeletionCandidates",
		Method:      http.MethodGet,
		Path:        "/api/v1/outfits/deletion-candidates",
		Summary:     "List deletion candidates",
		Description: "Returns outfits flagged for deletion review",
		Tags:        []string{"Outfits"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListDeletionCandidates)

	huma.Register(s.api, huma.Operation{
		OperationID: "getOutfit",
		Method:      http.MethodGet,
		Path:        "/api/v1/outfits/{id}",
		Summary:     "Get outfit",
		Description: "Returns an outfit by ID",
		Tags:        []string{"Outfits"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetOutfit)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateOutfit",
		Method:      http.MethodPatch,
		Path:        "/api/v1/outfits/{id}",
		Summary:     "Update outfit",
		Description: "Updates an outfit. Omitted fields are unchanged.",
		Tags:        []string{"Outfits"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateOutfit)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteOutfit",
		Method:      http.MethodDelete,
		Path:        "/api/v1/outfits/{id}",
		Summary:     "Delete outfit",
		Description: "Deletes an outfit and its schedule entries",
		Tags:        []string{"Outfits"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteOutfit)

	huma.Register(s.api, huma.Operation{
		OperationID: "markOutfitForDeletion",
		Method:      http.MethodPut,
		Path:        "/api/v1/outfits/{id}/deletion-candidate",
		Summary:     "Mark for deletion review",
		Description: "Flags an outfit for deletion review. The flag is an annotation; the outfit stays fully usable until the review is confirmed.",
		Tags:        []string{"Outfits"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleMarkOutfitForDeletion)

	huma.Register(s.api, huma.Operation{
		OperationID: "reviewOutfitDeletion",
		Method:      http.MethodPost,
		Path:        "/api/v1/outfits/{id}/review",
		Summary:     "Resolve deletion review",
		Description: "Confirms (deletes) or cancels a pending outfit deletion review",
		Tags:        []string{"Outfits"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleReviewOutfitDeletion)

	huma.Register(s.api, huma.Operation{
		OperationID: "uploadOutfitPhoto",
		Method:      http.MethodPost,
		Path:        "/api/v1/outfits/{id}/photo",
		Summary:     "Upload outfit photo",
		Description: "Uploads a photo for an outfit",
		Tags:        []string{"Outfits"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUploadOutfitPhoto)

	// Direct chi route for photo streaming.
	s.router.Get("/api/v1/outfits/{id}/photo", s.handleServeOutfitPhoto)
}

// === DTOs ===

// OutfitResponse contains outfit data in API responses.
type OutfitResponse struct {
	ID                string    `json:"id" doc:"Outfit ID"`
	Name              string    `json:"name" doc:"Outfit name"`
	Description       string    `json:"description,omitempty" doc:"Free-form description"`
	Tags              []string  `json:"tags,omitempty" doc:"Tags"`
	Favorite          bool      `json:"favorite" doc:"Favorite flag"`
	PhotoPath         string    `json:"photo_path,omitempty" doc:"Photo path when uploaded"`
	BlurHash          string    `json:"blur_hash,omitempty" doc:"BlurHash placeholder"`
	ItemIDs           []string  `json:"item_ids" doc:"Composing item IDs"`
	DeletionCandidate bool      `json:"deletion_candidate" doc:"Flagged for deletion review"`
	CreatedAt         time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt         time.Time `json:"updated_at" doc:"Last update time"`
}

// OutfitOutput wraps one outfit for Huma.
type OutfitOutput struct {
	Body OutfitResponse
}

// ListOutfitsInput contains filter parameters for listing outfits.
type ListOutfitsInput struct {
	Authorization string   `header:"Authorization"`
	Tags          []string `query:"tags" doc:"Tag filter; matches outfits carrying any listed tag"`
	Favorites     bool     `query:"favorites" doc:"Only favorites"`
	Search        string   `query:"search" doc:"Substring match on name and description"`
	Shuffle       bool     `query:"shuffle" doc:"Return the result in random order"`
}

// ListOutfitsOutput wraps the outfit list for Huma.
type ListOutfitsOutput struct {
	Body struct {
		Outfits []OutfitResponse `json:"outfits" doc:"Matching outfits"`
		Total   int              `json:"total" doc:"Number of matching outfits"`
	}
}

// CreateOutfitInput wraps the create outfit request for Huma.
type CreateOutfitInput struct {
	Authorization string `header:"Authorization"`
	Body          struct {
		Name        string   `json:"name" validate:"required,min=1,max=200" doc:"Outfit name"`
		Description string   `json:"description,omitempty" validate:"omitempty,max=2000" doc:"Description"`
		Tags        []string `json:"tags,omitempty" doc:"Tags"`
		Favorite    bool     `json:"favorite,omitempty" doc:"Favorite flag"`
		ItemIDs     []string `json:"item_ids,omitempty" doc:"Composing item IDs"`
	}
}

// GetOutfitInput contains parameters for getting an outfit.
type GetOutfitInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Outfit ID"`
}

// UpdateOutfitInput wraps the update outfit request for Huma.
type UpdateOutfitInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Outfit ID"`
	Body          struct {
		Name        *string  `json:"name,omitempty" validate:"omitempty,min=1,max=200" doc:"Outfit name"`
		Description *string  `json:"description,omitempty" validate:"omitempty,max=2000" doc:"Description"`
		Tags        []string `json:"tags,omitempty" doc:"Replacement tag set"`
		Favorite    *bool    `json:"favorite,omitempty" doc:"Favorite flag"`
		ItemIDs     []string `json:"item_ids,omitempty" doc:"Replacement item set"`
	}
}

// ReviewOutfitDeletionInput wraps the review decision for Huma.
type ReviewOutfitDeletionInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Outfit ID"`
	Body          struct {
		Confirm bool `json:"confirm" doc:"true deletes the outfit, false keeps it"`
	}
}

// UploadOutfitPhotoInput carries a raw image upload.
type UploadOutfitPhotoInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Outfit ID"`
	RawBody       []byte
}

// === Handlers ===

func (s *Server) handleListOutfits(ctx context.Context, input *ListOutfitsInput) (*ListOutfitsOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	filter := closet.DefaultFilter()
	filter.Tags = input.Tags
	filter.FavoritesOnly = input.Favorites
	filter.Search = input.Search

	outfits, err := s.services.Outfit.ListOutfits(ctx, userID, filter, input.Shuffle)
	if err != nil {
		return nil, err
	}

	return mapOutfitList(outfits), nil
}

func (s *Server) handleCreateOutfit(ctx context.Context, input *CreateOutfitInput) (*OutfitOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	outfit, err := s.services.Outfit.CreateOutfit(ctx, userID, service.CreateOutfitRequest{
		Name:        input.Body.Name,
		Description: input.Body.Description,
		Tags:        input.Body.Tags,
		Favorite:    input.Body.Favorite,
		ItemIDs:     input.Body.ItemIDs,
	})
	if err != nil {
		return nil, err
	}

	return &OutfitOutput{Body: mapOutfit(outfit)}, nil
}

func (s *Server) handleListDeletionCandidates(ctx context.Context, input *AuthorizedInput) (*ListOutfitsOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	outfits, err := s.services.Outfit.ListDeletionCandidates(ctx, userID)
	if err != nil {
		return nil, err
	}

	return mapOutfitList(outfits), nil
}

func (s *Server) handleGetOutfit(ctx context.Context, input *GetOutfitInput) (*OutfitOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	outfit, err := s.services.Outfit.GetOutfit(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &OutfitOutput{Body: mapOutfit(outfit)}, nil
}

func (s *Server) handleUpdateOutfit(ctx context.Context, input *UpdateOutfitInput) (*OutfitOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	outfit, err := s.services.Outfit.UpdateOutfit(ctx, userID, input.ID, service.UpdateOutfitRequest{
		Name:        input.Body.Name,
		Description: input.Body.Description,
		Tags:        input.Body.Tags,
		Favorite:    input.Body.Favorite,
		ItemIDs:     input.Body.ItemIDs,
	})
	if err != nil {
		return nil, err
	}

	return &OutfitOutput{Body: mapOutfit(outfit)}, nil
}

func (s *Server) handleDeleteOutfit(ctx context.Context, input *GetOutfitInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Outfit.DeleteOutfit(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Outfit deleted"}}, nil
}

func (s *Server) handleMarkOutfitForDeletion(ctx context.Context, input *GetOutfitInput) (*OutfitOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	outfit, err := s.services.Outfit.MarkForDeletion(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &OutfitOutput{Body: mapOutfit(outfit)}, nil
}

func (s *Server) handleReviewOutfitDeletion(ctx context.Context, input *ReviewOutfitDeletionInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Outfit.ResolveDeletionCandidate(ctx, userID, input.ID, input.Body.Confirm); err != nil {
		return nil, err
	}

	msg := "Outfit kept"
	if input.Body.Confirm {
		msg = "Outfit deleted"
	}
	return &MessageOutput{Body: MessageResponse{Message: msg}}, nil
}

func (s *Server) handleUploadOutfitPhoto(ctx context.Context, input *UploadOutfitPhotoInput) (*OutfitOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	outfit, err := s.services.Outfit.UploadPhoto(ctx, userID, input.ID, input.RawBody)
	if err != nil {
		return nil, err
	}

	return &OutfitOutput{Body: mapOutfit(outfit)}, nil
}

// handleServeOutfitPhoto streams the outfit photo as JPEG, bypassing huma.
func (s *Server) handleServeOutfitPhoto(w http.ResponseWriter, r *http.Request) {
	s.servePhoto(w, r, func(ctx context.Context, userID, id string) ([]byte, error) {
		return s.services.Outfit.GetPhoto(ctx, userID, id)
	})
}

func mapOutfit(o *domain.Outfit) OutfitResponse {
	return OutfitResponse{
		ID:                o.ID,
		Name:              o.Name,
		Description:       o.Description,
		Tags:              o.Tags,
		Favorite:          o.Favorite,
		PhotoPath:         o.PhotoPath,
		BlurHash:          o.BlurHash,
		ItemIDs:           o.ItemIDs,
		DeletionCandidate: o.DeletionCandidate,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
}

func mapOutfitList(outfits []*domain.Outfit) *ListOutfitsOutput {
	out := &ListOutfitsOutput{}
	out.Body.Outfits = make([]OutfitResponse, len(outfits))
	for i, o := range outfits {
		out.Body.Outfits[i] = mapOutfit(o)
	}
	out.Body.Total = len(outfits)
	return out
}
