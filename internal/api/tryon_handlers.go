package api

import (
	"context"
	"encoding/base64"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/wardrobeapp/wardrobe-server/internal/service"
)

func (s *Server) registerTryOnRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "uploadAvatar",
		Method:      http.MethodPost,
		Path:        "/api/v1/tryon/avatar",
		Summary:     "Upload avatar",
		Description: "Uploads the full-body photo used as the dress-up base",
		Tags:        []string{"Try-on"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUploadAvatar)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteAvatar",
		Method:      http.MethodDelete,
		Path:        "/api/v1/tryon/avatar",
		Summary:     "Delete avatar",
		Tags:        []string{"Try-on"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteAvatar)

	huma.Register(s.api, huma.Operation{
		OperationID: "dressUpItems",
		Method:      http.MethodPost,
		Path:        "/api/v1/tryon/dress-up",
		Summary:     "Dress up items",
		Description: "Runs the try-on pipeline over the given items, layering them onto the avatar",
		Tags:        []string{"Try-on"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDressUpItems)

	huma.Register(s.api, huma.Operation{
		OperationID: "dressUpOutfit",
		Method:      http.MethodPost,
		Path:        "/api/v1/outfits/{id}/try-on",
		Summary:     "Try on outfit",
		Description: "Runs the try-on pipeline over an outfit's items and caches the composed image",
		Tags:        []string{"Try-on"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDressUpOutfit)

	// Direct chi routes for image streaming.
	s.router.Get("/api/v1/tryon/avatar", s.handleServeAvatar)
	s.router.Get("/api/v1/outfits/{id}/try-on", s.handleServeTryOnResult)
}

// === DTOs ===

// DressUpItemsInput wraps an ad-hoc dress-up request for Huma.
type DressUpItemsInput struct {
	Authorization string `header:"Authorization"`
	Body          struct {
		ItemIDs []string `json:"item_ids" validate:"required,min=1" doc:"Items to try on, at most one per lane"`
	}
}

// DressUpStepResponse describes one pipeline step in API responses.
type DressUpStepResponse struct {
	Slot  string `json:"slot" doc:"Garment slot composed in this step"`
	JobID string `json:"job_id" doc:"Upstream job ID"`
}

// DressUpResponse contains a dress-up result in API responses.
type DressUpResponse struct {
	Image          string                `json:"image" doc:"Composed JPEG, base64-encoded"`
	Steps          []DressUpStepResponse `json:"steps" doc:"Pipeline steps in composition order"`
	SkippedItemIDs []string              `json:"skipped_item_ids,omitempty" doc:"Items without a photo or lane, left out of the run"`
}

// DressUpOutput wraps a dress-up result for Huma.
type DressUpOutput struct {
	Body DressUpResponse
}

// AvatarUploadInput carries a raw avatar image upload.
type AvatarUploadInput struct {
	Authorization string `header:"Authorization"`
	RawBody       []byte
}

// === Handlers ===

// tryOnService returns the try-on service or a 503 when the fashion API is
// not configured.
func (s *Server) tryOnService() (*service.TryOnService, error) {
	if s.services.TryOn == nil {
		return nil, huma.Error503ServiceUnavailable("Virtual try-on is not configured on this server")
	}
	return s.services.TryOn, nil
}

func (s *Server) handleUploadAvatar(ctx context.Context, input *AvatarUploadInput) (*UserOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	svc, err := s.tryOnService()
	if err != nil {
		return nil, err
	}

	user, err := svc.UploadAvatar(ctx, userID, input.RawBody)
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: mapUser(user)}, nil
}

func (s *Server) handleDeleteAvatar(ctx context.Context, input *AuthorizedInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	svc, err := s.tryOnService()
	if err != nil {
		return nil, err
	}

	if err := svc.DeleteAvatar(ctx, userID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Avatar deleted"}}, nil
}

func (s *Server) handleDressUpItems(ctx context.Context, input *DressUpItemsInput) (*DressUpOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	svc, err := s.tryOnService()
	if err != nil {
		return nil, err
	}

	result, err := svc.DressUpItems(ctx, userID, input.Body.ItemIDs)
	if err != nil {
		return nil, err
	}

	return &DressUpOutput{Body: mapDressUpResult(result)}, nil
}

func (s *Server) handleDressUpOutfit(ctx context.Context, input *GetOutfitInput) (*DressUpOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	svc, err := s.tryOnService()
	if err != nil {
		return nil, err
	}

	result, err := svc.DressUpOutfit(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &DressUpOutput{Body: mapDressUpResult(result)}, nil
}

// handleServeAvatar streams the avatar photo, bypassing huma.
func (s *Server) handleServeAvatar(w http.ResponseWriter, r *http.Request) {
	s.servePhoto(w, r, func(ctx context.Context, userID, _ string) ([]byte, error) {
		svc, err := s.tryOnService()
		if err != nil {
			return nil, err
		}
		return svc.GetAvatar(ctx, userID)
	})
}

// handleServeTryOnResult streams the cached composed image for an outfit.
func (s *Server) handleServeTryOnResult(w http.ResponseWriter, r *http.Request) {
	s.servePhoto(w, r, func(ctx context.Context, userID, id string) ([]byte, error) {
		svc, err := s.tryOnService()
		if err != nil {
			return nil, err
		}
		return svc.CachedOutfitResult(ctx, userID, id)
	})
}

func mapDressUpResult(result *service.TryOnResult) DressUpResponse {
	steps := make([]DressUpStepResponse, len(result.Steps))
	for i, step := range result.Steps {
		steps[i] = DressUpStepResponse{Slot: string(step.Slot), JobID: step.JobID}
	}
	return DressUpResponse{
		Image:          base64.StdEncoding.EncodeToString(result.Image),
		Steps:          steps,
		SkippedItemIDs: result.SkippedItemIDs,
	}
}
