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

func (s *Server) registerItemRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listItems",
		Method:      http.MethodGet,
		Path:        "/api/v1/items",
		Summary:     "List items",
		Description: "Returns the user's clothing items, optionally filtered and shuffled",
		Tags:        []string{"Items"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListItems)

	huma.Register(s.api, huma.Operation{
		OperationID: "createItem",
		Method:      http.MethodPost,
		Path:        "/api/v1/items",
		Summary:     "Create item",
		Description: "Adds a clothing item to the closet",
		Tags:        []string{"Items"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateItem)

	huma.Register(s.api, huma.Operation{
		OperationID: "getItem",
		Method:      http.MethodGet,
		Path:        "/api/v1/items/{id}",
		Summary:     "Get item",
		Description: "Returns a clothing item by ID",
		Tags:        []string{"Items"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetItem)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateItem",
		Method:      http.MethodPatch,
		Path:        "/api/v1/items/{id}",
		Summary:     "Update item",
		Description: "Updates a clothing item. Omitted fields are unchanged.",
		Tags:        []string{"Items"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateItem)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteItem",
		Method:      http.MethodDelete,
		Path:        "/api/v1/items/{id}",
		Summary:     "Delete item",
		Description: "Deletes an item. Outfits containing it are deleted as well.",
		Tags:        []string{"Items"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteItem)

	huma.Register(s.api, huma.Operation{
		OperationID: "setItemFavorite",
		Method:      http.MethodPut,
		Path:        "/api/v1/items/{id}/favorite",
		Summary:     "Set favorite",
		Description: "Sets or clears the favorite flag on an item",
		Tags:        []string{"Items"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSetItemFavorite)

	huma.Register(s.api, huma.Operation{
		OperationID: "uploadItemPhoto",
		Method:      http.MethodPost,
		Path:        "/api/v1/items/{id}/photo",
		Summary:     "Upload item photo",
		Description: "Uploads a photo for an item. The image is normalized to JPEG and a BlurHash placeholder is computed.",
		Tags:        []string{"Items"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUploadItemPhoto)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteItemPhoto",
		Method:      http.MethodDelete,
		Path:        "/api/v1/items/{id}/photo",
		Summary:     "Delete item photo",
		Description: "Removes the photo from an item",
		Tags:        []string{"Items"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteItemPhoto)

	// Direct chi route for photo streaming.
	s.router.Get("/api/v1/items/{id}/photo", s.handleServeItemPhoto)
}

// === DTOs ===

// ItemResponse contains item data in API responses.
type ItemResponse struct {
	ID                string    `json:"id" doc:"Item ID"`
	Name              string    `json:"name" doc:"Item name"`
	Type              string    `json:"type" doc:"Clothing type from the user's vocabulary"`
	Description       string    `json:"description,omitempty" doc:"Free-form description"`
	Tags              []string  `json:"tags,omitempty" doc:"Tags"`
	Favorite          bool      `json:"favorite" doc:"Favorite flag"`
	PhotoPath         string    `json:"photo_path,omitempty" doc:"Photo path when uploaded"`
	BlurHash          string    `json:"blur_hash,omitempty" doc:"BlurHash placeholder"`
	CarouselType      string    `json:"carousel_type" doc:"Carousel category"`
	DeletionCandidate bool      `json:"deletion_candidate" doc:"Pending deletion review"`
	CreatedAt         time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt         time.Time `json:"updated_at" doc:"Last update time"`
}

// ItemOutput wraps one item for Huma.
type ItemOutput struct {
	Body ItemResponse
}

// ListItemsInput contains filter parameters for listing items.
type ListItemsInput struct {
	Authorization string   `header:"Authorization"`
	Type          string   `query:"type" doc:"Exact type filter; 'All' or empty disables it"`
	Tags          []string `query:"tags" doc:"Tag filter; matches items carrying any listed tag"`
	Favorites     bool     `query:"favorites" doc:"Only favorites"`
	Search        string   `query:"search" doc:"Substring match on name and description"`
	Shuffle       bool     `query:"shuffle" doc:"Return the result in random order"`
}

// ListItemsOutput wraps the item list for Huma.
type ListItemsOutput struct {
	Body struct {
		Items []ItemResponse `json:"items" doc:"Matching items"`
		Total int            `json:"total" doc:"Number of matching items"`
	}
}

// CreateItemInput wraps the create item request for Huma.
type CreateItemInput struct {
	Authorization string `header:"Authorization"`
	Body          struct {
		Name         string   `json:"name" validate:"required,min=1,max=200" doc:"Item name"`
		Type         string   `json:"type" validate:"required,max=100" doc:"Clothing type"`
		Description  string   `json:"description,omitempty" validate:"omitempty,max=2000" doc:"Description"`
		Tags         []string `json:"tags,omitempty" doc:"Tags"`
		Favorite     bool     `json:"favorite,omitempty" doc:"Favorite flag"`
		CarouselType string   `json:"carousel_type,omitempty" doc:"Carousel category (top, bottom, footwear, headwear, accessory, one-piece)"`
	}
}

// GetItemInput contains parameters for getting an item.
type GetItemInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Item ID"`
}

// UpdateItemInput wraps the update item request for Huma.
type UpdateItemInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Item ID"`
	Body          struct {
		Name         *string  `json:"name,omitempty" validate:"omitempty,min=1,max=200" doc:"Item name"`
		Type         *string  `json:"type,omitempty" validate:"omitempty,max=100" doc:"Clothing type"`
		Description  *string  `json:"description,omitempty" validate:"omitempty,max=2000" doc:"Description"`
		Tags         []string `json:"tags,omitempty" doc:"Replacement tag set"`
		Favorite     *bool    `json:"favorite,omitempty" doc:"Favorite flag"`
		CarouselType *string  `json:"carousel_type,omitempty" doc:"Carousel category"`
	}
}

// ItemDeletionOutput reports the side effects of deleting an item.
type ItemDeletionOutput struct {
	Body struct {
		ItemID           string   `json:"item_id" doc:"Deleted item ID"`
		DeletedOutfitIDs []string `json:"deleted_outfit_ids" doc:"Outfits deleted because they contained the item"`
	}
}

// SetFavoriteInput wraps the favorite flag request for Huma.
type SetFavoriteInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Item ID"`
	Body          struct {
		Favorite bool `json:"favorite" doc:"Favorite flag"`
	}
}

// UploadPhotoInput carries a raw image upload.
type UploadPhotoInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Item ID"`
	RawBody       []byte
}

// === Handlers ===

func (s *Server) handleListItems(ctx context.Context, input *ListItemsInput) (*ListItemsOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	filter := closet.DefaultFilter()
	if input.Type != "" {
		filter.Type = input.Type
	}
	filter.Tags = input.Tags
	filter.FavoritesOnly = input.Favorites
	filter.Search = input.Search

	items, err := s.services.Closet.ListItems(ctx, userID, filter, input.Shuffle)
	if err != nil {
		return nil, err
	}

	out := &ListItemsOutput{}
	out.Body.Items = make([]ItemResponse, len(items))
	for i, item := range items {
		out.Body.Items[i] = mapItem(item)
	}
	out.Body.Total = len(items)
	return out, nil
}

func (s *Server) handleCreateItem(ctx context.Context, input *CreateItemInput) (*ItemOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	item, err := s.services.Closet.CreateItem(ctx, userID, service.CreateItemRequest{
		Name:         input.Body.Name,
		Type:         input.Body.Type,
		Description:  input.Body.Description,
		Tags:         input.Body.Tags,
		Favorite:     input.Body.Favorite,
		CarouselType: input.Body.CarouselType,
	})
	if err != nil {
		return nil, err
	}

	s.services.Carousel.Evict(userID)
	return &ItemOutput{Body: mapItem(item)}, nil
}

func (s *Server) handleGetItem(ctx context.Context, input *GetItemInput) (*ItemOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	item, err := s.services.Closet.GetItem(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &ItemOutput{Body: mapItem(item)}, nil
}

func (s *Server) handleUpdateItem(ctx context.Context, input *UpdateItemInput) (*ItemOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	item, err := s.services.Closet.UpdateItem(ctx, userID, input.ID, service.UpdateItemRequest{
		Name:         input.Body.Name,
		Type:         input.Body.Type,
		Description:  input.Body.Description,
		Tags:         input.Body.Tags,
		Favorite:     input.Body.Favorite,
		CarouselType: input.Body.CarouselType,
	})
	if err != nil {
		return nil, err
	}

	s.services.Carousel.Evict(userID)
	return &ItemOutput{Body: mapItem(item)}, nil
}

func (s *Server) handleDeleteItem(ctx context.Context, input *GetItemInput) (*ItemDeletionOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Closet.DeleteItem(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	s.services.Carousel.HandleItemDeleted(userID, input.ID)

	out := &ItemDeletionOutput{}
	out.Body.ItemID = result.ItemID
	out.Body.DeletedOutfitIDs = result.DeletedOutfitIDs
	return out, nil
}

func (s *Server) handleSetItemFavorite(ctx context.Context, input *SetFavoriteInput) (*ItemOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	item, err := s.services.Closet.SetFavorite(ctx, userID, input.ID, input.Body.Favorite)
	if err != nil {
		return nil, err
	}

	return &ItemOutput{Body: mapItem(item)}, nil
}

func (s *Server) handleUploadItemPhoto(ctx context.Context, input *UploadPhotoInput) (*ItemOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	item, err := s.services.Closet.UploadPhoto(ctx, userID, input.ID, input.RawBody)
	if err != nil {
		return nil, err
	}

	return &ItemOutput{Body: mapItem(item)}, nil
}

func (s *Server) handleDeleteItemPhoto(ctx context.Context, input *GetItemInput) (*ItemOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	item, err := s.services.Closet.DeletePhoto(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &ItemOutput{Body: mapItem(item)}, nil
}

// handleServeItemPhoto streams the item photo as JPEG, bypassing huma.
func (s *Server) handleServeItemPhoto(w http.ResponseWriter, r *http.Request) {
	s.servePhoto(w, r, func(ctx context.Context, userID, id string) ([]byte, error) {
		return s.services.Closet.GetPhoto(ctx, userID, id)
	})
}

func mapItem(item *domain.Item) ItemResponse {
	return ItemResponse{
		ID:                item.ID,
		Name:              item.Name,
		Type:              item.Type,
		Description:       item.Description,
		Tags:              item.Tags,
		Favorite:          item.Favorite,
		PhotoPath:         item.PhotoPath,
		BlurHash:          item.BlurHash,
		CarouselType:      string(item.CarouselType),
		DeletionCandidate: item.DeletionCandidate,
		CreatedAt:         item.CreatedAt,
		UpdatedAt:         item.UpdatedAt,
	}
}
