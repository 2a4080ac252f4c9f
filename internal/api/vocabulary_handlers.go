package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/wardrobeapp/wardrobe-server/internal/domain"
)

func (s *Server) registerVocabularyRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listTags",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags",
		Summary:     "List tags",
		Tags:        []string{"Vocabulary"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListTags)

	huma.Register(s.api, huma.Operation{
		OperationID: "createTag",
		Method:      http.MethodPost,
		Path:        "/api/v1/tags",
		Summary:     "Create tag",
		Tags:        []string{"Vocabulary"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteTag",
		Method:      http.MethodDelete,
		Path:        "/api/v1/tags/{id}",
		Summary:     "Delete tag",
		Description: "Deletes a tag and removes it from every item and outfit",
		Tags:        []string{"Vocabulary"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "listItemTypes",
		Method:      http.MethodGet,
		Path:        "/api/v1/item-types",
		Summary:     "List item types",
		Tags:        []string{"Vocabulary"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListItemTypes)

	huma.Register(s.api, huma.Operation{
		OperationID: "createItemType",
		Method:      http.MethodPost,
		Path:        "/api/v1/item-types",
		Summary:     "Create item type",
		Tags:        []string{"Vocabulary"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateItemType)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteItemType",
		Method:      http.MethodDelete,
		Path:        "/api/v1/item-types/{id}",
		Summary:     "Delete item type",
		Description: "Removes a type from the vocabulary; items keep their type string",
		Tags:        []string{"Vocabulary"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteItemType)
}

// === DTOs ===

// VocabularyEntryResponse contains a tag or item type in API responses.
type VocabularyEntryResponse struct {
	ID        string    `json:"id" doc:"Entry ID"`
	Name      string    `json:"name" doc:"Display name"`
	Slug      string    `json:"slug" doc:"Normalized unique slug"`
	CreatedAt time.Time `json:"created_at" doc:"Creation time"`
}

// VocabularyEntryOutput wraps one vocabulary entry for Huma.
type VocabularyEntryOutput struct {
	Body VocabularyEntryResponse
}

// VocabularyListOutput wraps a vocabulary listing for Huma.
type VocabularyListOutput struct {
	Body struct {
		Entries []VocabularyEntryResponse `json:"entries" doc:"Vocabulary entries, sorted by name"`
		Total   int                       `json:"total" doc:"Number of entries"`
	}
}

// CreateVocabularyEntryInput wraps a create request for Huma.
type CreateVocabularyEntryInput struct {
	Authorization string `header:"Authorization"`
	Body          struct {
		Name string `json:"name" validate:"required,min=1,max=100" doc:"Display name"`
	}
}

// VocabularyEntryIDInput addresses one vocabulary entry.
type VocabularyEntryIDInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Entry ID"`
}

// === Handlers ===

func (s *Server) handleListTags(ctx context.Context, input *AuthorizedInput) (*VocabularyListOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	tags, err := s.services.Tag.ListTags(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := &VocabularyListOutput{}
	out.Body.Entries = make([]VocabularyEntryResponse, len(tags))
	for i, t := range tags {
		out.Body.Entries[i] = mapTag(t)
	}
	out.Body.Total = len(tags)
	return out, nil
}

func (s *Server) handleCreateTag(ctx context.Context, input *CreateVocabularyEntryInput) (*VocabularyEntryOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	tag, err := s.services.Tag.CreateTag(ctx, userID, input.Body.Name)
	if err != nil {
		return nil, err
	}

	return &VocabularyEntryOutput{Body: mapTag(tag)}, nil
}

func (s *Server) handleDeleteTag(ctx context.Context, input *VocabularyEntryIDInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Tag.DeleteTag(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Tag deleted"}}, nil
}

func (s *Server) handleListItemTypes(ctx context.Context, input *AuthorizedInput) (*VocabularyListOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	types, err := s.services.ItemType.ListItemTypes(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := &VocabularyListOutput{}
	out.Body.Entries = make([]VocabularyEntryResponse, len(types))
	for i, t := range types {
		out.Body.Entries[i] = mapItemType(t)
	}
	out.Body.Total = len(types)
	return out, nil
}

func (s *Server) handleCreateItemType(ctx context.Context, input *CreateVocabularyEntryInput) (*VocabularyEntryOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	itemType, err := s.services.ItemType.CreateItemType(ctx, userID, input.Body.Name)
	if err != nil {
		return nil, err
	}

	return &VocabularyEntryOutput{Body: mapItemType(itemType)}, nil
}

func (s *Server) handleDeleteItemType(ctx context.Context, input *VocabularyEntryIDInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.ItemType.DeleteItemType(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Item type deleted"}}, nil
}

func mapTag(t *domain.Tag) VocabularyEntryResponse {
	return VocabularyEntryResponse{ID: t.ID, Name: t.Name, Slug: t.Slug, CreatedAt: t.CreatedAt}
}

func mapItemType(t *domain.ItemType) VocabularyEntryResponse {
	return VocabularyEntryResponse{ID: t.ID, Name: t.Name, Slug: t.Slug, CreatedAt: t.CreatedAt}
}
