package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardrobeapp/wardrobe-server/internal/search"
)

func TestSearchFindsItemsAndOutfits(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerTestUser(t, "search@example.com")

	shirt := ts.createTestItem(t, token, "Linen Summer Shirt", "top")
	ts.createTestItem(t, token, "Wool Winter Coat", "top")
	ts.createTestOutfit(t, token, "Summer Picnic", []string{shirt.ID})

	resp := ts.api.Get("/api/v1/search?q=summer", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[search.Result]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, uint64(2), envelope.Data.Total)

	// Restrict to items only.
	resp = ts.api.Get("/api/v1/search?q=summer&types=item", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.Equal(t, uint64(1), envelope.Data.Total)
	assert.Equal(t, shirt.ID, envelope.Data.Hits[0].ID)
}

func TestSearchScopedToUser(t *testing.T) {
	ts := setupTestServer(t)
	aliceToken, _ := ts.registerTestUser(t, "alice-search@example.com")
	bobToken, _ := ts.registerTestUser(t, "bob-search@example.com")

	ts.createTestItem(t, aliceToken, "Velvet Blazer", "top")

	resp := ts.api.Get("/api/v1/search?q=velvet", "Authorization: Bearer "+bobToken)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[search.Result]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Zero(t, envelope.Data.Total)
}

func TestSearchReflectsDeletes(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerTestUser(t, "stale@example.com")

	item := ts.createTestItem(t, token, "Corduroy Pants", "bottom")

	resp := ts.api.Delete("/api/v1/items/"+item.ID, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/search?q=corduroy", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[search.Result]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Zero(t, envelope.Data.Total)
}

func TestReindexEndpoint(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerTestUser(t, "reindex@example.com")

	ts.createTestItem(t, token, "Denim Jacket", "top")

	resp := ts.api.Post("/api/v1/search/reindex", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = ts.api.Get("/api/v1/search?q=denim", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[search.Result]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, uint64(1), envelope.Data.Total)
}

func TestHealthEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[HealthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "healthy", envelope.Data.Status)
	assert.Contains(t, envelope.Data.Components, "database")
	assert.Contains(t, envelope.Data.Components, "search")
}

func TestVocabularyEndpoints(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerTestUser(t, "vocab@example.com")

	// Defaults are seeded at registration.
	var list testEnvelope[struct {
		Entries []VocabularyEntryResponse `json:"entries"`
		Total   int                       `json:"total"`
	}]

	resp := ts.api.Get("/api/v1/item-types", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &list))
	assert.NotZero(t, list.Data.Total)

	// Create a tag.
	resp = ts.api.Post("/api/v1/tags", map[string]any{
		"name": "Slow Fashion",
	}, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var tag testEnvelope[VocabularyEntryResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &tag))
	assert.Equal(t, "slow-fashion", tag.Data.Slug)

	// Duplicate (case-insensitive) conflicts.
	resp = ts.api.Post("/api/v1/tags", map[string]any{
		"name": "SLOW FASHION",
	}, "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusConflict, resp.Code)

	// The reserved type sentinel cannot be created.
	resp = ts.api.Post("/api/v1/item-types", map[string]any{
		"name": "All",
	}, "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)

	// Delete the tag.
	resp = ts.api.Delete("/api/v1/tags/"+tag.Data.ID, "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestTryOnUnavailableWithoutFashionAPI(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerTestUser(t, "tryon@example.com")

	resp := ts.api.Post("/api/v1/tryon/dress-up", map[string]any{
		"item_ids": []string{"itm_x"},
	}, "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
}
