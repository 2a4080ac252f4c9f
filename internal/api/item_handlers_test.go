package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemCRUD(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerTestUser(t, "items@example.com")

	created := ts.createTestItem(t, token, "Blue Oxford Shirt", "top")
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "top", created.CarouselType)

	// Get it back.
	resp := ts.api.Get("/api/v1/items/"+created.ID, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var got testEnvelope[ItemResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
	assert.Equal(t, "Blue Oxford Shirt", got.Data.Name)

	// Rename it.
	resp = ts.api.Patch("/api/v1/items/"+created.ID, map[string]any{
		"name": "White Oxford Shirt",
	}, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
	assert.Equal(t, "White Oxford Shirt", got.Data.Name)

	// Delete it.
	resp = ts.api.Delete("/api/v1/items/"+created.ID, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/items/"+created.ID, "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestItemValidation(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerTestUser(t, "validation@example.com")

	// Missing name.
	resp := ts.api.Post("/api/v1/items", map[string]any{
		"type": "Shirts",
	}, "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)

	// Unknown carousel category.
	resp = ts.api.Post("/api/v1/items", map[string]any{
		"name":          "Cape",
		"type":          "Accessories",
		"carousel_type": "cape",
	}, "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestListItemsFiltering(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerTestUser(t, "filters@example.com")

	shirt := ts.createTestItem(t, token, "Linen Shirt", "top")
	ts.createTestItem(t, token, "Chinos", "bottom")
	ts.createTestItem(t, token, "Sneakers", "footwear")

	// Favorite the shirt.
	resp := ts.api.Put("/api/v1/items/"+shirt.ID+"/favorite", map[string]any{
		"favorite": true,
	}, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var list testEnvelope[struct {
		Items []ItemResponse `json:"items"`
		Total int            `json:"total"`
	}]

	resp = ts.api.Get("/api/v1/items", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &list))
	assert.Equal(t, 3, list.Data.Total)

	resp = ts.api.Get("/api/v1/items?favorites=true", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &list))
	require.Equal(t, 1, list.Data.Total)
	assert.Equal(t, shirt.ID, list.Data.Items[0].ID)

	resp = ts.api.Get("/api/v1/items?search=chino", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &list))
	require.Equal(t, 1, list.Data.Total)
	assert.Equal(t, "Chinos", list.Data.Items[0].Name)
}

func TestItemsAreScopedToOwner(t *testing.T) {
	ts := setupTestServer(t)
	aliceToken, _ := ts.registerTestUser(t, "alice-scope@example.com")
	bobToken, _ := ts.registerTestUser(t, "bob-scope@example.com")

	item := ts.createTestItem(t, aliceToken, "Alice's Coat", "top")

	resp := ts.api.Get("/api/v1/items/"+item.ID, "Authorization: Bearer "+bobToken)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = ts.api.Delete("/api/v1/items/"+item.ID, "Authorization: Bearer "+bobToken)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestDeleteItemRemovesOutfits(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerTestUser(t, "item-cascade@example.com")

	shirt := ts.createTestItem(t, token, "Shirt", "top")
	jeans := ts.createTestItem(t, token, "Jeans", "bottom")

	resp := ts.api.Post("/api/v1/outfits", map[string]any{
		"name":     "Casual Friday",
		"item_ids": []string{shirt.ID, jeans.ID},
	}, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var outfit testEnvelope[OutfitResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &outfit))

	resp = ts.api.Post("/api/v1/outfits", map[string]any{
		"name":     "Jeans Only",
		"item_ids": []string{jeans.ID},
	}, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var survivor testEnvelope[OutfitResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &survivor))

	// Deleting the shirt reports the outfits that went with it.
	resp = ts.api.Delete("/api/v1/items/"+shirt.ID, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var deletion testEnvelope[struct {
		ItemID           string   `json:"item_id"`
		DeletedOutfitIDs []string `json:"deleted_outfit_ids"`
	}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &deletion))
	assert.Equal(t, []string{outfit.Data.ID}, deletion.Data.DeletedOutfitIDs)

	resp = ts.api.Get("/api/v1/outfits/"+outfit.Data.ID, "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	// The outfit without the deleted item is untouched.
	resp = ts.api.Get("/api/v1/outfits/"+survivor.Data.ID, "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.Code)
}
