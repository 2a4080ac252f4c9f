package api

import (
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/wardrobeapp/wardrobe-server/internal/auth"
	"github.com/wardrobeapp/wardrobe-server/internal/config"
	"github.com/wardrobeapp/wardrobe-server/internal/media/images"
	"github.com/wardrobeapp/wardrobe-server/internal/search"
	"github.com/wardrobeapp/wardrobe-server/internal/service"
	"github.com/wardrobeapp/wardrobe-server/internal/store/sqlite"
	"github.com/wardrobeapp/wardrobe-server/internal/validation"
	"github.com/wardrobeapp/wardrobe-server/internal/weather"
)

// testEnvelope mirrors the response envelope for unmarshalling in tests.
type testEnvelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
}

// testServer wraps the API server with a humatest client.
type testServer struct {
	*Server
	api          humatest.TestAPI
	tokenService *auth.TokenService
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	tmpDir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	st, err := sqlite.Open(tmpDir+"/test.db", logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	index, err := search.NewIndex(search.Options{DataPath: tmpDir, Logger: logger})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })
	st.SetSearchIndexer(index)

	itemPhotos, err := images.NewStorage(tmpDir, "items")
	require.NoError(t, err)
	outfitPhotos, err := images.NewStorage(tmpDir, "outfits")
	require.NoError(t, err)

	authKey, err := auth.LoadOrGenerateKey(tmpDir)
	require.NoError(t, err)
	tokenService, err := auth.NewTokenService(hex.EncodeToString(authKey), 15*time.Minute, 30*24*time.Hour)
	require.NoError(t, err)

	processor := images.NewProcessor(logger)
	validator := validation.New()

	sessionService := service.NewSessionService(st, tokenService, logger)
	authService := service.NewAuthService(st, tokenService, sessionService, validator, logger)
	closetService := service.NewClosetService(st, itemPhotos, processor, validator, logger)
	outfitService := service.NewOutfitService(st, outfitPhotos, processor, validator, logger)
	weatherClient := weather.New(config.WeatherConfig{BaseURL: "http://127.0.0.1:1"}, logger)
	t.Cleanup(weatherClient.Close)

	services := &Services{
		Auth:     authService,
		Session:  sessionService,
		Closet:   closetService,
		Outfit:   outfitService,
		Carousel: service.NewCarouselService(st, logger),
		Tag:      service.NewTagService(st, logger),
		ItemType: service.NewItemTypeService(st, logger),
		TryOn:    nil, // fashion API not configured in tests
		Weather:  service.NewWeatherService(weatherClient, validator, logger),
		Search:   service.NewSearchService(index, st, logger),
	}

	router := chi.NewRouter()

	humaConfig := huma.DefaultConfig("Wardrobe API Test", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	api := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		store:           st,
		services:        services,
		storage:         &StorageServices{ItemPhotos: itemPhotos, OutfitPhotos: outfitPhotos},
		router:          router,
		api:             api,
		logger:          logger,
		authRateLimiter: NewRateLimiter(1000, time.Minute, 500),
	}
	t.Cleanup(s.Close)

	s.registerRoutes()

	return &testServer{
		Server:       s,
		api:          humatest.Wrap(t, api),
		tokenService: tokenService,
	}
}

// registerTestUser registers a user and returns the access token and user ID.
func (ts *testServer) registerTestUser(t *testing.T, email string) (token string, userID string) {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":        email,
		"password":     "CorrectHorse9!",
		"display_name": "Test User",
		"client_name":  "test-client",
	})
	require.Equal(t, http.StatusOK, resp.Code, "Register failed: %s", resp.Body.String())

	var envelope testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	claims, err := ts.tokenService.VerifyAccessToken(envelope.Data.AccessToken)
	require.NoError(t, err)

	return envelope.Data.AccessToken, claims.UserID
}

// createTestItem creates an item over the API and returns its response.
func (ts *testServer) createTestItem(t *testing.T, token, name, category string) ItemResponse {
	t.Helper()

	resp := ts.api.Post("/api/v1/items", map[string]any{
		"name":          name,
		"type":          "Shirts",
		"carousel_type": category,
	}, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, "Create item failed: %s", resp.Body.String())

	var envelope testEnvelope[ItemResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	return envelope.Data
}
