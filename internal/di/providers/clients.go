package providers

import (
	"github.com/samber/do/v2"

	"github.com/wardrobeapp/wardrobe-server/internal/config"
	"github.com/wardrobeapp/wardrobe-server/internal/fashion"
	"github.com/wardrobeapp/wardrobe-server/internal/logger"
	"github.com/wardrobeapp/wardrobe-server/internal/weather"
)

// FashionClientHandle wraps the fashion API client. Client is nil when no
// API key is configured; the try-on endpoints then report unavailable.
type FashionClientHandle struct {
	Client *fashion.Client
}

// Shutdown implements do.Shutdownable.
func (h *FashionClientHandle) Shutdown() error {
	if h.Client != nil {
		h.Client.Close()
	}
	return nil
}

// ProvideFashionClient provides the remote try-on image client.
func ProvideFashionClient(i do.Injector) (*FashionClientHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Fashion.APIKey == "" {
		log.Info("Fashion API key not configured, virtual try-on disabled")
		return &FashionClientHandle{}, nil
	}

	client := fashion.New(cfg.Fashion, log.Logger)
	log.Info("Fashion API client initialized", "base_url", cfg.Fashion.BaseURL)

	return &FashionClientHandle{Client: client}, nil
}

// WeatherClientHandle wraps the forecast client with shutdown capability.
type WeatherClientHandle struct {
	*weather.Client
}

// Shutdown implements do.Shutdownable.
func (h *WeatherClientHandle) Shutdown() error {
	h.Close()
	return nil
}

// ProvideWeatherClient provides the forecast API client.
func ProvideWeatherClient(i do.Injector) (*WeatherClientHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return &WeatherClientHandle{Client: weather.New(cfg.Weather, log.Logger)}, nil
}
