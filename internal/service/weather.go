package service

import (
	"context"
	"errors"
	"log/slog"

	domainerrors "github.com/wardrobeapp/wardrobe-server/internal/errors"
	"github.com/wardrobeapp/wardrobe-server/internal/validation"
	"github.com/wardrobeapp/wardrobe-server/internal/weather"
)

// WeatherService exposes the forecast the home screen shows next to the
// scheduled outfits.
type WeatherService struct {
	client    *weather.Client
	validator *validation.Validator
	logger    *slog.Logger
}

// NewWeatherService creates a new weather service.
func NewWeatherService(client *weather.Client, validator *validation.Validator, logger *slog.Logger) *WeatherService {
	return &WeatherService{client: client, validator: validator, logger: logger}
}

// ForecastRequest is a coordinate to fetch the forecast for.
type ForecastRequest struct {
	Latitude  float64 `json:"latitude" validate:"latitude"`
	Longitude float64 `json:"longitude" validate:"longitude"`
}

// Forecast returns the seven-day forecast for a coordinate.
func (s *WeatherService) Forecast(ctx context.Context, req ForecastRequest) (*weather.Forecast, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	forecast, err := s.client.Forecast(ctx, req.Latitude, req.Longitude)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, domainerrors.UpstreamTimeout("forecast service did not respond in time").WithCause(err)
		}
		return nil, domainerrors.UpstreamFailed("forecast service unavailable").WithCause(err)
	}
	return forecast, nil
}
