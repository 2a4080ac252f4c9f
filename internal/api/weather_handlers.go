package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/wardrobeapp/wardrobe-server/internal/service"
	"github.com/wardrobeapp/wardrobe-server/internal/weather"
)

func (s *Server) registerWeatherRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getWeatherForecast",
		Method:      http.MethodGet,
		Path:        "/api/v1/weather/forecast",
		Summary:     "Weather forecast",
		Description: "Returns a seven-day forecast for a location, for outfit planning",
		Tags:        []string{"Weather"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleWeatherForecast)
}

// ForecastInput contains the location query for the forecast.
type ForecastInput struct {
	Authorization string  `header:"Authorization"`
	Latitude      float64 `query:"latitude" doc:"Location latitude, -90 to 90"`
	Longitude     float64 `query:"longitude" doc:"Location longitude, -180 to 180"`
}

// ForecastOutput wraps the forecast for Huma.
type ForecastOutput struct {
	Body weather.Forecast
}

func (s *Server) handleWeatherForecast(ctx context.Context, input *ForecastInput) (*ForecastOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	forecast, err := s.services.Weather.Forecast(ctx, service.ForecastRequest{
		Latitude:  input.Latitude,
		Longitude: input.Longitude,
	})
	if err != nil {
		return nil, err
	}

	return &ForecastOutput{Body: *forecast}, nil
}
