// Package weather fetches daily forecasts for the home screen. The upstream
// is the open-meteo daily API; responses are reduced to the seven-day
// min/max plus an icon category the client can render directly.
package weather

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/wardrobeapp/wardrobe-server/internal/config"
	"github.com/wardrobeapp/wardrobe-server/internal/ratelimit"
)

const (
	forecastDays   = 7
	defaultTimeout = 15 * time.Second

	// The forecast upstream is free-tier; one request per second with a
	// small burst is well under its limits.
	limiterRPS   = 1.0
	limiterBurst = 3
	limiterKey   = "forecast"
)

// ErrUpstream means the forecast service returned a non-success status.
var ErrUpstream = errors.New("weather: forecast service error")

// Icon is the client-facing weather icon category.
type Icon string

const (
	IconClear        Icon = "clear"
	IconPartlyCloudy Icon = "partly-cloudy"
	IconCloudy       Icon = "cloudy"
	IconFog          Icon = "fog"
	IconRain         Icon = "rain"
	IconSnow         Icon = "snow"
	IconThunderstorm Icon = "thunderstorm"
)

// Day is one day of forecast.
type Day struct {
	Date        string  `json:"date"` // YYYY-MM-DD
	TempMax     float64 `json:"temp_max"`
	TempMin     float64 `json:"temp_min"`
	WeatherCode int     `json:"weather_code"`
	Icon        Icon    `json:"icon"`
}

// Forecast is a seven-day outlook for one location.
type Forecast struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Days      []Day   `json:"days"`
}

// Client fetches forecasts from the open-meteo daily API.
type Client struct {
	http    *http.Client
	limiter *ratelimit.KeyedRateLimiter
	logger  *slog.Logger
	baseURL string
}

// New creates a weather client from configuration.
func New(cfg config.WeatherConfig, logger *slog.Logger) *Client {
	return &Client{
		http:    &http.Client{Timeout: defaultTimeout},
		limiter: ratelimit.New(limiterRPS, limiterBurst),
		logger:  logger,
		baseURL: cfg.BaseURL,
	}
}

// Close releases resources held by the client.
func (c *Client) Close() {
	c.limiter.Stop()
}

// upstream response shape (open-meteo daily endpoint).
type forecastResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Daily     struct {
		Time        []string  `json:"time"`
		WeatherCode []int     `json:"weather_code"`
		TempMax     []float64 `json:"temperature_2m_max"`
		TempMin     []float64 `json:"temperature_2m_min"`
	} `json:"daily"`
}

// Forecast fetches the seven-day forecast for a coordinate.
func (c *Client) Forecast(ctx context.Context, lat, lon float64) (*Forecast, error) {
	if err := c.limiter.Wait(ctx, limiterKey); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%.4f", lat))
	q.Set("longitude", fmt.Sprintf("%.4f", lon))
	q.Set("daily", "weather_code,temperature_2m_max,temperature_2m_min")
	q.Set("forecast_days", fmt.Sprintf("%d", forecastDays))
	q.Set("timezone", "auto")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/forecast?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Wardrobe/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var fr forecastResponse
	if err := json.Unmarshal(body, &fr); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	forecast := &Forecast{
		Latitude:  fr.Latitude,
		Longitude: fr.Longitude,
		Days:      make([]Day, 0, len(fr.Daily.Time)),
	}
	for i, date := range fr.Daily.Time {
		if i >= len(fr.Daily.WeatherCode) || i >= len(fr.Daily.TempMax) || i >= len(fr.Daily.TempMin) {
			break
		}
		forecast.Days = append(forecast.Days, Day{
			Date:        date,
			TempMax:     fr.Daily.TempMax[i],
			TempMin:     fr.Daily.TempMin[i],
			WeatherCode: fr.Daily.WeatherCode[i],
			Icon:        IconForCode(fr.Daily.WeatherCode[i]),
		})
	}

	c.logger.Debug("fetched forecast", "lat", lat, "lon", lon, "days", len(forecast.Days))
	return forecast, nil
}

// IconForCode maps a WMO weather code to an icon category.
func IconForCode(code int) Icon {
	switch {
	case code == 0:
		return IconClear
	case code <= 2:
		return IconPartlyCloudy
	case code == 3:
		return IconCloudy
	case code == 45 || code == 48:
		return IconFog
	case code >= 51 && code <= 67:
		return IconRain
	case code >= 71 && code <= 77:
		return IconSnow
	case code >= 80 && code <= 82:
		return IconRain
	case code >= 85 && code <= 86:
		return IconSnow
	case code >= 95:
		return IconThunderstorm
	default:
		return IconCloudy
	}
}
