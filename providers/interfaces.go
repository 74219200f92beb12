package providers

import (
	"context"
	"time"

	"weatherhub.app/models"
)

// WeatherProvider is the contract every upstream weather source implements.
// Implementations are stateless after construction and safe for concurrent
// use.
type WeatherProvider interface {
	// Info returns static identity and attribution for the provider.
	Info() models.ProviderInfo

	// Supports reports whether the provider can serve this location at all.
	// Unsupported locations are skipped by the orchestrator without
	// counting as a failure.
	Supports(location models.Location) bool

	// CurrentWeather fetches present conditions.
	CurrentWeather(ctx context.Context, location models.Location) (*models.CurrentWeather, error)

	// Forecast fetches up to days daily entries; days is clamped to the
	// provider's maximum.
	Forecast(ctx context.Context, location models.Location, days int) (*models.Forecast, error)

	// HourlyForecast fetches up to hours hourly entries; hours is clamped
	// to the provider's maximum.
	HourlyForecast(ctx context.Context, location models.Location, hours int) ([]models.HourlyForecast, error)
}

// FileLogger defines the interface for structured provider request logging
type FileLogger interface {
	LogRequest(providerName, operation, location string)
	LogSuccess(providerName, operation, location string, duration time.Duration)
	LogError(providerName, operation, location string, err error, duration time.Duration)
}

// clamp bounds a requested count to [1, max].
func clamp(value, max int) int {
	if value < 1 {
		return 1
	}
	if value > max {
		return max
	}
	return value
}
