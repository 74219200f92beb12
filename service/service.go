// Package service implements the weather client orchestrator: it consults
// the strategy-ordered provider list and returns the first success.
package service

import (
	"context"
	"log/slog"
	"time"

	"weatherhub.app/errors"
	"weatherhub.app/models"
	"weatherhub.app/providers"
)

const defaultUpdateInterval = 3600 * time.Second

// WeatherService is stateless after construction and safe for unlimited
// concurrent callers.
type WeatherService struct {
	providers      []providers.WeatherProvider
	updateInterval time.Duration
}

// NewWeatherService creates an orchestrator over an ordered provider list.
func NewWeatherService(providerList []providers.WeatherProvider) *WeatherService {
	return &WeatherService{
		providers:      providerList,
		updateInterval: defaultUpdateInterval,
	}
}

// NewWeatherServiceFromManager wires the orchestrator to a provider manager.
func NewWeatherServiceFromManager(manager *providers.ProviderManager) *WeatherService {
	return NewWeatherService(manager.Providers())
}

// WithUpdateInterval overrides the default polling interval for
// WeatherUpdates subscriptions.
func (s *WeatherService) WithUpdateInterval(interval time.Duration) *WeatherService {
	if interval > 0 {
		s.updateInterval = interval
	}
	return s
}

// CurrentWeather returns present conditions from the first provider that
// supports the location and succeeds.
func (s *WeatherService) CurrentWeather(ctx context.Context, location models.Location) (*models.CurrentWeather, error) {
	return fallback(ctx, s.providers, location, "current",
		func(ctx context.Context, provider providers.WeatherProvider) (*models.CurrentWeather, error) {
			return provider.CurrentWeather(ctx, location)
		})
}

// Forecast returns a multi-day forecast with the same provider fallback as
// CurrentWeather.
func (s *WeatherService) Forecast(ctx context.Context, location models.Location, days int) (*models.Forecast, error) {
	return fallback(ctx, s.providers, location, "forecast",
		func(ctx context.Context, provider providers.WeatherProvider) (*models.Forecast, error) {
			return provider.Forecast(ctx, location, days)
		})
}

// HourlyForecast returns hour-granular entries with the same provider
// fallback as CurrentWeather.
func (s *WeatherService) HourlyForecast(ctx context.Context, location models.Location, hours int) ([]models.HourlyForecast, error) {
	return fallback(ctx, s.providers, location, "hourly",
		func(ctx context.Context, provider providers.WeatherProvider) ([]models.HourlyForecast, error) {
			return provider.HourlyForecast(ctx, location, hours)
		})
}

// fallback tries each provider in list order. Providers that do not support
// the location are skipped without counting as failures. The last failure
// propagates; if no provider was even attempted the caller gets
// NoProviderError.
func fallback[T any](ctx context.Context, providerList []providers.WeatherProvider, location models.Location, operation string, call func(context.Context, providers.WeatherProvider) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for _, provider := range providerList {
		if !provider.Supports(location) {
			slog.Debug("provider skipped", "provider", provider.Info().Name, "operation", operation, "location", location.String())
			continue
		}

		result, err := call(ctx, provider)
		if err == nil {
			return result, nil
		}

		slog.Info("provider failed", "provider", provider.Info().Name, "operation", operation, "location", location.String(), "error", err)
		lastErr = err
	}

	if lastErr == nil {
		return zero, errors.NewNoProviderError()
	}
	return zero, lastErr
}
