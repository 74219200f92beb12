package providers

import (
	"context"
	"time"

	"weatherhub.app/models"
)

// WeatherLoggerDecorator logs every provider call with its outcome and
// duration, then passes the result through untouched.
type WeatherLoggerDecorator struct {
	wrappedProvider WeatherProvider
	logger          FileLogger
}

func NewWeatherLoggerDecorator(provider WeatherProvider, logger FileLogger) WeatherProvider {
	return &WeatherLoggerDecorator{
		wrappedProvider: provider,
		logger:          logger,
	}
}

func (d *WeatherLoggerDecorator) Info() models.ProviderInfo {
	return d.wrappedProvider.Info()
}

func (d *WeatherLoggerDecorator) Supports(location models.Location) bool {
	return d.wrappedProvider.Supports(location)
}

func (d *WeatherLoggerDecorator) CurrentWeather(ctx context.Context, location models.Location) (*models.CurrentWeather, error) {
	return logged(d, "current", location, func() (*models.CurrentWeather, error) {
		return d.wrappedProvider.CurrentWeather(ctx, location)
	})
}

func (d *WeatherLoggerDecorator) Forecast(ctx context.Context, location models.Location, days int) (*models.Forecast, error) {
	return logged(d, "forecast", location, func() (*models.Forecast, error) {
		return d.wrappedProvider.Forecast(ctx, location, days)
	})
}

func (d *WeatherLoggerDecorator) HourlyForecast(ctx context.Context, location models.Location, hours int) ([]models.HourlyForecast, error) {
	return logged(d, "hourly", location, func() ([]models.HourlyForecast, error) {
		return d.wrappedProvider.HourlyForecast(ctx, location, hours)
	})
}

func logged[T any](d *WeatherLoggerDecorator, operation string, location models.Location, call func() (T, error)) (T, error) {
	providerName := d.wrappedProvider.Info().Name
	d.logger.LogRequest(providerName, operation, location.String())
	startTime := time.Now()

	result, err := call()
	duration := time.Since(startTime)

	if err != nil {
		d.logger.LogError(providerName, operation, location.String(), err, duration)
		return result, err
	}

	d.logger.LogSuccess(providerName, operation, location.String(), duration)
	return result, nil
}
