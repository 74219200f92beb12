package providers

import (
	"context"
	"time"

	"weatherhub.app/errors"
	"weatherhub.app/metrics"
	"weatherhub.app/models"
)

// InstrumentedProvider records request counts, failures by error type and
// latency for every call to the wrapped provider.
type InstrumentedProvider struct {
	wrappedProvider WeatherProvider
	metrics         *metrics.ProviderMetrics
}

func NewInstrumentedProvider(provider WeatherProvider) *InstrumentedProvider {
	return &InstrumentedProvider{
		wrappedProvider: provider,
		metrics:         metrics.NewProviderMetrics(provider.Info().Name),
	}
}

func (p *InstrumentedProvider) Info() models.ProviderInfo {
	return p.wrappedProvider.Info()
}

func (p *InstrumentedProvider) Supports(location models.Location) bool {
	return p.wrappedProvider.Supports(location)
}

func (p *InstrumentedProvider) CurrentWeather(ctx context.Context, location models.Location) (*models.CurrentWeather, error) {
	return instrumented(p, "current", func() (*models.CurrentWeather, error) {
		return p.wrappedProvider.CurrentWeather(ctx, location)
	})
}

func (p *InstrumentedProvider) Forecast(ctx context.Context, location models.Location, days int) (*models.Forecast, error) {
	return instrumented(p, "forecast", func() (*models.Forecast, error) {
		return p.wrappedProvider.Forecast(ctx, location, days)
	})
}

func (p *InstrumentedProvider) HourlyForecast(ctx context.Context, location models.Location, hours int) ([]models.HourlyForecast, error) {
	return instrumented(p, "hourly", func() ([]models.HourlyForecast, error) {
		return p.wrappedProvider.HourlyForecast(ctx, location, hours)
	})
}

func (p *InstrumentedProvider) GetMetrics() *metrics.ProviderMetrics {
	return p.metrics
}

func instrumented[T any](p *InstrumentedProvider, operation string, call func() (T, error)) (T, error) {
	p.metrics.RecordRequest(operation)
	start := time.Now()

	result, err := call()
	p.metrics.RecordLatency(operation, time.Since(start).Seconds())

	if err != nil {
		p.metrics.RecordFailure(operation, string(errors.TypeOf(err)))
	}
	return result, err
}
