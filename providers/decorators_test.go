package providers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weatherhub.app/config"
	"weatherhub.app/errors"
	"weatherhub.app/models"
)

// stubProvider is a canned-response provider for decorator and orchestration
// tests.
type stubProvider struct {
	info      models.ProviderInfo
	supports  bool
	weather   *models.CurrentWeather
	forecast  *models.Forecast
	hourly    []models.HourlyForecast
	err       error
	callCount int
}

func (s *stubProvider) Info() models.ProviderInfo { return s.info }

func (s *stubProvider) Supports(models.Location) bool { return s.supports }

func (s *stubProvider) CurrentWeather(context.Context, models.Location) (*models.CurrentWeather, error) {
	s.callCount++
	return s.weather, s.err
}

func (s *stubProvider) Forecast(context.Context, models.Location, int) (*models.Forecast, error) {
	s.callCount++
	return s.forecast, s.err
}

func (s *stubProvider) HourlyForecast(context.Context, models.Location, int) ([]models.HourlyForecast, error) {
	s.callCount++
	return s.hourly, s.err
}

type recordingLogger struct {
	requests  []string
	successes []string
	failures  []string
}

func (l *recordingLogger) LogRequest(provider, operation, location string) {
	l.requests = append(l.requests, provider+"/"+operation+"/"+location)
}

func (l *recordingLogger) LogSuccess(provider, operation, location string, _ time.Duration) {
	l.successes = append(l.successes, provider+"/"+operation+"/"+location)
}

func (l *recordingLogger) LogError(provider, operation, location string, _ error, _ time.Duration) {
	l.failures = append(l.failures, provider+"/"+operation+"/"+location)
}

func TestWeatherLoggerDecorator(t *testing.T) {
	location := models.NewCity("Seattle, WA")

	t.Run("LogsSuccess", func(t *testing.T) {
		logger := &recordingLogger{}
		stub := &stubProvider{
			info:    models.ProviderInfo{Name: "Stub"},
			weather: &models.CurrentWeather{Temperature: models.Celsius(20)},
		}

		decorated := NewWeatherLoggerDecorator(stub, logger)
		weather, err := decorated.CurrentWeather(context.Background(), location)

		require.NoError(t, err)
		assert.Equal(t, models.Celsius(20), weather.Temperature)
		assert.Equal(t, []string{"Stub/current/Seattle, WA"}, logger.requests)
		assert.Equal(t, []string{"Stub/current/Seattle, WA"}, logger.successes)
		assert.Empty(t, logger.failures)
	})

	t.Run("LogsFailure", func(t *testing.T) {
		logger := &recordingLogger{}
		stub := &stubProvider{
			info: models.ProviderInfo{Name: "Stub"},
			err:  errors.NewRateLimitedError(),
		}

		decorated := NewWeatherLoggerDecorator(stub, logger)
		_, err := decorated.Forecast(context.Background(), location, 5)

		assert.ErrorIs(t, err, errors.NewRateLimitedError())
		assert.Equal(t, []string{"Stub/forecast/Seattle, WA"}, logger.failures)
		assert.Empty(t, logger.successes)
	})

	t.Run("DelegatesIdentity", func(t *testing.T) {
		stub := &stubProvider{info: models.ProviderInfo{Name: "Stub"}, supports: true}
		decorated := NewWeatherLoggerDecorator(stub, &recordingLogger{})

		assert.Equal(t, "Stub", decorated.Info().Name)
		assert.True(t, decorated.Supports(location))
	})
}

func TestInstrumentedProvider(t *testing.T) {
	location := models.NewCoordinates(47.6, -122.3)

	t.Run("CountsRequestsAndFailures", func(t *testing.T) {
		stub := &stubProvider{
			info:   models.ProviderInfo{Name: "Instrumented-Stub"},
			hourly: []models.HourlyForecast{},
		}
		instrumented := NewInstrumentedProvider(stub)

		_, err := instrumented.HourlyForecast(context.Background(), location, 24)
		require.NoError(t, err)

		stub.err = errors.NewAPIError(500, "boom")
		_, err = instrumented.HourlyForecast(context.Background(), location, 24)
		require.Error(t, err)

		stats := instrumented.GetMetrics().GetStats()
		assert.Equal(t, int64(2), stats["requests"])
		assert.Equal(t, int64(1), stats["failures"])
	})

	t.Run("PassesResultsThrough", func(t *testing.T) {
		stub := &stubProvider{
			info:     models.ProviderInfo{Name: "Instrumented-Stub-2"},
			forecast: &models.Forecast{Provider: models.OpenMeteoProviderInfo},
		}
		instrumented := NewInstrumentedProvider(stub)

		forecast, err := instrumented.Forecast(context.Background(), location, 3)
		require.NoError(t, err)
		assert.Equal(t, models.OpenMeteoProviderInfo, forecast.Provider)
	})
}

func TestProviderManager(t *testing.T) {
	newManager := func(t *testing.T, strategy config.ProviderStrategy) *ProviderManager {
		t.Helper()
		manager, err := NewProviderManagerBuilder().
			WithUserAgent("(weatherhub tests, dev@weatherhub.app)").
			WithStrategy(strategy).
			WithLoggingEnabled(false).
			WithMetricsEnabled(false).
			Build()
		require.NoError(t, err)
		return manager
	}

	t.Run("AutomaticOrdersUSFirst", func(t *testing.T) {
		manager := newManager(t, "automatic")
		providers := manager.Providers()
		require.Len(t, providers, 2)
		assert.Equal(t, models.NWSProviderInfo, providers[0].Info())
		assert.Equal(t, models.OpenMeteoProviderInfo, providers[1].Info())
	})

	t.Run("USOnly", func(t *testing.T) {
		providers := newManager(t, "us_only").Providers()
		require.Len(t, providers, 1)
		assert.Equal(t, models.NWSProviderInfo, providers[0].Info())
	})

	t.Run("GlobalOnly", func(t *testing.T) {
		providers := newManager(t, "global_only").Providers()
		require.Len(t, providers, 1)
		assert.Equal(t, models.OpenMeteoProviderInfo, providers[0].Info())
	})

	t.Run("UnknownStrategyFails", func(t *testing.T) {
		_, err := NewProviderManagerBuilder().
			WithStrategy("fastest").
			WithLoggingEnabled(false).
			Build()
		assert.Error(t, err)
	})

	t.Run("ProviderInfoSnapshot", func(t *testing.T) {
		info := newManager(t, "automatic").GetProviderInfo()
		assert.Equal(t, "automatic", info["strategy"])
		assert.Equal(t, []string{"National Weather Service", "Open-Meteo"}, info["providers"])
	})
}
