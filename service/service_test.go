package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weatherhub.app/errors"
	"weatherhub.app/models"
	"weatherhub.app/providers"
)

// fakeProvider scripts per-call behavior for orchestration tests.
type fakeProvider struct {
	name     string
	supports bool
	current  func() (*models.CurrentWeather, error)
	calls    atomic.Int32
}

func (f *fakeProvider) Info() models.ProviderInfo {
	return models.ProviderInfo{Name: f.name}
}

func (f *fakeProvider) Supports(models.Location) bool { return f.supports }

func (f *fakeProvider) CurrentWeather(context.Context, models.Location) (*models.CurrentWeather, error) {
	f.calls.Add(1)
	return f.current()
}

func (f *fakeProvider) Forecast(context.Context, models.Location, int) (*models.Forecast, error) {
	f.calls.Add(1)
	weather, err := f.current()
	if err != nil {
		return nil, err
	}
	return &models.Forecast{Provider: models.ProviderInfo{Name: f.name}, Daily: []models.DailyForecast{{High: weather.Temperature}}}, nil
}

func (f *fakeProvider) HourlyForecast(context.Context, models.Location, int) ([]models.HourlyForecast, error) {
	f.calls.Add(1)
	weather, err := f.current()
	if err != nil {
		return nil, err
	}
	return []models.HourlyForecast{{Temperature: weather.Temperature}}, nil
}

func succeeding(name string, celsius float64) *fakeProvider {
	return &fakeProvider{
		name:     name,
		supports: true,
		current: func() (*models.CurrentWeather, error) {
			return &models.CurrentWeather{
				Temperature: models.Celsius(celsius),
				Provider:    models.ProviderInfo{Name: name},
			}, nil
		},
	}
}

func failing(name string, err error) *fakeProvider {
	return &fakeProvider{
		name:     name,
		supports: true,
		current:  func() (*models.CurrentWeather, error) { return nil, err },
	}
}

func unsupported(name string) *fakeProvider {
	provider := succeeding(name, 0)
	provider.supports = false
	return provider
}

var testLocation = models.NewCity("Seattle, WA")

func TestWeatherService_CurrentWeather(t *testing.T) {
	t.Run("FirstSupportedProviderWins", func(t *testing.T) {
		first := succeeding("first", 10)
		second := succeeding("second", 20)
		svc := NewWeatherService([]providers.WeatherProvider{first, second})

		weather, err := svc.CurrentWeather(context.Background(), testLocation)

		require.NoError(t, err)
		assert.Equal(t, "first", weather.Provider.Name)
		assert.Equal(t, int32(0), second.calls.Load(), "second provider must not be consulted")
	})

	t.Run("UnsupportedSkippedThenFailedThenSuccess", func(t *testing.T) {
		skipped := unsupported("skipped")
		broken := failing("broken", errors.NewAPIError(500, "upstream down"))
		working := succeeding("working", 15)
		svc := NewWeatherService([]providers.WeatherProvider{skipped, broken, working})

		weather, err := svc.CurrentWeather(context.Background(), testLocation)

		require.NoError(t, err)
		assert.Equal(t, "working", weather.Provider.Name)
		assert.Equal(t, int32(0), skipped.calls.Load())
		assert.Equal(t, int32(1), broken.calls.Load())
	})

	t.Run("LastFailurePropagates", func(t *testing.T) {
		firstErr := errors.NewAPIError(500, "first down")
		secondErr := errors.NewRateLimitedError()
		svc := NewWeatherService([]providers.WeatherProvider{
			failing("first", firstErr),
			failing("second", secondErr),
		})

		_, err := svc.CurrentWeather(context.Background(), testLocation)

		assert.ErrorIs(t, err, secondErr, "the most recent provider's failure wins")
	})

	t.Run("AllSkippedYieldsNoProvider", func(t *testing.T) {
		svc := NewWeatherService([]providers.WeatherProvider{unsupported("a"), unsupported("b")})

		_, err := svc.CurrentWeather(context.Background(), testLocation)

		assert.ErrorIs(t, err, errors.NewNoProviderError())
	})

	t.Run("EmptyProviderList", func(t *testing.T) {
		svc := NewWeatherService(nil)

		_, err := svc.CurrentWeather(context.Background(), testLocation)

		assert.ErrorIs(t, err, errors.NewNoProviderError())
	})
}

func TestWeatherService_FallbackAppliesToAllOperations(t *testing.T) {
	broken := failing("broken", errors.NewAPIError(503, ""))
	working := succeeding("working", 21)

	svc := NewWeatherService([]providers.WeatherProvider{broken, working})

	t.Run("Forecast", func(t *testing.T) {
		forecast, err := svc.Forecast(context.Background(), testLocation, 5)
		require.NoError(t, err)
		assert.Equal(t, "working", forecast.Provider.Name)
	})

	t.Run("Hourly", func(t *testing.T) {
		hourly, err := svc.HourlyForecast(context.Background(), testLocation, 24)
		require.NoError(t, err)
		require.Len(t, hourly, 1)
		assert.Equal(t, models.Celsius(21), hourly[0].Temperature)
	})
}

func TestWeatherService_WeatherUpdates(t *testing.T) {
	t.Run("EmitsImmediatelyThenOnInterval", func(t *testing.T) {
		provider := succeeding("poller", 18)
		svc := NewWeatherService([]providers.WeatherProvider{provider})

		sub := svc.WeatherUpdates(context.Background(), testLocation, 10*time.Millisecond)
		defer sub.Stop()

		for i := 0; i < 3; i++ {
			select {
			case weather, ok := <-sub.Updates():
				require.True(t, ok)
				assert.Equal(t, models.Celsius(18), weather.Temperature)
			case <-time.After(time.Second):
				t.Fatalf("timed out waiting for emission %d", i)
			}
		}
	})

	t.Run("FailedPollsAreSkippedSilently", func(t *testing.T) {
		var calls atomic.Int32
		provider := &fakeProvider{
			name:     "flaky",
			supports: true,
			current: func() (*models.CurrentWeather, error) {
				if calls.Add(1) == 2 {
					return nil, errors.NewAPIError(500, "blip")
				}
				return &models.CurrentWeather{Temperature: models.Celsius(float64(calls.Load()))}, nil
			},
		}
		svc := NewWeatherService([]providers.WeatherProvider{provider})

		sub := svc.WeatherUpdates(context.Background(), testLocation, 5*time.Millisecond)
		defer sub.Stop()

		first := <-sub.Updates()
		assert.Equal(t, models.Celsius(1), first.Temperature)

		// Poll 2 fails and is swallowed; poll 3 comes through.
		select {
		case next := <-sub.Updates():
			assert.GreaterOrEqual(t, next.Temperature.Celsius(), 3.0)
		case <-time.After(time.Second):
			t.Fatal("stream did not recover after a failed poll")
		}
	})

	t.Run("StopClosesStream", func(t *testing.T) {
		provider := succeeding("poller", 18)
		svc := NewWeatherService([]providers.WeatherProvider{provider})

		sub := svc.WeatherUpdates(context.Background(), testLocation, 5*time.Millisecond)
		<-sub.Updates()

		sub.Stop()
		sub.Stop() // idempotent

		assert.Eventually(t, func() bool {
			select {
			case _, ok := <-sub.Updates():
				return !ok
			default:
				return false
			}
		}, time.Second, time.Millisecond, "channel must close after Stop")
	})

	t.Run("ContextCancellationStopsStream", func(t *testing.T) {
		provider := succeeding("poller", 18)
		svc := NewWeatherService([]providers.WeatherProvider{provider})

		ctx, cancel := context.WithCancel(context.Background())
		sub := svc.WeatherUpdates(ctx, testLocation, 5*time.Millisecond)
		<-sub.Updates()

		cancel()

		assert.Eventually(t, func() bool {
			select {
			case _, ok := <-sub.Updates():
				return !ok
			default:
				return false
			}
		}, time.Second, time.Millisecond)
	})

	t.Run("DefaultIntervalUsedForNonPositive", func(t *testing.T) {
		provider := succeeding("poller", 18)
		svc := NewWeatherService([]providers.WeatherProvider{provider}).
			WithUpdateInterval(10 * time.Millisecond)

		sub := svc.WeatherUpdates(context.Background(), testLocation, 0)
		defer sub.Stop()

		// Immediate emission plus at least one interval emission proves the
		// configured default was applied rather than the 3600s fallback.
		<-sub.Updates()
		select {
		case <-sub.Updates():
		case <-time.After(time.Second):
			t.Fatal("default interval was not applied")
		}
	})
}
