package providers

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"weatherhub.app/errors"
	"weatherhub.app/geocoding"
	"weatherhub.app/models"
	"weatherhub.app/retry"
)

const (
	openMeteoMaxForecastDays = 16
	openMeteoMaxHourlyHours  = 168
)

// OpenMeteoProvider adapts the Open-Meteo forecast API. It needs no API key
// or identifying header and covers every location, which makes it the
// fallback of last resort.
type OpenMeteoProvider struct {
	baseURL  string
	client   *http.Client
	geocoder *geocoding.Service
	retryCfg retry.Config
}

// NewOpenMeteoProvider creates the global commercial provider.
func NewOpenMeteoProvider(baseURL string, client *http.Client, geocoder *geocoding.Service, retryCfg retry.Config) *OpenMeteoProvider {
	if baseURL == "" {
		baseURL = "https://api.open-meteo.com"
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &OpenMeteoProvider{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		client:   client,
		geocoder: geocoder,
		retryCfg: retryCfg,
	}
}

// Info returns the provider identity
func (p *OpenMeteoProvider) Info() models.ProviderInfo {
	return models.OpenMeteoProviderInfo
}

// Supports always returns true: Open-Meteo is global.
func (p *OpenMeteoProvider) Supports(models.Location) bool {
	return true
}

func (p *OpenMeteoProvider) get(ctx context.Context, url string, out any) error {
	_, err := retry.Do(ctx, p.retryCfg, errors.IsRetryable, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, getJSON(ctx, p.client, url, nil, out)
	})
	return err
}

// forecastURL builds the single forecast endpoint URL, varying only the
// field-list parameters. timezone=auto makes returned timestamps
// location-local.
func (p *OpenMeteoProvider) forecastURL(resolved models.ResolvedLocation, params url.Values) string {
	query := url.Values{}
	query.Set("latitude", fmt.Sprintf("%.4f", resolved.Latitude))
	query.Set("longitude", fmt.Sprintf("%.4f", resolved.Longitude))
	query.Set("timezone", "auto")
	for key, values := range params {
		for _, value := range values {
			query.Set(key, value)
		}
	}
	return fmt.Sprintf("%s/v1/forecast?%s", p.baseURL, query.Encode())
}

// Upstream response shapes. Daily and hourly blocks are parallel arrays
// indexed by day/hour.

type openMeteoResponse struct {
	Timezone string `json:"timezone"`
	Current  *struct {
		Time             string   `json:"time"`
		Temperature      *float64 `json:"temperature_2m"`
		RelativeHumidity *float64 `json:"relative_humidity_2m"`
		IsDay            *int     `json:"is_day"`
		WeatherCode      *int     `json:"weather_code"`
		WindSpeed        *float64 `json:"wind_speed_10m"`
		WindDirection    *float64 `json:"wind_direction_10m"`
	} `json:"current"`
	Daily *struct {
		Time             []string  `json:"time"`
		WeatherCode      []int     `json:"weather_code"`
		TemperatureMax   []float64 `json:"temperature_2m_max"`
		TemperatureMin   []float64 `json:"temperature_2m_min"`
		Sunrise          []string  `json:"sunrise"`
		Sunset           []string  `json:"sunset"`
		UVIndexMax       []float64 `json:"uv_index_max"`
		PrecipitationSum []float64 `json:"precipitation_sum"`
		PrecipitationMax []float64 `json:"precipitation_probability_max"`
	} `json:"daily"`
	Hourly *struct {
		Time                     []string  `json:"time"`
		Temperature              []float64 `json:"temperature_2m"`
		ApparentTemperature      []float64 `json:"apparent_temperature"`
		RelativeHumidity         []float64 `json:"relative_humidity_2m"`
		PrecipitationProbability []float64 `json:"precipitation_probability"`
		WeatherCode              []int     `json:"weather_code"`
		WindSpeed                []float64 `json:"wind_speed_10m"`
		WindDirection            []float64 `json:"wind_direction_10m"`
		IsDay                    []int     `json:"is_day"`
	} `json:"hourly"`
}

// CurrentWeather issues one request with the current field list.
func (p *OpenMeteoProvider) CurrentWeather(ctx context.Context, location models.Location) (*models.CurrentWeather, error) {
	resolved, err := p.geocoder.Resolve(ctx, location)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("current", "temperature_2m,relative_humidity_2m,is_day,weather_code,wind_speed_10m,wind_direction_10m")

	var decoded openMeteoResponse
	if err := p.get(ctx, p.forecastURL(resolved, params), &decoded); err != nil {
		return nil, err
	}
	if decoded.Current == nil || decoded.Current.Temperature == nil {
		return nil, errors.NewNoDataError()
	}
	current := decoded.Current

	if resolved.Timezone == "" {
		resolved.Timezone = decoded.Timezone
	}

	conditionCode := -1
	if current.WeatherCode != nil {
		conditionCode = *current.WeatherCode
	}
	condition := models.FromWMOCode(conditionCode)

	observedAt := time.Now()
	if parsed, err := parseLocalTime(current.Time, resolved.Timezone); err == nil {
		observedAt = parsed
	}

	return &models.CurrentWeather{
		Temperature:      models.Celsius(*current.Temperature),
		Condition:        condition,
		ConditionText:    condition.Description(),
		Humidity:         current.RelativeHumidity,
		WindSpeedKmh:     current.WindSpeed,
		WindDirectionDeg: current.WindDirection,
		IsDaytime:        current.IsDay == nil || *current.IsDay == 1,
		Location:         resolved,
		ObservedAt:       observedAt,
		Provider:         p.Info(),
	}, nil
}

// Forecast issues one request with the daily field list. The day count goes
// straight through as a query parameter; the server clamps on its side too.
func (p *OpenMeteoProvider) Forecast(ctx context.Context, location models.Location, days int) (*models.Forecast, error) {
	days = clamp(days, openMeteoMaxForecastDays)

	resolved, err := p.geocoder.Resolve(ctx, location)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("daily", "weather_code,temperature_2m_max,temperature_2m_min,sunrise,sunset,uv_index_max,precipitation_sum,precipitation_probability_max")
	params.Set("forecast_days", fmt.Sprintf("%d", days))

	var decoded openMeteoResponse
	if err := p.get(ctx, p.forecastURL(resolved, params), &decoded); err != nil {
		return nil, err
	}
	if decoded.Daily == nil || len(decoded.Daily.Time) == 0 {
		return nil, errors.NewNoDataError()
	}

	if resolved.Timezone == "" {
		resolved.Timezone = decoded.Timezone
	}

	daily := decoded.Daily
	entries := make([]models.DailyForecast, 0, len(daily.Time))
	for i, dateText := range daily.Time {
		// Parallel arrays: skip any day a required array is missing.
		if i >= len(daily.TemperatureMax) || i >= len(daily.TemperatureMin) || i >= len(daily.WeatherCode) {
			continue
		}
		date, err := time.Parse("2006-01-02", dateText)
		if err != nil {
			continue
		}

		condition := models.FromWMOCode(daily.WeatherCode[i])
		entry := models.DailyForecast{
			Date:          date,
			High:          models.Celsius(daily.TemperatureMax[i]),
			Low:           models.Celsius(daily.TemperatureMin[i]),
			Condition:     condition,
			ConditionText: condition.Description(),
		}
		if i < len(daily.PrecipitationMax) {
			probability := daily.PrecipitationMax[i]
			entry.PrecipitationProbability = &probability
		}
		if i < len(daily.PrecipitationSum) {
			amount := daily.PrecipitationSum[i]
			entry.PrecipitationAmountMm = &amount
		}
		if i < len(daily.UVIndexMax) {
			uv := daily.UVIndexMax[i]
			entry.UVIndex = &uv
		}
		if i < len(daily.Sunrise) {
			if sunrise, err := parseLocalTime(daily.Sunrise[i], resolved.Timezone); err == nil {
				entry.Sunrise = &sunrise
			}
		}
		if i < len(daily.Sunset) {
			if sunset, err := parseLocalTime(daily.Sunset[i], resolved.Timezone); err == nil {
				entry.Sunset = &sunset
			}
		}
		entries = append(entries, entry)
	}

	return &models.Forecast{
		Location:    resolved,
		Daily:       entries,
		Provider:    p.Info(),
		GeneratedAt: time.Now(),
	}, nil
}

// HourlyForecast issues one request with the hourly field list. The API is
// day-granular, so the hour count is rounded up to whole days and the
// surplus trimmed client-side.
func (p *OpenMeteoProvider) HourlyForecast(ctx context.Context, location models.Location, hours int) ([]models.HourlyForecast, error) {
	hours = clamp(hours, openMeteoMaxHourlyHours)

	resolved, err := p.geocoder.Resolve(ctx, location)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("hourly", "temperature_2m,apparent_temperature,relative_humidity_2m,precipitation_probability,weather_code,wind_speed_10m,wind_direction_10m,is_day")
	params.Set("forecast_days", fmt.Sprintf("%d", int(math.Ceil(float64(hours)/24))))

	var decoded openMeteoResponse
	if err := p.get(ctx, p.forecastURL(resolved, params), &decoded); err != nil {
		return nil, err
	}
	if decoded.Hourly == nil || len(decoded.Hourly.Time) == 0 {
		return nil, errors.NewNoDataError()
	}

	timezone := resolved.Timezone
	if timezone == "" {
		timezone = decoded.Timezone
	}

	hourly := decoded.Hourly
	entries := make([]models.HourlyForecast, 0, hours)
	for i, timeText := range hourly.Time {
		if len(entries) == hours {
			break
		}
		if i >= len(hourly.Temperature) || i >= len(hourly.WeatherCode) {
			continue
		}
		at, err := parseLocalTime(timeText, timezone)
		if err != nil {
			continue
		}

		condition := models.FromWMOCode(hourly.WeatherCode[i])
		entry := models.HourlyForecast{
			Time:          at,
			Temperature:   models.Celsius(hourly.Temperature[i]),
			Condition:     condition,
			ConditionText: condition.Description(),
			IsDaytime:     true,
		}
		if i < len(hourly.ApparentTemperature) {
			apparent := models.Celsius(hourly.ApparentTemperature[i])
			entry.ApparentTemperature = &apparent
		}
		if i < len(hourly.RelativeHumidity) {
			humidity := hourly.RelativeHumidity[i]
			entry.Humidity = &humidity
		}
		if i < len(hourly.PrecipitationProbability) {
			probability := hourly.PrecipitationProbability[i]
			entry.PrecipitationProbability = &probability
		}
		if i < len(hourly.WindSpeed) {
			speed := hourly.WindSpeed[i]
			entry.WindSpeedKmh = &speed
		}
		if i < len(hourly.WindDirection) {
			direction := hourly.WindDirection[i]
			entry.WindDirectionDeg = &direction
		}
		if i < len(hourly.IsDay) {
			entry.IsDaytime = hourly.IsDay[i] == 1
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// parseLocalTime parses Open-Meteo's local timestamps ("2026-08-29T14:00")
// in the response timezone.
func parseLocalTime(value, timezone string) (time.Time, error) {
	location := time.UTC
	if timezone != "" {
		if loaded, err := time.LoadLocation(timezone); err == nil {
			location = loaded
		}
	}
	return time.ParseInLocation("2006-01-02T15:04", value, location)
}
