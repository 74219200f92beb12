package providers

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"weatherhub.app/errors"
	"weatherhub.app/geocoding"
	"weatherhub.app/models"
	"weatherhub.app/retry"
)

const (
	nwsMaxForecastDays  = 7
	nwsMaxHourlyPeriods = 156
	mphToKmh            = 1.60934
)

// compassDegrees maps the 16 compass points reported by NWS to bearings.
var compassDegrees = map[string]float64{
	"N": 0, "NNE": 22.5, "NE": 45, "ENE": 67.5,
	"E": 90, "ESE": 112.5, "SE": 135, "SSE": 157.5,
	"S": 180, "SSW": 202.5, "SW": 225, "WSW": 247.5,
	"W": 270, "WNW": 292.5, "NW": 315, "NNW": 337.5,
}

// NWSProvider adapts the US National Weather Service API (api.weather.gov).
// Every request carries the configured identifying User-Agent; the upstream
// rejects anonymous clients.
type NWSProvider struct {
	baseURL   string
	userAgent string
	client    *http.Client
	geocoder  *geocoding.Service
	retryCfg  retry.Config
}

// NewNWSProvider creates the US government provider.
func NewNWSProvider(baseURL, userAgent string, client *http.Client, geocoder *geocoding.Service, retryCfg retry.Config) *NWSProvider {
	if baseURL == "" {
		baseURL = "https://api.weather.gov"
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &NWSProvider{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		userAgent: userAgent,
		client:    client,
		geocoder:  geocoder,
		retryCfg:  retryCfg,
	}
}

// Info returns the provider identity
func (p *NWSProvider) Info() models.ProviderInfo {
	return models.NWSProviderInfo
}

// Supports reports whether the location is plausibly inside US coverage.
func (p *NWSProvider) Supports(location models.Location) bool {
	return location.IsLikelyUS()
}

func (p *NWSProvider) headers() map[string]string {
	return map[string]string{
		"User-Agent": p.userAgent,
		"Accept":     "application/geo+json",
	}
}

// get fetches one resource with the shared retry policy.
func (p *NWSProvider) get(ctx context.Context, url string, out any) error {
	_, err := retry.Do(ctx, p.retryCfg, errors.IsRetryable, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, getJSON(ctx, p.client, url, p.headers(), out)
	})
	return err
}

// Upstream response shapes (geo+json)

type nwsMeasurement struct {
	Value *float64 `json:"value"`
}

type nwsPointsResponse struct {
	Properties struct {
		Forecast            string `json:"forecast"`
		ForecastHourly      string `json:"forecastHourly"`
		ObservationStations string `json:"observationStations"`
		TimeZone            string `json:"timeZone"`
		RelativeLocation    struct {
			Properties struct {
				City  string `json:"city"`
				State string `json:"state"`
			} `json:"properties"`
		} `json:"relativeLocation"`
	} `json:"properties"`
}

type nwsStationsResponse struct {
	Features []struct {
		Properties struct {
			StationIdentifier string `json:"stationIdentifier"`
		} `json:"properties"`
	} `json:"features"`
}

type nwsObservationResponse struct {
	Properties struct {
		Timestamp        time.Time      `json:"timestamp"`
		TextDescription  string         `json:"textDescription"`
		Icon             string         `json:"icon"`
		Temperature      nwsMeasurement `json:"temperature"`
		RelativeHumidity nwsMeasurement `json:"relativeHumidity"`
		WindSpeed        nwsMeasurement `json:"windSpeed"`
		WindDirection    nwsMeasurement `json:"windDirection"`
	} `json:"properties"`
}

type nwsForecastResponse struct {
	Properties struct {
		Periods []nwsPeriod `json:"periods"`
	} `json:"properties"`
}

type nwsPeriod struct {
	Number                     int            `json:"number"`
	StartTime                  string         `json:"startTime"`
	IsDaytime                  bool           `json:"isDaytime"`
	Temperature                *float64       `json:"temperature"`
	ShortForecast              string         `json:"shortForecast"`
	DetailedForecast           string         `json:"detailedForecast"`
	WindSpeed                  string         `json:"windSpeed"`
	WindDirection              string         `json:"windDirection"`
	ProbabilityOfPrecipitation nwsMeasurement `json:"probabilityOfPrecipitation"`
	RelativeHumidity           nwsMeasurement `json:"relativeHumidity"`
}

// gridPoint is the step-1 lookup result every NWS operation chains from.
type gridPoint struct {
	forecastURL       string
	hourlyForecastURL string
	stationsURL       string
	location          models.ResolvedLocation
}

func (p *NWSProvider) lookupGridPoint(ctx context.Context, location models.Location) (*gridPoint, error) {
	resolved, err := p.geocoder.Resolve(ctx, location)
	if err != nil {
		return nil, err
	}

	pointsURL := fmt.Sprintf("%s/points/%.4f,%.4f", p.baseURL, resolved.Latitude, resolved.Longitude)
	var points nwsPointsResponse
	if err := p.get(ctx, pointsURL, &points); err != nil {
		return nil, err
	}

	props := points.Properties
	name := resolved.Name
	if name == "" {
		rel := props.RelativeLocation.Properties
		if rel.City != "" {
			name = rel.City + ", " + rel.State
		}
	}
	timezone := resolved.Timezone
	if timezone == "" {
		timezone = props.TimeZone
	}

	return &gridPoint{
		forecastURL:       props.Forecast,
		hourlyForecastURL: props.ForecastHourly,
		stationsURL:       props.ObservationStations,
		location: models.ResolvedLocation{
			Latitude:  resolved.Latitude,
			Longitude: resolved.Longitude,
			Name:      name,
			Timezone:  timezone,
		},
	}, nil
}

// CurrentWeather runs the 3-step chain: grid point, nearest station, latest
// observation from that station.
func (p *NWSProvider) CurrentWeather(ctx context.Context, location models.Location) (*models.CurrentWeather, error) {
	grid, err := p.lookupGridPoint(ctx, location)
	if err != nil {
		return nil, err
	}

	var stations nwsStationsResponse
	if err := p.get(ctx, grid.stationsURL, &stations); err != nil {
		return nil, err
	}
	if len(stations.Features) == 0 {
		return nil, errors.NewNoDataError()
	}
	stationID := stations.Features[0].Properties.StationIdentifier
	if stationID == "" {
		return nil, errors.NewNoDataError()
	}

	observationURL := fmt.Sprintf("%s/stations/%s/observations/latest", p.baseURL, stationID)
	var observation nwsObservationResponse
	if err := p.get(ctx, observationURL, &observation); err != nil {
		return nil, err
	}

	obs := observation.Properties
	if obs.Temperature.Value == nil {
		return nil, errors.NewNoDataError()
	}

	// Observation icon URLs carry a day/night path segment; default to
	// daytime when the icon is absent.
	isDaytime := true
	if obs.Icon != "" {
		isDaytime = strings.Contains(obs.Icon, "day")
	}

	observedAt := obs.Timestamp
	if observedAt.IsZero() {
		observedAt = time.Now()
	}

	return &models.CurrentWeather{
		Temperature:      models.Celsius(*obs.Temperature.Value),
		Condition:        models.FromNWSText(obs.TextDescription),
		ConditionText:    obs.TextDescription,
		Humidity:         obs.RelativeHumidity.Value,
		WindSpeedKmh:     obs.WindSpeed.Value,
		WindDirectionDeg: obs.WindDirection.Value,
		IsDaytime:        isDaytime,
		Location:         grid.location,
		ObservedAt:       observedAt,
		Provider:         p.Info(),
	}, nil
}

// Forecast fetches the grid's daily forecast and merges the alternating
// day/night periods into whole calendar days.
func (p *NWSProvider) Forecast(ctx context.Context, location models.Location, days int) (*models.Forecast, error) {
	days = clamp(days, nwsMaxForecastDays)

	grid, err := p.lookupGridPoint(ctx, location)
	if err != nil {
		return nil, err
	}

	var forecast nwsForecastResponse
	if err := p.get(ctx, grid.forecastURL, &forecast); err != nil {
		return nil, err
	}

	daily := mergeForecastPeriods(forecast.Properties.Periods)
	if len(daily) > days {
		daily = daily[:days]
	}

	return &models.Forecast{
		Location:    grid.location,
		Daily:       daily,
		Provider:    p.Info(),
		GeneratedAt: time.Now(),
	}, nil
}

// HourlyForecast fetches the grid's hourly forecast, one period per hour.
func (p *NWSProvider) HourlyForecast(ctx context.Context, location models.Location, hours int) ([]models.HourlyForecast, error) {
	hours = clamp(hours, nwsMaxHourlyPeriods)

	grid, err := p.lookupGridPoint(ctx, location)
	if err != nil {
		return nil, err
	}

	var forecast nwsForecastResponse
	if err := p.get(ctx, grid.hourlyForecastURL, &forecast); err != nil {
		return nil, err
	}

	periods := forecast.Properties.Periods
	if len(periods) > hours {
		periods = periods[:hours]
	}

	hourly := make([]models.HourlyForecast, 0, len(periods))
	for _, period := range periods {
		if period.Temperature == nil {
			continue
		}
		start, err := time.Parse(time.RFC3339, period.StartTime)
		if err != nil {
			continue
		}

		entry := models.HourlyForecast{
			Time:                     start,
			Temperature:              models.Fahrenheit(*period.Temperature),
			Condition:                models.FromNWSText(period.ShortForecast),
			ConditionText:            period.ShortForecast,
			PrecipitationProbability: period.ProbabilityOfPrecipitation.Value,
			Humidity:                 period.RelativeHumidity.Value,
			IsDaytime:                period.IsDaytime,
		}
		if kmh, ok := parseWindSpeed(period.WindSpeed); ok {
			entry.WindSpeedKmh = &kmh
		}
		if deg, ok := compassDegrees[strings.ToUpper(strings.TrimSpace(period.WindDirection))]; ok {
			direction := deg
			entry.WindDirectionDeg = &direction
		}
		hourly = append(hourly, entry)
	}

	return hourly, nil
}

// mergeForecastPeriods folds NWS day/night period pairs into one entry per
// local calendar date. The day period supplies the high, condition and text,
// the night period the low; each falls back to the other when a location is
// missing one of the pair. Precipitation probability is the max of the two,
// omitted when both are absent or zero.
func mergeForecastPeriods(periods []nwsPeriod) []models.DailyForecast {
	type dayParts struct {
		day   *nwsPeriod
		night *nwsPeriod
	}

	byDate := make(map[string]*dayParts)
	for i := range periods {
		period := periods[i]
		start, err := time.Parse(time.RFC3339, period.StartTime)
		if err != nil {
			continue
		}
		key := start.Format("2006-01-02")

		parts, ok := byDate[key]
		if !ok {
			parts = &dayParts{}
			byDate[key] = parts
		}
		if period.IsDaytime {
			parts.day = &periods[i]
		} else {
			parts.night = &periods[i]
		}
	}

	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	daily := make([]models.DailyForecast, 0, len(dates))
	for _, date := range dates {
		parts := byDate[date]
		primary := parts.day
		if primary == nil {
			primary = parts.night
		}
		secondary := parts.night
		if secondary == nil {
			secondary = parts.day
		}
		if primary == nil || (primary.Temperature == nil && secondary.Temperature == nil) {
			continue
		}

		high := primary.Temperature
		if high == nil {
			high = secondary.Temperature
		}
		low := secondary.Temperature
		if low == nil {
			low = primary.Temperature
		}

		day, _ := time.Parse("2006-01-02", date)
		entry := models.DailyForecast{
			Date:          day,
			High:          models.Fahrenheit(*high),
			Low:           models.Fahrenheit(*low),
			Condition:     models.FromNWSText(primary.ShortForecast),
			ConditionText: firstNonEmpty(primary.ShortForecast, primary.DetailedForecast),
		}
		if precip := maxPrecipitation(parts.day, parts.night); precip != nil {
			entry.PrecipitationProbability = precip
		}
		daily = append(daily, entry)
	}

	return daily
}

func maxPrecipitation(day, night *nwsPeriod) *float64 {
	var max *float64
	for _, period := range []*nwsPeriod{day, night} {
		if period == nil || period.ProbabilityOfPrecipitation.Value == nil {
			continue
		}
		value := *period.ProbabilityOfPrecipitation.Value
		if max == nil || value > *max {
			max = &value
		}
	}
	if max == nil || *max == 0 {
		return nil
	}
	return max
}

// parseWindSpeed extracts the leading numeric token from NWS wind text such
// as "10 mph" or "10 to 15 mph" and converts it to km/h.
func parseWindSpeed(text string) (float64, bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return 0, false
	}
	mph, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, false
	}
	return mph * mphToKmh, true
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
