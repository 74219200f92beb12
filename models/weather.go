// Package models defines the weather domain types shared by providers and
// consumers. All types are immutable value records with structural equality.
package models

import "time"

// ProviderInfo identifies the upstream source of a weather result.
type ProviderInfo struct {
	Name        string `json:"name"`
	Attribution string `json:"attribution"`
}

// Well-known providers.
var (
	NWSProviderInfo = ProviderInfo{
		Name:        "National Weather Service",
		Attribution: "Data from the US National Weather Service (weather.gov)",
	}
	OpenMeteoProviderInfo = ProviderInfo{
		Name:        "Open-Meteo",
		Attribution: "Weather data by Open-Meteo.com",
	}
)

// CurrentWeather is a normalized observation of present conditions.
type CurrentWeather struct {
	Temperature      Temperature      `json:"temperature_c"`
	Condition        Condition        `json:"condition"`
	ConditionText    string           `json:"condition_text"`
	Humidity         *float64         `json:"humidity,omitempty"`
	WindSpeedKmh     *float64         `json:"wind_speed_kmh,omitempty"`
	WindDirectionDeg *float64         `json:"wind_direction_deg,omitempty"`
	IsDaytime        bool             `json:"is_daytime"`
	Location         ResolvedLocation `json:"location"`
	ObservedAt       time.Time        `json:"observed_at"`
	Provider         ProviderInfo     `json:"provider"`
}

// DailyForecast is one calendar day of a forecast.
type DailyForecast struct {
	Date                     time.Time   `json:"date"`
	High                     Temperature `json:"high_c"`
	Low                      Temperature `json:"low_c"`
	Condition                Condition   `json:"condition"`
	ConditionText            string      `json:"condition_text"`
	PrecipitationProbability *float64    `json:"precipitation_probability,omitempty"`
	PrecipitationAmountMm    *float64    `json:"precipitation_amount_mm,omitempty"`
	Sunrise                  *time.Time  `json:"sunrise,omitempty"`
	Sunset                   *time.Time  `json:"sunset,omitempty"`
	UVIndex                  *float64    `json:"uv_index,omitempty"`
}

// HourlyForecast is one hour of a forecast. IsDaytime defaults to true when
// the provider does not say.
type HourlyForecast struct {
	Time                     time.Time    `json:"time"`
	Temperature              Temperature  `json:"temperature_c"`
	ApparentTemperature      *Temperature `json:"apparent_temperature_c,omitempty"`
	Condition                Condition    `json:"condition"`
	ConditionText            string       `json:"condition_text"`
	PrecipitationProbability *float64     `json:"precipitation_probability,omitempty"`
	Humidity                 *float64     `json:"humidity,omitempty"`
	WindSpeedKmh             *float64     `json:"wind_speed_kmh,omitempty"`
	WindDirectionDeg         *float64     `json:"wind_direction_deg,omitempty"`
	IsDaytime                bool         `json:"is_daytime"`
}

// Forecast is an ordered multi-day forecast; Daily[0] is today.
type Forecast struct {
	Location    ResolvedLocation `json:"location"`
	Daily       []DailyForecast  `json:"daily"`
	Provider    ProviderInfo     `json:"provider"`
	GeneratedAt time.Time        `json:"generated_at"`
}

// Today returns the first day of the forecast, if present.
func (f Forecast) Today() (DailyForecast, bool) {
	if len(f.Daily) == 0 {
		return DailyForecast{}, false
	}
	return f.Daily[0], true
}

// Tomorrow returns the second day of the forecast, if present.
func (f Forecast) Tomorrow() (DailyForecast, bool) {
	if len(f.Daily) < 2 {
		return DailyForecast{}, false
	}
	return f.Daily[1], true
}
