package models

import "strings"

// Condition is the normalized weather condition category shared across
// providers.
type Condition string

const (
	ConditionClear        Condition = "clear"
	ConditionPartlyCloudy Condition = "partly_cloudy"
	ConditionCloudy       Condition = "cloudy"
	ConditionFog          Condition = "fog"
	ConditionDrizzle      Condition = "drizzle"
	ConditionRain         Condition = "rain"
	ConditionFreezingRain Condition = "freezing_rain"
	ConditionSnow         Condition = "snow"
	ConditionSleet        Condition = "sleet"
	ConditionThunderstorm Condition = "thunderstorm"
	ConditionUnknown      Condition = "unknown"
)

// Description returns a human-readable rendering of the condition.
func (c Condition) Description() string {
	switch c {
	case ConditionClear:
		return "Clear"
	case ConditionPartlyCloudy:
		return "Partly cloudy"
	case ConditionCloudy:
		return "Cloudy"
	case ConditionFog:
		return "Fog"
	case ConditionDrizzle:
		return "Drizzle"
	case ConditionRain:
		return "Rain"
	case ConditionFreezingRain:
		return "Freezing rain"
	case ConditionSnow:
		return "Snow"
	case ConditionSleet:
		return "Sleet"
	case ConditionThunderstorm:
		return "Thunderstorm"
	default:
		return "Unknown"
	}
}

// FromWMOCode maps a WMO weather interpretation code (0-99), as used by
// Open-Meteo, to a normalized condition. Unmapped codes yield
// ConditionUnknown.
func FromWMOCode(code int) Condition {
	switch code {
	case 0:
		return ConditionClear
	case 1, 2:
		return ConditionPartlyCloudy
	case 3:
		return ConditionCloudy
	case 45, 48:
		return ConditionFog
	case 51, 53, 55:
		return ConditionDrizzle
	case 56, 57:
		return ConditionFreezingRain
	case 61, 63, 65, 80, 81, 82:
		return ConditionRain
	case 66, 67:
		return ConditionFreezingRain
	case 71, 73, 75, 77, 85, 86:
		return ConditionSnow
	case 79:
		return ConditionSleet
	case 95, 96, 99:
		return ConditionThunderstorm
	default:
		return ConditionUnknown
	}
}

// FromNWSText derives a condition from NWS free-text forecast wording.
// Checks run in priority order so more specific phenomena win: a forecast
// mentioning both thunder and rain classifies as thunderstorm.
func FromNWSText(text string) Condition {
	t := strings.ToLower(text)
	switch {
	case strings.Contains(t, "thunder"):
		return ConditionThunderstorm
	case strings.Contains(t, "freezing") || strings.Contains(t, "ice"):
		return ConditionFreezingRain
	case strings.Contains(t, "sleet"):
		return ConditionSleet
	case strings.Contains(t, "snow") || strings.Contains(t, "flurries"):
		return ConditionSnow
	case strings.Contains(t, "drizzle"):
		return ConditionDrizzle
	case strings.Contains(t, "rain") || strings.Contains(t, "showers"):
		return ConditionRain
	case strings.Contains(t, "fog") || strings.Contains(t, "mist") || strings.Contains(t, "haze"):
		return ConditionFog
	case strings.Contains(t, "overcast"):
		return ConditionCloudy
	case strings.Contains(t, "cloud") || strings.Contains(t, "partly"):
		return ConditionPartlyCloudy
	case strings.Contains(t, "clear") || strings.Contains(t, "sunny") || strings.Contains(t, "fair"):
		return ConditionClear
	default:
		return ConditionUnknown
	}
}
