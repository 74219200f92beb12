// Package config loads and validates application configuration from
// environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"weatherhub.app/errors"
	"weatherhub.app/models"
)

// ProviderStrategy selects which providers are consulted and in what order.
type ProviderStrategy string

const (
	StrategyAutomatic  ProviderStrategy = "automatic"
	StrategyUSOnly     ProviderStrategy = "us_only"
	StrategyGlobalOnly ProviderStrategy = "global_only"
)

// Config represents the application configuration structure
type Config struct {
	Server  ServerConfig  `split_words:"true"`
	Weather WeatherConfig `split_words:"true"`
	Retry   RetryConfig   `split_words:"true"`
	Updates UpdatesConfig `split_words:"true"`
	Log     LogConfig     `split_words:"true"`
}

// LogConfig controls application logging. Invalid values fall back to
// info-level JSON output instead of failing startup.
type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"json"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port int `envconfig:"SERVER_PORT" default:"8080"`
}

// WeatherConfig contains settings for the weather client. UserAgent is the
// identifying header the US weather service requires on every request,
// conventionally "(AppName, contact@example.com)".
type WeatherConfig struct {
	UserAgent        string `envconfig:"WEATHER_USER_AGENT" required:"true"`
	Unit             string `envconfig:"WEATHER_UNIT" default:"fahrenheit"`
	Strategy         string `envconfig:"WEATHER_STRATEGY" default:"automatic"`
	NWSBaseURL       string `envconfig:"WEATHER_NWS_BASE_URL" default:"https://api.weather.gov"`
	OpenMeteoBaseURL string `envconfig:"WEATHER_OPEN_METEO_BASE_URL" default:"https://api.open-meteo.com"`
	GeocodingBaseURL string `envconfig:"WEATHER_GEOCODING_BASE_URL" default:"https://geocoding-api.open-meteo.com"`
	RequestTimeout   int    `envconfig:"WEATHER_REQUEST_TIMEOUT" default:"10"`
}

// RetryConfig contains the backoff policy for upstream calls
type RetryConfig struct {
	MaxAttempts int     `envconfig:"RETRY_MAX_ATTEMPTS" default:"3"`
	BaseDelayMs int     `envconfig:"RETRY_BASE_DELAY_MS" default:"1000"`
	Multiplier  float64 `envconfig:"RETRY_MULTIPLIER" default:"2.0"`
}

// UpdatesConfig contains settings for the continuous weather update stream
type UpdatesConfig struct {
	Interval int `envconfig:"UPDATES_INTERVAL" default:"3600"`
}

// USWeatherConfig is the US-oriented preset: Fahrenheit display with
// automatic provider selection.
func USWeatherConfig(userAgent string) WeatherConfig {
	cfg := defaultWeatherConfig(userAgent)
	cfg.Unit = string(models.UnitFahrenheit)
	cfg.Strategy = string(StrategyAutomatic)
	return cfg
}

// InternationalWeatherConfig is the preset for locations outside the US:
// Celsius display, global provider only.
func InternationalWeatherConfig(userAgent string) WeatherConfig {
	cfg := defaultWeatherConfig(userAgent)
	cfg.Unit = string(models.UnitCelsius)
	cfg.Strategy = string(StrategyGlobalOnly)
	return cfg
}

func defaultWeatherConfig(userAgent string) WeatherConfig {
	return WeatherConfig{
		UserAgent:        userAgent,
		Unit:             string(models.UnitFahrenheit),
		Strategy:         string(StrategyAutomatic),
		NWSBaseURL:       "https://api.weather.gov",
		OpenMeteoBaseURL: "https://api.open-meteo.com",
		GeocodingBaseURL: "https://geocoding-api.open-meteo.com",
		RequestTimeout:   10,
	}
}

// LoadConfig loads and validates application configuration from environment variables
func LoadConfig() (*Config, error) {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, errors.NewConfigurationError("error processing config", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Weather.Validate(); err != nil {
		return err
	}
	if err := c.Retry.Validate(); err != nil {
		return err
	}
	if err := c.Updates.Validate(); err != nil {
		return err
	}
	return nil
}

// Validate checks server configuration
func (s *ServerConfig) Validate() error {
	if s.Port < 1 || s.Port > 65535 {
		return errors.NewConfigurationError("SERVER_PORT must be between 1 and 65535", nil)
	}
	return nil
}

// Validate checks weather client configuration
func (w *WeatherConfig) Validate() error {
	if strings.TrimSpace(w.UserAgent) == "" {
		return errors.NewConfigurationError("WEATHER_USER_AGENT is required", nil)
	}
	if _, ok := models.ParseTemperatureUnit(w.Unit); !ok {
		return errors.NewConfigurationError("WEATHER_UNIT must be one of: celsius, fahrenheit, kelvin", nil)
	}
	if _, ok := w.ParsedStrategy(); !ok {
		return errors.NewConfigurationError(
			fmt.Sprintf("WEATHER_STRATEGY must be one of: %s, %s, %s",
				StrategyAutomatic, StrategyUSOnly, StrategyGlobalOnly), nil)
	}
	for name, value := range map[string]string{
		"WEATHER_NWS_BASE_URL":        w.NWSBaseURL,
		"WEATHER_OPEN_METEO_BASE_URL": w.OpenMeteoBaseURL,
		"WEATHER_GEOCODING_BASE_URL":  w.GeocodingBaseURL,
	} {
		if value == "" {
			return errors.NewConfigurationError(name+" cannot be empty", nil)
		}
		if !strings.HasPrefix(value, "http://") && !strings.HasPrefix(value, "https://") {
			return errors.NewConfigurationError(name+" must start with http:// or https://", nil)
		}
	}
	if w.RequestTimeout < 1 {
		return errors.NewConfigurationError("WEATHER_REQUEST_TIMEOUT must be at least 1 second", nil)
	}
	return nil
}

// ParsedStrategy returns the typed provider strategy.
func (w *WeatherConfig) ParsedStrategy() (ProviderStrategy, bool) {
	switch ProviderStrategy(strings.ToLower(strings.TrimSpace(w.Strategy))) {
	case StrategyAutomatic:
		return StrategyAutomatic, true
	case StrategyUSOnly:
		return StrategyUSOnly, true
	case StrategyGlobalOnly:
		return StrategyGlobalOnly, true
	default:
		return "", false
	}
}

// ParsedUnit returns the typed display unit.
func (w *WeatherConfig) ParsedUnit() models.TemperatureUnit {
	unit, ok := models.ParseTemperatureUnit(w.Unit)
	if !ok {
		return models.UnitCelsius
	}
	return unit
}

// Timeout returns the per-request transport timeout.
func (w *WeatherConfig) Timeout() time.Duration {
	return time.Duration(w.RequestTimeout) * time.Second
}

// Validate checks retry configuration
func (r *RetryConfig) Validate() error {
	if r.MaxAttempts < 1 {
		return errors.NewConfigurationError("RETRY_MAX_ATTEMPTS must be at least 1", nil)
	}
	if r.BaseDelayMs < 0 {
		return errors.NewConfigurationError("RETRY_BASE_DELAY_MS cannot be negative", nil)
	}
	if r.Multiplier < 1 {
		return errors.NewConfigurationError("RETRY_MULTIPLIER must be at least 1", nil)
	}
	return nil
}

// BaseDelay returns the first backoff wait.
func (r *RetryConfig) BaseDelay() time.Duration {
	return time.Duration(r.BaseDelayMs) * time.Millisecond
}

// Validate checks updates configuration
func (u *UpdatesConfig) Validate() error {
	if u.Interval < 1 {
		return errors.NewConfigurationError("UPDATES_INTERVAL must be at least 1 second", nil)
	}
	return nil
}

// IntervalDuration returns the polling interval for continuous updates.
func (u *UpdatesConfig) IntervalDuration() time.Duration {
	return time.Duration(u.Interval) * time.Second
}
