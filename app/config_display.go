package app

import (
	"log"
	"os"
	"sort"
	"strings"

	"weatherhub.app/config"
)

// ConfigDisplayer handles configuration and environment variable display
type ConfigDisplayer struct{}

// NewConfigDisplayer creates a new configuration displayer
func NewConfigDisplayer() *ConfigDisplayer {
	return &ConfigDisplayer{}
}

// PrintConfig prints all fields in the configuration
func (cd *ConfigDisplayer) PrintConfig(cfg *config.Config) {
	log.Println("==== APPLICATION CONFIGURATION ====")

	log.Printf("SERVER:\n")
	log.Printf("  Port: %d\n", cfg.Server.Port)

	log.Printf("\nWEATHER:\n")
	log.Printf("  User Agent: %s\n", cfg.Weather.UserAgent)
	log.Printf("  Unit: %s\n", cfg.Weather.Unit)
	log.Printf("  Strategy: %s\n", cfg.Weather.Strategy)
	log.Printf("  NWS Base URL: %s\n", cfg.Weather.NWSBaseURL)
	log.Printf("  Open-Meteo Base URL: %s\n", cfg.Weather.OpenMeteoBaseURL)
	log.Printf("  Geocoding Base URL: %s\n", cfg.Weather.GeocodingBaseURL)
	log.Printf("  Request Timeout: %ds\n", cfg.Weather.RequestTimeout)

	log.Printf("\nRETRY:\n")
	log.Printf("  Max Attempts: %d\n", cfg.Retry.MaxAttempts)
	log.Printf("  Base Delay: %dms\n", cfg.Retry.BaseDelayMs)
	log.Printf("  Multiplier: %.1f\n", cfg.Retry.Multiplier)

	log.Printf("\nUPDATES:\n")
	log.Printf("  Interval: %ds\n", cfg.Updates.Interval)

	log.Printf("\nLOG:\n")
	log.Printf("  Level: %s\n", cfg.Log.Level)
	log.Printf("  Format: %s\n", cfg.Log.Format)

	log.Println("===================================")
}

// PrintAllEnvVars prints all environment variables available to the application
func (cd *ConfigDisplayer) PrintAllEnvVars() {
	log.Println("==== ENVIRONMENT VARIABLES ====")

	envVars := os.Environ()
	sort.Strings(envVars)

	for _, env := range envVars {
		pair := strings.SplitN(env, "=", 2)
		if len(pair) != 2 {
			continue
		}

		key := pair[0]
		value := pair[1]

		if cd.isSensitive(key) {
			value = cd.maskString(value)
		}

		log.Printf("%s=%s\n", key, value)
	}

	log.Println("===============================")
}

// maskString masks sensitive information like passwords and API keys
func (cd *ConfigDisplayer) maskString(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	visible := len(s) / 4
	return s[:visible] + strings.Repeat("*", len(s)-visible)
}

// isSensitive checks if an environment variable key is considered sensitive
func (cd *ConfigDisplayer) isSensitive(key string) bool {
	sensitiveKeys := []string{
		"API_KEY", "PASSWORD", "SECRET", "TOKEN", "KEY", "PASS", "PWD",
	}

	key = strings.ToUpper(key)
	for _, sensitive := range sensitiveKeys {
		if strings.Contains(key, sensitive) {
			return true
		}
	}

	return false
}
