package providers

import (
	"fmt"
	"net/http"
	"time"

	"weatherhub.app/config"
	"weatherhub.app/geocoding"
	"weatherhub.app/retry"
)

// ProviderManager owns the ordered provider list the orchestrator consults.
// The order is fixed at construction from the selection strategy.
type ProviderManager struct {
	providers     []WeatherProvider
	logger        FileLogger
	configuration *ProviderConfiguration
}

type ProviderConfiguration struct {
	UserAgent        string
	NWSBaseURL       string
	OpenMeteoBaseURL string
	GeocodingBaseURL string
	Strategy         config.ProviderStrategy
	RequestTimeout   time.Duration
	Retry            retry.Config
	LogFilePath      string
	EnableLogging    bool
	EnableMetrics    bool
}

func DefaultProviderConfiguration() *ProviderConfiguration {
	return &ProviderConfiguration{
		Strategy:       config.StrategyAutomatic,
		RequestTimeout: 10 * time.Second,
		Retry:          retry.DefaultConfig(),
		LogFilePath:    "logs/weather_providers.log",
		EnableLogging:  true,
		EnableMetrics:  true,
	}
}

func NewProviderManager(configuration *ProviderConfiguration) (*ProviderManager, error) {
	manager := &ProviderManager{
		configuration: configuration,
	}

	if err := manager.initializeComponents(); err != nil {
		return nil, fmt.Errorf("initialize provider manager: %w", err)
	}

	if err := manager.buildProviderList(); err != nil {
		return nil, fmt.Errorf("build provider list: %w", err)
	}

	return manager, nil
}

func (pm *ProviderManager) initializeComponents() error {
	if pm.configuration.EnableLogging {
		logger, err := NewFileLogger(pm.configuration.LogFilePath)
		if err != nil {
			return fmt.Errorf("create logger: %w", err)
		}
		pm.logger = logger
	}
	return nil
}

func (pm *ProviderManager) buildProviderList() error {
	cfg := pm.configuration
	client := &http.Client{Timeout: cfg.RequestTimeout}
	geocoder := geocoding.NewService(cfg.GeocodingBaseURL, client)

	nws := pm.decorate(NewNWSProvider(cfg.NWSBaseURL, cfg.UserAgent, client, geocoder, cfg.Retry))
	openMeteo := pm.decorate(NewOpenMeteoProvider(cfg.OpenMeteoBaseURL, client, geocoder, cfg.Retry))

	switch cfg.Strategy {
	case config.StrategyUSOnly:
		pm.providers = []WeatherProvider{nws}
	case config.StrategyGlobalOnly:
		pm.providers = []WeatherProvider{openMeteo}
	case config.StrategyAutomatic:
		pm.providers = []WeatherProvider{nws, openMeteo}
	default:
		return fmt.Errorf("unknown provider strategy: %q", cfg.Strategy)
	}
	return nil
}

func (pm *ProviderManager) decorate(provider WeatherProvider) WeatherProvider {
	if pm.configuration.EnableMetrics {
		provider = NewInstrumentedProvider(provider)
	}
	if pm.configuration.EnableLogging {
		provider = NewWeatherLoggerDecorator(provider, pm.logger)
	}
	return provider
}

// Providers returns the strategy-ordered provider list.
func (pm *ProviderManager) Providers() []WeatherProvider {
	return pm.providers
}

func (pm *ProviderManager) GetProviderInfo() map[string]interface{} {
	names := make([]string, 0, len(pm.providers))
	for _, provider := range pm.providers {
		names = append(names, provider.Info().Name)
	}

	return map[string]interface{}{
		"strategy":        string(pm.configuration.Strategy),
		"providers":       names,
		"logging_enabled": pm.configuration.EnableLogging,
		"metrics_enabled": pm.configuration.EnableMetrics,
	}
}

// FromConfig builds a provider configuration out of the application config.
func FromConfig(cfg *config.Config) *ProviderConfiguration {
	strategy, _ := cfg.Weather.ParsedStrategy()
	providerConfig := DefaultProviderConfiguration()
	providerConfig.UserAgent = cfg.Weather.UserAgent
	providerConfig.NWSBaseURL = cfg.Weather.NWSBaseURL
	providerConfig.OpenMeteoBaseURL = cfg.Weather.OpenMeteoBaseURL
	providerConfig.GeocodingBaseURL = cfg.Weather.GeocodingBaseURL
	providerConfig.Strategy = strategy
	providerConfig.RequestTimeout = cfg.Weather.Timeout()
	providerConfig.Retry = retry.Config{
		MaxAttempts: cfg.Retry.MaxAttempts,
		BaseDelay:   cfg.Retry.BaseDelay(),
		Multiplier:  cfg.Retry.Multiplier,
	}
	return providerConfig
}

type ProviderManagerBuilder struct {
	config *ProviderConfiguration
}

func NewProviderManagerBuilder() *ProviderManagerBuilder {
	return &ProviderManagerBuilder{
		config: DefaultProviderConfiguration(),
	}
}

func (b *ProviderManagerBuilder) WithUserAgent(userAgent string) *ProviderManagerBuilder {
	b.config.UserAgent = userAgent
	return b
}

func (b *ProviderManagerBuilder) WithNWSBaseURL(baseURL string) *ProviderManagerBuilder {
	b.config.NWSBaseURL = baseURL
	return b
}

func (b *ProviderManagerBuilder) WithOpenMeteoBaseURL(baseURL string) *ProviderManagerBuilder {
	b.config.OpenMeteoBaseURL = baseURL
	return b
}

func (b *ProviderManagerBuilder) WithGeocodingBaseURL(baseURL string) *ProviderManagerBuilder {
	b.config.GeocodingBaseURL = baseURL
	return b
}

func (b *ProviderManagerBuilder) WithStrategy(strategy config.ProviderStrategy) *ProviderManagerBuilder {
	b.config.Strategy = strategy
	return b
}

func (b *ProviderManagerBuilder) WithRetry(cfg retry.Config) *ProviderManagerBuilder {
	b.config.Retry = cfg
	return b
}

func (b *ProviderManagerBuilder) WithRequestTimeout(timeout time.Duration) *ProviderManagerBuilder {
	b.config.RequestTimeout = timeout
	return b
}

func (b *ProviderManagerBuilder) WithLogFilePath(path string) *ProviderManagerBuilder {
	b.config.LogFilePath = path
	return b
}

func (b *ProviderManagerBuilder) WithLoggingEnabled(enabled bool) *ProviderManagerBuilder {
	b.config.EnableLogging = enabled
	return b
}

func (b *ProviderManagerBuilder) WithMetricsEnabled(enabled bool) *ProviderManagerBuilder {
	b.config.EnableMetrics = enabled
	return b
}

func (b *ProviderManagerBuilder) Build() (*ProviderManager, error) {
	return NewProviderManager(b.config)
}
