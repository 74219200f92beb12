// Package app assembles the configured weather client behind the HTTP
// server.
package app

import (
	"fmt"
	"log/slog"

	"weatherhub.app/api"
	"weatherhub.app/config"
	"weatherhub.app/providers"
	"weatherhub.app/service"
)

// Application represents the main application with all its dependencies
type Application struct {
	config          *config.Config
	providerManager *providers.ProviderManager
	weatherService  *service.WeatherService
	server          *api.Server
}

// NewApplication creates and initializes a new application instance
func NewApplication() (*Application, error) {
	app := &Application{}

	if err := app.loadConfiguration(); err != nil {
		return nil, err
	}

	if err := app.initializeServices(); err != nil {
		return nil, err
	}

	return app, nil
}

// NewApplicationWithConfig builds an application around an already-validated
// configuration. Used by tests and embedders.
func NewApplicationWithConfig(cfg *config.Config) (*Application, error) {
	app := &Application{config: cfg}

	if err := app.initializeServices(); err != nil {
		return nil, err
	}

	return app, nil
}

func (app *Application) loadConfiguration() error {
	slog.Info("Loading configuration...")

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return fmt.Errorf("load application configuration: %w", err)
	}

	app.config = cfg
	slog.Info("Configuration loaded successfully")
	return nil
}

func (app *Application) initializeServices() error {
	slog.Info("Initializing services...")

	providerManager, err := providers.NewProviderManager(providers.FromConfig(app.config))
	if err != nil {
		return fmt.Errorf("create provider manager: %w", err)
	}
	slog.Debug("Provider manager created", "config", providerManager.GetProviderInfo())

	app.providerManager = providerManager
	app.weatherService = service.NewWeatherServiceFromManager(providerManager).
		WithUpdateInterval(app.config.Updates.IntervalDuration())
	app.server = api.NewServer(app.config, app.weatherService, providerManager)

	slog.Info("Services initialized successfully")
	return nil
}

// Start starts the HTTP server and blocks until it stops.
func (app *Application) Start() error {
	slog.Info("Starting HTTP server", "port", app.config.Server.Port)
	return app.server.Start()
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	slog.Info("Shutting down application...")
	slog.Info("Application shutdown complete")
	return nil
}

// Config returns the application configuration
func (app *Application) Config() *config.Config {
	return app.config
}

// WeatherService exposes the orchestrator for embedders that want direct
// access to weather operations, including continuous updates.
func (app *Application) WeatherService() *service.WeatherService {
	return app.weatherService
}

// Server returns the HTTP server for testing purposes
func (app *Application) Server() *api.Server {
	return app.server
}
