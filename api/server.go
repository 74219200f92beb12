// Package api exposes the weather client over HTTP.
package api

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"weatherhub.app/config"
	weathererr "weatherhub.app/errors"
	"weatherhub.app/models"
	"weatherhub.app/service"
)

// WeatherService is the orchestrator surface the server depends on.
type WeatherService interface {
	CurrentWeather(ctx context.Context, location models.Location) (*models.CurrentWeather, error)
	Forecast(ctx context.Context, location models.Location, days int) (*models.Forecast, error)
	HourlyForecast(ctx context.Context, location models.Location, hours int) ([]models.HourlyForecast, error)
}

// ProviderInfoSource reports the configured provider chain for diagnostics.
type ProviderInfoSource interface {
	GetProviderInfo() map[string]interface{}
}

// ErrorResponse represents an error message structure for API responses
type ErrorResponse struct {
	Error string `json:"error"`
}

// Server represents the HTTP server and API handler
type Server struct {
	router         *gin.Engine
	config         *config.Config
	weatherService WeatherService
	providerInfo   ProviderInfoSource
}

// NewServer creates and configures a new HTTP server
func NewServer(cfg *config.Config, weatherService WeatherService, providerInfo ProviderInfoSource) *Server {
	router := gin.Default()
	router.Use(requestID())

	server := &Server{
		router:         router,
		config:         cfg,
		weatherService: weatherService,
		providerInfo:   providerInfo,
	}

	server.setupRoutes()
	return server
}

// requestID tags every request for log correlation.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func (s *Server) setupRoutes() {
	api := s.router.Group("/api")
	{
		weather := api.Group("/weather")
		{
			weather.GET("/current", s.getCurrentWeather)
			weather.GET("/forecast", s.getForecast)
			weather.GET("/hourly", s.getHourlyForecast)
		}
		api.GET("/health", s.health)
		api.GET("/providers", s.getProviders)
	}

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// Start begins the HTTP server
func (s *Server) Start() error {
	return s.router.Run(fmt.Sprintf(":%d", s.config.Server.Port))
}

// GetRouter returns the router for testing purposes
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// locationQuery accepts either a free-text city or a coordinate pair.
type locationQuery struct {
	City string   `form:"city"`
	Lat  *float64 `form:"lat" binding:"omitempty,latitude"`
	Lon  *float64 `form:"lon" binding:"omitempty,longitude"`
}

func (q *locationQuery) toLocation() (models.Location, bool) {
	if q.City != "" {
		return models.NewCity(q.City), true
	}
	if q.Lat != nil && q.Lon != nil {
		return models.NewCoordinates(*q.Lat, *q.Lon), true
	}
	return models.Location{}, false
}

type forecastQuery struct {
	locationQuery
	Days int `form:"days,default=7" binding:"omitempty,min=1"`
}

type hourlyQuery struct {
	locationQuery
	Hours int `form:"hours,default=24" binding:"omitempty,min=1"`
}

type currentResponse struct {
	*models.CurrentWeather
	TemperatureDisplay string `json:"temperature_display"`
}

func (s *Server) getCurrentWeather(c *gin.Context) {
	var query locationQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		s.badRequest(c, "invalid query parameters")
		return
	}
	location, ok := query.toLocation()
	if !ok {
		s.badRequest(c, "either city or lat and lon are required")
		return
	}

	weather, err := s.weatherService.CurrentWeather(c.Request.Context(), location)
	if err != nil {
		slog.Error("Current weather failed", "location", location.String(), "error", err, "request_id", c.GetString("request_id"))
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, currentResponse{
		CurrentWeather:     weather,
		TemperatureDisplay: weather.Temperature.Format(s.config.Weather.ParsedUnit(), 1),
	})
}

func (s *Server) getForecast(c *gin.Context) {
	var query forecastQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		s.badRequest(c, "invalid query parameters")
		return
	}
	location, ok := query.toLocation()
	if !ok {
		s.badRequest(c, "either city or lat and lon are required")
		return
	}

	forecast, err := s.weatherService.Forecast(c.Request.Context(), location, query.Days)
	if err != nil {
		slog.Error("Forecast failed", "location", location.String(), "error", err, "request_id", c.GetString("request_id"))
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, forecast)
}

func (s *Server) getHourlyForecast(c *gin.Context) {
	var query hourlyQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		s.badRequest(c, "invalid query parameters")
		return
	}
	location, ok := query.toLocation()
	if !ok {
		s.badRequest(c, "either city or lat and lon are required")
		return
	}

	hourly, err := s.weatherService.HourlyForecast(c.Request.Context(), location, query.Hours)
	if err != nil {
		slog.Error("Hourly forecast failed", "location", location.String(), "error", err, "request_id", c.GetString("request_id"))
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"hourly": hourly})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) getProviders(c *gin.Context) {
	if s.providerInfo == nil {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	c.JSON(http.StatusOK, s.providerInfo.GetProviderInfo())
}

func (s *Server) badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// handleError maps weather error kinds onto HTTP status codes
func (s *Server) handleError(c *gin.Context, err error) {
	var werr *weathererr.WeatherError
	statusCode := http.StatusInternalServerError
	message := "Internal server error"

	if stderrors.As(err, &werr) {
		switch werr.Type {
		case weathererr.LocationNotFoundError, weathererr.NoDataError:
			statusCode = http.StatusNotFound
			message = werr.Error()
		case weathererr.UnsupportedLocationError:
			statusCode = http.StatusUnprocessableEntity
			message = werr.Error()
		case weathererr.RateLimitedError:
			statusCode = http.StatusTooManyRequests
			message = "Upstream provider is rate limiting requests"
		case weathererr.NetworkError, weathererr.APIError, weathererr.NoProviderError:
			statusCode = http.StatusServiceUnavailable
			message = "Weather service unavailable"
		case weathererr.DecodingError:
			statusCode = http.StatusBadGateway
			message = "Upstream provider returned malformed data"
		}
	}

	c.JSON(statusCode, ErrorResponse{Error: message})
}

var _ WeatherService = (*service.WeatherService)(nil)
