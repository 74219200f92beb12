// Package geocoding resolves free-text city queries to coordinates using the
// Open-Meteo geocoding API.
package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"weatherhub.app/errors"
	"weatherhub.app/models"
)

const defaultBaseURL = "https://geocoding-api.open-meteo.com"

type geocodingResponse struct {
	Results []geocodingResult `json:"results"`
}

type geocodingResult struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Country   string  `json:"country"`
	Admin1    string  `json:"admin1"`
	Timezone  string  `json:"timezone"`
}

// Service looks up coordinates for city names. Coordinate locations pass
// through without a network call.
type Service struct {
	baseURL string
	client  *http.Client
}

// NewService creates a geocoding service against the given base URL; an
// empty baseURL selects the production endpoint.
func NewService(baseURL string, client *http.Client) *Service {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Service{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  client,
	}
}

// Resolve turns a location into coordinates. City queries issue a single
// lookup requesting the top match; an empty result set means the city does
// not exist as far as the geocoder is concerned.
func (s *Service) Resolve(ctx context.Context, location models.Location) (models.ResolvedLocation, error) {
	if lat, lon, ok := location.Coordinates(); ok {
		return models.ResolvedLocation{Latitude: lat, Longitude: lon}, nil
	}

	city, _ := location.City()
	lookupURL := fmt.Sprintf("%s/v1/search?name=%s&count=1", s.baseURL, url.QueryEscape(city))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, nil)
	if err != nil {
		return models.ResolvedLocation{}, errors.NewInvalidURLError(lookupURL)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return models.ResolvedLocation{}, errors.NewNetworkError(err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return models.ResolvedLocation{}, errors.NewAPIError(resp.StatusCode, "geocoding lookup failed")
	}

	var decoded geocodingResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return models.ResolvedLocation{}, errors.NewDecodingError(err)
	}

	if len(decoded.Results) == 0 {
		return models.ResolvedLocation{}, errors.NewLocationNotFoundError(city)
	}

	top := decoded.Results[0]
	return models.ResolvedLocation{
		Latitude:  top.Latitude,
		Longitude: top.Longitude,
		Name:      displayName(top),
		Timezone:  top.Timezone,
	}, nil
}

// displayName joins the non-empty parts of {city, admin region, country}.
func displayName(r geocodingResult) string {
	parts := make([]string, 0, 3)
	for _, part := range []string{r.Name, r.Admin1, r.Country} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, ", ")
}
