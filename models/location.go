package models

import (
	"fmt"
	"strings"
)

// Location identifies where weather is requested for: either exact
// coordinates or a free-text city query such as "Seattle, WA".
type Location struct {
	latitude  float64
	longitude float64
	city      string
	isCoords  bool
}

// NewCoordinates constructs a coordinate location.
func NewCoordinates(latitude, longitude float64) Location {
	return Location{latitude: latitude, longitude: longitude, isCoords: true}
}

// NewCity constructs a city-name location.
func NewCity(name string) Location {
	return Location{city: name}
}

// Coordinates returns the latitude/longitude pair; ok is false for city
// locations.
func (l Location) Coordinates() (latitude, longitude float64, ok bool) {
	return l.latitude, l.longitude, l.isCoords
}

// City returns the free-text city query; ok is false for coordinate
// locations.
func (l Location) City() (name string, ok bool) {
	return l.city, !l.isCoords
}

func (l Location) String() string {
	if l.isCoords {
		return fmt.Sprintf("%.4f,%.4f", l.latitude, l.longitude)
	}
	return l.city
}

// boundingBox is an inclusive lat/lon rectangle.
type boundingBox struct {
	minLat, maxLat float64
	minLon, maxLon float64
}

func (b boundingBox) contains(lat, lon float64) bool {
	return lat >= b.minLat && lat <= b.maxLat && lon >= b.minLon && lon <= b.maxLon
}

// Regions served by the US national weather service.
var usBoundingBoxes = []boundingBox{
	{minLat: 24.5, maxLat: 49.5, minLon: -125.0, maxLon: -66.0},  // contiguous US
	{minLat: 51.0, maxLat: 71.5, minLon: -180.0, maxLon: -129.0}, // Alaska
	{minLat: 18.5, maxLat: 22.5, minLon: -160.5, maxLon: -154.5}, // Hawaii
	{minLat: 17.5, maxLat: 18.6, minLon: -68.0, maxLon: -64.5},   // Puerto Rico / USVI
}

// 50 states plus DC and Puerto Rico.
var usStateCodes = []string{
	"al", "ak", "az", "ar", "ca", "co", "ct", "de", "fl", "ga",
	"hi", "id", "il", "in", "ia", "ks", "ky", "la", "me", "md",
	"ma", "mi", "mn", "ms", "mo", "mt", "ne", "nv", "nh", "nj",
	"nm", "ny", "nc", "nd", "oh", "ok", "or", "pa", "ri", "sc",
	"sd", "tn", "tx", "ut", "vt", "va", "wa", "wv", "wi", "wy",
	"dc", "pr",
}

var usCountryMarkers = []string{", us", ", usa", "united states"}

// IsLikelyUS reports whether the location is probably inside US weather
// service coverage. Coordinates are checked against the coverage bounding
// boxes; city names are matched on a trailing state abbreviation or an
// explicit country marker. It is a heuristic: false negatives simply route
// the request to the global provider.
func (l Location) IsLikelyUS() bool {
	if l.isCoords {
		for _, box := range usBoundingBoxes {
			if box.contains(l.latitude, l.longitude) {
				return true
			}
		}
		return false
	}

	city := strings.ToLower(strings.TrimSpace(l.city))
	for _, code := range usStateCodes {
		if strings.HasSuffix(city, ", "+code) {
			return true
		}
	}
	for _, marker := range usCountryMarkers {
		if strings.Contains(city, marker) {
			return true
		}
	}
	return false
}

// ResolvedLocation is the output-side location attached to weather results.
// It is a comparable value: equality and hashing cover all four fields.
type ResolvedLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name,omitempty"`
	Timezone  string  `json:"timezone,omitempty"`
}
