package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocation_Accessors(t *testing.T) {
	coords := NewCoordinates(47.6, -122.3)
	lat, lon, ok := coords.Coordinates()
	assert.True(t, ok)
	assert.Equal(t, 47.6, lat)
	assert.Equal(t, -122.3, lon)
	_, cityOK := coords.City()
	assert.False(t, cityOK)

	city := NewCity("Seattle, WA")
	name, ok := city.City()
	assert.True(t, ok)
	assert.Equal(t, "Seattle, WA", name)
	_, _, coordsOK := city.Coordinates()
	assert.False(t, coordsOK)

	assert.Equal(t, "Seattle, WA", city.String())
	assert.Equal(t, "47.6000,-122.3000", coords.String())
}

func TestLocation_IsLikelyUS_Coordinates(t *testing.T) {
	tests := []struct {
		name     string
		lat      float64
		lon      float64
		expected bool
	}{
		{"Seattle", 47.6, -122.3, true},
		{"NewYork", 40.7, -74.0, true},
		{"Honolulu", 21.3, -157.8, true},
		{"Fairbanks", 64.8, -147.7, true},
		{"SanJuan", 18.4, -66.0, true},
		{"London", 51.5, -0.1, false},
		{"Tokyo", 35.7, 139.7, false},
		{"MexicoCity", 19.4, -99.1, false},
		{"SouthBoundaryInside", 24.5, -100.0, true},
		{"SouthBoundaryOutside", 24.4, -100.0, false},
		{"NorthBoundaryInside", 49.5, -100.0, true},
		{"NorthBoundaryOutside", 49.6, -100.0, false},
		{"WestBoundaryInside", 40.0, -125.0, true},
		{"EastBoundaryInside", 40.0, -66.0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NewCoordinates(tt.lat, tt.lon).IsLikelyUS())
		})
	}
}

func TestLocation_IsLikelyUS_CityNames(t *testing.T) {
	tests := []struct {
		city     string
		expected bool
	}{
		{"Seattle, WA", true},
		{"Seattle, wa", true},
		{"Washington, DC", true},
		{"San Juan, PR", true},
		{"Chicago, US", true},
		{"Chicago, USA", true},
		{"some city, United States", true},
		{"London", false},
		{"Paris, France", false},
		{"Perth, AU", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.city, func(t *testing.T) {
			assert.Equal(t, tt.expected, NewCity(tt.city).IsLikelyUS())
		})
	}
}

func TestResolvedLocation_Equality(t *testing.T) {
	a := ResolvedLocation{Latitude: 47.6, Longitude: -122.3, Name: "Seattle", Timezone: "America/Los_Angeles"}
	b := ResolvedLocation{Latitude: 47.6, Longitude: -122.3, Name: "Seattle", Timezone: "America/Los_Angeles"}
	c := ResolvedLocation{Latitude: 47.6, Longitude: -122.3, Name: "Seattle", Timezone: "UTC"}

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)

	// Comparable: usable in sets.
	set := map[ResolvedLocation]struct{}{a: {}}
	_, found := set[b]
	assert.True(t, found)
}
