package geocoding

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weatherhub.app/errors"
	"weatherhub.app/models"
)

func TestService_Resolve(t *testing.T) {
	t.Run("CoordinatesPassThroughWithoutLookup", func(t *testing.T) {
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("coordinate locations must not hit the geocoder")
		}))
		defer mockServer.Close()

		service := NewService(mockServer.URL, nil)
		resolved, err := service.Resolve(context.Background(), models.NewCoordinates(47.6, -122.3))

		require.NoError(t, err)
		assert.Equal(t, models.ResolvedLocation{Latitude: 47.6, Longitude: -122.3}, resolved)
	})

	t.Run("CityResolved", func(t *testing.T) {
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/search", r.URL.Path)
			assert.Equal(t, "Seattle, WA", r.URL.Query().Get("name"))
			assert.Equal(t, "1", r.URL.Query().Get("count"))

			w.Header().Set("Content-Type", "application/json")
			_, err := w.Write([]byte(`{
				"results": [{
					"name": "Seattle",
					"latitude": 47.60621,
					"longitude": -122.33207,
					"country": "United States",
					"admin1": "Washington",
					"timezone": "America/Los_Angeles"
				}]
			}`))
			require.NoError(t, err)
		}))
		defer mockServer.Close()

		service := NewService(mockServer.URL, nil)
		resolved, err := service.Resolve(context.Background(), models.NewCity("Seattle, WA"))

		require.NoError(t, err)
		assert.Equal(t, 47.60621, resolved.Latitude)
		assert.Equal(t, -122.33207, resolved.Longitude)
		assert.Equal(t, "Seattle, Washington, United States", resolved.Name)
		assert.Equal(t, "America/Los_Angeles", resolved.Timezone)
	})

	t.Run("DisplayNameSkipsEmptyParts", func(t *testing.T) {
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, err := w.Write([]byte(`{"results": [{"name": "Monaco", "latitude": 43.7, "longitude": 7.4, "country": "Monaco"}]}`))
			require.NoError(t, err)
		}))
		defer mockServer.Close()

		service := NewService(mockServer.URL, nil)
		resolved, err := service.Resolve(context.Background(), models.NewCity("Monaco"))

		require.NoError(t, err)
		assert.Equal(t, "Monaco, Monaco", resolved.Name)
	})

	t.Run("NoResults", func(t *testing.T) {
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, err := w.Write([]byte(`{}`))
			require.NoError(t, err)
		}))
		defer mockServer.Close()

		service := NewService(mockServer.URL, nil)
		_, err := service.Resolve(context.Background(), models.NewCity("Atlantis"))

		assert.ErrorIs(t, err, errors.NewLocationNotFoundError("Atlantis"))
	})

	t.Run("UpstreamError", func(t *testing.T) {
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer mockServer.Close()

		service := NewService(mockServer.URL, nil)
		_, err := service.Resolve(context.Background(), models.NewCity("Seattle"))

		assert.Equal(t, errors.APIError, errors.TypeOf(err))
	})

	t.Run("MalformedBody", func(t *testing.T) {
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, err := w.Write([]byte(`not json`))
			require.NoError(t, err)
		}))
		defer mockServer.Close()

		service := NewService(mockServer.URL, nil)
		_, err := service.Resolve(context.Background(), models.NewCity("Seattle"))

		assert.Equal(t, errors.DecodingError, errors.TypeOf(err))
	})

	t.Run("ServerUnreachable", func(t *testing.T) {
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		mockServer.Close()

		service := NewService(mockServer.URL, nil)
		_, err := service.Resolve(context.Background(), models.NewCity("Seattle"))

		assert.Equal(t, errors.NetworkError, errors.TypeOf(err))
	})
}
