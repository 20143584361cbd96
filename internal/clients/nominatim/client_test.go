package nominatim

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mapdevsaikat/expo-osm-sdk-sub003/internal/lib/geo"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient("test-agent/1.0",
		WithBaseURL(server.URL),
		WithMinInterval(0))
}

func TestSearch(t *testing.T) {
	var gotQuery, gotAgent string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search", r.URL.Path)
		gotQuery = r.URL.RawQuery
		gotAgent = r.Header.Get("User-Agent")
		w.Write([]byte(`[{
			"place_id": 123,
			"display_name": "Golden Gate Bridge, San Francisco, California, United States",
			"lat": "37.8199",
			"lon": "-122.4783",
			"category": "tourism",
			"type": "attraction",
			"importance": 0.8
		}]`))
	})

	places, err := client.Search(context.Background(), "golden gate bridge", 5)
	require.NoError(t, err)
	require.Len(t, places, 1)

	assert.Contains(t, gotQuery, "q=golden+gate+bridge")
	assert.Contains(t, gotQuery, "format=jsonv2")
	assert.Contains(t, gotQuery, "limit=5")
	assert.Equal(t, "test-agent/1.0", gotAgent)

	assert.Equal(t, int64(123), places[0].PlaceID)
	location, err := places[0].Location()
	require.NoError(t, err)
	assert.InDelta(t, 37.8199, location.Latitude, 1e-9)
	assert.InDelta(t, -122.4783, location.Longitude, 1e-9)
}

func TestSearchNoResults(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	_, err := client.Search(context.Background(), "nowhereville", 5)
	assert.ErrorIs(t, err, ErrNoResults)
}

func TestSearchEmptyQuery(t *testing.T) {
	client := NewClient("test-agent/1.0")
	_, err := client.Search(context.Background(), "   ", 5)
	assert.Error(t, err)
}

func TestSearchLimitClamped(t *testing.T) {
	var gotQuery string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`[{"place_id": 1, "lat": "0", "lon": "0"}]`))
	})

	_, err := client.Search(context.Background(), "test", 0)
	require.NoError(t, err)
	assert.Contains(t, gotQuery, "limit=10")

	_, err = client.Search(context.Background(), "test", 500)
	require.NoError(t, err)
	assert.Contains(t, gotQuery, "limit=10")
}

func TestReverse(t *testing.T) {
	var gotQuery string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/reverse", r.URL.Path)
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{
			"place_id": 456,
			"display_name": "Market Street, San Francisco, California, United States",
			"lat": "37.7749",
			"lon": "-122.4194"
		}`))
	})

	place, err := client.Reverse(context.Background(), geo.Point{Latitude: 37.7749, Longitude: -122.4194})
	require.NoError(t, err)

	assert.Contains(t, gotQuery, "lat=37.7749")
	assert.Contains(t, gotQuery, "lon=-122.4194")
	assert.Equal(t, int64(456), place.PlaceID)
	assert.Contains(t, place.DisplayName, "Market Street")
}

func TestReverseUnableToGeocode(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error": "Unable to geocode"}`))
	})

	_, err := client.Reverse(context.Background(), geo.Point{Latitude: 0, Longitude: 0})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unable to geocode")
}

func TestReverseInvalidPoint(t *testing.T) {
	client := NewClient("test-agent/1.0")
	_, err := client.Reverse(context.Background(), geo.Point{Latitude: 95, Longitude: 0})
	assert.Error(t, err)
}

func TestHTTPError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.Search(context.Background(), "test", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestPlaceLocationInvalid(t *testing.T) {
	place := Place{Lat: "not-a-number", Lon: "0"}
	_, err := place.Location()
	assert.Error(t, err)
}
