package osrm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mapdevsaikat/expo-osm-sdk-sub003/internal/lib/geo"
	"github.com/mapdevsaikat/expo-osm-sdk-sub003/internal/lib/routing"
)

const okRouteBody = `{
	"code": "Ok",
	"routes": [{
		"geometry": "_p~iF~ps|U_ulLnnqC",
		"distance": 2342.5,
		"duration": 312.0,
		"legs": [{
			"steps": [{
				"distance": 2342.5,
				"duration": 312.0,
				"maneuver": {"type": "depart", "location": [-120.2, 38.5]}
			}]
		}]
	}]
}`

func testPoints() []geo.Point {
	return []geo.Point{
		{Latitude: 38.5, Longitude: -120.2},
		{Latitude: 40.7, Longitude: -120.95},
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewClient("test-agent/1.0",
		WithBaseURL(server.URL),
		WithMinInterval(0))
	return client, server
}

func TestRouteSuccess(t *testing.T) {
	var gotPath, gotQuery, gotAgent string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAgent = r.Header.Get("User-Agent")
		w.Write([]byte(okRouteBody))
	})

	routes, err := client.Route(context.Background(), testPoints(), RouteOptions{})
	require.NoError(t, err)
	require.Len(t, routes, 1)

	assert.Equal(t, "/route/v1/driving/-120.200000,38.500000;-120.950000,40.700000", gotPath)
	assert.Contains(t, gotQuery, "steps=true")
	assert.Contains(t, gotQuery, "geometries=polyline")
	assert.Contains(t, gotQuery, "overview=full")
	assert.Equal(t, "test-agent/1.0", gotAgent)

	route := routes[0]
	assert.Equal(t, 2342.5, route.Distance)
	assert.Equal(t, 312.0, route.Duration)
	require.Len(t, route.Coordinates, 2)
	assert.InDelta(t, 38.5, route.Coordinates[0].Latitude, 1e-9)
	assert.InDelta(t, -120.2, route.Coordinates[0].Longitude, 1e-9)
	require.Len(t, route.Steps, 1)
	assert.Equal(t, "Head out", route.Steps[0].Instruction)
}

func TestRouteProfileAndGeometry(t *testing.T) {
	var gotPath, gotQuery string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{
			"code": "Ok",
			"routes": [{
				"geometry": {"coordinates": [[-120.2, 38.5], [-120.95, 40.7]]},
				"distance": 100, "duration": 60, "legs": []
			}]
		}`))
	})

	routes, err := client.Route(context.Background(), testPoints(), RouteOptions{
		Profile:  "walking",
		Geometry: routing.GeometryGeoJSON,
	})
	require.NoError(t, err)
	require.Len(t, routes, 1)
	assert.Contains(t, gotPath, "/route/v1/walking/")
	assert.Contains(t, gotQuery, "geometries=geojson")
	assert.InDelta(t, 40.7, routes[0].Coordinates[1].Latitude, 1e-9)
}

func TestRouteNoRoute(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code": "Ok", "routes": []}`))
	})

	_, err := client.Route(context.Background(), testPoints(), RouteOptions{})
	assert.ErrorIs(t, err, ErrNoRoute)
}

func TestRouteUpstreamError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code": "NoSegment", "message": "Could not find a matching segment"}`))
	})

	_, err := client.Route(context.Background(), testPoints(), RouteOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NoSegment")
	assert.Contains(t, err.Error(), "matching segment")
}

func TestRouteHTTPError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.Route(context.Background(), testPoints(), RouteOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestRouteRateLimited(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.Route(context.Background(), testPoints(), RouteOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit")
}

func TestRouteValidation(t *testing.T) {
	client := NewClient("test-agent/1.0")

	_, err := client.Route(context.Background(), []geo.Point{{Latitude: 38.5, Longitude: -120.2}}, RouteOptions{})
	assert.Error(t, err)

	_, err = client.Route(context.Background(), []geo.Point{
		{Latitude: 95, Longitude: 0},
		{Latitude: 0, Longitude: 0},
	}, RouteOptions{})
	assert.Error(t, err)
}

func TestRoutePacing(t *testing.T) {
	var times []time.Time
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		times = append(times, time.Now())
		w.Write([]byte(okRouteBody))
	})
	client.minInterval = 50 * time.Millisecond

	for i := 0; i < 3; i++ {
		_, err := client.Route(context.Background(), testPoints(), RouteOptions{})
		require.NoError(t, err)
	}

	require.Len(t, times, 3)
	assert.GreaterOrEqual(t, times[1].Sub(times[0]), 40*time.Millisecond)
	assert.GreaterOrEqual(t, times[2].Sub(times[1]), 40*time.Millisecond)
}

func TestRouteContextCancelledDuringWait(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(okRouteBody))
	})
	client.minInterval = 5 * time.Second
	client.lastRequest = time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.Route(ctx, testPoints(), RouteOptions{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
