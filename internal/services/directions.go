package services

import (
	"context"
	"fmt"
	"log"

	"github.com/mapdevsaikat/expo-osm-sdk-sub003/internal/cache"
	"github.com/mapdevsaikat/expo-osm-sdk-sub003/internal/clients/osrm"
	"github.com/mapdevsaikat/expo-osm-sdk-sub003/internal/config"
	"github.com/mapdevsaikat/expo-osm-sdk-sub003/internal/lib/geo"
	"github.com/mapdevsaikat/expo-osm-sdk-sub003/internal/lib/routing"
)

// DirectionsService computes routes between coordinates, caching results so
// repeated requests for the same origin/destination pair don't hit the
// upstream routing service.
type DirectionsService struct {
	osrmClient *osrm.Client
	cache      *cache.Cache
	config     *config.Config
}

// NewDirectionsService creates a new DirectionsService
func NewDirectionsService(osrmClient *osrm.Client, cache *cache.Cache, config *config.Config) *DirectionsService {
	return &DirectionsService{
		osrmClient: osrmClient,
		cache:      cache,
		config:     config,
	}
}

// RouteRequest describes a directions query
type RouteRequest struct {
	Coordinates  []geo.Point `json:"coordinates"`
	Profile      string      `json:"profile,omitempty"`
	Alternatives bool        `json:"alternatives,omitempty"`
}

// RouteResult is a directions response with summary text attached
type RouteResult struct {
	Routes []AnnotatedRoute `json:"routes"`
}

// AnnotatedRoute pairs a route with formatted distance and duration
type AnnotatedRoute struct {
	routing.Route
	DistanceText string `json:"distanceText"`
	DurationText string `json:"durationText"`
}

// GetRoute computes routes through the given coordinates. Two-point
// primary-route requests are served from cache when fresh; multi-waypoint
// and alternative-route requests always go upstream.
func (s *DirectionsService) GetRoute(ctx context.Context, req RouteRequest) (*RouteResult, error) {
	log.Printf("GetRoute called with %d coordinates, profile=%s", len(req.Coordinates), req.Profile)

	profile := req.Profile
	if profile == "" {
		profile = "driving"
	}

	cacheable := len(req.Coordinates) == 2 && !req.Alternatives
	var cacheKey string
	if cacheable {
		origin, dest := req.Coordinates[0], req.Coordinates[1]
		cacheKey = cache.RouteKey(profile, origin.Latitude, origin.Longitude, dest.Latitude, dest.Longitude)

		var cached RouteResult
		found, err := s.cache.Get(cacheKey, &cached)
		if err != nil {
			log.Printf("Cache error: %v", err)
		}
		if found && !s.cache.IsStale(cacheKey) {
			log.Printf("Returning cached route for %s", cacheKey)
			return &cached, nil
		}
	}

	routes, err := s.osrmClient.Route(ctx, req.Coordinates, osrm.RouteOptions{
		Profile:      profile,
		Alternatives: req.Alternatives,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to compute route: %w", err)
	}

	result := &RouteResult{Routes: make([]AnnotatedRoute, 0, len(routes))}
	for _, route := range routes {
		result.Routes = append(result.Routes, AnnotatedRoute{
			Route:        route,
			DistanceText: routing.FormatDistance(route.Distance),
			DurationText: routing.FormatDuration(route.Duration),
		})
	}

	if cacheable {
		if err := s.cache.Set(cacheKey, result, s.config.Cache.RouteTTL, "routing"); err != nil {
			log.Printf("Failed to cache route: %v", err)
		}
	}

	return result, nil
}
