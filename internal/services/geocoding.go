package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/mapdevsaikat/expo-osm-sdk-sub003/internal/cache"
	"github.com/mapdevsaikat/expo-osm-sdk-sub003/internal/clients/nominatim"
	"github.com/mapdevsaikat/expo-osm-sdk-sub003/internal/config"
	"github.com/mapdevsaikat/expo-osm-sdk-sub003/internal/lib/geo"
)

// GeocodingService resolves place names to coordinates and back, caching
// results aggressively since place data changes slowly.
type GeocodingService struct {
	nominatimClient *nominatim.Client
	cache           *cache.Cache
	config          *config.Config
}

// NewGeocodingService creates a new GeocodingService
func NewGeocodingService(nominatimClient *nominatim.Client, cache *cache.Cache, config *config.Config) *GeocodingService {
	return &GeocodingService{
		nominatimClient: nominatimClient,
		cache:           cache,
		config:          config,
	}
}

// GeocodeResult is a single resolved place
type GeocodeResult struct {
	DisplayName string    `json:"displayName"`
	Location    geo.Point `json:"location"`
	Category    string    `json:"category,omitempty"`
	Type        string    `json:"type,omitempty"`
	Importance  float64   `json:"importance,omitempty"`
}

// Search performs forward geocoding of a free-form query
func (s *GeocodingService) Search(ctx context.Context, query string, limit int) ([]GeocodeResult, error) {
	log.Printf("Search called for query: %s", query)

	if limit <= 0 {
		limit = s.config.Geocoding.MaxResults
	}

	cacheKey := cache.GeocodeKey(strings.ToLower(strings.TrimSpace(query)), limit)
	var cached []GeocodeResult
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		log.Printf("Cache error: %v", err)
	}
	if found && !s.cache.IsStale(cacheKey) {
		log.Printf("Returning %d cached results for %q", len(cached), query)
		return cached, nil
	}

	places, err := s.nominatimClient.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to geocode %q: %w", query, err)
	}

	results := make([]GeocodeResult, 0, len(places))
	for _, place := range places {
		location, err := place.Location()
		if err != nil {
			log.Printf("Skipping result with bad coordinates: %v", err)
			continue
		}
		results = append(results, GeocodeResult{
			DisplayName: place.DisplayName,
			Location:    location,
			Category:    place.Category,
			Type:        place.Type,
			Importance:  place.Importance,
		})
	}

	if err := s.cache.Set(cacheKey, results, s.config.Cache.GeocodeTTL, "geocoding"); err != nil {
		log.Printf("Failed to cache geocode results: %v", err)
	}

	return results, nil
}

// Reverse performs reverse geocoding of a coordinate
func (s *GeocodingService) Reverse(ctx context.Context, point geo.Point) (*GeocodeResult, error) {
	log.Printf("Reverse called for %.5f,%.5f", point.Latitude, point.Longitude)

	if err := geo.ValidatePoint(point); err != nil {
		return nil, err
	}

	cacheKey := cache.ReverseGeocodeKey(point.Latitude, point.Longitude)
	var cached GeocodeResult
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		log.Printf("Cache error: %v", err)
	}
	if found && !s.cache.IsStale(cacheKey) {
		return &cached, nil
	}

	place, err := s.nominatimClient.Reverse(ctx, point)
	if err != nil {
		return nil, fmt.Errorf("failed to reverse geocode: %w", err)
	}

	location, err := place.Location()
	if err != nil {
		return nil, err
	}
	result := &GeocodeResult{
		DisplayName: place.DisplayName,
		Location:    location,
		Category:    place.Category,
		Type:        place.Type,
		Importance:  place.Importance,
	}

	if err := s.cache.Set(cacheKey, result, s.config.Cache.GeocodeTTL, "geocoding"); err != nil {
		log.Printf("Failed to cache reverse geocode result: %v", err)
	}

	return result, nil
}
