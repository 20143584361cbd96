package config

import (
	"time"
)

// Config represents the complete server configuration
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Routing    RoutingConfig    `yaml:"routing"`
	Geocoding  GeocodingConfig  `yaml:"geocoding"`
	Geofencing GeofencingConfig `yaml:"geofencing"`
	Cache      CacheConfig      `yaml:"cache"`
}

// ServerConfig holds server-specific settings
type ServerConfig struct {
	Port        int      `yaml:"port"`
	CorsOrigins []string `yaml:"cors_origins"`
}

// RoutingConfig holds OSRM routing settings
type RoutingConfig struct {
	BaseURL     string        `yaml:"base_url"`
	UserAgent   string        `yaml:"user_agent"`
	MinInterval time.Duration `yaml:"min_interval"`
}

// GeocodingConfig holds Nominatim geocoding settings
type GeocodingConfig struct {
	BaseURL     string        `yaml:"base_url"`
	UserAgent   string        `yaml:"user_agent"`
	MinInterval time.Duration `yaml:"min_interval"`
	MaxResults  int           `yaml:"max_results"`
}

// GeofencingConfig holds geofence monitor settings
type GeofencingConfig struct {
	DwellThreshold time.Duration `yaml:"dwell_threshold"`
}

// CacheConfig holds cache TTLs and cleanup cadence
type CacheConfig struct {
	RouteTTL        time.Duration `yaml:"route_ttl"`
	GeocodeTTL      time.Duration `yaml:"geocode_ttl"`
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        8080,
			CorsOrigins: []string{"*"},
		},
		Routing: RoutingConfig{
			BaseURL:     "https://router.project-osrm.org",
			UserAgent:   "osm-map-engine/1.0",
			MinInterval: 200 * time.Millisecond,
		},
		Geocoding: GeocodingConfig{
			BaseURL:     "https://nominatim.openstreetmap.org",
			UserAgent:   "osm-map-engine/1.0",
			MinInterval: time.Second,
			MaxResults:  10,
		},
		Geofencing: GeofencingConfig{
			DwellThreshold: 30 * time.Second,
		},
		Cache: CacheConfig{
			// Road networks change slowly, place data even slower
			RouteTTL:        5 * time.Minute,
			GeocodeTTL:      time.Hour,
			CleanupInterval: 10 * time.Minute,
		},
	}
}
