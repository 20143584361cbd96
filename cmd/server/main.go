package main

import (
	"context"
	"log"

	"github.com/dpup/prefab"
	"github.com/joho/godotenv"

	"github.com/mapdevsaikat/expo-osm-sdk-sub003/internal/cache"
	"github.com/mapdevsaikat/expo-osm-sdk-sub003/internal/clients/nominatim"
	"github.com/mapdevsaikat/expo-osm-sdk-sub003/internal/clients/osrm"
	"github.com/mapdevsaikat/expo-osm-sdk-sub003/internal/config"
	"github.com/mapdevsaikat/expo-osm-sdk-sub003/internal/lib/geofence"
	"github.com/mapdevsaikat/expo-osm-sdk-sub003/internal/lib/gesture"
	"github.com/mapdevsaikat/expo-osm-sdk-sub003/internal/services"
)

func main() {
	// Local development convenience; missing .env is fine
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	appConfig := loadConfig()

	cacheInstance := cache.New()
	cacheInstance.StartPeriodicCleanup(context.Background(), appConfig.Cache.CleanupInterval)

	osrmClient := osrm.NewClient(appConfig.Routing.UserAgent,
		osrm.WithBaseURL(appConfig.Routing.BaseURL),
		osrm.WithMinInterval(appConfig.Routing.MinInterval))
	nominatimClient := nominatim.NewClient(appConfig.Geocoding.UserAgent,
		nominatim.WithBaseURL(appConfig.Geocoding.BaseURL),
		nominatim.WithMinInterval(appConfig.Geocoding.MinInterval))

	directionsService := services.NewDirectionsService(osrmClient, cacheInstance, appConfig)
	geocodingService := services.NewGeocodingService(nominatimClient, cacheInstance, appConfig)
	geofenceMonitor := services.NewGeofenceMonitor(geofence.NewEvaluator(), appConfig)
	gestureResolver := gesture.NewResolver()

	handlers := newHandlers(directionsService, geocodingService, geofenceMonitor, gestureResolver)

	log.Printf("OSM map engine server starting")
	log.Printf("Routing backend: %s", appConfig.Routing.BaseURL)
	log.Printf("Geocoding backend: %s", appConfig.Geocoding.BaseURL)

	server := prefab.New(
		prefab.WithHTTPHandlerFunc("/", handlers.homepage),
		prefab.WithHTTPHandlerFunc("/api/v1/route", handlers.route),
		prefab.WithHTTPHandlerFunc("/api/v1/geocode", handlers.geocode),
		prefab.WithHTTPHandlerFunc("/api/v1/geocode/reverse", handlers.reverseGeocode),
		prefab.WithHTTPHandlerFunc("/api/v1/geofences", handlers.geofences),
		prefab.WithHTTPHandlerFunc("/api/v1/geofences/check", handlers.checkGeofences),
		prefab.WithHTTPHandlerFunc("/api/v1/location", handlers.updateLocation),
		prefab.WithHTTPHandlerFunc("/api/v1/gestures", handlers.gestures),
		prefab.WithHTTPHandlerFunc("/api/v1/export", handlers.export),
	)

	if err := server.Start(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// loadConfig loads configuration using Prefab's config system.
// Values come from prefab.yaml and environment variables with PF__ prefix;
// missing sections fall back to defaults.
func loadConfig() *config.Config {
	appConfig := config.DefaultConfig()

	if err := prefab.Config.Unmarshal("routing", &appConfig.Routing); err != nil {
		log.Fatalf("Failed to unmarshal routing section: %v", err)
	}
	if err := prefab.Config.Unmarshal("geocoding", &appConfig.Geocoding); err != nil {
		log.Fatalf("Failed to unmarshal geocoding section: %v", err)
	}
	if err := prefab.Config.Unmarshal("geofencing", &appConfig.Geofencing); err != nil {
		log.Fatalf("Failed to unmarshal geofencing section: %v", err)
	}
	if err := prefab.Config.Unmarshal("cache", &appConfig.Cache); err != nil {
		log.Fatalf("Failed to unmarshal cache section: %v", err)
	}

	return appConfig
}
