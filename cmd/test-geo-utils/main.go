package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/mapdevsaikat/expo-osm-sdk-sub003/internal/lib/geo"
	"github.com/mapdevsaikat/expo-osm-sdk-sub003/internal/lib/geofence"
	"github.com/mapdevsaikat/expo-osm-sdk-sub003/internal/lib/routing"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	geoUtils := geo.NewGeoUtils()

	switch command {
	case "point-distance":
		handlePointDistance(geoUtils)
	case "bearing":
		handleBearing(geoUtils)
	case "bounding-box":
		handleBoundingBox(geoUtils)
	case "decode-polyline":
		handleDecodePolyline()
	case "point-in-polygon":
		handlePointInPolygon()
	case "help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func handlePointDistance(geoUtils geo.GeoUtils) {
	fs := flag.NewFlagSet("point-distance", flag.ExitOnError)
	lat1 := fs.Float64("lat1", 0, "Latitude of first point")
	lng1 := fs.Float64("lng1", 0, "Longitude of first point")
	lat2 := fs.Float64("lat2", 0, "Latitude of second point")
	lng2 := fs.Float64("lng2", 0, "Longitude of second point")

	fs.Parse(os.Args[2:])

	if *lat1 == 0 && *lng1 == 0 && *lat2 == 0 && *lng2 == 0 {
		fmt.Println("Example usage:")
		fmt.Println("  test-geo-utils point-distance --lat1 52.5170 --lng1 13.3889 --lat2 48.8566 --lng2 2.3522")
		fmt.Println("  (Distance between Berlin and Paris)")
		os.Exit(1)
	}

	p1 := geo.Point{Latitude: *lat1, Longitude: *lng1}
	p2 := geo.Point{Latitude: *lat2, Longitude: *lng2}

	distance, err := geoUtils.PointToPoint(p1, p2)
	if err != nil {
		log.Fatalf("Error calculating distance: %v", err)
	}

	fmt.Printf("Distance between points:\n")
	fmt.Printf("  Point 1: (%.6f, %.6f)\n", p1.Latitude, p1.Longitude)
	fmt.Printf("  Point 2: (%.6f, %.6f)\n", p2.Latitude, p2.Longitude)
	fmt.Printf("  Distance: %.2f meters (%.2f km, %.2f miles)\n",
		distance, distance/1000, distance*0.000621371)
}

func handleBearing(geoUtils geo.GeoUtils) {
	fs := flag.NewFlagSet("bearing", flag.ExitOnError)
	lat1 := fs.Float64("lat1", 0, "Latitude of origin")
	lng1 := fs.Float64("lng1", 0, "Longitude of origin")
	lat2 := fs.Float64("lat2", 0, "Latitude of target")
	lng2 := fs.Float64("lng2", 0, "Longitude of target")

	fs.Parse(os.Args[2:])

	if *lat1 == 0 && *lng1 == 0 && *lat2 == 0 && *lng2 == 0 {
		fmt.Println("Example usage:")
		fmt.Println("  test-geo-utils bearing --lat1 52.5170 --lng1 13.3889 --lat2 48.8566 --lng2 2.3522")
		os.Exit(1)
	}

	from := geo.Point{Latitude: *lat1, Longitude: *lng1}
	to := geo.Point{Latitude: *lat2, Longitude: *lng2}

	bearing, err := geoUtils.Bearing(from, to)
	if err != nil {
		log.Fatalf("Error calculating bearing: %v", err)
	}
	midpoint, err := geoUtils.Midpoint(from, to)
	if err != nil {
		log.Fatalf("Error calculating midpoint: %v", err)
	}

	fmt.Printf("Bearing from origin to target:\n")
	fmt.Printf("  Origin: (%.6f, %.6f)\n", from.Latitude, from.Longitude)
	fmt.Printf("  Target: (%.6f, %.6f)\n", to.Latitude, to.Longitude)
	fmt.Printf("  Initial bearing: %.2f degrees\n", bearing)
	fmt.Printf("  Midpoint: (%.6f, %.6f)\n", midpoint.Latitude, midpoint.Longitude)
}

func handleBoundingBox(geoUtils geo.GeoUtils) {
	fs := flag.NewFlagSet("bounding-box", flag.ExitOnError)
	lat := fs.Float64("lat", 0, "Latitude of center")
	lng := fs.Float64("lng", 0, "Longitude of center")
	radius := fs.Float64("radius", 1000, "Radius in meters")

	fs.Parse(os.Args[2:])

	if *lat == 0 && *lng == 0 {
		fmt.Println("Example usage:")
		fmt.Println("  test-geo-utils bounding-box --lat 52.5170 --lng 13.3889 --radius 5000")
		os.Exit(1)
	}

	center := geo.Point{Latitude: *lat, Longitude: *lng}
	bounds, err := geoUtils.BoundingBox(center, *radius)
	if err != nil {
		log.Fatalf("Error calculating bounding box: %v", err)
	}

	fmt.Printf("Bounding box around center:\n")
	fmt.Printf("  Center: (%.6f, %.6f), radius %.0fm\n", center.Latitude, center.Longitude, *radius)
	fmt.Printf("  North: %.6f  South: %.6f\n", bounds.North, bounds.South)
	fmt.Printf("  East:  %.6f  West:  %.6f\n", bounds.East, bounds.West)
	fmt.Printf("  Crosses antimeridian: %t\n", bounds.West > bounds.East)
}

func handleDecodePolyline() {
	fs := flag.NewFlagSet("decode-polyline", flag.ExitOnError)
	polylineStr := fs.String("polyline", "", "Encoded polyline string to decode")
	verbose := fs.Bool("verbose", false, "Show all decoded points")

	fs.Parse(os.Args[2:])

	if *polylineStr == "" {
		fmt.Println("Example usage:")
		fmt.Println("  test-geo-utils decode-polyline --polyline \"_p~iF~ps|U_ulLnnqC_mqNvxq`@\"")
		fmt.Println("  test-geo-utils decode-polyline --polyline \"encoded_string\" --verbose")
		os.Exit(1)
	}

	points, err := routing.DecodePolyline(*polylineStr)
	if err != nil {
		if errors.Is(err, routing.ErrTruncatedPolyline) {
			fmt.Printf("Warning: polyline was truncated, showing partial decode\n")
		} else {
			log.Fatalf("Error decoding polyline: %v", err)
		}
	}

	fmt.Printf("Polyline decoded:\n")
	fmt.Printf("  Input: %s\n", *polylineStr)
	fmt.Printf("  Points: %d\n", len(points))

	if len(points) > 0 {
		fmt.Printf("  Start: (%.6f, %.6f)\n", points[0].Latitude, points[0].Longitude)
		if len(points) > 1 {
			fmt.Printf("  End: (%.6f, %.6f)\n", points[len(points)-1].Latitude, points[len(points)-1].Longitude)
		}
	}

	if *verbose && len(points) > 0 {
		fmt.Printf("  All points:\n")
		for i, point := range points {
			fmt.Printf("    %d: (%.6f, %.6f)\n", i+1, point.Latitude, point.Longitude)
		}
	}
}

func handlePointInPolygon() {
	fs := flag.NewFlagSet("point-in-polygon", flag.ExitOnError)
	lat := fs.Float64("lat", 0, "Latitude of point")
	lng := fs.Float64("lng", 0, "Longitude of point")
	polygonStr := fs.String("polygon", "", "Polygon vertices as lat,lng;lat,lng;...")

	fs.Parse(os.Args[2:])

	if *polygonStr == "" {
		fmt.Println("Example usage:")
		fmt.Println("  test-geo-utils point-in-polygon --lat 0.5 --lng 0.5 --polygon \"0,0;0,1;1,1;1,0\"")
		os.Exit(1)
	}

	vertices, err := parseCoordinatePairs(*polygonStr)
	if err != nil {
		log.Fatalf("Error parsing polygon: %v", err)
	}

	point := geo.Point{Latitude: *lat, Longitude: *lng}
	fence := geofence.NewPolygon("cli", vertices)

	evaluator := geofence.NewEvaluator()
	ctx := context.Background()
	if !evaluator.Validate(ctx, fence) {
		log.Fatalf("Invalid polygon: need at least 3 valid vertices")
	}

	inside := evaluator.Contains(ctx, point, fence)
	distance := evaluator.DistanceTo(point, fence)

	fmt.Printf("Point in polygon test:\n")
	fmt.Printf("  Point: (%.6f, %.6f)\n", point.Latitude, point.Longitude)
	fmt.Printf("  Polygon: %d vertices\n", len(vertices))
	fmt.Printf("  Inside: %t\n", inside)
	fmt.Printf("  Distance to edge: %.2f meters\n", distance)
}

func printUsage() {
	fmt.Printf(`test-geo-utils - Geographic utility testing tool

USAGE:
    test-geo-utils <command> [options]

COMMANDS:
    point-distance      Calculate great-circle distance between two points
    bearing             Calculate initial bearing and midpoint between points
    bounding-box        Build an approximate bounding box around a center
    decode-polyline     Decode an encoded polyline string to coordinates
    point-in-polygon    Test whether a point lies inside a polygon
    help                Show this help message

EXAMPLES:
    # Distance between Berlin and Paris
    test-geo-utils point-distance --lat1 52.5170 --lng1 13.3889 --lat2 48.8566 --lng2 2.3522

    # Bearing from Berlin toward Paris
    test-geo-utils bearing --lat1 52.5170 --lng1 13.3889 --lat2 48.8566 --lng2 2.3522

    # Decode polyline to see coordinates
    test-geo-utils decode-polyline --polyline "encoded_string" --verbose

    # Containment test against a unit square
    test-geo-utils point-in-polygon --lat 0.5 --lng 0.5 --polygon "0,0;0,1;1,1;1,0"
`)
}

// parseCoordinatePairs parses "lat,lng;lat,lng;..." into points
func parseCoordinatePairs(coordStr string) ([]geo.Point, error) {
	if coordStr == "" {
		return nil, fmt.Errorf("empty coordinate string")
	}

	pairs := strings.Split(coordStr, ";")
	points := make([]geo.Point, 0, len(pairs))

	for _, pair := range pairs {
		coords := strings.Split(strings.TrimSpace(pair), ",")
		if len(coords) != 2 {
			return nil, fmt.Errorf("invalid coordinate pair: %s", pair)
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(coords[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid latitude %q: %w", coords[0], err)
		}
		lng, err := strconv.ParseFloat(strings.TrimSpace(coords[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid longitude %q: %w", coords[1], err)
		}
		points = append(points, geo.Point{Latitude: lat, Longitude: lng})
	}

	return points, nil
}
