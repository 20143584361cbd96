package routing

import (
	"errors"

	polyline "github.com/twpayne/go-polyline"

	"github.com/mapdevsaikat/expo-osm-sdk-sub003/internal/lib/geo"
)

// ErrTruncatedPolyline reports an encoded polyline that ended mid-sequence.
// The decoder still returns every coordinate recovered before the cut.
var ErrTruncatedPolyline = errors.New("encoded polyline truncated mid-sequence")

// DecodePolyline decodes a polyline5 string (Google/OSRM convention:
// base64-like characters offset by 63, 5-bit groups with continuation bit
// 0x20, zig-zag sign encoding, deltas scaled by 1e5) into a coordinate
// sequence.
//
// Malformed or truncated input never panics: the coordinates decoded before
// the malformation are returned together with ErrTruncatedPolyline.
func DecodePolyline(encoded string) ([]geo.Point, error) {
	if encoded == "" {
		return nil, nil
	}

	points := make([]geo.Point, 0, len(encoded)/4)
	index := 0
	lat := 0
	lng := 0

	for index < len(encoded) {
		latDelta, next, ok := decodeSigned(encoded, index)
		if !ok {
			return points, ErrTruncatedPolyline
		}
		index = next
		lat += latDelta

		lngDelta, next, ok := decodeSigned(encoded, index)
		if !ok {
			return points, ErrTruncatedPolyline
		}
		index = next
		lng += lngDelta

		points = append(points, geo.Point{
			Latitude:  float64(lat) / 1e5,
			Longitude: float64(lng) / 1e5,
		})
	}

	return points, nil
}

// decodeSigned reads one zig-zag encoded value starting at index. The third
// return value is false when the string ends before the value terminates.
func decodeSigned(encoded string, index int) (value, next int, ok bool) {
	result := 0
	shift := 0

	for {
		if index >= len(encoded) {
			return 0, index, false
		}
		b := int(encoded[index]) - 63
		index++

		result |= (b & 0x1f) << shift
		shift += 5

		if b < 0x20 {
			break
		}
	}

	// Undo zig-zag sign encoding
	if result&1 != 0 {
		return ^(result >> 1), index, true
	}
	return result >> 1, index, true
}

// EncodePolyline encodes a coordinate sequence into a polyline5 string
func EncodePolyline(points []geo.Point) string {
	if len(points) == 0 {
		return ""
	}

	coords := make([][]float64, len(points))
	for i, p := range points {
		coords[i] = []float64{p.Latitude, p.Longitude}
	}

	return string(polyline.EncodeCoords(coords))
}
