// Package nominatim provides a client for the Nominatim geocoding service.
package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mapdevsaikat/expo-osm-sdk-sub003/internal/lib/geo"
)

// DefaultBaseURL is the public Nominatim instance
const DefaultBaseURL = "https://nominatim.openstreetmap.org"

// DefaultMinInterval follows the public instance's one-request-per-second
// usage policy
const DefaultMinInterval = time.Second

// ErrNoResults reports a query that matched nothing
var ErrNoResults = fmt.Errorf("no results found for the given query")

// Place is a single geocoding result
type Place struct {
	PlaceID     int64    `json:"place_id"`
	DisplayName string   `json:"display_name"`
	Lat         string   `json:"lat"`
	Lon         string   `json:"lon"`
	Category    string   `json:"category"`
	Type        string   `json:"type"`
	Importance  float64  `json:"importance"`
	BoundingBox []string `json:"boundingbox"`
}

// Location parses the result's coordinates
func (p Place) Location() (geo.Point, error) {
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return geo.Point{}, fmt.Errorf("invalid latitude %q: %w", p.Lat, err)
	}
	lon, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return geo.Point{}, fmt.Errorf("invalid longitude %q: %w", p.Lon, err)
	}
	return geo.NewPoint(lat, lon)
}

// Client provides access to Nominatim's search and reverse endpoints.
// Requests are paced serially; a User-Agent identifying the application is
// mandatory under the public instance's usage policy.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client

	mu          sync.Mutex
	minInterval time.Duration
	lastRequest time.Time
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL points the client at a self-hosted Nominatim deployment
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(baseURL, "/") }
}

// WithMinInterval overrides the minimum delay between requests
func WithMinInterval(interval time.Duration) Option {
	return func(c *Client) { c.minInterval = interval }
}

// WithHTTPClient substitutes the underlying HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// NewClient creates a new Nominatim client
func NewClient(userAgent string, opts ...Option) *Client {
	c := &Client{
		baseURL:     DefaultBaseURL,
		userAgent:   userAgent,
		minInterval: DefaultMinInterval,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search performs forward geocoding of a free-form query. limit caps the
// number of results; values outside 1..50 default to 10.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]Place, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("search query must not be empty")
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "jsonv2")
	params.Set("limit", strconv.Itoa(limit))

	var places []Place
	if err := c.get(ctx, "/search", params, &places); err != nil {
		return nil, err
	}
	if len(places) == 0 {
		return nil, ErrNoResults
	}
	return places, nil
}

// Reverse performs reverse geocoding of a coordinate
func (c *Client) Reverse(ctx context.Context, point geo.Point) (*Place, error) {
	if err := geo.ValidatePoint(point); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(point.Latitude, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(point.Longitude, 'f', -1, 64))
	params.Set("format", "jsonv2")

	var place struct {
		Place
		Error string `json:"error"`
	}
	if err := c.get(ctx, "/reverse", params, &place); err != nil {
		return nil, err
	}
	if place.Error != "" {
		return nil, fmt.Errorf("reverse geocoding failed: %s", place.Error)
	}
	return &place.Place, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if err := c.waitForSlot(ctx); err != nil {
		return err
	}

	requestURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())
	req, err := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == 429 {
		return fmt.Errorf("rate limit exceeded by upstream geocoding service")
	}
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("geocoding service error %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) waitForSlot(ctx context.Context) error {
	c.mu.Lock()
	now := time.Now()
	wait := c.minInterval - now.Sub(c.lastRequest)
	if wait < 0 {
		wait = 0
	}
	c.lastRequest = now.Add(wait)
	c.mu.Unlock()

	if wait == 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
