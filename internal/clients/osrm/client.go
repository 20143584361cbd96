// Package osrm provides a client for OSRM-compatible routing services.
package osrm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/mapdevsaikat/expo-osm-sdk-sub003/internal/lib/geo"
	"github.com/mapdevsaikat/expo-osm-sdk-sub003/internal/lib/routing"
)

// DefaultBaseURL is the public OSRM demo server
const DefaultBaseURL = "https://router.project-osrm.org"

// DefaultMinInterval paces requests against the demo server's usage policy
const DefaultMinInterval = 200 * time.Millisecond

// ErrNoRoute reports a response that carried no usable route
var ErrNoRoute = fmt.Errorf("no route found between the given coordinates")

// Client provides access to an OSRM route/v1 endpoint. Requests are paced
// serially behind a shared last-request watermark: concurrent callers queue
// rather than firing in parallel.
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

// WithBaseURL points the client at a different OSRM deployment
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

// NewClient creates a new OSRM client. userAgent identifies this client to
// the upstream service and must be non-empty per its usage policy.
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

// RouteOptions controls a route request
type RouteOptions struct {
	Profile      string // driving, walking, cycling; defaults to driving
	Alternatives bool
	Geometry     routing.GeometryFormat // defaults to polyline
}

// routeResponse is the OSRM route/v1 envelope
type routeResponse struct {
	Code    string                  `json:"code"`
	Message string                  `json:"message,omitempty"`
	Routes  []routing.RouteResponse `json:"routes"`
}

// Route computes routes through the given coordinates, in order. At least
// two coordinates are required. Failures are always surfaced to the caller;
// there are no retries and no fallback routes.
func (c *Client) Route(ctx context.Context, coordinates []geo.Point, opts RouteOptions) ([]routing.Route, error) {
	if len(coordinates) < 2 {
		return nil, fmt.Errorf("route requires at least 2 coordinates, got %d", len(coordinates))
	}
	for i, coordinate := range coordinates {
		if err := geo.ValidatePoint(coordinate); err != nil {
			return nil, fmt.Errorf("coordinate %d: %w", i, err)
		}
	}

	profile := opts.Profile
	if profile == "" {
		profile = "driving"
	}
	format := opts.Geometry
	if format == "" {
		format = routing.GeometryPolyline
	}

	// OSRM wants semicolon-separated lng,lat pairs in the path
	pairs := make([]string, len(coordinates))
	for i, coordinate := range coordinates {
		pairs[i] = fmt.Sprintf("%f,%f", coordinate.Longitude, coordinate.Latitude)
	}

	params := url.Values{}
	params.Set("alternatives", fmt.Sprintf("%t", opts.Alternatives))
	params.Set("steps", "true")
	params.Set("geometries", string(format))
	params.Set("overview", "full")

	requestURL := fmt.Sprintf("%s/route/v1/%s/%s?%s",
		c.baseURL, profile, strings.Join(pairs, ";"), params.Encode())

	if err := c.waitForSlot(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == 429 {
		return nil, fmt.Errorf("rate limit exceeded by upstream routing service")
	}
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("routing service error %d: %s", resp.StatusCode, string(body))
	}

	var response routeResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if response.Code != "Ok" {
		if response.Message != "" {
			return nil, fmt.Errorf("routing service returned %q: %s", response.Code, response.Message)
		}
		return nil, fmt.Errorf("routing service returned %q", response.Code)
	}
	if len(response.Routes) == 0 {
		return nil, ErrNoRoute
	}

	routes := make([]routing.Route, 0, len(response.Routes))
	for i, raw := range response.Routes {
		route, err := routing.ConvertRouteResponse(raw, format)
		if err != nil {
			return nil, fmt.Errorf("route %d: %w", i, err)
		}
		routes = append(routes, route)
	}

	return routes, nil
}

// waitForSlot blocks until the shared pacing watermark allows another
// request, or the context is cancelled.
func (c *Client) waitForSlot(ctx context.Context) error {
	c.mu.Lock()
	now := time.Now()
	wait := c.minInterval - now.Sub(c.lastRequest)
	if wait < 0 {
		wait = 0
	}
	// Claim the slot before sleeping so queued callers stack up serially
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
