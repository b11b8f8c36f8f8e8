// Package geo provides geocoding, reverse geocoding and routing over the
// Geoapify API, plus distance helpers used for route ordering.
package geo

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/voyagerlab/voyager/internal/httpclient"
)

// defaultBaseURL is the Geoapify API endpoint.
const defaultBaseURL = "https://api.geoapify.com"

// Coordinate is a WGS84 point.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Place is a reverse-geocoded point along a route.
type Place struct {
	Coordinate
	Name string `json:"place_name"`
}

// Route is a driving route between two points.
type Route struct {
	// DistanceKM is the total driving distance.
	DistanceKM float64 `json:"distance_km"`
	// DurationMin is the total driving time.
	DurationMin float64 `json:"duration_min"`
	// Geometry is the route polyline, start to end.
	Geometry []Coordinate `json:"geometry"`
}

// Option is a functional option for configuring the Client.
type Option func(*config)

type config struct {
	baseURL    string
	httpClient *http.Client
}

// WithBaseURL overrides the API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *config) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets the HTTP client to use.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *config) {
		c.httpClient = httpClient
	}
}

// Client calls the Geoapify geocoding and routing endpoints. Geocoding
// results are cached per place name for the client's lifetime.
type Client struct {
	apiKey string
	client *httpclient.Client

	mu       sync.Mutex
	geoCache map[string]Coordinate
}

// NewClient creates a geo client with the given API key.
func NewClient(apiKey string, opts ...Option) *Client {
	cfg := &config{baseURL: defaultBaseURL}
	for _, opt := range opts {
		opt(cfg)
	}
	return &Client{
		apiKey:   apiKey,
		client:   httpclient.New(cfg.baseURL, cfg.httpClient),
		geoCache: make(map[string]Coordinate),
	}
}

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"` // lon, lat
		} `json:"geometry"`
		Properties struct {
			City      string `json:"city"`
			Town      string `json:"town"`
			Village   string `json:"village"`
			Formatted string `json:"formatted"`
		} `json:"properties"`
	} `json:"features"`
}

// Geocode resolves a place name to coordinates. An unresolvable place is
// an error.
func (c *Client) Geocode(ctx context.Context, place string) (Coordinate, error) {
	c.mu.Lock()
	cached, ok := c.geoCache[place]
	c.mu.Unlock()
	if ok {
		return cached, nil
	}

	params := url.Values{}
	params.Set("text", place)
	params.Set("apiKey", c.apiKey)

	var resp geocodeResponse
	if err := c.client.GetJSON(ctx, "/v1/geocode/search", params, &resp); err != nil {
		return Coordinate{}, fmt.Errorf("geocode %q: %w", place, err)
	}
	if len(resp.Features) == 0 || len(resp.Features[0].Geometry.Coordinates) < 2 {
		return Coordinate{}, fmt.Errorf("geocode %q: no results", place)
	}
	coords := resp.Features[0].Geometry.Coordinates
	point := Coordinate{Lat: coords[1], Lon: coords[0]}

	c.mu.Lock()
	c.geoCache[place] = point
	c.mu.Unlock()
	return point, nil
}

// ReverseGeocode resolves coordinates to the nearest settlement name.
// Points with no match resolve to "Unknown location".
func (c *Client) ReverseGeocode(ctx context.Context, point Coordinate) (string, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(point.Lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(point.Lon, 'f', -1, 64))
	params.Set("apiKey", c.apiKey)

	var resp geocodeResponse
	if err := c.client.GetJSON(ctx, "/v1/geocode/reverse", params, &resp); err != nil {
		return "", fmt.Errorf("reverse geocode: %w", err)
	}
	if len(resp.Features) == 0 {
		return "Unknown location", nil
	}
	props := resp.Features[0].Properties
	switch {
	case props.City != "":
		return props.City, nil
	case props.Town != "":
		return props.Town, nil
	case props.Village != "":
		return props.Village, nil
	default:
		return props.Formatted, nil
	}
}

type routingResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates [][][]float64 `json:"coordinates"` // MultiLineString, lon/lat pairs
		} `json:"geometry"`
		Properties struct {
			Distance float64 `json:"distance"` // meters
			Time     float64 `json:"time"`     // seconds
		} `json:"properties"`
	} `json:"features"`
}

// Route fetches a driving route between two points. Routing failures fall
// back to the straight start-end segment with zero distance, mirroring
// the degraded-but-usable behavior the planning steps expect.
func (c *Client) Route(ctx context.Context, from, to Coordinate) (*Route, error) {
	fallback := &Route{Geometry: []Coordinate{from, to}}

	params := url.Values{}
	params.Set("waypoints", fmt.Sprintf("%f,%f|%f,%f", from.Lat, from.Lon, to.Lat, to.Lon))
	params.Set("mode", "drive")
	params.Set("apiKey", c.apiKey)

	var resp routingResponse
	if err := c.client.GetJSON(ctx, "/v1/routing", params, &resp); err != nil {
		return fallback, nil
	}
	if len(resp.Features) == 0 {
		return fallback, nil
	}

	feature := resp.Features[0]
	route := &Route{
		DistanceKM:  feature.Properties.Distance / 1000,
		DurationMin: feature.Properties.Time / 60,
	}
	for _, segment := range feature.Geometry.Coordinates {
		for _, pair := range segment {
			if len(pair) < 2 {
				continue
			}
			route.Geometry = append(route.Geometry, Coordinate{Lat: pair[1], Lon: pair[0]})
		}
	}
	if len(route.Geometry) == 0 {
		route.Geometry = fallback.Geometry
	}
	return route, nil
}

// SamplePoints picks up to n points spread evenly along the geometry,
// always keeping the first point.
func SamplePoints(geometry []Coordinate, n int) []Coordinate {
	if n <= 0 || len(geometry) == 0 {
		return nil
	}
	step := len(geometry) / n
	if step < 1 {
		step = 1
	}
	var sampled []Coordinate
	for i := 0; i < len(geometry); i += step {
		sampled = append(sampled, geometry[i])
	}
	return sampled
}
