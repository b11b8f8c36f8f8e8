// Package weather provides a current-weather tool backed by the
// OpenWeatherMap API. Like the other collaborator tools, operational
// failures come back as readable strings, not errors.
package weather

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/voyagerlab/voyager/internal/httpclient"
	"github.com/voyagerlab/voyager/tool"
	"github.com/voyagerlab/voyager/tool/function"
)

// defaultBaseURL is the OpenWeatherMap API endpoint.
const defaultBaseURL = "https://api.openweathermap.org"

// Option is a functional option for configuring the weather tool.
type Option func(*config)

type config struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// WithAPIKey sets the OpenWeatherMap API key.
func WithAPIKey(apiKey string) Option {
	return func(c *config) {
		c.apiKey = apiKey
	}
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

type weatherRequest struct {
	City string `json:"city" description:"City name to get current weather for"`
}

type apiResponse struct {
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Name string `json:"name"`
}

type weatherTool struct {
	apiKey string
	client *httpclient.Client
}

// NewTool creates the weather tool with the provided options.
func NewTool(opts ...Option) tool.CallableTool {
	cfg := &config{baseURL: defaultBaseURL}
	for _, opt := range opts {
		opt(cfg)
	}
	wt := &weatherTool{
		apiKey: cfg.apiKey,
		client: httpclient.New(cfg.baseURL, cfg.httpClient),
	}
	return function.NewFunctionTool(
		wt.current,
		function.WithName("get_weather"),
		function.WithDescription("Get current weather information for a city: "+
			"temperature, conditions, humidity and wind."),
	)
}

func (t *weatherTool) current(ctx context.Context, req weatherRequest) string {
	if t.apiKey == "" {
		return fmt.Sprintf("API key missing. Can't get weather for %s.", req.City)
	}

	params := url.Values{}
	params.Set("q", req.City)
	params.Set("appid", t.apiKey)
	params.Set("units", "metric")

	var resp apiResponse
	if err := t.client.GetJSON(ctx, "/data/2.5/weather", params, &resp); err != nil {
		return fmt.Sprintf("Error fetching weather for %s: %v", req.City, err)
	}

	conditions := "unknown"
	if len(resp.Weather) > 0 {
		conditions = resp.Weather[0].Description
	}
	return fmt.Sprintf(
		"Current weather in %s: %s, temperature %.1f°C (feels like %.1f°C), humidity %d%%, wind %.1f m/s",
		resp.Name, conditions, resp.Main.Temp, resp.Main.FeelsLike, resp.Main.Humidity, resp.Wind.Speed)
}
