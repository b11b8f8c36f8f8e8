// Package websearch provides a web search tool backed by the Tavily
// search API. Operational failures (missing key, HTTP errors, empty
// results) are reported as readable strings in the result, never as
// errors, so the calling step can surface them to the model.
package websearch

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/voyagerlab/voyager/internal/httpclient"
	"github.com/voyagerlab/voyager/tool"
	"github.com/voyagerlab/voyager/tool/function"
)

const (
	// defaultBaseURL is the Tavily API endpoint.
	defaultBaseURL = "https://api.tavily.com"
	// maxResults is the maximum number of search results to return.
	maxResults = 5
)

// Option is a functional option for configuring the web search tool.
type Option func(*config)

type config struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// WithAPIKey sets the Tavily API key.
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

type searchRequest struct {
	Query string `json:"query" description:"The search query to execute"`
}

type apiRequest struct {
	APIKey        string `json:"api_key"`
	Query         string `json:"query"`
	MaxResults    int    `json:"max_results"`
	IncludeAnswer bool   `json:"include_answer"`
	SearchDepth   string `json:"search_depth"`
}

type apiResponse struct {
	Answer  string `json:"answer"`
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

type searchTool struct {
	apiKey string
	client *httpclient.Client
}

// NewTool creates the web search tool with the provided options.
func NewTool(opts ...Option) tool.CallableTool {
	cfg := &config{baseURL: defaultBaseURL}
	for _, opt := range opts {
		opt(cfg)
	}
	st := &searchTool{
		apiKey: cfg.apiKey,
		client: httpclient.New(cfg.baseURL, cfg.httpClient),
	}
	return function.NewFunctionTool(
		st.search,
		function.WithName("web_search"),
		function.WithDescription("Search the web and return results. "+
			"Use for destination research, attractions, accommodation, and "+
			"other travel information that is not in local documents."),
	)
}

func (t *searchTool) search(ctx context.Context, req searchRequest) string {
	if t.apiKey == "" {
		return "Tavily API key missing. Please set TAVILY_API_KEY."
	}

	var resp apiResponse
	err := t.client.PostJSON(ctx, "/search", apiRequest{
		APIKey:        t.apiKey,
		Query:         req.Query,
		MaxResults:    maxResults,
		IncludeAnswer: true,
		SearchDepth:   "basic",
	}, &resp)
	if err != nil {
		return fmt.Sprintf("Web search error: %v", err)
	}
	if len(resp.Results) == 0 {
		return fmt.Sprintf("No results found for: %s", req.Query)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Search results for: %s\n", req.Query)
	if resp.Answer != "" {
		fmt.Fprintf(&b, "Answer: %s\n", resp.Answer)
	}
	for i, r := range resp.Results {
		if i >= maxResults {
			break
		}
		fmt.Fprintf(&b, "%d. %s\n   %s\n", i+1, r.Title, r.Content)
	}
	return b.String()
}
