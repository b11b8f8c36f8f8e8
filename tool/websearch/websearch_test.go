package websearch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchFormatsResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search", r.URL.Path)
		var req apiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-key", req.APIKey)
		assert.Equal(t, "beaches in Goa", req.Query)

		json.NewEncoder(w).Encode(apiResponse{
			Answer: "Goa is famous for its beaches.",
			Results: []struct {
				Title   string `json:"title"`
				URL     string `json:"url"`
				Content string `json:"content"`
			}{
				{Title: "Top beaches", URL: "https://example.com", Content: "Palolem and Baga"},
			},
		})
	}))
	defer server.Close()

	searchTool := NewTool(WithAPIKey("test-key"), WithBaseURL(server.URL))
	result, err := searchTool.Call(context.Background(), []byte(`{"query":"beaches in Goa"}`))
	require.NoError(t, err)

	text, ok := result.(string)
	require.True(t, ok)
	assert.Contains(t, text, "Search results for: beaches in Goa")
	assert.Contains(t, text, "Top beaches")
	assert.Contains(t, text, "Palolem and Baga")
}

func TestSearchMissingAPIKey(t *testing.T) {
	searchTool := NewTool()
	result, err := searchTool.Call(context.Background(), []byte(`{"query":"anything"}`))
	require.NoError(t, err)
	assert.Contains(t, result.(string), "API key missing")
}

func TestSearchHTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	searchTool := NewTool(WithAPIKey("test-key"), WithBaseURL(server.URL))
	result, err := searchTool.Call(context.Background(), []byte(`{"query":"anything"}`))
	require.NoError(t, err)
	assert.Contains(t, result.(string), "Web search error")
}

func TestSearchNoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(apiResponse{})
	}))
	defer server.Close()

	searchTool := NewTool(WithAPIKey("test-key"), WithBaseURL(server.URL))
	result, err := searchTool.Call(context.Background(), []byte(`{"query":"obscure"}`))
	require.NoError(t, err)
	assert.Contains(t, result.(string), "No results found for: obscure")
}

func TestDeclaration(t *testing.T) {
	declaration := NewTool().Declaration()
	assert.Equal(t, "web_search", declaration.Name)
	require.NotNil(t, declaration.InputSchema)
	assert.Contains(t, declaration.InputSchema.Properties, "query")
}
