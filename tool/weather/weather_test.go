package weather

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentWeather(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/data/2.5/weather", r.URL.Path)
		assert.Equal(t, "Goa", r.URL.Query().Get("q"))
		assert.Equal(t, "test-key", r.URL.Query().Get("appid"))

		var resp apiResponse
		resp.Name = "Goa"
		resp.Weather = []struct {
			Main        string `json:"main"`
			Description string `json:"description"`
		}{{Main: "Clear", Description: "clear sky"}}
		resp.Main.Temp = 31.5
		resp.Main.FeelsLike = 35.0
		resp.Main.Humidity = 70
		resp.Wind.Speed = 4.2
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	weatherTool := NewTool(WithAPIKey("test-key"), WithBaseURL(server.URL))
	result, err := weatherTool.Call(context.Background(), []byte(`{"city":"Goa"}`))
	require.NoError(t, err)

	text, ok := result.(string)
	require.True(t, ok)
	assert.Contains(t, text, "Goa")
	assert.Contains(t, text, "clear sky")
	assert.Contains(t, text, "31.5")
	assert.Contains(t, text, "70%")
}

func TestCurrentWeatherMissingAPIKey(t *testing.T) {
	weatherTool := NewTool()
	result, err := weatherTool.Call(context.Background(), []byte(`{"city":"Goa"}`))
	require.NoError(t, err)
	assert.Contains(t, result.(string), "API key missing")
}

func TestCurrentWeatherHTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "city not found", http.StatusNotFound)
	}))
	defer server.Close()

	weatherTool := NewTool(WithAPIKey("test-key"), WithBaseURL(server.URL))
	result, err := weatherTool.Call(context.Background(), []byte(`{"city":"Nowhere"}`))
	require.NoError(t, err)
	assert.Contains(t, result.(string), "Error fetching weather for Nowhere")
}
