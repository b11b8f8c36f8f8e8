// Package config loads the application configuration from a YAML file
// with environment variables layered on top. Environment values win, so
// credentials never need to live in the file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Environment variable names recognized by the overlay.
const (
	envOpenAIAPIKey  = "OPENAI_API_KEY"
	envOpenAIBaseURL = "OPENAI_BASE_URL"
	envTavilyAPIKey  = "TAVILY_API_KEY"
	envWeatherAPIKey = "OPENWEATHERMAP_API_KEY"
	envGeoAPIKey     = "GEOAPIFY_API_KEY"
)

// Config is the full application configuration.
type Config struct {
	Model  ModelConfig  `yaml:"model"`
	Keys   KeysConfig   `yaml:"keys"`
	Engine EngineConfig `yaml:"engine"`
}

// ModelConfig selects and authenticates the completion model.
type ModelConfig struct {
	// Name is the provider model name.
	Name string `yaml:"name"`
	// BaseURL overrides the provider endpoint, for proxies and gateways.
	BaseURL string `yaml:"base_url"`
	// APIKey authenticates against the provider.
	APIKey string `yaml:"api_key"`
}

// KeysConfig holds the third-party service credentials the tools use.
type KeysConfig struct {
	Tavily         string `yaml:"tavily"`
	OpenWeatherMap string `yaml:"openweathermap"`
	Geoapify       string `yaml:"geoapify"`
}

// EngineConfig tunes the run loop.
type EngineConfig struct {
	// MaxSteps caps run-loop steps per run; zero keeps the engine default.
	MaxSteps int `yaml:"max_steps"`
	// MaxToolIterations caps consecutive tool rounds per step; zero keeps
	// the engine default.
	MaxToolIterations int `yaml:"max_tool_iterations"`
	// CheckpointPath is the SQLite checkpoint database path; empty keeps
	// checkpoints in memory.
	CheckpointPath string `yaml:"checkpoint_path"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Model: ModelConfig{Name: "gpt-4o-mini"},
	}
}

// Load reads the configuration file at path, if any, and overlays the
// environment. An empty path skips the file and uses defaults plus
// environment only.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	overlay(&c.Model.APIKey, envOpenAIAPIKey)
	overlay(&c.Model.BaseURL, envOpenAIBaseURL)
	overlay(&c.Keys.Tavily, envTavilyAPIKey)
	overlay(&c.Keys.OpenWeatherMap, envWeatherAPIKey)
	overlay(&c.Keys.Geoapify, envGeoAPIKey)
}

func overlay(target *string, name string) {
	if value := os.Getenv(name); value != "" {
		*target = value
	}
}
