// Package config resolves process configuration from the environment.
package config

import (
	"fmt"
	"os"
)

const (
	tmdbAPIKeyEnv     = "TMDB_API_KEY"
	tmdbBaseURLEnv    = "TMDB_BASE_URL"
	openAIAPIKeyEnv   = "OPENAI_API_KEY"
	openAIEndpointEnv = "OPENAI_ENDPOINT"
	openAIModelEnv    = "OPENAI_MODEL"
	databasePathEnv   = "DATABASE_PATH"
	listenAddrEnv     = "LISTEN_ADDR"
)

// Config holds all settings required across the application.
type Config struct {
	TMDBAPIKey     string
	TMDBBaseURL    string
	OpenAIAPIKey   string
	OpenAIEndpoint string
	OpenAIModel    string
	DatabasePath   string
	ListenAddr     string
}

// Load builds a Config from defaults with environment overrides applied.
// Missing required keys (TMDB and OpenAI API keys) fail here so a
// misconfigured process dies at startup rather than mid-request.
func Load() (Config, error) {
	cfg := defaultConfig()
	cfg.applyEnvOverrides()

	if cfg.TMDBAPIKey == "" {
		return Config{}, fmt.Errorf("%s is required", tmdbAPIKeyEnv)
	}
	if cfg.OpenAIAPIKey == "" {
		return Config{}, fmt.Errorf("%s is required", openAIAPIKeyEnv)
	}

	return cfg, nil
}

// An environment variable always wins over the built-in default.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(tmdbAPIKeyEnv); v != "" {
		c.TMDBAPIKey = v
	}
	if v := os.Getenv(tmdbBaseURLEnv); v != "" {
		c.TMDBBaseURL = v
	}
	if v := os.Getenv(openAIAPIKeyEnv); v != "" {
		c.OpenAIAPIKey = v
	}
	if v := os.Getenv(openAIEndpointEnv); v != "" {
		c.OpenAIEndpoint = v
	}
	if v := os.Getenv(openAIModelEnv); v != "" {
		c.OpenAIModel = v
	}
	if v := os.Getenv(databasePathEnv); v != "" {
		c.DatabasePath = v
	}
	if v := os.Getenv(listenAddrEnv); v != "" {
		c.ListenAddr = v
	}
}

func defaultConfig() Config {
	return Config{
		TMDBBaseURL:    "https://api.themoviedb.org/3",
		OpenAIEndpoint: "https://api.openai.com/v1/chat/completions",
		OpenAIModel:    "gpt-4o-mini",
		DatabasePath:   "movietracker.db",
		ListenAddr:     ":8080",
	}
}
