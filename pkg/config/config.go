// Package config loads and saves the application configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config represents the complete application configuration.
type Config struct {
	Server   ServerConfig   `json:"server"`
	Upstream UpstreamConfig `json:"upstream"`
	Source   SourceConfig   `json:"source"`
	Tracker  TrackerConfig  `json:"tracker"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	// Port is the HTTP server port (default: 8080)
	Port string `json:"port"`

	// Host is the server bind address (default: "0.0.0.0")
	Host string `json:"host"`

	// CORSAllowedOrigin is served in Access-Control-Allow-Origin
	// (default: "*")
	CORSAllowedOrigin string `json:"cors_allowed_origin"`
}

// UpstreamConfig contains OpenSky API client settings.
type UpstreamConfig struct {
	// BaseURL is the API base URL (default: https://opensky-network.org/api)
	BaseURL string `json:"base_url"`

	// TimeoutSeconds bounds a single feed request (default: 12)
	TimeoutSeconds int `json:"timeout_seconds"`

	// RateIntervalSeconds is the minimum spacing between feed requests.
	// OpenSky's anonymous tier allows one /states/all call per 10s.
	// 0 disables client-side rate limiting.
	RateIntervalSeconds int `json:"rate_interval_seconds"`

	// Username and Password enable the registered-user tier.
	// Password should come from the environment, not the config file.
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
}

// SourceConfig controls the cache/live/snapshot fallback chain.
type SourceConfig struct {
	// CacheTTLSeconds is the freshness window for the in-memory cache
	// (default: 30)
	CacheTTLSeconds int `json:"cache_ttl_seconds"`

	// SnapshotPath is the on-disk fallback snapshot file
	SnapshotPath string `json:"snapshot_path"`

	// SaveSnapshot overwrites the snapshot file on every live fetch
	SaveSnapshot bool `json:"save_snapshot"`

	// ForceOffline serves the snapshot without attempting cache or live
	// fetches (useful for tests and demos)
	ForceOffline bool `json:"force_offline"`
}

// TrackerConfig contains interactive tracker settings.
type TrackerConfig struct {
	// MaxList bounds the candidate list (default: 30)
	MaxList int `json:"max_list"`

	// IntervalSeconds between poll iterations (default: 20)
	IntervalSeconds int `json:"interval_seconds"`

	// MaxIterations bounds the polling loop (default: 10)
	MaxIterations int `json:"max_iterations"`
}

// Load reads configuration from a JSON file. If the file doesn't exist,
// returns a default configuration. Environment overrides apply in both
// cases.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()
		cfg.applyEnvironmentOverrides()
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyEnvironmentOverrides()
	return &cfg, nil
}

// Save writes the configuration to a JSON file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:              "8080",
			Host:              "0.0.0.0",
			CORSAllowedOrigin: "*",
		},
		Upstream: UpstreamConfig{
			BaseURL:             "https://opensky-network.org/api",
			TimeoutSeconds:      12,
			RateIntervalSeconds: 10,
		},
		Source: SourceConfig{
			CacheTTLSeconds: 30,
			SnapshotPath:    "opensky_states_snapshot.json",
			SaveSnapshot:    false,
			ForceOffline:    false,
		},
		Tracker: TrackerConfig{
			MaxList:         30,
			IntervalSeconds: 20,
			MaxIterations:   10,
		},
	}
}

// CacheTTL returns the cache freshness window as a duration.
func (c *SourceConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// Timeout returns the upstream request timeout as a duration.
func (c *UpstreamConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RateInterval returns the upstream rate-limit spacing as a duration.
func (c *UpstreamConfig) RateInterval() time.Duration {
	return time.Duration(c.RateIntervalSeconds) * time.Second
}

// applyEnvironmentOverrides applies environment variable overrides.
// This keeps credentials out of config files and lets deployments force
// snapshot mode without editing configuration.
func (c *Config) applyEnvironmentOverrides() {
	if port := os.Getenv("WINDOWSEAT_PORT"); port != "" {
		c.Server.Port = port
	}
	if offline := os.Getenv("WINDOWSEAT_OFFLINE"); offline == "1" || offline == "true" {
		c.Source.ForceOffline = true
	}
	if path := os.Getenv("WINDOWSEAT_SNAPSHOT_PATH"); path != "" {
		c.Source.SnapshotPath = path
	}
	if user := os.Getenv("OPENSKY_USERNAME"); user != "" {
		c.Upstream.Username = user
	}
	if pass := os.Getenv("OPENSKY_PASSWORD"); pass != "" {
		c.Upstream.Password = pass
	}
}
