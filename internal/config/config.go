// Package config loads application configuration from an optional TOML
// file with environment overrides.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Google   GoogleConfig   `toml:"google"`
	Database DatabaseConfig `toml:"database"`
	YouTube  YouTubeConfig  `toml:"youtube"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// GoogleConfig contains Google OAuth settings.
type GoogleConfig struct {
	ClientSecrets string `toml:"client_secrets"`
}

// DatabaseConfig contains optional database connection settings.
type DatabaseConfig struct {
	URL string `toml:"url"`
}

// YouTubeConfig contains YouTube API client settings.
type YouTubeConfig struct {
	BatchSize        int     `toml:"batch_size"`
	RateLimit        float64 `toml:"rate_limit"`
	CacheMaxAgeHours int     `toml:"cache_max_age_hours"`
}

// Default returns a Config with defaults loaded from the embedded example.
func Default() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// Load reads a TOML configuration file, falling back to defaults when the
// file does not exist, and applies environment overrides.
func Load(path string) (*Config, error) {
	config := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// Defaults plus environment only.
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	config.applyEnv()
	return config, nil
}

// applyEnv overrides file values with environment variables.
func (c *Config) applyEnv() {
	if v := os.Getenv("YTGT_ADDR"); v != "" {
		if host, port, err := net.SplitHostPort(v); err == nil {
			c.Server.Host = host
			if p, err := strconv.Atoi(port); err == nil {
				c.Server.Port = p
			}
		}
	}
	if v := os.Getenv("GOOGLE_CLIENT_SECRETS"); v != "" {
		c.Google.ClientSecrets = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.URL = v
	}
}
