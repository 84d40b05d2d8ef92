// Package config loads service configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the runtime configuration for the API service.
type Config struct {
	// Port is the HTTP listening port.
	Port int `envconfig:"PORT" default:"5001"`

	// DBPath is the SQLite database file path.
	DBPath string `envconfig:"DB_PATH" default:"./data/artistplan.db"`

	// JWTSecret signs session tokens. Required; there is no safe default.
	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`

	// JWTExpiry is how long session tokens remain valid.
	JWTExpiry time.Duration `envconfig:"JWT_EXPIRY" default:"2160h"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}
