package tablegate

import (
	"flag"
	"fmt"

	"github.com/dracory/env"
)

// Config holds all configuration for the gateway instance.
type Config struct {
	// HTTPPort is the port to listen on (default: 8080)
	HTTPPort int
	// BasePath is the mount path for the API (default: "/api")
	BasePath string
	// ServiceURL is the URL of the backing database service
	ServiceURL string
	// ServiceKey is the access key for the backing database service
	ServiceKey string
}

// LoadConfig reads flags/env with sensible defaults.
// Flags take precedence over env.
func LoadConfig() (Config, error) {
	// Optionally load from .env files (missing files are ignored inside the lib)
	env.Load(".env")

	cfg, err := configFromEnv()
	if err != nil {
		return cfg, err
	}

	// Flags
	port := flag.Int("port", cfg.HTTPPort, "HTTP port to listen on")
	base := flag.String("base", cfg.BasePath, "Base path to mount the API under (e.g. /api)")
	flag.Parse()

	cfg.HTTPPort = *port
	cfg.BasePath = *base

	return cfg, nil
}

// configFromEnv reads configuration from the process environment.
// The service URL and access key are required; everything else has defaults.
func configFromEnv() (Config, error) {
	var cfg Config

	cfg.HTTPPort = env.GetIntOrDefault("HTTP_PORT", 8080)
	cfg.BasePath = env.GetStringOrDefault("BASE_PATH", "/api")
	cfg.ServiceURL = env.GetStringOrDefault("DB_SERVICE_URL", "")
	cfg.ServiceKey = env.GetStringOrDefault("DB_SERVICE_KEY", "")

	if cfg.ServiceURL == "" {
		return cfg, fmt.Errorf("DB_SERVICE_URL is required")
	}
	if cfg.ServiceKey == "" {
		return cfg, fmt.Errorf("DB_SERVICE_KEY is required")
	}
	return cfg, nil
}
