// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// HTTPAddr is the address the HTTP server listens on (e.g. :8080).
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// DatabaseURL is the Postgres DSN; required for server, migrate and seed.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`
	// Debug enables debug-level logging.
	Debug bool `mapstructure:"DEBUG"`
	// EventTypes is a comma-separated list of accepted event types; empty means
	// the built-in set (track, page, screen, identify).
	EventTypes string `mapstructure:"EVENT_TYPES"`
	// ServiceName is the service name reported in telemetry (default tracking-catalog).
	ServiceName string `mapstructure:"SERVICE_NAME"`
	// OTLPEndpoint is the OTLP gRPC collector endpoint (e.g. localhost:4317). Empty disables export.
	OTLPEndpoint string `mapstructure:"OTLP_ENDPOINT"`
	// OTLPInsecure disables TLS on the OTLP exporter connection.
	OTLPInsecure bool `mapstructure:"OTEL_EXPORTER_OTLP_INSECURE"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("APP_ENV", "")
	v.SetDefault("DEBUG", false)
	v.SetDefault("EVENT_TYPES", "")
	v.SetDefault("SERVICE_NAME", "tracking-catalog")
	v.SetDefault("OTLP_ENDPOINT", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_INSECURE", true)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("config: HTTP_ADDR must be set")
	}
	if cfg.ServiceName == "" {
		return nil, errors.New("config: SERVICE_NAME must be set")
	}

	return &cfg, nil
}

// EventTypesList returns the configured event types from the comma-separated
// config value. An empty result means the caller should use the built-in set.
func (c *Config) EventTypesList() []string {
	if c == nil || c.EventTypes == "" {
		return nil
	}
	parts := strings.Split(c.EventTypes, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
