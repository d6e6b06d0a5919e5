package env

import (
	"tower_backend/internal/config"
)

type telemetryConfig struct {
	IsEnabled bool   `env:"OTEL_ENABLED" envDefault:"true"`
	URL       string `env:"OTEL_ENDPOINT"`
	Service   string `env:"OTEL_SERVICE_NAME" envDefault:"tower-backend"`
}

func NewTelemetryConfig() (config.TelemetryConfig, error) {
	var cfg telemetryConfig
	if err := config.ParseEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Enabled is false when no endpoint is configured.
func (c *telemetryConfig) Enabled() bool {
	return c.IsEnabled && c.URL != ""
}

func (c *telemetryConfig) Endpoint() string {
	return c.URL
}

func (c *telemetryConfig) ServiceName() string {
	return c.Service
}
