package env

import (
	"net"
	"time"
	"tower_backend/internal/config"
)

type httpConfig struct {
	Host     string        `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port     string        `env:"HTTP_PORT" envDefault:"8080"`
	Shutdown time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

func NewHTTPConfig() (config.HTTPConfig, error) {
	var cfg httpConfig
	if err := config.ParseEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *httpConfig) Address() string {
	return net.JoinHostPort(c.Host, c.Port)
}

func (c *httpConfig) ShutdownTimeout() time.Duration {
	return c.Shutdown
}
