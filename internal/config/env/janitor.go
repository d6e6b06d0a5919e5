package env

import (
	"fmt"
	"time"
	"tower_backend/internal/config"
)

type janitorConfig struct {
	Cron string        `env:"JANITOR_SCHEDULE" envDefault:"@every 1m"`
	TTL  time.Duration `env:"SESSION_IDLE_TTL" envDefault:"30m"`
}

func NewJanitorConfig() (config.JanitorConfig, error) {
	var cfg janitorConfig
	if err := config.ParseEnv(&cfg); err != nil {
		return nil, err
	}
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("session idle ttl must be positive, got %s", cfg.TTL)
	}
	return &cfg, nil
}

func (c *janitorConfig) Schedule() string {
	return c.Cron
}

func (c *janitorConfig) IdleTTL() time.Duration {
	return c.TTL
}
