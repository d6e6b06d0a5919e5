package env

import (
	"tower_backend/internal/config"
)

type logConfig struct {
	LevelName  string `env:"LOG_LEVEL" envDefault:"info"`
	FormatName string `env:"LOG_FORMAT" envDefault:"json"`
}

func NewLogConfig() (config.LogConfig, error) {
	var cfg logConfig
	if err := config.ParseEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *logConfig) Level() string {
	return c.LevelName
}

func (c *logConfig) Format() string {
	return c.FormatName
}
