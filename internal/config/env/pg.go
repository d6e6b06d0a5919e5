package env

import (
	"tower_backend/internal/config"
)

type pgConfig struct {
	DSNValue string `env:"PG_DSN,required,notEmpty"`
}

func NewPGConfig() (config.PGConfig, error) {
	var cfg pgConfig
	if err := config.ParseEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *pgConfig) DSN() string {
	return cfg.DSNValue
}
