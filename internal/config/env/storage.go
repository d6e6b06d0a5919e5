package env

import (
	"fmt"
	"strings"
	"tower_backend/internal/config"
)

type storageConfig struct {
	DriverName string `env:"STORAGE_DRIVER" envDefault:"memory"`
	Path       string `env:"SQLITE_PATH" envDefault:"tower.db"`
}

func NewStorageConfig() (config.StorageConfig, error) {
	var cfg storageConfig
	if err := config.ParseEnv(&cfg); err != nil {
		return nil, err
	}

	cfg.DriverName = strings.ToLower(strings.TrimSpace(cfg.DriverName))
	switch cfg.DriverName {
	case config.StorageMemory, config.StorageSQLite, config.StoragePostgres:
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.DriverName)
	}
	return &cfg, nil
}

func (c *storageConfig) Driver() string {
	return c.DriverName
}

func (c *storageConfig) SQLitePath() string {
	return c.Path
}
