package config

import (
	"fmt"
	"time"
	"tower_backend/internal/model"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func Load(path string) error {
	err := godotenv.Load(path)
	if err != nil {
		return err
	}
	return nil
}

// ParseEnv fills target from environment variables using its env tags.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

type HTTPConfig interface {
	Address() string
	ShutdownTimeout() time.Duration
}

type PGConfig interface {
	DSN() string
}

type JWTConfig interface {
	AccessTokenSecretKey() []byte
	AccessTokenDuration() time.Duration
}

const (
	StorageMemory   = "memory"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
)

type StorageConfig interface {
	Driver() string
	SQLitePath() string
}

type GameConfig interface {
	StartingBalance() decimal.Decimal
	// Profiles are validated and returned in menu order.
	Profiles() []model.DifficultyProfile
}

type JanitorConfig interface {
	Schedule() string
	IdleTTL() time.Duration
}

type LogConfig interface {
	Level() string
	Format() string
}

type TelemetryConfig interface {
	Enabled() bool
	Endpoint() string
	ServiceName() string
}
