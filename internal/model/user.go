package model

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
)

// Account is the persistent per-user ledger row.
type Account struct {
	UserID          int64
	Balance         decimal.Decimal
	LifetimeWagered decimal.Decimal
	// LifetimeWon accumulates net results: payout - bet per settled cycle.
	LifetimeWon decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type AccountSummary struct {
	UserID          int64
	Balance         decimal.Decimal
	LifetimeWagered decimal.Decimal
	LifetimeWon     decimal.Decimal
}

type LeaderboardEntry struct {
	Rank            int
	UserID          int64
	LifetimeWagered decimal.Decimal
	LifetimeWon     decimal.Decimal
}

// UserClaims is the access token payload. RegisteredClaims.ID carries the user id.
type UserClaims struct {
	jwt.RegisteredClaims
}
