package service

import (
	"context"
	"time"
	"tower_backend/internal/model"

	"github.com/shopspring/decimal"
)

// LedgerService is the only writer of balances and lifetime counters.
// Every mutation is atomic per user.
type LedgerService interface {
	GetBalance(ctx context.Context, userID int64) (decimal.Decimal, error)
	DebitForBet(ctx context.Context, userID int64, amount decimal.Decimal) (decimal.Decimal, error)
	CreditSettlement(ctx context.Context, userID int64, payout decimal.Decimal) (decimal.Decimal, error)
	RecordNetResult(ctx context.Context, userID int64, net decimal.Decimal) error
	// Settle credits payout and records net in one transaction.
	Settle(ctx context.Context, userID int64, payout, net decimal.Decimal) (decimal.Decimal, error)
	AccountSummary(ctx context.Context, userID int64) (model.AccountSummary, error)
	Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error)
}

type TowerService interface {
	Handle(ctx context.Context, action model.PlayerAction) (model.ActionResult, error)
	View(ctx context.Context, userID int64) (model.ActionResult, error)
	Profiles() []model.DifficultyProfile
	// ExpireIdle closes sessions untouched since cutoff and returns how many were removed.
	ExpireIdle(ctx context.Context, cutoff time.Time) (int, error)
}
