package ledger

import (
	"context"
	"tower_backend/internal/model"

	"github.com/shopspring/decimal"
)

// GetBalance returns the balance, initializing the account on first use.
func (s *serv) GetBalance(ctx context.Context, userID int64) (decimal.Decimal, error) {
	acc, err := s.load(ctx, userID, false)
	if err != nil {
		return decimal.Zero, err
	}
	return acc.Balance, nil
}

func (s *serv) AccountSummary(ctx context.Context, userID int64) (model.AccountSummary, error) {
	acc, err := s.load(ctx, userID, false)
	if err != nil {
		return model.AccountSummary{}, err
	}
	return model.AccountSummary{
		UserID:          acc.UserID,
		Balance:         acc.Balance,
		LifetimeWagered: acc.LifetimeWagered,
		LifetimeWon:     acc.LifetimeWon,
	}, nil
}

func (s *serv) Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	accounts, err := s.repo.TopByWagered(ctx, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]model.LeaderboardEntry, len(accounts))
	for i, acc := range accounts {
		entries[i] = model.LeaderboardEntry{
			Rank:            i + 1,
			UserID:          acc.UserID,
			LifetimeWagered: acc.LifetimeWagered,
			LifetimeWon:     acc.LifetimeWon,
		}
	}
	return entries, nil
}
