package ledger

import (
	"context"
	"tower_backend/internal/errs"
	"tower_backend/internal/model"

	"github.com/shopspring/decimal"
)

// CreditSettlement adds a payout to the balance.
func (s *serv) CreditSettlement(ctx context.Context, userID int64, payout decimal.Decimal) (decimal.Decimal, error) {
	if err := checkPayout(payout); err != nil {
		return decimal.Zero, err
	}

	acc, err := s.mutate(ctx, userID, func(acc *model.Account) error {
		acc.Balance = acc.Balance.Add(payout)
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	return acc.Balance, nil
}

// RecordNetResult adds payout - bet of a finished cycle to lifetime won.
func (s *serv) RecordNetResult(ctx context.Context, userID int64, net decimal.Decimal) error {
	if !validCents(net) {
		return errs.Newf(errs.CodeInvalidAmount, "net result %s is not in cents", shown(net))
	}

	_, err := s.mutate(ctx, userID, func(acc *model.Account) error {
		acc.LifetimeWon = acc.LifetimeWon.Add(net)
		return nil
	})
	return err
}

// Settle credits payout and records net together, so a crash can never
// leave one without the other.
func (s *serv) Settle(ctx context.Context, userID int64, payout, net decimal.Decimal) (decimal.Decimal, error) {
	if err := checkPayout(payout); err != nil {
		return decimal.Zero, err
	}
	if !validCents(net) {
		return decimal.Zero, errs.Newf(errs.CodeInvalidAmount, "net result %s is not in cents", shown(net))
	}

	acc, err := s.mutate(ctx, userID, func(acc *model.Account) error {
		acc.Balance = acc.Balance.Add(payout)
		acc.LifetimeWon = acc.LifetimeWon.Add(net)
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	return acc.Balance, nil
}

func checkPayout(payout decimal.Decimal) error {
	if payout.IsNegative() || !validCents(payout) {
		return errs.Newf(errs.CodeInvalidAmount, "payout %s is not a non-negative amount in cents", shown(payout))
	}
	return nil
}
