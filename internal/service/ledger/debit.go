package ledger

import (
	"context"
	"tower_backend/internal/errs"
	"tower_backend/internal/model"

	"github.com/shopspring/decimal"
)

// DebitForBet removes the stake from the balance and adds it to lifetime wagered.
// Returns the new balance
func (s *serv) DebitForBet(ctx context.Context, userID int64, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() || !validCents(amount) {
		return decimal.Zero, errs.Newf(errs.CodeInvalidAmount, "bet amount %s is not a positive amount in cents", shown(amount))
	}

	acc, err := s.mutate(ctx, userID, func(acc *model.Account) error {
		if acc.Balance.LessThan(amount) {
			return errs.Newf(errs.CodeInsufficientFunds, "balance %s is lower than bet %s",
				acc.Balance.StringFixed(model.MoneyPlaces), amount.StringFixed(model.MoneyPlaces))
		}
		acc.Balance = acc.Balance.Sub(amount)
		acc.LifetimeWagered = acc.LifetimeWagered.Add(amount)
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	return acc.Balance, nil
}
