package tower

import (
	"context"
	"tower_backend/internal/errs"
	"tower_backend/internal/model"

	"github.com/shopspring/decimal"
)

// cancel abandons a game before any tile is picked. A debited stake is refunded.
func (s *serv) cancel(ctx context.Context, cur *model.Session, bal *decimal.Decimal) (*model.Session, error) {
	next := cur.Clone()

	switch cur.Status {
	case model.StatusAwaitingBet, model.StatusAwaitingCustomBetInput:
		if cur.Debited {
			return nil, s.violation(cur, "debited stake before difficulty selection")
		}
	case model.StatusAwaitingDifficulty:
		balance, err := s.refund(ctx, cur)
		if err != nil {
			return nil, err
		}
		*bal = balance
		next.Settled = true
		next.Payout = cur.BetAmount
	case model.StatusInProgress:
		return nil, errs.New(errs.CodeInvalidAction, "the stake is in play, pick a tile or cash out")
	default:
		return nil, errs.Newf(errs.CodeInvalidAction, "cannot cancel while %s", cur.Status)
	}

	next.Status = model.StatusCancelled
	next.UpdatedAt = s.now()
	return next, nil
}

// refund returns the stake with a zero net result.
func (s *serv) refund(ctx context.Context, cur *model.Session) (decimal.Decimal, error) {
	if !cur.Debited || cur.Settled {
		return decimal.Zero, s.violation(cur, "refund without an open stake")
	}
	return s.ledger.Settle(ctx, cur.UserID, cur.BetAmount, decimal.Zero)
}
