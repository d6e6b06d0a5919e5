package tower

import (
	"context"
	"tower_backend/internal/errs"
	"tower_backend/internal/model"

	"github.com/shopspring/decimal"
)

func (s *serv) cashOut(ctx context.Context, cur *model.Session, bal *decimal.Decimal) (*model.Session, error) {
	if cur.Status != model.StatusInProgress {
		return nil, errs.Newf(errs.CodeInvalidAction, "nothing to cash out while %s", cur.Status)
	}
	if cur.CurrentLevel == 0 {
		return nil, errs.New(errs.CodeInvalidAction, "clear at least one level before cashing out")
	}
	if cur.Settled {
		return nil, s.violation(cur, "cash out on a settled session")
	}

	payout := cur.CashoutAmount()
	balance, err := s.ledger.Settle(ctx, cur.UserID, payout, payout.Sub(cur.BetAmount))
	if err != nil {
		return nil, err
	}
	*bal = balance

	next := cur.Clone()
	next.Status = model.StatusCashedOut
	next.Settled = true
	next.Payout = payout
	next.UpdatedAt = s.now()
	return next, nil
}
