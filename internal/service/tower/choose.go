package tower

import (
	"context"
	"tower_backend/internal/errs"
	"tower_backend/internal/model"

	"github.com/shopspring/decimal"
)

// choose reveals one level. A wrong pick loses the stake; clearing the top
// level pays the final multiplier.
func (s *serv) choose(ctx context.Context, a model.PlayerAction, cur *model.Session, bal *decimal.Decimal) (*model.Session, error) {
	// Validate the pick against the current level
	if cur.Status != model.StatusInProgress {
		return nil, errs.Newf(errs.CodeInvalidAction, "no level to pick while %s", cur.Status)
	}
	if cur.Profile == nil {
		return nil, s.violation(cur, "game in progress without a profile")
	}
	if a.Level != cur.CurrentLevel {
		return nil, errs.Newf(errs.CodeStaleLevel, "level %d is not in play, current level is %d", a.Level, cur.CurrentLevel)
	}
	if a.Index < 0 || a.Index >= cur.Profile.ChoicesPerLevel {
		return nil, errs.Newf(errs.CodeInvalidAction, "tile %d does not exist on a level of %d", a.Index, cur.Profile.ChoicesPerLevel)
	}
	if cur.Settled {
		return nil, s.violation(cur, "pick on a settled session")
	}
	safe, ok := cur.SafeIndex(cur.CurrentLevel)
	if !ok {
		return nil, s.violation(cur, "no safe index for level %d", cur.CurrentLevel)
	}

	// Reveal the level
	next := cur.Clone()
	next.Revealed = append(next.Revealed, model.RevealedLevel{
		Level:       cur.CurrentLevel,
		ChosenIndex: a.Index,
		SafeIndex:   safe,
		Survived:    a.Index == safe,
	})
	next.UpdatedAt = s.now()

	// Wrong tile: the stake stays debited, only the net result is recorded
	if a.Index != safe {
		if err := s.ledger.RecordNetResult(ctx, cur.UserID, cur.BetAmount.Neg()); err != nil {
			return nil, err
		}
		next.Status = model.StatusLost
		next.Settled = true
		return next, nil
	}

	next.CurrentLevel++
	if next.CurrentLevel < next.Profile.Levels() {
		return next, nil
	}

	// Top level cleared, pay the final multiplier
	payout := next.CashoutAmount()
	balance, err := s.ledger.Settle(ctx, cur.UserID, payout, payout.Sub(cur.BetAmount))
	if err != nil {
		return nil, err
	}
	*bal = balance
	next.Status = model.StatusWon
	next.Settled = true
	next.Payout = payout
	return next, nil
}
