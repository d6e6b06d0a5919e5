package tower

import (
	"context"
	"strings"
	"tower_backend/internal/errs"
	"tower_backend/internal/model"

	"github.com/shopspring/decimal"
)

// placeBet debits the stake and moves the session to difficulty selection.
// On a finished session it first starts a new cycle.
func (s *serv) placeBet(
	ctx context.Context,
	a model.PlayerAction,
	cur *model.Session,
	exists bool,
	bal *decimal.Decimal,
) (*model.Session, error) {
	// A finished or missing game is replaced by a fresh cycle
	base := cur
	switch {
	case !exists:
		base = s.newSession(a.UserID, s.registry.LastBet(a.UserID))
	case cur.Status.Terminal():
		base = s.newSession(a.UserID, cur.LastBetAmount)
	}

	// Only the bet menu accepts a stake
	if base.Status != model.StatusAwaitingBet && base.Status != model.StatusAwaitingCustomBetInput {
		return nil, errs.New(errs.CodeInvalidAction, "a bet is already placed for this game")
	}
	if base.Debited {
		return nil, s.violation(base, "stake already debited before bet")
	}

	// Custom without an amount only switches the prompt.
	if a.Preset == model.PresetCustom && strings.TrimSpace(a.Amount) == "" {
		next := base.Clone()
		next.Status = model.StatusAwaitingCustomBetInput
		next.UpdatedAt = s.now()
		return next, nil
	}

	amount, err := s.resolveAmount(a, base, *bal)
	if err != nil {
		return nil, err
	}

	// Debit first, the session changes only after the ledger agreed
	balance, err := s.ledger.DebitForBet(ctx, a.UserID, amount)
	if err != nil {
		return nil, err
	}
	*bal = balance

	next := base.Clone()
	next.BetAmount = amount
	next.LastBetAmount = amount
	next.Debited = true
	next.Status = model.StatusAwaitingDifficulty
	next.UpdatedAt = s.now()
	return next, nil
}

func (s *serv) resolveAmount(a model.PlayerAction, base *model.Session, balance decimal.Decimal) (decimal.Decimal, error) {
	if strings.TrimSpace(a.Amount) != "" {
		amount, err := model.ParseAmount(a.Amount)
		if err != nil {
			return decimal.Zero, errs.Wrap(errs.CodeInvalidAmount, "invalid bet amount, please enter a valid number", err)
		}
		return amount, nil
	}

	var amount decimal.Decimal
	switch a.Preset {
	case model.PresetQuarter, model.PresetHalf:
		from := base.LastBetAmount
		if !from.IsPositive() {
			from = balance
		}
		amount = model.PresetAmount(a.Preset, from)
	case model.PresetDouble:
		if !base.LastBetAmount.IsPositive() {
			return decimal.Zero, errs.New(errs.CodeInvalidAmount, "there is no previous bet to double")
		}
		amount = model.PresetAmount(a.Preset, base.LastBetAmount)
	case "":
		return decimal.Zero, errs.New(errs.CodeInvalidAmount, "a bet amount or preset is required")
	default:
		return decimal.Zero, errs.Newf(errs.CodeInvalidAmount, "unknown bet preset %q", a.Preset)
	}

	if !amount.IsPositive() {
		return decimal.Zero, errs.New(errs.CodeInvalidAmount, "bet amount rounds down to zero")
	}
	return amount, nil
}
