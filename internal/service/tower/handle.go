package tower

import (
	"context"
	"tower_backend/internal/errs"
	"tower_backend/internal/model"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Handle applies one player action. Domain rejections are returned inside
// the result; a non-nil error means storage failed and nothing was committed.
// Every committed result is remembered under the idempotency token.
func (s *serv) Handle(ctx context.Context, a model.PlayerAction) (model.ActionResult, error) {
	ctx, span := s.tracer.Start(ctx, "tower.Handle", trace.WithAttributes(
		attribute.Int64("tower.user_id", a.UserID),
		attribute.String("tower.action", string(a.Kind)),
	))
	defer span.End()

	unlock := s.registry.Lock(a.UserID)
	defer unlock()

	if a.IdempotencyToken != "" {
		if res, ok := s.registry.Recall(a.UserID, a.IdempotencyToken); ok {
			span.SetAttributes(attribute.Bool("tower.replayed", true))
			return res, nil
		}
	}

	res, err := s.apply(ctx, a)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return model.ActionResult{}, err
	}
	if res.Error != nil {
		span.SetAttributes(attribute.String("tower.error", string(res.Error.Code)))
	}

	if a.IdempotencyToken != "" {
		s.registry.Remember(a.UserID, a.IdempotencyToken, res)
	}
	return res, nil
}

// apply runs the transition on a clone and commits it only if every
// ledger call succeeded.
func (s *serv) apply(ctx context.Context, a model.PlayerAction) (model.ActionResult, error) {
	cur, exists := s.registry.Get(a.UserID)

	// Read before anything is committed. Ledger calls below keep it current.
	balance, err := s.ledger.GetBalance(ctx, a.UserID)
	if err != nil {
		return model.ActionResult{}, err
	}

	next, err := s.transition(ctx, a, cur, exists, &balance)
	if err != nil {
		de, ok := errs.As(err)
		if !ok {
			s.log.Error().Err(err).
				Int64("user_id", a.UserID).
				Str("action", string(a.Kind)).
				Msg("action failed")
			return model.ActionResult{}, err
		}

		ev := s.log.Debug()
		if de.Code == errs.CodeInternalInvariantViolation {
			ev = s.log.Error()
		}
		ev.Err(de).
			Int64("user_id", a.UserID).
			Str("session_id", sessionID(cur)).
			Str("action", string(a.Kind)).
			Msg("action rejected")
		return result(cur, balance, de), nil
	}

	if next != cur {
		s.registry.Replace(a.UserID, next)
	}
	if next.Status.Terminal() && (cur == nil || cur.ID != next.ID || !cur.Status.Terminal()) {
		s.log.Info().
			Int64("user_id", a.UserID).
			Str("session_id", next.ID).
			Str("status", string(next.Status)).
			Str("bet", next.BetAmount.StringFixed(model.MoneyPlaces)).
			Str("payout", next.Payout.StringFixed(model.MoneyPlaces)).
			Msg("session finished")
	}
	return result(next, balance, nil), nil
}

// transition computes the next session. bal holds the balance and is updated
// by every ledger call that returns one.
func (s *serv) transition(
	ctx context.Context,
	a model.PlayerAction,
	cur *model.Session,
	exists bool,
	bal *decimal.Decimal,
) (*model.Session, error) {
	if a.UserID == 0 {
		return nil, errs.New(errs.CodeInvalidAction, "user id is required")
	}
	if err := s.checkSessionID(a, cur, exists); err != nil {
		return nil, err
	}

	switch a.Kind {
	case model.ActionStart:
		return s.start(a.UserID, cur, exists), nil
	case model.ActionPlaceBet:
		return s.placeBet(ctx, a, cur, exists, bal)
	case model.ActionRetry:
		return s.retry(a.UserID, cur, exists)
	}

	if !exists {
		return nil, errs.New(errs.CodeSessionNotFound, "no game in progress, start a new one")
	}
	if cur.Status.Terminal() {
		return nil, errs.Newf(errs.CodeTerminalSession, "game is already %s", cur.Status)
	}

	switch a.Kind {
	case model.ActionSelectDifficulty:
		return s.selectDifficulty(a, cur)
	case model.ActionChoose:
		return s.choose(ctx, a, cur, bal)
	case model.ActionCashOut:
		return s.cashOut(ctx, cur, bal)
	case model.ActionCancel:
		return s.cancel(ctx, cur, bal)
	}
	return nil, errs.Newf(errs.CodeInvalidAction, "unknown action %q", a.Kind)
}

// checkSessionID rejects actions aimed at a session other than the current one.
func (s *serv) checkSessionID(a model.PlayerAction, cur *model.Session, exists bool) error {
	if a.SessionID == "" || (exists && a.SessionID == cur.ID) {
		return nil
	}
	if owner, ok := s.registry.Owner(a.SessionID); ok && owner != a.UserID {
		return errs.New(errs.CodeNotYourSession, "you cannot interact with this game")
	}
	if s.registry.IsRetired(a.UserID, a.SessionID) {
		return errs.New(errs.CodeTerminalSession, "this game is over")
	}
	return errs.Newf(errs.CodeSessionNotFound, "session %s not found", a.SessionID)
}

func result(sess *model.Session, balance decimal.Decimal, de *errs.Error) model.ActionResult {
	res := model.ActionResult{
		Balance: balance,
		Error:   de,
	}
	if sess != nil {
		res.Status = sess.Status
		res.View = sess.View(balance)
	}
	return res
}

// View returns the current session without changing it.
func (s *serv) View(ctx context.Context, userID int64) (model.ActionResult, error) {
	unlock := s.registry.Lock(userID)
	defer unlock()

	balance, err := s.ledger.GetBalance(ctx, userID)
	if err != nil {
		return model.ActionResult{}, err
	}

	cur, ok := s.registry.Get(userID)
	if !ok {
		return result(nil, balance, errs.New(errs.CodeSessionNotFound, "no game in progress, start a new one")), nil
	}
	return result(cur, balance, nil), nil
}

func (s *serv) violation(cur *model.Session, format string, args ...any) *errs.Error {
	e := errs.Newf(errs.CodeInternalInvariantViolation, format, args...)
	e.Message = "session " + sessionID(cur) + ": " + e.Message
	return e
}

func sessionID(s *model.Session) string {
	if s == nil {
		return ""
	}
	return s.ID
}
