package tower

import (
	"context"
	"errors"
	"time"
	"tower_backend/internal/model"
)

// ExpireIdle parks sessions nobody touched since cutoff. A stake waiting for
// a difficulty is refunded first. Games with a stake in play are kept.
// Users parked before cutoff by an earlier sweep are forgotten entirely.
func (s *serv) ExpireIdle(ctx context.Context, cutoff time.Time) (int, error) {
	// Forget users parked by an earlier sweep
	for _, userID := range s.registry.ParkedSince(cutoff) {
		s.forget(userID)
	}

	var (
		removed int
		errList []error
	)
	for _, userID := range s.registry.IdleSince(cutoff) {
		ok, err := s.expire(ctx, userID, cutoff)
		if err != nil {
			errList = append(errList, err)
			continue
		}
		if ok {
			removed++
		}
	}
	return removed, errors.Join(errList...)
}

func (s *serv) expire(ctx context.Context, userID int64, cutoff time.Time) (bool, error) {
	unlock := s.registry.Lock(userID)
	defer unlock()

	cur, ok := s.registry.Get(userID)
	if !ok || !cur.UpdatedAt.Before(cutoff) {
		return false, nil
	}

	switch cur.Status {
	case model.StatusInProgress:
		return false, nil
	case model.StatusAwaitingDifficulty:
		if _, err := s.refund(ctx, cur); err != nil {
			return false, err
		}
		s.log.Info().
			Int64("user_id", userID).
			Str("session_id", cur.ID).
			Str("refund", cur.BetAmount.StringFixed(model.MoneyPlaces)).
			Msg("idle session refunded")
	}

	s.registry.Park(userID)
	return true, nil
}

func (s *serv) forget(userID int64) {
	unlock := s.registry.Lock(userID)
	defer unlock()

	// The user may have come back between listing and locking.
	if _, ok := s.registry.Get(userID); ok {
		return
	}
	s.registry.Evict(userID)
	s.log.Debug().Int64("user_id", userID).Msg("parked user forgotten")
}
