package tower

import (
	"tower_backend/internal/errs"
	"tower_backend/internal/model"
)

// selectDifficulty snapshots the profile and draws the ladder exactly once.
func (s *serv) selectDifficulty(a model.PlayerAction, cur *model.Session) (*model.Session, error) {
	if cur.Status != model.StatusAwaitingDifficulty {
		return nil, errs.Newf(errs.CodeInvalidAction, "difficulty cannot be chosen while %s", cur.Status)
	}
	profile, ok := s.byID[a.ProfileID]
	if !ok {
		return nil, errs.Newf(errs.CodeInvalidProfile, "unknown difficulty %q", a.ProfileID)
	}
	if cur.HasLadder() {
		return nil, s.violation(cur, "safe indices requested twice")
	}
	if !cur.Debited || cur.Settled {
		return nil, s.violation(cur, "difficulty selected without an open stake")
	}

	ladder, err := s.ladders.GenerateLadder(profile.ChoicesPerLevel, profile.Levels())
	if err != nil {
		return nil, errs.Wrap(errs.CodeInternalInvariantViolation, "generate ladder", err)
	}

	next := cur.Clone()
	snapshot := profile.Clone()
	next.Profile = &snapshot
	if err := next.AssignLadder(ladder); err != nil {
		return nil, err
	}
	next.Status = model.StatusInProgress
	next.CurrentLevel = 0
	next.UpdatedAt = s.now()
	return next, nil
}
