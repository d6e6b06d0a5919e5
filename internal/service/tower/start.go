package tower

import (
	"tower_backend/internal/errs"
	"tower_backend/internal/model"
)

// start opens the bet menu. A live session is shown again unchanged.
func (s *serv) start(userID int64, cur *model.Session, exists bool) *model.Session {
	if !exists {
		return s.registry.GetOrCreate(userID)
	}
	if cur.Status.Terminal() {
		return s.newSession(userID, cur.LastBetAmount)
	}
	return cur
}

// retry starts a new cycle after a finished one, keeping the last bet.
func (s *serv) retry(userID int64, cur *model.Session, exists bool) (*model.Session, error) {
	if !exists {
		return nil, errs.New(errs.CodeSessionNotFound, "no game to retry, start a new one")
	}
	if !cur.Status.Terminal() {
		return nil, errs.New(errs.CodeInvalidAction, "the current game is not finished")
	}
	return s.newSession(userID, cur.LastBetAmount), nil
}
