package model

import (
	"time"
	"tower_backend/internal/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusAwaitingBet            Status = "awaiting_bet"
	StatusAwaitingCustomBetInput Status = "awaiting_custom_bet_input"
	StatusAwaitingDifficulty     Status = "awaiting_difficulty"
	StatusInProgress             Status = "in_progress"
	StatusWon                    Status = "won"
	StatusLost                   Status = "lost"
	StatusCashedOut              Status = "cashed_out"
	StatusCancelled              Status = "cancelled"
)

// Terminal reports whether no further transition except a new cycle is allowed.
func (s Status) Terminal() bool {
	switch s {
	case StatusWon, StatusLost, StatusCashedOut, StatusCancelled:
		return true
	}
	return false
}

// RevealedLevel is a level the player has already picked on.
// SafeIndex is only ever known to the client through this record.
type RevealedLevel struct {
	Level       int
	ChosenIndex int
	SafeIndex   int
	Survived    bool
}

// Session is one bet cycle of one user. The engine never mutates a stored
// session; it clones, transitions the clone and commits it on success.
type Session struct {
	ID            string
	UserID        int64
	Status        Status
	BetAmount     decimal.Decimal
	LastBetAmount decimal.Decimal
	Profile       *DifficultyProfile
	// CurrentLevel counts cleared levels and is the index of the level in play.
	CurrentLevel int
	Revealed     []RevealedLevel
	Payout       decimal.Decimal
	// Debited is set once the stake has left the balance.
	Debited bool
	// Settled is set once the settlement (or refund) has been written.
	Settled   bool
	CreatedAt time.Time
	UpdatedAt time.Time

	safeIndices []int
}

func NewSession(userID int64, lastBet decimal.Decimal, now time.Time) *Session {
	return &Session{
		ID:            uuid.NewString(),
		UserID:        userID,
		Status:        StatusAwaitingBet,
		LastBetAmount: lastBet,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// AssignLadder stores the safe indices. It may be called once per session.
func (s *Session) AssignLadder(ladder []int) error {
	if s.safeIndices != nil {
		return errs.New(errs.CodeInternalInvariantViolation, "safe indices already assigned")
	}
	if s.Profile == nil {
		return errs.New(errs.CodeInternalInvariantViolation, "ladder assigned before profile")
	}
	if len(ladder) != s.Profile.Levels() {
		return errs.Newf(errs.CodeInternalInvariantViolation,
			"ladder has %d levels, profile %q has %d", len(ladder), s.Profile.ID, s.Profile.Levels())
	}
	for i, idx := range ladder {
		if idx < 0 || idx >= s.Profile.ChoicesPerLevel {
			return errs.Newf(errs.CodeInternalInvariantViolation, "safe index %d at level %d out of range", idx, i)
		}
	}
	s.safeIndices = append([]int(nil), ladder...)
	return nil
}

func (s *Session) HasLadder() bool {
	return s.safeIndices != nil
}

// SafeIndex returns the safe tile of a level (0-based).
func (s *Session) SafeIndex(level int) (int, bool) {
	if level < 0 || level >= len(s.safeIndices) {
		return 0, false
	}
	return s.safeIndices[level], true
}

func (s *Session) Clone() *Session {
	c := *s
	if s.Profile != nil {
		p := s.Profile.Clone()
		c.Profile = &p
	}
	c.Revealed = append([]RevealedLevel(nil), s.Revealed...)
	if s.safeIndices != nil {
		c.safeIndices = append([]int(nil), s.safeIndices...)
	}
	return &c
}

// CurrentMultiplier is the multiplier of the last cleared level, zero before the first.
func (s *Session) CurrentMultiplier() decimal.Decimal {
	if s.Profile == nil || s.CurrentLevel == 0 {
		return decimal.Zero
	}
	return s.Profile.Multipliers[s.CurrentLevel-1]
}

func (s *Session) CashoutAmount() decimal.Decimal {
	if s.CurrentLevel == 0 {
		return decimal.Zero
	}
	return Payout(s.BetAmount, s.CurrentMultiplier())
}

// NextPayout is what clearing the level in play would be worth.
func (s *Session) NextPayout() decimal.Decimal {
	if s.Profile == nil || s.CurrentLevel >= s.Profile.Levels() {
		return decimal.Zero
	}
	return Payout(s.BetAmount, s.Profile.Multipliers[s.CurrentLevel])
}

func (s *Session) CanCashOut() bool {
	return s.Status == StatusInProgress && s.CurrentLevel >= 1
}
