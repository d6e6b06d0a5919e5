package model

import (
	"tower_backend/internal/errs"

	"github.com/shopspring/decimal"
)

type ActionKind string

const (
	ActionStart            ActionKind = "start"
	ActionPlaceBet         ActionKind = "place_bet"
	ActionSelectDifficulty ActionKind = "select_difficulty"
	ActionChoose           ActionKind = "choose"
	ActionCashOut          ActionKind = "cash_out"
	ActionCancel           ActionKind = "cancel"
	ActionRetry            ActionKind = "retry"
)

type BetPreset string

const (
	PresetQuarter BetPreset = "quarter"
	PresetHalf    BetPreset = "half"
	PresetDouble  BetPreset = "double"
	PresetCustom  BetPreset = "custom"
)

// PlayerAction is one request from the chat adapter.
// Only the fields relevant to Kind are read.
type PlayerAction struct {
	UserID    int64
	Kind      ActionKind
	SessionID string

	// PlaceBet: either a preset or an explicit amount.
	Preset BetPreset
	Amount string

	// SelectDifficulty
	ProfileID string

	// Choose
	Level int
	Index int

	IdempotencyToken string
}

// ActionResult is returned for every action, accepted or not.
// A rejected action carries Error and the unchanged view.
type ActionResult struct {
	Status  Status
	View    SessionView
	Balance decimal.Decimal
	Error   *errs.Error
}

func (r ActionResult) Accepted() bool {
	return r.Error == nil
}
