package model

import (
	"github.com/shopspring/decimal"
)

type BetOption struct {
	Preset BetPreset
	Amount decimal.Decimal
}

// SessionView is the public projection of a session. It never contains
// the safe index of a level that has not been picked yet.
type SessionView struct {
	SessionID         string
	UserID            int64
	Status            Status
	BetAmount         decimal.Decimal
	LastBetAmount     decimal.Decimal
	ProfileID         string
	ProfileTitle      string
	ChoicesPerLevel   int
	LevelCount        int
	CurrentLevel      int
	Multipliers       []decimal.Decimal
	Revealed          []RevealedLevel
	CurrentMultiplier decimal.Decimal
	CashoutAmount     decimal.Decimal
	NextPayout        decimal.Decimal
	CanCashOut        bool
	Payout            decimal.Decimal
	BetOptions        []BetOption
}

func (s *Session) View(balance decimal.Decimal) SessionView {
	v := SessionView{
		SessionID:         s.ID,
		UserID:            s.UserID,
		Status:            s.Status,
		BetAmount:         s.BetAmount,
		LastBetAmount:     s.LastBetAmount,
		CurrentLevel:      s.CurrentLevel,
		Revealed:          append([]RevealedLevel(nil), s.Revealed...),
		CurrentMultiplier: s.CurrentMultiplier(),
		CashoutAmount:     s.CashoutAmount(),
		NextPayout:        s.NextPayout(),
		CanCashOut:        s.CanCashOut(),
		Payout:            s.Payout,
	}
	if s.Profile != nil {
		v.ProfileID = s.Profile.ID
		v.ProfileTitle = s.Profile.Title
		v.ChoicesPerLevel = s.Profile.ChoicesPerLevel
		v.LevelCount = s.Profile.Levels()
		v.Multipliers = append([]decimal.Decimal(nil), s.Profile.Multipliers...)
	}
	if s.Status == StatusAwaitingBet || s.Status.Terminal() {
		v.BetOptions = BetOptions(s.LastBetAmount, balance)
	}
	return v
}

// BetOptions lists the preset amounts offered on the bet menu.
// Quarter and half are taken from the last bet, or from the balance when
// there is none. Double is only offered after a bet.
func BetOptions(lastBet, balance decimal.Decimal) []BetOption {
	base := lastBet
	if !base.IsPositive() {
		base = balance
	}
	opts := []BetOption{
		{Preset: PresetQuarter, Amount: PresetAmount(PresetQuarter, base)},
		{Preset: PresetHalf, Amount: PresetAmount(PresetHalf, base)},
	}
	if lastBet.IsPositive() {
		opts = append(opts, BetOption{Preset: PresetDouble, Amount: PresetAmount(PresetDouble, lastBet)})
	}
	return append(opts, BetOption{Preset: PresetCustom})
}

// PresetAmount applies a preset to its base, truncated to cents.
func PresetAmount(p BetPreset, base decimal.Decimal) decimal.Decimal {
	switch p {
	case PresetQuarter:
		return TruncateCents(base.Div(decimal.NewFromInt(4)))
	case PresetHalf:
		return TruncateCents(base.Div(decimal.NewFromInt(2)))
	case PresetDouble:
		return TruncateCents(base.Mul(decimal.NewFromInt(2)))
	}
	return decimal.Zero
}
