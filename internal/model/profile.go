package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	MinChoicesPerLevel = 2
	MaxChoicesPerLevel = 4
)

// DifficultyProfile describes one tower: how many tiles per level and the
// cumulative multiplier reached after clearing each level.
type DifficultyProfile struct {
	ID              string
	Title           string
	ChoicesPerLevel int
	Multipliers     []decimal.Decimal
}

func (p DifficultyProfile) Levels() int {
	return len(p.Multipliers)
}

// Validate checks choice bounds and that multipliers are > 1 and strictly increasing.
func (p DifficultyProfile) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("profile id is required")
	}
	if p.ChoicesPerLevel < MinChoicesPerLevel || p.ChoicesPerLevel > MaxChoicesPerLevel {
		return fmt.Errorf("profile %q: choices per level must be between %d and %d, got %d",
			p.ID, MinChoicesPerLevel, MaxChoicesPerLevel, p.ChoicesPerLevel)
	}
	if len(p.Multipliers) == 0 {
		return fmt.Errorf("profile %q: at least one level is required", p.ID)
	}
	one := decimal.NewFromInt(1)
	for i, m := range p.Multipliers {
		if !m.GreaterThan(one) {
			return fmt.Errorf("profile %q: multiplier %d (%s) must be greater than 1", p.ID, i+1, m)
		}
		if i > 0 && !m.GreaterThan(p.Multipliers[i-1]) {
			return fmt.Errorf("profile %q: multiplier %d (%s) must exceed the previous one", p.ID, i+1, m)
		}
	}
	return nil
}

// Clone returns a copy that does not share the multiplier slice.
func (p DifficultyProfile) Clone() DifficultyProfile {
	c := p
	c.Multipliers = append([]decimal.Decimal(nil), p.Multipliers...)
	return c
}

// DefaultProfiles are used when no profile file is configured.
func DefaultProfiles() []DifficultyProfile {
	return []DifficultyProfile{
		{
			ID:              "easy",
			Title:           "Easy",
			ChoicesPerLevel: 3,
			Multipliers:     decimals("1.2", "1.52", "2.07", "2.5", "3.0"),
		},
		{
			ID:              "hard",
			Title:           "Hard",
			ChoicesPerLevel: 3,
			Multipliers:     decimals("1.2", "1.52", "2.0", "2.5", "3.5", "4.0", "5.0"),
		},
		{
			ID:              "extreme",
			Title:           "Extreme",
			ChoicesPerLevel: 4,
			Multipliers:     decimals("1.2", "1.52", "2.07", "2.5", "3.5", "4.5", "6.0", "8.0", "10.0"),
		},
	}
}

func decimals(values ...string) []decimal.Decimal {
	out := make([]decimal.Decimal, len(values))
	for i, v := range values {
		out[i] = decimal.RequireFromString(v)
	}
	return out
}
