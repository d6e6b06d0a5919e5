package env

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"tower_backend/internal/config"
	"tower_backend/internal/model"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const defaultStartingBalance = "5000"

type gameFile struct {
	StartingBalance string        `yaml:"starting_balance"`
	Profiles        []profileFile `yaml:"profiles"`
}

type profileFile struct {
	ID              string   `yaml:"id"`
	Title           string   `yaml:"title"`
	ChoicesPerLevel int      `yaml:"choices_per_level"`
	Multipliers     []string `yaml:"multipliers"`
}

type gameEnv struct {
	StartingBalance string `env:"STARTING_BALANCE"`
}

type gameConfig struct {
	startingBalance decimal.Decimal
	profiles        []model.DifficultyProfile
}

// NewGameConfigFromYAML reads profiles from path. A missing file falls back
// to the built-in profiles. STARTING_BALANCE overrides the file.
func NewGameConfigFromYAML(path string) (config.GameConfig, error) {
	var file gameFile
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read game config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse game config: %w", err)
		}
	}

	var fromEnv gameEnv
	if err := config.ParseEnv(&fromEnv); err != nil {
		return nil, err
	}

	balanceStr := defaultStartingBalance
	if strings.TrimSpace(file.StartingBalance) != "" {
		balanceStr = file.StartingBalance
	}
	if strings.TrimSpace(fromEnv.StartingBalance) != "" {
		balanceStr = fromEnv.StartingBalance
	}
	return newGameConfig(balanceStr, file.Profiles)
}

func newGameConfig(balanceStr string, files []profileFile) (*gameConfig, error) {
	balance, err := decimal.NewFromString(strings.TrimSpace(balanceStr))
	if err != nil {
		return nil, fmt.Errorf("invalid starting balance %q: %w", balanceStr, err)
	}
	if balance.IsNegative() || !model.ValidCents(balance) {
		return nil, fmt.Errorf("starting balance %s must be a non-negative amount in cents", balance)
	}

	profiles := model.DefaultProfiles()
	if len(files) > 0 {
		profiles = make([]model.DifficultyProfile, 0, len(files))
		for _, pf := range files {
			p, err := pf.toModel()
			if err != nil {
				return nil, err
			}
			profiles = append(profiles, p)
		}
	}

	seen := make(map[string]bool, len(profiles))
	for _, p := range profiles {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("duplicate profile id %q", p.ID)
		}
		seen[p.ID] = true
	}

	return &gameConfig{
		startingBalance: balance,
		profiles:        profiles,
	}, nil
}

func (pf profileFile) toModel() (model.DifficultyProfile, error) {
	p := model.DifficultyProfile{
		ID:              strings.TrimSpace(pf.ID),
		Title:           strings.TrimSpace(pf.Title),
		ChoicesPerLevel: pf.ChoicesPerLevel,
		Multipliers:     make([]decimal.Decimal, 0, len(pf.Multipliers)),
	}
	if p.Title == "" {
		p.Title = p.ID
	}
	for i, raw := range pf.Multipliers {
		m, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			return p, fmt.Errorf("profile %q: multiplier %d: %w", p.ID, i+1, err)
		}
		p.Multipliers = append(p.Multipliers, m)
	}
	return p, nil
}

func (c *gameConfig) StartingBalance() decimal.Decimal {
	return c.startingBalance
}

func (c *gameConfig) Profiles() []model.DifficultyProfile {
	out := make([]model.DifficultyProfile, len(c.profiles))
	for i, p := range c.profiles {
		out[i] = p.Clone()
	}
	return out
}
