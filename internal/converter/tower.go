package converter

import (
	"strings"
	"tower_backend/internal/api/dto/tower"
	"tower_backend/internal/model"

	"github.com/shopspring/decimal"
)

func ToPlayerAction(userID int64, req tower.ActionRequest) model.PlayerAction {
	return model.PlayerAction{
		UserID:           userID,
		Kind:             model.ActionKind(strings.TrimSpace(req.Kind)),
		SessionID:        strings.TrimSpace(req.SessionID),
		Preset:           model.BetPreset(strings.TrimSpace(req.Preset)),
		Amount:           req.Amount,
		ProfileID:        strings.TrimSpace(req.Profile),
		Level:            req.Level,
		Index:            req.Index,
		IdempotencyToken: req.IdempotencyToken,
	}
}

func ToActionResponse(res model.ActionResult) tower.ActionResponse {
	out := tower.ActionResponse{
		Status:  string(res.Status),
		Balance: money(res.Balance),
	}
	if res.View.SessionID != "" {
		view := toSessionView(res.View)
		out.Session = &view
	}
	if res.Error != nil {
		out.Error = &tower.Error{
			Code:    string(res.Error.Code),
			Message: res.Error.Message,
		}
	}
	return out
}

func toSessionView(v model.SessionView) tower.SessionView {
	revealed := make([]tower.RevealedLevel, len(v.Revealed))
	for i, r := range v.Revealed {
		revealed[i] = tower.RevealedLevel{
			Level:       r.Level,
			ChosenIndex: r.ChosenIndex,
			SafeIndex:   r.SafeIndex,
			Survived:    r.Survived,
		}
	}

	var options []tower.BetOption
	for _, o := range v.BetOptions {
		opt := tower.BetOption{Preset: string(o.Preset)}
		if o.Preset != model.PresetCustom {
			opt.Amount = money(o.Amount)
		}
		options = append(options, opt)
	}

	return tower.SessionView{
		SessionID:         v.SessionID,
		Status:            string(v.Status),
		BetAmount:         money(v.BetAmount),
		LastBetAmount:     money(v.LastBetAmount),
		ProfileID:         v.ProfileID,
		ProfileTitle:      v.ProfileTitle,
		ChoicesPerLevel:   v.ChoicesPerLevel,
		LevelCount:        v.LevelCount,
		CurrentLevel:      v.CurrentLevel,
		Multipliers:       multipliers(v.Multipliers),
		Revealed:          revealed,
		CurrentMultiplier: v.CurrentMultiplier.String(),
		CashoutAmount:     money(v.CashoutAmount),
		NextPayout:        money(v.NextPayout),
		CanCashOut:        v.CanCashOut,
		Payout:            money(v.Payout),
		BetOptions:        options,
	}
}

func ToProfiles(profiles []model.DifficultyProfile) []tower.Profile {
	result := make([]tower.Profile, len(profiles))
	for i, p := range profiles {
		result[i] = tower.Profile{
			ID:              p.ID,
			Title:           p.Title,
			ChoicesPerLevel: p.ChoicesPerLevel,
			Multipliers:     multipliers(p.Multipliers),
		}
	}
	return result
}

func multipliers(ms []decimal.Decimal) []string {
	if len(ms) == 0 {
		return nil
	}
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.String()
	}
	return out
}

func money(d decimal.Decimal) string {
	return d.StringFixed(model.MoneyPlaces)
}
