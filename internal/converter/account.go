package converter

import (
	"tower_backend/internal/api/dto/account"
	"tower_backend/internal/model"
)

func ToSummaryResponse(sum model.AccountSummary) account.SummaryResponse {
	return account.SummaryResponse{
		UserID:          sum.UserID,
		Balance:         money(sum.Balance),
		LifetimeWagered: money(sum.LifetimeWagered),
		LifetimeWon:     money(sum.LifetimeWon),
	}
}

func ToLeaderboardResponse(entries []model.LeaderboardEntry) account.LeaderboardResponse {
	result := make([]account.LeaderboardEntry, len(entries))
	for i, e := range entries {
		result[i] = account.LeaderboardEntry{
			Rank:            e.Rank,
			UserID:          e.UserID,
			LifetimeWagered: money(e.LifetimeWagered),
			LifetimeWon:     money(e.LifetimeWon),
		}
	}
	return account.LeaderboardResponse{Entries: result}
}
