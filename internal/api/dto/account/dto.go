package account

type SummaryResponse struct {
	UserID          int64  `json:"user_id"`
	Balance         string `json:"balance"`
	LifetimeWagered string `json:"lifetime_wagered"`
	LifetimeWon     string `json:"lifetime_won"` // net of stakes, may be negative
}

type LeaderboardEntry struct {
	Rank            int    `json:"rank"`
	UserID          int64  `json:"user_id"`
	LifetimeWagered string `json:"lifetime_wagered"`
	LifetimeWon     string `json:"lifetime_won"`
}

type LeaderboardResponse struct {
	Entries []LeaderboardEntry `json:"entries"`
}
