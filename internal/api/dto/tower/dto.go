package tower

type ActionRequest struct {
	Kind             string `json:"kind"`
	SessionID        string `json:"session_id,omitempty"`
	Preset           string `json:"preset,omitempty"` // quarter, half, double, custom
	Amount           string `json:"amount,omitempty"` // "1,250.50" is accepted
	Profile          string `json:"profile,omitempty"`
	Level            int    `json:"level"`
	Index            int    `json:"index"`
	IdempotencyToken string `json:"idempotency_token,omitempty"`
}

type ActionResponse struct {
	Status  string       `json:"status,omitempty"`
	Balance string       `json:"balance"`
	Session *SessionView `json:"session,omitempty"`
	Error   *Error       `json:"error,omitempty"`
}

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type SessionView struct {
	SessionID         string          `json:"session_id"`
	Status            string          `json:"status"`
	BetAmount         string          `json:"bet_amount"`
	LastBetAmount     string          `json:"last_bet_amount"`
	ProfileID         string          `json:"profile_id,omitempty"`
	ProfileTitle      string          `json:"profile_title,omitempty"`
	ChoicesPerLevel   int             `json:"choices_per_level,omitempty"`
	LevelCount        int             `json:"level_count,omitempty"`
	CurrentLevel      int             `json:"current_level"`
	Multipliers       []string        `json:"multipliers,omitempty"`
	Revealed          []RevealedLevel `json:"revealed"`
	CurrentMultiplier string          `json:"current_multiplier"`
	CashoutAmount     string          `json:"cashout_amount"`
	NextPayout        string          `json:"next_payout"`
	CanCashOut        bool            `json:"can_cash_out"`
	Payout            string          `json:"payout"`
	BetOptions        []BetOption     `json:"bet_options,omitempty"`
}

type RevealedLevel struct {
	Level       int  `json:"level"`
	ChosenIndex int  `json:"chosen_index"`
	SafeIndex   int  `json:"safe_index"`
	Survived    bool `json:"survived"`
}

type BetOption struct {
	Preset string `json:"preset"`
	Amount string `json:"amount,omitempty"` // empty for custom
}

type Profile struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	ChoicesPerLevel int      `json:"choices_per_level"`
	Multipliers     []string `json:"multipliers"`
}
