package account

import (
	"net/http"
	"strconv"
	"tower_backend/internal/converter"
	"tower_backend/internal/middleware"
	"tower_backend/internal/service"
	"tower_backend/pkg/resp"

	"github.com/rs/zerolog"
)

const (
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 100
)

type HandlerDeps struct {
	Serv service.LedgerService
	Log  zerolog.Logger
}

type Handler struct {
	serv service.LedgerService
	log  zerolog.Logger
}

func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{serv: deps.Serv, log: deps.Log}
}

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unknown caller", http.StatusUnauthorized)
		return
	}

	sum, err := h.serv.AccountSummary(r.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Int64("user_id", userID).Msg("account summary failed")
		http.Error(w, "account could not be loaded", http.StatusInternalServerError)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToSummaryResponse(sum))
}

// Leaderboard lists the top wagerers. ?limit defaults to 10 and is capped at 100.
func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit := defaultLeaderboardLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = min(n, maxLeaderboardLimit)
	}

	entries, err := h.serv.Leaderboard(r.Context(), limit)
	if err != nil {
		h.log.Error().Err(err).Msg("leaderboard failed")
		http.Error(w, "leaderboard could not be loaded", http.StatusInternalServerError)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToLeaderboardResponse(entries))
}
