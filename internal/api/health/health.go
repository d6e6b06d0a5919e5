package health

import (
	"context"
	"net/http"
	"time"
	"tower_backend/pkg/resp"
)

// Pinger checks that the backing store answers.
type Pinger func(ctx context.Context) error

type Handler struct {
	ping Pinger
}

// NewHandler accepts a nil ping for stores that live in memory.
func NewHandler(ping Pinger) *Handler {
	return &Handler{ping: ping}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if h.ping != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			resp.WriteJSONResponse(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unavailable",
				"error":  err.Error(),
			})
			return
		}
	}
	resp.WriteJSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}
