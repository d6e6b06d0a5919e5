package tower

import (
	"net/http"
	dto "tower_backend/internal/api/dto/tower"
	"tower_backend/internal/converter"
	"tower_backend/internal/middleware"
	"tower_backend/internal/service"
	"tower_backend/pkg/req"
	"tower_backend/pkg/resp"

	"github.com/rs/zerolog"
)

type HandlerDeps struct {
	Serv service.TowerService
	Log  zerolog.Logger
}

type Handler struct {
	serv service.TowerService
	log  zerolog.Logger
}

func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{serv: deps.Serv, log: deps.Log}
}

// Action applies one player action. Rejected actions are ordinary game
// outcomes and are answered with 200 and an error object.
func (h *Handler) Action(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unknown caller")
		return
	}

	payload, err := req.Decode[dto.ActionRequest](r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	result, err := h.serv.Handle(r.Context(), converter.ToPlayerAction(userID, payload))
	if err != nil {
		h.log.Error().Err(err).Int64("user_id", userID).Str("action", payload.Kind).Msg("action failed")
		writeError(w, http.StatusInternalServerError, "INTERNAL", "action could not be completed, try again")
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToActionResponse(result))
}

func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unknown caller")
		return
	}

	result, err := h.serv.View(r.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Int64("user_id", userID).Msg("view failed")
		writeError(w, http.StatusInternalServerError, "INTERNAL", "session could not be loaded")
		return
	}

	status := http.StatusOK
	if result.Error != nil {
		status = result.Error.Code.HTTPStatus()
	}
	resp.WriteJSONResponse(w, status, converter.ToActionResponse(result))
}

func (h *Handler) Profiles(w http.ResponseWriter, _ *http.Request) {
	resp.WriteJSONResponse(w, http.StatusOK, converter.ToProfiles(h.serv.Profiles()))
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	resp.WriteJSONResponse(w, status, dto.ActionResponse{
		Error: &dto.Error{Code: code, Message: msg},
	})
}
