package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mcoot/tankbattle/internal/api/middleware"
	"github.com/mcoot/tankbattle/internal/api/request"
	"github.com/mcoot/tankbattle/internal/api/response"
	"github.com/mcoot/tankbattle/internal/model"
	"github.com/mcoot/tankbattle/internal/services/history"
)

// GameHandler records finished matches reported by the game client
type GameHandler struct {
	historyService *history.Service
}

// NewGameHandler creates a new game handler
func NewGameHandler(historyService *history.Service) *GameHandler {
	return &GameHandler{
		historyService: historyService,
	}
}

// Save handles POST /api/save_game
func (h *GameHandler) Save(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	var req request.SaveGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	params := history.RecordParams{
		PlayerID:      user.ID,
		Mode:          model.GameMode(req.GameMode),
		Player1Nation: model.Nation(req.Player1Nation),
		Player2Nation: model.Nation(req.Player2Nation),
		Winner:        model.WinnerFlag(req.Winner),
	}
	if req.Player2ID != nil {
		opponent := model.UserID(*req.Player2ID)
		params.Player2ID = &opponent
	}

	if _, err := h.historyService.Record(r.Context(), params); err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w)
}
