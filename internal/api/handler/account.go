package handler

import (
	"net/http"

	"github.com/mcoot/tankbattle/internal/api/middleware"
	"github.com/mcoot/tankbattle/internal/api/response"
	"github.com/mcoot/tankbattle/internal/services/history"
)

// AccountHandler serves a user's own stats
type AccountHandler struct {
	historyService *history.Service
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(historyService *history.Service) *AccountHandler {
	return &AccountHandler{
		historyService: historyService,
	}
}

// Get handles GET /api/account
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	stats, err := h.historyService.StatsFor(r.Context(), user.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	recent, err := h.historyService.RecentFor(r.Context(), user.ID, history.AccountRecentLimit)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Account{
		Success:     true,
		User:        response.UserFromModel(user),
		Stats:       response.StatsFromModel(stats),
		RecentGames: response.GamesFromSummaries(recent),
	})
}
