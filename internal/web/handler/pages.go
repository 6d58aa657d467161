package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/tankbattle/internal/authz"
	"github.com/mcoot/tankbattle/internal/model"
	"github.com/mcoot/tankbattle/internal/services/history"
	"github.com/mcoot/tankbattle/internal/web/middleware"
	"github.com/mcoot/tankbattle/internal/web/templates/pages"
)

// PageHandler serves the signed-in player pages
type PageHandler struct {
	historyService *history.Service
}

// NewPageHandler creates a new PageHandler
func NewPageHandler(historyService *history.Service) *PageHandler {
	return &PageHandler{
		historyService: historyService,
	}
}

// Lobby renders the mode picker. Admins belong on the dashboard.
func (h *PageHandler) Lobby(w http.ResponseWriter, r *http.Request) {
	if user := middleware.GetUser(r.Context()); user.IsAdmin {
		http.Redirect(w, r, authz.AdminPath, http.StatusSeeOther)
		return
	}

	render(w, r, pages.Lobby(pageData(r, "Lobby")))
}

// Instructions renders the how-to-play page
func (h *PageHandler) Instructions(w http.ResponseWriter, r *http.Request) {
	render(w, r, pages.Instructions(pageData(r, "Instructions")))
}

// Game renders the game page for a known mode
func (h *PageHandler) Game(w http.ResponseWriter, r *http.Request) {
	mode := model.GameMode(mux.Vars(r)["mode"])
	if !mode.Valid() {
		http.Redirect(w, r, authz.LobbyPath, http.StatusSeeOther)
		return
	}

	render(w, r, pages.Game(pages.GameData{
		PageData: pageData(r, pages.ModeLabel(mode)),
		Mode:     mode,
	}))
}

// Account renders the player's stats and last games
func (h *PageHandler) Account(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	stats, err := h.historyService.StatsFor(r.Context(), user.ID)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	recent, err := h.historyService.RecentFor(r.Context(), user.ID, history.AccountRecentLimit)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	render(w, r, pages.Account(pages.AccountData{
		PageData: pageData(r, "Account"),
		Stats:    stats,
		Recent:   recent,
	}))
}
