package handler

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/tankbattle/internal/api/apierr"
	"github.com/mcoot/tankbattle/internal/api/response"
	"github.com/mcoot/tankbattle/internal/model"
	"github.com/mcoot/tankbattle/internal/services/admin"
	"github.com/mcoot/tankbattle/internal/web/middleware"
	"github.com/mcoot/tankbattle/internal/web/templates/pages"
)

// AdminHandler serves the admin dashboard and its actions
type AdminHandler struct {
	adminService *admin.Service
	logger       *slog.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(adminService *admin.Service, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		logger:       logger,
	}
}

// Dashboard renders the user directory
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	users, err := h.adminService.ListUsers(r.Context(), middleware.GetUser(r.Context()))
	if err != nil {
		h.logger.Error("failed to list users", slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	render(w, r, pages.Admin(pages.AdminData{
		PageData: pageData(r, "Admin"),
		Users:    users,
	}))
}

// DeleteUser handles POST /admin/delete_user/{id}
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := userIDVar(w, r)
	if !ok {
		return
	}

	if err := h.adminService.DeleteUser(r.Context(), middleware.GetUser(r.Context()), id); err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.OK(w)
}

// ClearHistory handles POST /admin/clear_history
func (h *AdminHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.adminService.ClearHistory(r.Context(), middleware.GetUser(r.Context())); err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.OK(w)
}

// ClearUserHistory handles POST /admin/clear_user_history/{id}
func (h *AdminHandler) ClearUserHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := userIDVar(w, r)
	if !ok {
		return
	}

	if err := h.adminService.ClearUserHistory(r.Context(), middleware.GetUser(r.Context()), id); err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.OK(w)
}

// UserStats handles GET /admin/user_stats/{id}
func (h *AdminHandler) UserStats(w http.ResponseWriter, r *http.Request) {
	id, ok := userIDVar(w, r)
	if !ok {
		return
	}

	detail, err := h.adminService.UserDetail(r.Context(), middleware.GetUser(r.Context()), id)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.UserStatsFromDetail(detail))
}

func userIDVar(w http.ResponseWriter, r *http.Request) (model.UserID, bool) {
	id, err := model.ParseUserID(mux.Vars(r)["id"])
	if err != nil {
		apierr.WriteError(w, err)
		return 0, false
	}
	return id, true
}
