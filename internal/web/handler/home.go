package handler

import (
	"net/http"

	"github.com/mcoot/tankbattle/internal/authz"
	"github.com/mcoot/tankbattle/internal/web/middleware"
)

// HomeHandler handles the root path
type HomeHandler struct{}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler() *HomeHandler {
	return &HomeHandler{}
}

// Home sends the visitor to wherever they belong
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, authz.LandingPath(middleware.GetUser(r.Context())), http.StatusSeeOther)
}
