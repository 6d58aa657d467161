package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mcoot/tankbattle/internal/api/middleware"
	"github.com/mcoot/tankbattle/internal/api/request"
	"github.com/mcoot/tankbattle/internal/api/response"
	shared "github.com/mcoot/tankbattle/internal/middleware"
	"github.com/mcoot/tankbattle/internal/services/account"
	"github.com/mcoot/tankbattle/internal/services/auth"
)

// AuthHandler handles token-based login for API clients
type AuthHandler struct {
	authService    *auth.Service
	accountService *account.Service
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *auth.Service, accountService *account.Service) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		accountService: accountService,
	}
}

// Register handles POST /api/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	id, err := h.authService.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	user, err := h.accountService.FindByID(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.Registered{Success: true, User: response.UserFromModel(user)})
}

// Login handles POST /api/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Username == "" || req.Password == "" {
		WriteError(w, NewInvalidRequestError("username and password are required"))
		return
	}

	session, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AuthResponseFromSession(session))
}

// Logout handles POST /api/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	_ = middleware.MustGetUser(r.Context())
	session := shared.GetSession(r.Context())

	if err := h.authService.Logout(r.Context(), session.Token); err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w)
}
