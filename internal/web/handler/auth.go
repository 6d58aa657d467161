package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/mcoot/tankbattle/internal/api/apierr"
	"github.com/mcoot/tankbattle/internal/api/request"
	"github.com/mcoot/tankbattle/internal/api/response"
	"github.com/mcoot/tankbattle/internal/authz"
	shared "github.com/mcoot/tankbattle/internal/middleware"
	"github.com/mcoot/tankbattle/internal/services/auth"
	"github.com/mcoot/tankbattle/internal/web/middleware"
	"github.com/mcoot/tankbattle/internal/web/templates/pages"
)

// AuthHandler handles authentication pages and actions
type AuthHandler struct {
	authService  *auth.Service
	cookieSecure bool
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *auth.Service, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		cookieSecure: cookieSecure,
	}
}

// LoginPage renders the login page
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if user := middleware.GetUser(r.Context()); user != nil {
		// Already logged in
		http.Redirect(w, r, authz.LandingPath(user), http.StatusSeeOther)
		return
	}

	render(w, r, pages.Login(pageData(r, "Login")))
}

// RegisterPage renders the registration page
func (h *AuthHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	if user := middleware.GetUser(r.Context()); user != nil {
		// Already logged in
		http.Redirect(w, r, authz.LandingPath(user), http.StatusSeeOther)
		return
	}

	render(w, r, pages.Register(pageData(r, "Register")))
}

// Login handles login submission and replies with where to go next
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := decode(r, &req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	session, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	h.setSessionCookie(w, session.Token)
	response.JSON(w, http.StatusOK, response.Redirect{Success: true, Redirect: authz.LandingPath(&session.User)})
}

// Register handles registration submission
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := decode(r, &req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	if _, err := h.authService.Register(r.Context(), req.Username, req.Email, req.Password); err != nil {
		apierr.WriteError(w, err)
		return
	}

	middleware.SetFlash(w, middleware.FlashSuccess, "Account created, please log in")
	response.JSON(w, http.StatusCreated, response.Redirect{Success: true, Redirect: authz.LoginPath})
}

// Logout destroys the session and returns to the login page
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := shared.ExtractToken(r); token != "" {
		_ = h.authService.Logout(r.Context(), token)
	}

	// Clear session cookie
	http.SetCookie(w, &http.Cookie{
		Name:     shared.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	middleware.SetFlash(w, middleware.FlashInfo, "You have been logged out")
	http.Redirect(w, r, authz.LoginPath, http.StatusSeeOther)
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     shared.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.authService.SessionDuration().Seconds()),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// decode reads a JSON body, falling back to form fields for browsers
// without scripting
func decode(r *http.Request, dst any) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		return json.NewDecoder(r.Body).Decode(dst)
	}
	if err := r.ParseForm(); err != nil {
		return err
	}
	switch v := dst.(type) {
	case *request.LoginRequest:
		v.Username = r.PostFormValue("username")
		v.Password = r.PostFormValue("password")
	case *request.RegisterRequest:
		v.Username = r.PostFormValue("username")
		v.Email = r.PostFormValue("email")
		v.Password = r.PostFormValue("password")
	}
	return nil
}
