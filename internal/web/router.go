package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	shared "github.com/mcoot/tankbattle/internal/middleware"
	"github.com/mcoot/tankbattle/internal/services/admin"
	"github.com/mcoot/tankbattle/internal/services/auth"
	"github.com/mcoot/tankbattle/internal/services/history"
	"github.com/mcoot/tankbattle/internal/web/handler"
	"github.com/mcoot/tankbattle/internal/web/middleware"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger         *slog.Logger
	AuthService    *auth.Service
	HistoryService *history.Service
	AdminService   *admin.Service
	StaticDir      string // Path to static files directory
	CookieSecure   bool   // Mark the session cookie Secure (HTTPS only)
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Apply global middleware to all routes. Identity is resolved before
	// logging so access lines carry the user id.
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(shared.Identify(cfg.AuthService, cfg.Logger))
	r.Use(shared.Logging(cfg.Logger))

	// Create handlers
	homeHandler := handler.NewHomeHandler()
	authHandler := handler.NewAuthHandler(cfg.AuthService, cfg.CookieSecure)
	pageHandler := handler.NewPageHandler(cfg.HistoryService)
	adminHandler := handler.NewAdminHandler(cfg.AdminService, cfg.Logger)

	// Static files
	if cfg.StaticDir != "" {
		staticHandler := http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir)))
		r.PathPrefix("/static/").Handler(staticHandler)
	}

	// Public routes
	public := r.NewRoute().Subrouter()
	public.Use(middleware.Flash())
	public.HandleFunc("/", homeHandler.Home).Methods(http.MethodGet)
	public.HandleFunc("/login", authHandler.LoginPage).Methods(http.MethodGet)
	public.HandleFunc("/login", authHandler.Login).Methods(http.MethodPost)
	public.HandleFunc("/register", authHandler.RegisterPage).Methods(http.MethodGet)
	public.HandleFunc("/register", authHandler.Register).Methods(http.MethodPost)
	public.HandleFunc("/logout", authHandler.Logout).Methods(http.MethodGet)

	// Protected routes (require auth)
	protected := r.NewRoute().Subrouter()
	protected.Use(middleware.Flash())
	protected.Use(middleware.Auth())
	protected.HandleFunc("/lobby", pageHandler.Lobby).Methods(http.MethodGet)
	protected.HandleFunc("/instructions", pageHandler.Instructions).Methods(http.MethodGet)
	protected.HandleFunc("/game/{mode}", pageHandler.Game).Methods(http.MethodGet)
	protected.HandleFunc("/account", pageHandler.Account).Methods(http.MethodGet)

	// Admin dashboard
	adminPage := r.NewRoute().Subrouter()
	adminPage.Use(middleware.Flash())
	adminPage.Use(middleware.AdminPage())
	adminPage.HandleFunc("/admin", adminHandler.Dashboard).Methods(http.MethodGet)

	// Admin JSON actions
	adminActions := r.PathPrefix("/admin").Subrouter()
	adminActions.Use(middleware.AdminAction())
	adminActions.HandleFunc("/delete_user/{id:[0-9]+}", adminHandler.DeleteUser).Methods(http.MethodPost)
	adminActions.HandleFunc("/clear_history", adminHandler.ClearHistory).Methods(http.MethodPost)
	adminActions.HandleFunc("/clear_user_history/{id:[0-9]+}", adminHandler.ClearUserHistory).Methods(http.MethodPost)
	adminActions.HandleFunc("/user_stats/{id:[0-9]+}", adminHandler.UserStats).Methods(http.MethodGet)

	return r
}
