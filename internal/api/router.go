package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/mcoot/tankbattle/internal/api/handler"
	apimw "github.com/mcoot/tankbattle/internal/api/middleware"
	"github.com/mcoot/tankbattle/internal/api/response"
	"github.com/mcoot/tankbattle/internal/middleware"
	"github.com/mcoot/tankbattle/internal/services/account"
	"github.com/mcoot/tankbattle/internal/services/auth"
	"github.com/mcoot/tankbattle/internal/services/history"
	"github.com/mcoot/tankbattle/internal/storage"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	AuthService    *auth.Service
	AccountService *account.Service
	HistoryService *history.Service
	// Storage is pinged by /api/health when set
	Storage        storage.Storage
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	authHandler := handler.NewAuthHandler(cfg.AuthService, cfg.AccountService)
	gameHandler := handler.NewGameHandler(cfg.HistoryService)
	accountHandler := handler.NewAccountHandler(cfg.HistoryService)

	// API subrouter with common middleware. Identity is resolved before
	// logging so access lines carry the user id.
	api := r.PathPrefix("/api").Subrouter()
	api.Use(apimw.Recovery(cfg.Logger))
	api.Use(middleware.Identify(cfg.AuthService, cfg.Logger))
	api.Use(middleware.Logging(cfg.Logger))

	// Public routes
	api.HandleFunc("/health", healthHandler(cfg.Storage, cfg.Logger)).Methods(http.MethodGet)
	api.HandleFunc("/register", authHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/login", authHandler.Login).Methods(http.MethodPost)

	// Routes requiring a session
	protected := api.NewRoute().Subrouter()
	protected.Use(apimw.RequireAuth)
	protected.HandleFunc("/logout", authHandler.Logout).Methods(http.MethodPost)
	protected.HandleFunc("/save_game", gameHandler.Save).Methods(http.MethodPost)
	protected.HandleFunc("/account", accountHandler.Get).Methods(http.MethodGet)

	return r
}

// healthTimeout bounds the store ping behind /api/health
const healthTimeout = 2 * time.Second

func healthHandler(store storage.Storage, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store != nil {
			ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
			defer cancel()
			if err := store.Ping(ctx); err != nil {
				logger.Warn("health check failed", slog.String("error", err.Error()))
				response.JSON(w, http.StatusServiceUnavailable, response.Health{Status: "unavailable"})
				return
			}
		}
		response.JSON(w, http.StatusOK, response.Health{Status: "ok"})
	}
}
