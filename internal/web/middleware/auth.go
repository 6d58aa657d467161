package middleware

import (
	"context"
	"net/http"

	"github.com/mcoot/tankbattle/internal/api/apierr"
	"github.com/mcoot/tankbattle/internal/authz"
	"github.com/mcoot/tankbattle/internal/middleware"
	"github.com/mcoot/tankbattle/internal/model"
)

// GetUser retrieves the authenticated user from the request context
// Returns nil if no user is authenticated
func GetUser(ctx context.Context) *model.User {
	return middleware.GetUser(ctx)
}

// Auth returns middleware that requires authentication
// Redirects to the login page if not authenticated
func Auth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := authz.RequireAuthenticated(GetUser(r.Context())); err != nil {
				http.Redirect(w, r, authz.LoginPath, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AdminPage returns middleware that requires an admin for a rendered page.
// Anonymous visitors go to the login page, players to the lobby.
func AdminPage() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := authz.RequireAdmin(GetUser(r.Context())); err != nil {
				http.Redirect(w, r, authz.LandingPath(GetUser(r.Context())), http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AdminAction returns middleware that requires an admin for a JSON action.
// Failures are answered with a JSON error instead of a redirect.
func AdminAction() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := authz.RequireAdmin(GetUser(r.Context())); err != nil {
				apierr.WriteError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
