package middleware

import (
	"context"
	"net/http"

	"github.com/mcoot/tankbattle/internal/api/apierr"
	"github.com/mcoot/tankbattle/internal/authz"
	"github.com/mcoot/tankbattle/internal/middleware"
	"github.com/mcoot/tankbattle/internal/model"
)

// RequireAuth rejects anonymous requests with a JSON 403.
// middleware.Identify must run first.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := authz.RequireAuthenticated(middleware.GetUser(r.Context())); err != nil {
			apierr.WriteError(w, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// MustGetUser returns the authenticated user or panics
func MustGetUser(ctx context.Context) *model.User {
	user := middleware.GetUser(ctx)
	if user == nil {
		panic("no user in context - auth middleware not applied?")
	}
	return user
}
