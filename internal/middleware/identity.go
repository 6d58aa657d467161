package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mcoot/tankbattle/internal/model"
	"github.com/mcoot/tankbattle/internal/services/auth"
)

// SessionCookieName is the cookie holding the session token
const SessionCookieName = "session"

type contextKey string

const sessionContextKey contextKey = "session"

// Identify resolves the request's session token, if any, and stores the
// session in the context. Requests without a valid token pass through
// as anonymous.
func Identify(authService *auth.Service, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			session, err := authService.ValidateSession(r.Context(), token)
			if err != nil {
				if !errors.Is(err, auth.ErrInvalidSession) {
					logger.Warn("session lookup failed", slog.String("error", err.Error()))
				}
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
		})
	}
}

// ExtractToken reads a bearer token, falling back to the session cookie
func ExtractToken(r *http.Request) string {
	// Check Authorization header first
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	// Fall back to cookie
	cookie, err := r.Cookie(SessionCookieName)
	if err == nil {
		return cookie.Value
	}

	return ""
}

// WithSession returns a context carrying the session
func WithSession(ctx context.Context, session *auth.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, session)
}

// GetSession returns the session from the request context, or nil
func GetSession(ctx context.Context) *auth.Session {
	session, _ := ctx.Value(sessionContextKey).(*auth.Session)
	return session
}

// GetUser returns the authenticated user, or nil for anonymous requests
func GetUser(ctx context.Context) *model.User {
	session := GetSession(ctx)
	if session == nil {
		return nil
	}
	return &session.User
}
