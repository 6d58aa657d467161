// Package authz decides who may reach what. It holds no state: callers
// pass the resolved identity, nil meaning anonymous.
package authz

import "github.com/mcoot/tankbattle/internal/model"

// Landing pages
const (
	LoginPath = "/login"
	LobbyPath = "/lobby"
	AdminPath = "/admin"
)

// RequireAuthenticated fails for anonymous visitors
func RequireAuthenticated(identity *model.User) error {
	if identity == nil {
		return model.ErrUnauthenticated
	}
	return nil
}

// RequireAdmin fails for anonymous visitors and non-admins
func RequireAdmin(identity *model.User) error {
	if err := RequireAuthenticated(identity); err != nil {
		return err
	}
	if !identity.IsAdmin {
		return model.ErrForbidden
	}
	return nil
}

// LandingPath is where a visitor belongs: admins on the dashboard,
// players in the lobby, everyone else at the login form
func LandingPath(identity *model.User) string {
	switch {
	case identity == nil:
		return LoginPath
	case identity.IsAdmin:
		return AdminPath
	default:
		return LobbyPath
	}
}
