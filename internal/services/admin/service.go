package admin

import (
	"context"
	"log/slog"

	"github.com/mcoot/tankbattle/internal/authz"
	"github.com/mcoot/tankbattle/internal/model"
	"github.com/mcoot/tankbattle/internal/services/account"
	"github.com/mcoot/tankbattle/internal/services/history"
)

// UserDetail is the admin view of one account
type UserDetail struct {
	User   model.User
	Stats  model.Stats
	Recent []model.GameSummary
}

// Service is the admin directory. Every method checks that the acting
// identity is an admin before touching anything.
type Service struct {
	accounts *account.Service
	history  *history.Service
	logger   *slog.Logger
}

// New creates a new admin Service
func New(accounts *account.Service, history *history.Service, logger *slog.Logger) *Service {
	return &Service{
		accounts: accounts,
		history:  history,
		logger:   logger,
	}
}

// ListUsers returns every account, most recently created first
func (s *Service) ListUsers(ctx context.Context, actor *model.User) ([]model.User, error) {
	if err := authz.RequireAdmin(actor); err != nil {
		return nil, err
	}
	return s.accounts.ListAll(ctx)
}

// UserDetail returns an account with its stats and last few games
func (s *Service) UserDetail(ctx context.Context, actor *model.User, id model.UserID) (*UserDetail, error) {
	if err := authz.RequireAdmin(actor); err != nil {
		return nil, err
	}

	user, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	stats, err := s.history.StatsFor(ctx, id)
	if err != nil {
		return nil, err
	}
	recent, err := s.history.RecentFor(ctx, id, history.AdminRecentLimit)
	if err != nil {
		return nil, err
	}

	return &UserDetail{
		User:   *user,
		Stats:  stats,
		Recent: recent,
	}, nil
}

// DeleteUser removes an account other than the actor's own
func (s *Service) DeleteUser(ctx context.Context, actor *model.User, id model.UserID) error {
	if err := authz.RequireAdmin(actor); err != nil {
		return err
	}
	return s.accounts.Delete(ctx, actor.ID, id)
}

// ClearHistory deletes every game record
func (s *Service) ClearHistory(ctx context.Context, actor *model.User) error {
	if err := authz.RequireAdmin(actor); err != nil {
		return err
	}
	s.logger.Info("admin cleared all history", slog.Int64("actor_id", int64(actor.ID)))
	return s.history.ClearAll(ctx)
}

// ClearUserHistory deletes the records where the user was either player.
// Ids without records, including those of deleted users, succeed.
func (s *Service) ClearUserHistory(ctx context.Context, actor *model.User, id model.UserID) error {
	if err := authz.RequireAdmin(actor); err != nil {
		return err
	}
	return s.history.ClearFor(ctx, id)
}

// SetAdmin grants or revokes admin rights on another account
func (s *Service) SetAdmin(ctx context.Context, actor *model.User, id model.UserID, isAdmin bool) error {
	if err := authz.RequireAdmin(actor); err != nil {
		return err
	}
	if actor.ID == id && !isAdmin {
		return model.ErrSelfDemotion
	}
	return s.accounts.SetAdmin(ctx, id, isAdmin)
}

// SetAdminByUsername changes the admin flag for operator tooling that
// talks to the store directly and has no logged-in actor. It reports
// whether the flag actually changed.
func (s *Service) SetAdminByUsername(ctx context.Context, username string, isAdmin bool) (*model.User, bool, error) {
	user, err := s.accounts.FindByUsername(ctx, username)
	if err != nil {
		return nil, false, err
	}
	if user.IsAdmin == isAdmin {
		return user, false, nil
	}
	if err := s.accounts.SetAdmin(ctx, user.ID, isAdmin); err != nil {
		return nil, false, err
	}
	user.IsAdmin = isAdmin
	return user, true, nil
}
