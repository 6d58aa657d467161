package storage

import (
	"context"

	"github.com/mcoot/tankbattle/internal/model"
)

// Storage defines the interface for data persistence.
//
// Implementations enforce username/email uniqueness (model.ErrConflict) and
// cascade a user's deletion to every game record naming them as player 1
// or winner. Connectivity failures are reported as model.ErrStoreUnavailable.
type Storage interface {
	// User operations
	CreateUser(ctx context.Context, user *model.User) (model.UserID, error)
	GetUser(ctx context.Context, id model.UserID) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	SetUserAdmin(ctx context.Context, id model.UserID, isAdmin bool) error
	DeleteUser(ctx context.Context, id model.UserID) error

	// Game history operations
	AppendGame(ctx context.Context, record *model.GameRecord) (model.GameID, error)
	GamesForUser(ctx context.Context, id model.UserID, limit int) ([]model.GameRecord, error)
	StatsForUser(ctx context.Context, id model.UserID) (model.Stats, error)
	DeleteAllGames(ctx context.Context) error
	DeleteGamesForUser(ctx context.Context, id model.UserID) error

	// Ping checks the backend is reachable
	Ping(ctx context.Context) error
	// Close releases the backend's connections
	Close() error
}
