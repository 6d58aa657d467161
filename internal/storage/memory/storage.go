package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/mcoot/tankbattle/internal/model"
	"github.com/mcoot/tankbattle/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	users         map[model.UserID]*model.User
	usernameIndex map[string]model.UserID
	emailIndex    map[string]model.UserID
	games         []*model.GameRecord

	nextUserID model.UserID
	nextGameID model.GameID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		users:         make(map[model.UserID]*model.User),
		usernameIndex: make(map[string]model.UserID),
		emailIndex:    make(map[string]model.UserID),
		nextUserID:    1,
		nextGameID:    1,
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Ping always succeeds for in-memory storage
func (s *Storage) Ping(ctx context.Context) error {
	return nil
}

// Close is a no-op for in-memory storage
func (s *Storage) Close() error {
	return nil
}

// User operations

func (s *Storage) CreateUser(ctx context.Context, user *model.User) (model.UserID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.usernameIndex[user.Username]; ok {
		return 0, model.ErrConflict
	}
	if _, ok := s.emailIndex[user.Email]; ok {
		return 0, model.ErrConflict
	}

	id := s.nextUserID
	s.nextUserID++

	stored := *user
	stored.ID = id
	s.users[id] = &stored
	s.usernameIndex[stored.Username] = id
	s.emailIndex[stored.Email] = id

	user.ID = id
	return id, nil
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	u := *user
	return &u, nil
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	u := *s.users[id]
	return &u, nil
}

func (s *Storage) ListUsers(ctx context.Context) ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]model.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool {
		if !users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].CreatedAt.After(users[j].CreatedAt)
		}
		return users[i].ID > users[j].ID
	})
	return users, nil
}

func (s *Storage) SetUserAdmin(ctx context.Context, id model.UserID, isAdmin bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return model.ErrUserNotFound
	}
	user.IsAdmin = isAdmin
	return nil
}

func (s *Storage) DeleteUser(ctx context.Context, id model.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return model.ErrUserNotFound
	}

	delete(s.usernameIndex, user.Username)
	delete(s.emailIndex, user.Email)
	delete(s.users, id)

	// Same cascade as the relational schema: player 1 and winner only
	s.games = s.filterGames(func(g *model.GameRecord) bool {
		return g.Player1ID == id || (g.WinnerID != nil && *g.WinnerID == id)
	})
	return nil
}

// Game history operations

func (s *Storage) AppendGame(ctx context.Context, record *model.GameRecord) (model.GameID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[record.Player1ID]; !ok {
		return 0, model.ErrUserNotFound
	}
	if record.WinnerID != nil {
		if _, ok := s.users[*record.WinnerID]; !ok {
			return 0, model.ErrUserNotFound
		}
	}

	id := s.nextGameID
	s.nextGameID++

	stored := *record
	stored.ID = id
	stored.Player2ID = copyID(record.Player2ID)
	stored.WinnerID = copyID(record.WinnerID)
	s.games = append(s.games, &stored)

	record.ID = id
	return id, nil
}

func (s *Storage) GamesForUser(ctx context.Context, id model.UserID, limit int) ([]model.GameRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var games []model.GameRecord
	for _, g := range s.games {
		if g.Involves(id) {
			games = append(games, copyRecord(g))
		}
	}
	sort.Slice(games, func(i, j int) bool {
		if !games[i].PlayedAt.Equal(games[j].PlayedAt) {
			return games[i].PlayedAt.After(games[j].PlayedAt)
		}
		return games[i].ID > games[j].ID
	})
	if limit > 0 && len(games) > limit {
		games = games[:limit]
	}
	return games, nil
}

func (s *Storage) StatsForUser(ctx context.Context, id model.UserID) (model.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stats model.Stats
	for _, g := range s.games {
		stats.Tally(g, id)
	}
	return stats, nil
}

func (s *Storage) DeleteAllGames(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games = nil
	return nil
}

func (s *Storage) DeleteGamesForUser(ctx context.Context, id model.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games = s.filterGames(func(g *model.GameRecord) bool {
		return g.Involves(id)
	})
	return nil
}

// filterGames returns the games not matching drop; callers hold the lock
func (s *Storage) filterGames(drop func(*model.GameRecord) bool) []*model.GameRecord {
	kept := s.games[:0]
	for _, g := range s.games {
		if !drop(g) {
			kept = append(kept, g)
		}
	}
	// Release dropped records still referenced past len(kept)
	clear(s.games[len(kept):])
	return kept
}

func copyID(id *model.UserID) *model.UserID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func copyRecord(g *model.GameRecord) model.GameRecord {
	c := *g
	c.Player2ID = copyID(g.Player2ID)
	c.WinnerID = copyID(g.WinnerID)
	return c
}
