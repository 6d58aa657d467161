package account

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/tankbattle/internal/dependencies/clock"
	"github.com/mcoot/tankbattle/internal/model"
	"github.com/mcoot/tankbattle/internal/storage"
)

// Column limits of the users table
const (
	MaxUsernameLength = 50
	MaxEmailLength    = 100
	MinPasswordLength = 6
)

// Service is the credential store: it owns user creation, lookup and
// password verification
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
	cost    int
}

// New creates a new account Service
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger,
		cost:    bcrypt.DefaultCost,
	}
}

// WithHashCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func (s *Service) WithHashCost(cost int) *Service {
	s.cost = cost
	return s
}

// Create registers a new user with a hashed password
func (s *Service) Create(ctx context.Context, username, email, password string) (model.UserID, error) {
	if err := validate(username, email, password); err != nil {
		return 0, err
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return 0, err
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.clock.Now(),
	}

	id, err := s.storage.CreateUser(ctx, user)
	if err != nil {
		return 0, err
	}

	s.logger.Info("user created",
		slog.Int64("user_id", int64(id)),
		slog.String("username", username),
	)
	return id, nil
}

// HashPassword returns a salted one-way hash of the password
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// FindByUsername looks a user up by exact, case-sensitive username
func (s *Service) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.storage.GetUserByUsername(ctx, username)
}

// FindByID looks a user up by id
func (s *Service) FindByID(ctx context.Context, id model.UserID) (*model.User, error) {
	return s.storage.GetUser(ctx, id)
}

// VerifyPassword reports whether candidate matches the user's stored hash
func (s *Service) VerifyPassword(user *model.User, candidate string) bool {
	return CompareHash(user.PasswordHash, candidate)
}

// CompareHash compares a bcrypt hash against a plaintext candidate
func CompareHash(hash, candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(candidate)) == nil
}

// SetAdmin grants or revokes the admin flag
func (s *Service) SetAdmin(ctx context.Context, id model.UserID, isAdmin bool) error {
	if err := s.storage.SetUserAdmin(ctx, id, isAdmin); err != nil {
		return err
	}

	s.logger.Info("admin flag changed",
		slog.Int64("user_id", int64(id)),
		slog.Bool("is_admin", isAdmin),
	)
	return nil
}

// Delete removes a user and, through the store, every record that
// references them as player 1 or winner
func (s *Service) Delete(ctx context.Context, actorID, id model.UserID) error {
	if actorID == id {
		return model.ErrSelfDeletion
	}

	if err := s.storage.DeleteUser(ctx, id); err != nil {
		return err
	}

	s.logger.Info("user deleted",
		slog.Int64("user_id", int64(id)),
		slog.Int64("actor_id", int64(actorID)),
	)
	return nil
}

// ListAll returns every user, most recently created first
func (s *Service) ListAll(ctx context.Context) ([]model.User, error) {
	return s.storage.ListUsers(ctx)
}

func validate(username, email, password string) error {
	if strings.TrimSpace(username) == "" || utf8.RuneCountInString(username) > MaxUsernameLength {
		return model.ErrInvalidUsername
	}
	if !strings.Contains(email, "@") || utf8.RuneCountInString(email) > MaxEmailLength {
		return model.ErrInvalidEmail
	}
	if len(password) < MinPasswordLength {
		return model.ErrPasswordTooShort
	}
	return nil
}
