package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mcoot/tankbattle/internal/dependencies/clock"
	"github.com/mcoot/tankbattle/internal/model"
	"github.com/mcoot/tankbattle/internal/services/account"
	"github.com/mcoot/tankbattle/internal/session"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidSession     = errors.New("invalid or expired session")
)

// Session is an authenticated identity resolved from a token
type Session struct {
	Token     string
	ID        string
	User      model.User
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Service handles login, logout, registration and token validation
type Service struct {
	accounts *account.Service
	sessions session.Store
	clock    clock.Clock
	logger   *slog.Logger

	secret          []byte
	sessionDuration time.Duration

	dummyOnce sync.Once
	dummyHash string
}

// Config holds configuration for the auth service
type Config struct {
	SessionDuration time.Duration
	// Secret signs session tokens
	Secret string
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		SessionDuration: 24 * time.Hour,
		Secret:          "dev-secret-key-change-in-production",
	}
}

// tokenClaims is the payload of a session token
type tokenClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// New creates a new auth Service
func New(accounts *account.Service, sessions session.Store, clock clock.Clock, cfg Config, logger *slog.Logger) *Service {
	defaults := DefaultConfig()
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = defaults.SessionDuration
	}
	if cfg.Secret == "" {
		cfg.Secret = defaults.Secret
	}
	return &Service{
		accounts:        accounts,
		sessions:        sessions,
		clock:           clock,
		logger:          logger,
		secret:          []byte(cfg.Secret),
		sessionDuration: cfg.SessionDuration,
	}
}

// Register creates an account. It does not log the new user in.
func (s *Service) Register(ctx context.Context, username, email, password string) (model.UserID, error) {
	return s.accounts.Create(ctx, username, email, password)
}

// Login verifies credentials and opens a session. Unknown usernames and
// wrong passwords both yield ErrInvalidCredentials after a bcrypt compare.
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	user, err := s.accounts.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			account.CompareHash(s.dummy(), password)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.accounts.VerifyPassword(user, password) {
		return nil, ErrInvalidCredentials
	}

	sess, err := s.createSession(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in",
		slog.Int64("user_id", int64(user.ID)),
		slog.String("session_id", sess.ID),
	)
	return sess, nil
}

// Logout ends the session behind the token. Unknown, expired or
// malformed tokens are ignored.
func (s *Service) Logout(ctx context.Context, token string) error {
	claims, err := s.parse(token, jwt.WithoutClaimsValidation())
	if err != nil {
		return nil
	}
	return s.sessions.Delete(ctx, claims.SessionID)
}

// ValidateSession resolves a token to its session and reloads the user,
// so admin changes and deletions apply to live sessions
func (s *Service) ValidateSession(ctx context.Context, token string) (*Session, error) {
	claims, err := s.parse(token)
	if err != nil {
		return nil, ErrInvalidSession
	}

	stored, err := s.sessions.Get(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, err
	}
	if stored.UserID.String() != claims.Subject {
		return nil, ErrInvalidSession
	}

	user, err := s.accounts.FindByID(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			_ = s.sessions.Delete(ctx, stored.ID)
			return nil, ErrInvalidSession
		}
		return nil, err
	}

	return &Session{
		Token:     token,
		ID:        stored.ID,
		User:      *user,
		CreatedAt: stored.CreatedAt,
		ExpiresAt: stored.ExpiresAt,
	}, nil
}

// SessionDuration is how long a new session stays valid
func (s *Service) SessionDuration() time.Duration {
	return s.sessionDuration
}

func (s *Service) createSession(ctx context.Context, user *model.User) (*Session, error) {
	now := s.clock.Now()
	stored := &session.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionDuration),
	}

	token, err := s.sign(stored)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, stored); err != nil {
		return nil, err
	}

	return &Session{
		Token:     token,
		ID:        stored.ID,
		User:      *user,
		CreatedAt: stored.CreatedAt,
		ExpiresAt: stored.ExpiresAt,
	}, nil
}

func (s *Service) sign(stored *session.Session) (string, error) {
	claims := tokenClaims{
		SessionID: stored.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   stored.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(stored.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(stored.ExpiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return token, nil
}

func (s *Service) parse(token string, opts ...jwt.ParserOption) (*tokenClaims, error) {
	opts = append(opts,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.clock.Now),
		jwt.WithExpirationRequired(),
	)

	claims := &tokenClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	if claims.SessionID == "" {
		return nil, ErrInvalidSession
	}
	return claims, nil
}

// dummy returns a hash to compare against when the user does not exist
func (s *Service) dummy() string {
	s.dummyOnce.Do(func() {
		hash, err := s.accounts.HashPassword(uuid.NewString())
		if err != nil {
			s.logger.Error("failed to build dummy hash", slog.String("error", err.Error()))
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}
