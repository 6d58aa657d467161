// Package session holds server-side login sessions. A session outlives
// nothing but its expiry or an explicit logout.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/mcoot/tankbattle/internal/model"
)

// ErrNotFound is returned for unknown or expired sessions
var ErrNotFound = errors.New("session not found")

// Session binds an opaque id to the user who logged in
type Session struct {
	ID        string       `json:"id"`
	UserID    model.UserID `json:"user_id"`
	CreatedAt time.Time    `json:"created_at"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// Store persists sessions between requests
type Store interface {
	// Save stores the session until its ExpiresAt
	Save(ctx context.Context, s *Session) error
	// Get returns ErrNotFound for unknown or expired ids
	Get(ctx context.Context, id string) (*Session, error)
	// Delete is a no-op for unknown ids
	Delete(ctx context.Context, id string) error
	Close() error
}
