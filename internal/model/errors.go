package model

import "errors"

// Common errors used across the application
var (
	// Account errors
	ErrUserNotFound     = errors.New("user not found")
	ErrConflict         = errors.New("username or email already exists")
	ErrSelfDeletion     = errors.New("cannot delete yourself")
	ErrSelfDemotion     = errors.New("cannot revoke your own admin rights")
	ErrUnauthenticated  = errors.New("authentication required")
	ErrForbidden        = errors.New("admin privileges required")
	ErrInvalidUsername  = errors.New("invalid username")
	ErrInvalidEmail     = errors.New("invalid email")
	ErrPasswordTooShort = errors.New("password too short")

	// Game history errors
	ErrInvalidGameMode = errors.New("invalid game mode")
	ErrInvalidWinner   = errors.New("winner must be 1 or 2")
	ErrInvalidNation   = errors.New("invalid nation")

	// Storage errors
	ErrStoreUnavailable = errors.New("store unavailable")
)
