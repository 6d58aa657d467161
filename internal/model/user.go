package model

import (
	"strconv"
	"time"
)

// UserID is assigned by the store when a user is created
type UserID int64

// String returns the decimal form used in URLs and token subjects
func (id UserID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ParseUserID parses the decimal form produced by String
func ParseUserID(s string) (UserID, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, ErrUserNotFound
	}
	return UserID(n), nil
}

// User is an account holder. PasswordHash never leaves the server.
type User struct {
	ID           UserID
	Username     string // unique, case-sensitive
	Email        string // unique
	PasswordHash string // bcrypt hash
	IsAdmin      bool
	CreatedAt    time.Time
}
