package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/tankbattle/internal/model"
	"github.com/mcoot/tankbattle/internal/services/auth"
)

// ErrorResponse is the body of every failed JSON request
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Common error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeSelfDeletion       = "SELF_DELETION"
	CodeSelfDemotion       = "SELF_DEMOTION"
	CodeUnavailable        = "STORE_UNAVAILABLE"
	CodeInternalError      = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with a code and message
type httpError struct {
	status  int
	code    string
	message string
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Message: he.message, Code: he.code})
}

// Status returns the status code err would be written with
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	// Validation errors carry their own message
	case errors.Is(err, model.ErrInvalidUsername),
		errors.Is(err, model.ErrInvalidEmail),
		errors.Is(err, model.ErrPasswordTooShort),
		errors.Is(err, model.ErrInvalidGameMode),
		errors.Is(err, model.ErrInvalidWinner),
		errors.Is(err, model.ErrInvalidNation):
		return &httpError{http.StatusBadRequest, CodeInvalidRequest, err.Error()}

	case errors.Is(err, model.ErrConflict):
		return &httpError{http.StatusConflict, CodeConflict, "Username or email already exists"}
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, CodeInvalidCredentials, "Invalid username or password"}
	case errors.Is(err, model.ErrUnauthenticated), errors.Is(err, auth.ErrInvalidSession):
		return &httpError{http.StatusForbidden, CodeUnauthorized, "Authentication required"}
	case errors.Is(err, model.ErrForbidden):
		return &httpError{http.StatusForbidden, CodeForbidden, "Unauthorized"}
	case errors.Is(err, model.ErrUserNotFound):
		return &httpError{http.StatusNotFound, CodeUserNotFound, "User not found"}
	case errors.Is(err, model.ErrSelfDeletion):
		return &httpError{http.StatusBadRequest, CodeSelfDeletion, "Cannot delete yourself"}
	case errors.Is(err, model.ErrSelfDemotion):
		return &httpError{http.StatusBadRequest, CodeSelfDemotion, "Cannot revoke your own admin rights"}
	case errors.Is(err, model.ErrStoreUnavailable):
		return &httpError{http.StatusServiceUnavailable, CodeUnavailable, "Service temporarily unavailable"}

	default:
		return &httpError{http.StatusInternalServerError, CodeInternalError, "Internal server error"}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, CodeInvalidRequest, message}
}

// NewUnauthorizedError creates an authentication required error
func NewUnauthorizedError() error {
	return &httpError{http.StatusForbidden, CodeUnauthorized, "Authentication required"}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, CodeInternalError, "Internal server error"}
}
