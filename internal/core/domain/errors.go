package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUserExists         = errors.New("username already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid password")
	ErrInvalidRole        = errors.New("invalid role")

	ErrUnauthorized = errors.New("unauthorized")
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("token is invalid")
	ErrForbidden    = errors.New("forbidden")

	ErrCropNotFound  = errors.New("crop not found")
	ErrOfferNotFound = errors.New("offer not found")
)

// ValidationError reports bad input detected before any persistence call.
type ValidationError struct {
	// Missing lists required fields that were absent or empty, in declaration order.
	Missing []string
	// Message overrides the default rendering when set.
	Message string
}

func (e *ValidationError) Error() string {
	if len(e.Missing) > 0 {
		return "Missing required fields: " + strings.Join(e.Missing, ", ")
	}
	if e.Message != "" {
		return e.Message
	}
	return "invalid request"
}

// NewValidationError builds a ValidationError with a fixed message.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// RoleError is returned when the caller's role is not allowed to perform an action.
type RoleError struct {
	Want   Role
	Action string
}

func (e *RoleError) Error() string {
	return fmt.Sprintf("Only %ss can %s", e.Want, e.Action)
}

func (e *RoleError) Is(target error) bool { return target == ErrForbidden }
