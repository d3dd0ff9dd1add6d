package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the whole core. Handlers and the central error handler
// match these with errors.Is; no string matching anywhere.
var (
	// ErrInvalidCredentials covers both "no such user" and "wrong password"
	// so the login response cannot be used for username enumeration.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccessDenied is returned when valid credentials belong to a
	// non-admin account; login is restricted to administrators.
	ErrAccessDenied = errors.New("access denied: admin only")

	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")

	ErrCSRFMissing = errors.New("csrf token missing")
	ErrCSRFInvalid = errors.New("invalid csrf token")

	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	ErrUserNotFound   = errors.New("user not found")
	ErrUsernameExists = errors.New("username already exists")
	ErrSelfDelete     = errors.New("you cannot delete yourself")
)

// FieldError describes a single failed validation rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates field-level validation failures. It is returned
// by request binding/validation and rendered per-field in both response modes.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// FieldMap returns the errors keyed by field name, first message wins.
// Used by the HTML form renderer.
func (e *ValidationError) FieldMap() map[string]string {
	m := make(map[string]string, len(e.Fields))
	for _, f := range e.Fields {
		if _, ok := m[f.Field]; !ok {
			m[f.Field] = f.Message
		}
	}
	return m
}
