// Package common defines sentinel errors shared across StudyLink layers.
// Callers should use errors.Is to match these values; wrapping with
// fmt.Errorf("...: %w", err) preserves the match.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Request validation errors.
	ErrValidation = errors.New("validation error")

	// Auth errors (bad credentials, invalid or expired token).
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Authorization errors (authenticated but not permitted).
	ErrForbidden = errors.New("forbidden")
)
