// Package common defines shared sentinel errors used across the taskdeck
// auth subsystem. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrInternal      = errors.New("internal error")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrAlreadyExists = errors.New("already exists")

	// Token lifecycle errors. ErrInvalidToken is the expected outcome for a
	// reused, forged, mistyped or expired credential token; treat it as a
	// value, not a failure, and never log it at error level.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
