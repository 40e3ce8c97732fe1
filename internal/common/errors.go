// Package common defines shared constants and sentinel errors used across
// the service layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound    = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal         = errors.New("internal error")
	ErrValidation         = errors.New("validation error")
	ErrPersistenceFailure = errors.New("persistence failure")
	ErrHashingFailure     = errors.New("hashing failure")

	// Login errors. Both render as a generic authentication failure at the
	// HTTP boundary so unknown accounts cannot be enumerated; the split
	// exists for logging only.
	ErrNoSuchUser     = errors.New("no such user")
	ErrBadCredentials = errors.New("bad credentials")

	// Credential presentation errors.
	ErrMissingCredential = errors.New("missing credential")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrExpiredCredential = errors.New("expired credential")

	// ErrStaleCredential marks a refresh token that is cryptographically
	// valid but has been superseded by a newer login, rotation, or logout.
	ErrStaleCredential = errors.New("stale credential")

	// Token parsing errors (returned by the token codec).
	ErrTokenExpired     = errors.New("token expired")
	ErrTokenMalformed   = errors.New("token malformed")
	ErrTokenUnparseable = errors.New("token unparseable")
)
