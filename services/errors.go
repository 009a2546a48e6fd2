package services

import (
	"errors"

	"gin-sessiongate/repositories"
)

var (
	ErrAlreadyExists      = repositories.ErrUserExists
	ErrNotFound           = repositories.ErrUserNotFound
	ErrStoreUnavailable   = repositories.ErrStoreUnavailable
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrCredentialMissing is returned when a user record carries no password hash.
	ErrCredentialMissing = errors.New("stored credential missing")
	ErrPasswordTooLong   = errors.New("password too long")

	ErrMalformed    = errors.New("token is malformed")
	ErrBadSignature = errors.New("token signature is invalid")
	ErrExpired      = errors.New("token is expired")
	ErrRevoked      = errors.New("token is revoked")
)
