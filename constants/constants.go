package constants

import "time"

// Store key layout
const (
	UserKeyPrefix      = "user:"
	BlacklistKeyPrefix = "token:blacklist:"
)

// TokenLifetime is the fixed validity window of every issued session token.
const TokenLifetime = 7 * 24 * time.Hour

// Response codes
const (
	CodeOK           = 0
	CodeFailed       = -1
	CodeUnauthorized = 401
	CodeInternal     = 500
)

// Error messages
const (
	ErrUnexpected      = "Unexpected error"
	ErrInvalidInput    = "invalid request body"
	ErrUserExists      = "user %s exists"
	ErrUserNotExists   = "user %s not exists"
	ErrPasswordMissing = "user %s's password not exists"
	ErrWrongPassword   = "uncorrect password"
	ErrPasswordTooLong = "password must be at most 72 bytes"
	ErrProtected       = "Protected resource, use Authorization header or %s cookie to get access"
	ErrTokenRevoked    = "The token is invalid after logout"
)

// Context keys set by the gatekeeper
const (
	ContextClaims = "claims"
	ContextToken  = "token"
)
