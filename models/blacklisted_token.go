package models

import (
	"time"

	"gorm.io/gorm"
)

// BlacklistedToken is the SQL form of a revocation entry.
type BlacklistedToken struct {
	gorm.Model
	Token string `gorm:"not null;unique;index"`
	// ExpiresAt is the revoked token's own expiry in unix milliseconds. Rows
	// at or before ExpiryCutoff(now) are ignored on lookup and removed by the
	// janitor.
	ExpiresAt int64 `gorm:"not null;index"`
}

func NewBlacklistedToken(token string, expiresAt time.Time) BlacklistedToken {
	return BlacklistedToken{Token: token, ExpiresAt: expiresAt.UnixMilli()}
}

func (t BlacklistedToken) Expiry() time.Time {
	return time.UnixMilli(t.ExpiresAt)
}

// ExpiryCutoff is the ExpiresAt value below which a row is stale at now.
func ExpiryCutoff(now time.Time) int64 {
	return now.UnixMilli()
}
