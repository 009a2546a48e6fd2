package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gin-sessiongate/models"
)

type ITokenRepository interface {
	// AddBlacklistedToken records token as revoked for ttl.
	AddBlacklistedToken(ctx context.Context, token string, ttl time.Duration) error
	IsTokenBlacklisted(ctx context.Context, token string) (bool, error)
	// CleanExpiredTokens drops entries whose ttl has passed. Stores with
	// native key expiry do nothing.
	CleanExpiredTokens(ctx context.Context) (int64, error)
}

type TokenRepository struct {
	db  *gorm.DB
	now func() time.Time
}

type TokenRepositoryOption func(*TokenRepository)

// WithClock replaces time.Now as the reference for expiry arithmetic.
func WithClock(now func() time.Time) TokenRepositoryOption {
	return func(r *TokenRepository) {
		r.now = now
	}
}

func NewTokenRepository(db *gorm.DB, opts ...TokenRepositoryOption) ITokenRepository {
	r := &TokenRepository{db: db, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *TokenRepository) AddBlacklistedToken(ctx context.Context, token string, ttl time.Duration) error {
	blacklistedToken := models.NewBlacklistedToken(token, r.now().Add(ttl))
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token"}},
		DoUpdates: clause.AssignmentColumns([]string{"expires_at", "updated_at"}),
	}).Create(&blacklistedToken)
	if result.Error != nil {
		return storeError("blacklist token", result.Error)
	}
	return nil
}

func (r *TokenRepository) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&models.BlacklistedToken{}).
		Where("token = ? AND expires_at > ?", token, models.ExpiryCutoff(r.now())).
		Count(&count)
	if result.Error != nil {
		return false, storeError("lookup blacklisted token", result.Error)
	}
	return count > 0, nil
}

func (r *TokenRepository) CleanExpiredTokens(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Unscoped().
		Where("expires_at <= ?", models.ExpiryCutoff(r.now())).
		Delete(&models.BlacklistedToken{})
	if result.Error != nil {
		return 0, storeError("clean blacklisted tokens", result.Error)
	}
	return result.RowsAffected, nil
}
