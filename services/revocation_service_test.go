package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"gin-sessiongate/infra"
	"gin-sessiongate/models"
	"gin-sessiongate/repositories"
)

func claimsExpiringAt(exp time.Time) *Claims {
	return &Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "a1",
		ExpiresAt: jwt.NewNumericDate(exp),
	}}
}

func TestRevocationService_RedisBoundary(t *testing.T) {
	ctx := context.Background()
	mr, client := newRedisClient(t)

	now := time.Now()
	svc := NewRevocationService(repositories.NewRedisTokenRepository(client), func() time.Time { return now })
	claims := claimsExpiringAt(now.Add(time.Hour))

	require.NoError(t, svc.Revoke(ctx, "tok", claims))
	revoked, err := svc.IsRevoked(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, revoked)
	mr.CheckGet(t, "token:blacklist:tok", "tok")

	ttl := mr.TTL("token:blacklist:tok")
	assert.InDelta(t, time.Hour.Seconds(), ttl.Seconds(), 1)

	mr.FastForward(time.Hour + time.Second)
	revoked, err = svc.IsRevoked(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRevocationService_Idempotent(t *testing.T) {
	ctx := context.Background()
	_, client := newRedisClient(t)
	svc := NewRevocationService(repositories.NewRedisTokenRepository(client), nil)
	claims := claimsExpiringAt(time.Now().Add(time.Hour))

	require.NoError(t, svc.Revoke(ctx, "tok", claims))
	require.NoError(t, svc.Revoke(ctx, "tok", claims))

	revoked, err := svc.IsRevoked(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestRevocationService_ExpiredTokenWritesNothing(t *testing.T) {
	ctx := context.Background()
	mr, client := newRedisClient(t)
	svc := NewRevocationService(repositories.NewRedisTokenRepository(client), nil)

	require.NoError(t, svc.Revoke(ctx, "old", claimsExpiringAt(time.Now().Add(-time.Minute))))
	require.NoError(t, svc.Revoke(ctx, "none", nil))

	assert.Empty(t, mr.Keys())
}

func newSQLRevocation(t *testing.T, clock *time.Time) (*RevocationService, *gorm.DB) {
	t.Helper()
	db, err := infra.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, infra.Migrate(db))

	now := func() time.Time { return *clock }
	repository := repositories.NewTokenRepository(db, repositories.WithClock(now))
	return NewRevocationService(repository, now), db
}

func TestRevocationService_SQLBoundary(t *testing.T) {
	ctx := context.Background()
	clock := time.Now()
	svc, _ := newSQLRevocation(t, &clock)

	require.NoError(t, svc.Revoke(ctx, "tok", claimsExpiringAt(clock.Add(time.Hour))))
	revoked, err := svc.IsRevoked(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, revoked)

	clock = clock.Add(time.Hour + time.Second)
	revoked, err = svc.IsRevoked(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRevocationService_JanitorPurgesExpiredRows(t *testing.T) {
	clock := time.Now()
	svc, db := newSQLRevocation(t, &clock)
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, svc.Revoke(ctx, "short", claimsExpiringAt(clock.Add(time.Minute))))
	require.NoError(t, svc.Revoke(ctx, "long", claimsExpiringAt(clock.Add(time.Hour))))
	clock = clock.Add(2 * time.Minute)

	logger, _ := test.NewNullLogger()
	done := svc.StartJanitor(ctx, 10*time.Millisecond, logger)

	assert.Eventually(t, func() bool {
		n, err := countBlacklisted(db)
		return err == nil && n == 1
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}

	revoked, err := svc.IsRevoked(context.Background(), "long")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func countBlacklisted(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&models.BlacklistedToken{}).Count(&count).Error
	return count, err
}
