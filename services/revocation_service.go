package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"gin-sessiongate/repositories"
)

type IRevocationService interface {
	Revoke(ctx context.Context, tokenString string, claims *Claims) error
	IsRevoked(ctx context.Context, tokenString string) (bool, error)
}

type RevocationService struct {
	tokenRepository repositories.ITokenRepository
	now             func() time.Time
}

func NewRevocationService(tokenRepository repositories.ITokenRepository, now func() time.Time) *RevocationService {
	if now == nil {
		now = time.Now
	}
	return &RevocationService{
		tokenRepository: tokenRepository,
		now:             now,
	}
}

// Revoke blacklists the token for the rest of its lifetime. A token that has
// already expired can never verify again, so nothing is written for it.
func (s *RevocationService) Revoke(ctx context.Context, tokenString string, claims *Claims) error {
	if claims == nil || claims.ExpiresAt == nil {
		return nil
	}
	ttl := claims.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	return s.tokenRepository.AddBlacklistedToken(ctx, tokenString, ttl)
}

func (s *RevocationService) IsRevoked(ctx context.Context, tokenString string) (bool, error) {
	return s.tokenRepository.IsTokenBlacklisted(ctx, tokenString)
}

// StartJanitor purges expired blacklist rows every interval until ctx is
// done. The returned channel is closed once the loop has exited.
func (s *RevocationService) StartJanitor(ctx context.Context, interval time.Duration, logger logrus.FieldLogger) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed, err := s.tokenRepository.CleanExpiredTokens(ctx)
				if err != nil {
					logger.WithError(err).Warn("clean expired tokens")
					continue
				}
				if removed > 0 {
					logger.WithField("removed", removed).Debug("cleaned expired tokens")
				}
			}
		}
	}()
	return done
}
