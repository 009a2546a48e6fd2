package repositories

import (
	"gin-sessiongate/infra"
)

// New returns the user and blacklist repositories for the connected backend.
func New(backend *infra.Backend) (IAuthRepository, ITokenRepository) {
	if backend.Redis != nil {
		return NewRedisAuthRepository(backend.Redis), NewRedisTokenRepository(backend.Redis)
	}
	return NewAuthRepository(backend.DB), NewTokenRepository(backend.DB)
}
