package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"gin-sessiongate/constants"
)

// Claims is the decoded payload of a session token.
type Claims struct {
	jwt.RegisteredClaims
}

func (c *Claims) Principal() Principal {
	return Principal{Account: c.Subject}
}

type ITokenService interface {
	Issue(principal Principal) (string, error)
	Verify(tokenString string) (*Claims, error)
}

type TokenService struct {
	secret []byte
	now    func() time.Time
}

func NewTokenService(secret []byte, now func() time.Time) ITokenService {
	if now == nil {
		now = time.Now
	}
	return &TokenService{secret: secret, now: now}
}

func (s *TokenService) Issue(principal Principal) (string, error) {
	issuedAt := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principal.Account,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(constants.TokenLifetime)),
		},
	})

	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return tokenString, nil
}

// Verify checks the signature before the expiry, so a forged token is
// reported as ErrBadSignature even when its exp has also passed.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(_ *jwt.Token) (interface{}, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrBadSignature
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpired
		default:
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
	}
	return claims, nil
}
