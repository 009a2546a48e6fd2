package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"gin-sessiongate/models"
	"gin-sessiongate/repositories"
)

// Principal is the identity proven by a successful login or a verified token.
type Principal struct {
	Account string
}

type IAuthService interface {
	Signup(ctx context.Context, account, name, password string) error
	Login(ctx context.Context, account, password string) (*Principal, error)
}

type AuthService struct {
	repository repositories.IAuthRepository
	cost       int
}

func NewAuthService(repository repositories.IAuthRepository, bcryptCost int) IAuthService {
	return &AuthService{
		repository: repository,
		cost:       bcryptCost,
	}
}

func (s *AuthService) Signup(ctx context.Context, account, name, password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return ErrPasswordTooLong
		}
		return fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Account:  account,
		Name:     name,
		Password: string(hashedPassword),
	}
	return s.repository.CreateUser(ctx, user)
}

func (s *AuthService) Login(ctx context.Context, account, password string) (*Principal, error) {
	foundUser, err := s.repository.FindUser(ctx, account)
	if err != nil {
		return nil, err
	}
	if foundUser.Password == "" {
		return nil, ErrCredentialMissing
	}

	err = bcrypt.CompareHashAndPassword([]byte(foundUser.Password), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("compare password: %w", err)
	}

	return &Principal{Account: foundUser.Account}, nil
}
