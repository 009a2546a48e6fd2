package services

import (
	"context"

	"gin-sessiongate/dto"
	"gin-sessiongate/repositories"
)

type IUserService interface {
	FindAll(ctx context.Context) ([]dto.UserProfile, error)
}

type UserService struct {
	repository repositories.IAuthRepository
}

func NewUserService(repository repositories.IAuthRepository) IUserService {
	return &UserService{repository: repository}
}

// FindAll projects every user record onto its public fields.
func (s *UserService) FindAll(ctx context.Context) ([]dto.UserProfile, error) {
	users, err := s.repository.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	profiles := make([]dto.UserProfile, 0, len(users))
	for _, user := range users {
		profiles = append(profiles, dto.UserProfile{
			Account: user.Account,
			Name:    user.Name,
		})
	}
	return profiles, nil
}
