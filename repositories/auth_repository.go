package repositories

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"gin-sessiongate/models"
)

type IAuthRepository interface {
	// CreateUser inserts the user only if no record exists for its account.
	CreateUser(ctx context.Context, user models.User) error
	FindUser(ctx context.Context, account string) (*models.User, error)
	FindAll(ctx context.Context) ([]models.User, error)
}

type AuthRepository struct {
	db *gorm.DB
}

func NewAuthRepository(db *gorm.DB) IAuthRepository {
	return &AuthRepository{db: db}
}

func (r *AuthRepository) CreateUser(ctx context.Context, user models.User) error {
	result := r.db.WithContext(ctx).Create(&user)
	if result.Error != nil {
		if isDuplicate(result.Error) {
			return ErrUserExists
		}
		return storeError("create user", result.Error)
	}
	return nil
}

func (r *AuthRepository) FindUser(ctx context.Context, account string) (*models.User, error) {
	var user models.User
	result := r.db.WithContext(ctx).First(&user, "account = ?", account)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, storeError("find user", result.Error)
	}
	return &user, nil
}

func (r *AuthRepository) FindAll(ctx context.Context) ([]models.User, error) {
	var users []models.User
	result := r.db.WithContext(ctx).Select("account", "name").Find(&users)
	if result.Error != nil {
		return nil, storeError("list users", result.Error)
	}
	return users, nil
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "UNIQUE constraint")
}
