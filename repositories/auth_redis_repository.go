package repositories

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"gin-sessiongate/constants"
	"gin-sessiongate/models"
)

// RedisAuthRepository keeps each user as a hash under "user:<account>".
type RedisAuthRepository struct {
	client *redis.Client
}

func NewRedisAuthRepository(client *redis.Client) IAuthRepository {
	return &RedisAuthRepository{client: client}
}

func userKey(account string) string {
	return constants.UserKeyPrefix + account
}

// CreateUser runs the existence check and the write inside one WATCH/MULTI
// transaction, so two registrations of the same account cannot both succeed.
func (r *RedisAuthRepository) CreateUser(ctx context.Context, user models.User) error {
	key := userKey(user.Account)
	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrUserExists
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key,
				"account", user.Account,
				"name", user.Name,
				"password", user.Password,
			)
			return nil
		})
		return err
	}, key)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrUserExists), errors.Is(err, redis.TxFailedErr):
		// a failed transaction means someone else wrote the key first
		return ErrUserExists
	default:
		return storeError("create user", err)
	}
}

func (r *RedisAuthRepository) FindUser(ctx context.Context, account string) (*models.User, error) {
	var user models.User
	cmd := r.client.HGetAll(ctx, userKey(account))
	if err := cmd.Err(); err != nil {
		return nil, storeError("find user", err)
	}
	if len(cmd.Val()) == 0 {
		return nil, ErrUserNotFound
	}
	if err := cmd.Scan(&user); err != nil {
		return nil, storeError("decode user", err)
	}
	if user.Account == "" {
		user.Account = account
	}
	return &user, nil
}

// FindAll walks the user keys with SCAN; the order is whatever the server
// returns.
func (r *RedisAuthRepository) FindAll(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	iter := r.client.Scan(ctx, 0, constants.UserKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		values, err := r.client.HMGet(ctx, key, "account", "name").Result()
		if err != nil {
			return nil, storeError("list users", err)
		}
		users = append(users, models.User{
			Account: stringOrEmpty(values[0]),
			Name:    stringOrEmpty(values[1]),
		})
	}
	if err := iter.Err(); err != nil {
		return nil, storeError("scan users", err)
	}
	return users, nil
}

func stringOrEmpty(v any) string {
	s, _ := v.(string)
	return s
}
