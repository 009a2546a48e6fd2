package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"gin-sessiongate/repositories"
)

func newRedisClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func newAuthService(t *testing.T) (IAuthService, IUserService, *miniredis.Miniredis) {
	t.Helper()
	mr, client := newRedisClient(t)
	repository := repositories.NewRedisAuthRepository(client)
	return NewAuthService(repository, bcrypt.MinCost), NewUserService(repository), mr
}

func TestAuthService_SignupAndLogin(t *testing.T) {
	ctx := context.Background()
	authService, _, mr := newAuthService(t)

	require.NoError(t, authService.Signup(ctx, "a1", "A", "p"))

	stored := mr.HGet("user:a1", "password")
	assert.NotEmpty(t, stored)
	assert.NotEqual(t, "p", stored)
	assert.Equal(t, "A", mr.HGet("user:a1", "name"))

	principal, err := authService.Login(ctx, "a1", "p")
	require.NoError(t, err)
	assert.Equal(t, "a1", principal.Account)
}

func TestAuthService_SignupDuplicate(t *testing.T) {
	ctx := context.Background()
	authService, _, _ := newAuthService(t)

	require.NoError(t, authService.Signup(ctx, "a1", "A", "p"))
	err := authService.Signup(ctx, "a1", "Other", "q")
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestAuthService_SignupPasswordTooLong(t *testing.T) {
	ctx := context.Background()
	authService, _, mr := newAuthService(t)

	err := authService.Signup(ctx, "a1", "A", strings.Repeat("p", 73))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
	assert.False(t, mr.Exists("user:a1"))

	require.NoError(t, authService.Signup(ctx, "a1", "A", strings.Repeat("p", 72)))
}

func TestAuthService_LoginFailures(t *testing.T) {
	ctx := context.Background()
	authService, _, mr := newAuthService(t)
	require.NoError(t, authService.Signup(ctx, "a1", "A", "p"))
	mr.HSet("user:nopass", "account", "nopass", "name", "N")

	_, err := authService.Login(ctx, "a1", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = authService.Login(ctx, "ghost", "p")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = authService.Login(ctx, "nopass", "p")
	assert.ErrorIs(t, err, ErrCredentialMissing)
}

func TestAuthService_ConcurrentSignupSameAccount(t *testing.T) {
	ctx := context.Background()
	authService, _, _ := newAuthService(t)

	const attempts = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
		exists  int
		other   []error
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := authService.Signup(ctx, "race", "R", "p")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				success++
			case errors.Is(err, ErrAlreadyExists):
				exists++
			default:
				other = append(other, err)
			}
		}()
	}
	wg.Wait()

	assert.Empty(t, other)
	assert.Equal(t, 1, success)
	assert.Equal(t, attempts-1, exists)
}

func TestUserService_FindAll(t *testing.T) {
	ctx := context.Background()
	authService, userService, _ := newAuthService(t)

	require.NoError(t, authService.Signup(ctx, "a1", "A", "p"))
	require.NoError(t, authService.Signup(ctx, "b2", "B", "q"))

	profiles, err := userService.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.ElementsMatch(t, []string{"a1", "b2"}, []string{profiles[0].Account, profiles[1].Account})
	for _, p := range profiles {
		switch p.Account {
		case "a1":
			assert.Equal(t, "A", p.Name)
		case "b2":
			assert.Equal(t, "B", p.Name)
		}
	}
}

func TestAuthService_StoreUnavailable(t *testing.T) {
	ctx := context.Background()
	authService, userService, mr := newAuthService(t)
	mr.Close()

	err := authService.Signup(ctx, "a1", "A", "p")
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	_, err = authService.Login(ctx, "a1", "p")
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	_, err = userService.FindAll(ctx)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}
