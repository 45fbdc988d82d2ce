package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meetsync/core/cache"
	"meetsync/core/config"
	coreErrors "meetsync/core/errors"
	"meetsync/modules/auth/dto"
	"meetsync/modules/auth/entity"
)

type fakeAuthRepo struct {
	byEmail map[string]*entity.User
	byID    map[string]*entity.User
	getByID int
}

func newFakeAuthRepo() *fakeAuthRepo {
	return &fakeAuthRepo{
		byEmail: make(map[string]*entity.User),
		byID:    make(map[string]*entity.User),
	}
}

func (f *fakeAuthRepo) CreateUser(_ context.Context, user *entity.User) error {
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	f.byEmail[user.Email] = user
	f.byID[user.ID] = user
	return nil
}

func (f *fakeAuthRepo) GetUserByEmail(_ context.Context, email string) (*entity.User, error) {
	return f.byEmail[email], nil
}

func (f *fakeAuthRepo) GetUserByID(_ context.Context, id string) (*entity.User, error) {
	f.getByID++
	return f.byID[id], nil
}

type fakeCache struct {
	store map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: make(map[string]string)}
}

func (f *fakeCache) Get(_ context.Context, key string) (string, error) {
	v, ok := f.store[key]
	if !ok {
		return "", cache.ErrCacheMiss
	}
	return v, nil
}
func (f *fakeCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	f.store[key] = value
	return nil
}
func (f *fakeCache) Delete(_ context.Context, key string) error {
	delete(f.store, key)
	return nil
}
func (f *fakeCache) SetNX(_ context.Context, key, value string, _ time.Duration) (bool, error) {
	if _, ok := f.store[key]; ok {
		return false, nil
	}
	f.store[key] = value
	return true, nil
}

func loadTestConfig(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	_, err := config.Load()
	require.NoError(t, err)
}

func TestRegisterAndLogin(t *testing.T) {
	loadTestConfig(t)
	repo := newFakeAuthRepo()
	svc := NewAuthService(repo, newFakeCache())

	registered, appErr := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:       "Alice@Example.com",
		Password:    "hunter22",
		DisplayName: "Alice",
	})
	require.Nil(t, appErr)
	assert.NotEmpty(t, registered.Token)
	assert.Equal(t, "alice@example.com", registered.User.Email)
	assert.NotEmpty(t, registered.User.ID)

	// duplicate registration is rejected
	_, appErr = svc.Register(context.Background(), &dto.RegisterRequest{
		Email:       "alice@example.com",
		Password:    "other",
		DisplayName: "Alice again",
	})
	require.NotNil(t, appErr)
	assert.Equal(t, coreErrors.ErrAlreadyExists, appErr.Code)

	logged, appErr := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "alice@example.com",
		Password: "hunter22",
	})
	require.Nil(t, appErr)
	assert.NotEmpty(t, logged.Token)

	_, appErr = svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong",
	})
	require.NotNil(t, appErr)
	assert.Equal(t, coreErrors.ErrUnauthorized, appErr.Code)
}

func TestGetProfileUsesCache(t *testing.T) {
	loadTestConfig(t)
	repo := newFakeAuthRepo()
	c := newFakeCache()
	svc := NewAuthService(repo, c)

	registered, appErr := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:       "bob@example.com",
		Password:    "secret99",
		DisplayName: "Bob",
	})
	require.Nil(t, appErr)
	userID := registered.User.ID

	first, appErr := svc.GetProfile(context.Background(), userID)
	require.Nil(t, appErr)
	assert.Equal(t, "Bob", first.DisplayName)
	assert.Equal(t, 1, repo.getByID)

	// second read comes from cache
	second, appErr := svc.GetProfile(context.Background(), userID)
	require.Nil(t, appErr)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.getByID)
}

func TestGetProfileNotFound(t *testing.T) {
	loadTestConfig(t)
	svc := NewAuthService(newFakeAuthRepo(), newFakeCache())

	_, appErr := svc.GetProfile(context.Background(), "missing")
	require.NotNil(t, appErr)
	assert.Equal(t, coreErrors.ErrNotFound, appErr.Code)
}
