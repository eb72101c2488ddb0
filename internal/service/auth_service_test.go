package service

import (
	"context"
	"testing"
	"time"

	"contacts-data/internal/domain"
	"contacts-data/internal/repository"
	"contacts-data/internal/store"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupAuthService(t *testing.T) (AuthService, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	kv := store.NewRedisKV(redisClient)

	usersRepo := repository.NewMemoryUsersRepository()
	svc := NewAuthService(usersRepo, kv, "test-secret", time.Hour, 15*time.Minute, zap.NewNop())
	return svc, mr
}

func TestAuthService_RegisterLoginMe(t *testing.T) {
	svc, _ := setupAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterRequest{
		Username: "jane",
		Email:    "Jane@Example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	// email 规范化为小写
	assert.Equal(t, "jane@example.com", user.Email)
	assert.NotEmpty(t, user.UserID)

	resp, err := svc.Login(ctx, LoginRequest{Email: "jane@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, user.UserID, resp.User.UserID)

	me, err := svc.Authenticate(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.UserID, me.UserID)

	// 第二次走缓存，结果一致
	me2, err := svc.Authenticate(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, *me, *me2)
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	svc, _ := setupAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Username: "jane", Email: "jane@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterRequest{Username: "imposter", Email: "jane@example.com", Password: "secret456"})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "email", ve.Field)
}

func TestAuthService_LoginWrongPassword(t *testing.T) {
	svc, _ := setupAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Username: "jane", Email: "jane@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginRequest{Email: "jane@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_AuthenticateRejectsGarbage(t *testing.T) {
	svc, _ := setupAuthService(t)

	_, err := svc.Authenticate(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_AuthenticateExpiredToken(t *testing.T) {
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	usersRepo := repository.NewMemoryUsersRepository()
	// TTL 为负：签出的令牌立即过期
	svc := NewAuthService(usersRepo, store.NewRedisKV(redisClient), "test-secret", -time.Minute, time.Minute, zap.NewNop())

	ctx := context.Background()
	_, err := svc.Register(ctx, RegisterRequest{Username: "jane", Email: "jane@example.com", Password: "secret123"})
	require.NoError(t, err)

	resp, err := svc.Login(ctx, LoginRequest{Email: "jane@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, resp.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
