package repository

import (
	"context"

	"contacts-data/internal/domain"
)

// UsersRepository 用户Repository接口（认证用）
// GetUser / GetUserByEmail 对不存在的用户返回 (nil, nil)
type UsersRepository interface {
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	GetUser(ctx context.Context, userID string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
}
