package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"contacts-data/internal/domain"
	"contacts-data/internal/repository"
	"contacts-data/internal/store"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// AuthService 认证授权服务接口
type AuthService interface {
	// Register 注册新用户
	Register(ctx context.Context, req RegisterRequest) (*UserInfo, error)

	// Login 登录，签发访问令牌
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)

	// Authenticate 校验访问令牌，返回当前用户
	Authenticate(ctx context.Context, token string) (*UserInfo, error)
}

// authService 实现
type authService struct {
	usersRepo repository.UsersRepository
	kv        store.KV
	jwtSecret []byte
	tokenTTL  time.Duration
	cacheTTL  time.Duration
	logger    *zap.Logger
}

// NewAuthService 创建 AuthService 实例
// kv 可为 nil（禁用用户缓存，每次请求回源 DB）
func NewAuthService(usersRepo repository.UsersRepository, kv store.KV, jwtSecret string, tokenTTL, cacheTTL time.Duration, logger *zap.Logger) AuthService {
	return &authService{
		usersRepo: usersRepo,
		kv:        kv,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		cacheTTL:  cacheTTL,
		logger:    logger,
	}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	// 客户端信息（仅用于日志）
	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"` // 固定 "bearer"
	ExpiresIn   int      `json:"expires_in"` // 秒
	User        UserInfo `json:"user"`
}

// UserInfo 对外暴露的用户视图（不含密码哈希）
type UserInfo struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// accessTokenClaims JWT claims（sub = user_id）
type accessTokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func userInfoOf(u *domain.User) UserInfo {
	return UserInfo{UserID: u.UserID, Username: u.Username, Email: u.Email}
}

// Register 注册新用户
func (s *authService) Register(ctx context.Context, req RegisterRequest) (*UserInfo, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Username == "" || req.Email == "" || len(req.Password) < 6 {
		return nil, &domain.ValidationError{Field: "register", Reason: "username, email and a password of at least 6 characters are required"}
	}

	existing, err := s.usersRepo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, &domain.ValidationError{Field: "email", Reason: "already registered"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	created, err := s.usersRepo.CreateUser(ctx, &domain.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered",
		zap.String("user_id", created.UserID),
		zap.String("email", created.Email),
	)
	info := userInfoOf(created)
	return &info, nil
}

// Login 登录并签发 HS256 访问令牌
func (s *authService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		s.logger.Warn("login failed: missing credentials",
			zap.String("ip_address", req.IPAddress),
			zap.String("user_agent", req.UserAgent),
		)
		return nil, ErrInvalidCredentials
	}

	user, err := s.usersRepo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		s.logger.Warn("login failed: unknown email",
			zap.String("email", req.Email),
			zap.String("ip_address", req.IPAddress),
		)
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(req.Password)) != nil {
		s.logger.Warn("login failed: wrong password",
			zap.String("user_id", user.UserID),
			zap.String("ip_address", req.IPAddress),
		)
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	claims := accessTokenClaims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	s.logger.Info("user logged in",
		zap.String("user_id", user.UserID),
		zap.String("ip_address", req.IPAddress),
	)
	return &LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(s.tokenTTL.Seconds()),
		User:        userInfoOf(user),
	}, nil
}

// Authenticate 校验令牌并解析当前用户（带 Redis 缓存）
func (s *authService) Authenticate(ctx context.Context, token string) (*UserInfo, error) {
	claims := &accessTokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	cacheKey := "auth:user:" + claims.Subject
	if s.kv != nil {
		if cached, err := s.kv.Get(ctx, cacheKey); err == nil {
			var info UserInfo
			if json.Unmarshal([]byte(cached), &info) == nil {
				return &info, nil
			}
		} else if err != store.ErrMiss {
			s.logger.Warn("user cache read failed", zap.Error(err))
		}
	}

	user, err := s.usersRepo.GetUser(ctx, claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidToken
	}

	info := userInfoOf(user)
	if s.kv != nil {
		if data, err := json.Marshal(info); err == nil {
			if err := s.kv.Set(ctx, cacheKey, string(data), s.cacheTTL); err != nil {
				s.logger.Warn("user cache write failed", zap.Error(err))
			}
		}
	}
	return &info, nil
}
