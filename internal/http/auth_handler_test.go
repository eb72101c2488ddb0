package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"contacts-data/internal/ratelimit"
	"contacts-data/internal/repository"
	"contacts-data/internal/service"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupAuthRouter(t *testing.T, limit int) *Router {
	t.Helper()
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	usersRepo := repository.NewMemoryUsersRepository()
	authService := service.NewAuthService(usersRepo, nil, "test-secret", time.Hour, time.Minute, zap.NewNop())

	limiter := ratelimit.NewRedisLimiter(redisClient, limit, time.Minute)
	rateLimited := RateLimit(limiter, zap.NewNop())
	requireAuth := RequireAuth(authService, zap.NewNop())

	router := NewRouter(zap.NewNop())
	router.RegisterAuthRoutes(NewAuthHandler(authService, zap.NewNop()),
		[]Middleware{rateLimited},
		[]Middleware{rateLimited, requireAuth})
	return router
}

func postJSON(t *testing.T, router *Router, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAuthFlow_RegisterLoginMe(t *testing.T) {
	router := setupAuthRouter(t, 100)

	rec := postJSON(t, router, "/api/v1/auth/register", map[string]string{
		"username": "jane",
		"email":    "jane@example.com",
		"password": "secret123",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = postJSON(t, router, "/api/v1/auth/login", map[string]string{
		"email":    "jane@example.com",
		"password": "secret123",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var loginEnvelope Result[service.LoginResponse]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &loginEnvelope))
	token := loginEnvelope.Result.AccessToken
	require.NotEmpty(t, token)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	meRec := httptest.NewRecorder()
	router.ServeHTTP(meRec, req)
	require.Equal(t, http.StatusOK, meRec.Code)

	var meEnvelope Result[service.UserInfo]
	require.NoError(t, json.Unmarshal(meRec.Body.Bytes(), &meEnvelope))
	assert.Equal(t, "jane@example.com", meEnvelope.Result.Email)
}

func TestAuthFlow_WrongPassword(t *testing.T) {
	router := setupAuthRouter(t, 100)

	postJSON(t, router, "/api/v1/auth/register", map[string]string{
		"username": "jane",
		"email":    "jane@example.com",
		"password": "secret123",
	}, nil)

	rec := postJSON(t, router, "/api/v1/auth/login", map[string]string{
		"email":    "jane@example.com",
		"password": "wrong",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthFlow_MeWithoutToken(t *testing.T) {
	router := setupAuthRouter(t, 100)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var envelope Result[json.RawMessage]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, ResultTokenExpired, envelope.Code)
}

func TestAuthFlow_RateLimited(t *testing.T) {
	router := setupAuthRouter(t, 2)

	body := map[string]string{"email": "jane@example.com", "password": "wrong"}
	for i := 0; i < 2; i++ {
		rec := postJSON(t, router, "/api/v1/auth/login", body, nil)
		assert.NotEqual(t, http.StatusTooManyRequests, rec.Code)
	}

	rec := postJSON(t, router, "/api/v1/auth/login", body, nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}
