package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"contacts-data/internal/ratelimit"
	"contacts-data/internal/service"

	"go.uber.org/zap"
)

type contextKey string

const userContextKey contextKey = "current_user"

// CurrentUser 从请求上下文取认证后的用户（仅在 RequireAuth 之后可用）
func CurrentUser(ctx context.Context) *service.UserInfo {
	u, _ := ctx.Value(userContextKey).(*service.UserInfo)
	return u
}

// RequireAuth Bearer 令牌认证中间件
func RequireAuth(auth service.AuthService, logger *zap.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				writeJSON(w, http.StatusUnauthorized, FailToken("missing bearer token"))
				return
			}

			user, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				logger.Debug("token rejected", zap.Error(err))
				writeJSON(w, http.StatusUnauthorized, FailToken("invalid or expired token"))
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next(w, r.WithContext(ctx))
		}
	}
}

// RateLimit 限流中间件（按客户端 IP 分键）
// 限流器故障时放行并告警（fail-open）
func RateLimit(limiter ratelimit.Limiter, logger *zap.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			key := r.URL.Path + ":" + getClientIP(r)
			decision, err := limiter.Allow(r.Context(), key)
			if err != nil {
				logger.Warn("rate limiter unavailable, allowing request", zap.Error(err))
				next(w, r)
				return
			}
			if !decision.Allowed {
				retryAfter := int(decision.RetryAfter.Seconds() + 0.5)
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				writeJSON(w, http.StatusTooManyRequests, Fail("too many requests"))
				return
			}
			next(w, r)
		}
	}
}

// AccessLog 访问日志中间件
func AccessLog(logger *zap.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next(rec, r)
			logger.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Duration("duration", time.Since(start)),
				zap.String("client_ip", getClientIP(r)),
			)
		}
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
