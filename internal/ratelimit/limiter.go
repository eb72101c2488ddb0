package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Decision 单次限流判定结果
type Decision struct {
	Allowed    bool
	Remaining  int           // 当前窗口剩余额度
	RetryAfter time.Duration // 被拒绝时距窗口重置的时间
}

// Limiter 限流能力接口
// 作为请求级能力注入路由层，不做进程级单例
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// RedisLimiter 固定窗口限流器（INCR + EXPIRE）
// key 按窗口起点分桶，窗口过期后计数自动清零
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	prefix string
}

func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		limit:  limit,
		window: window,
		prefix: "ratelimit:",
	}
}

var _ Limiter = (*RedisLimiter)(nil)

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	now := time.Now()
	windowStart := now.Truncate(l.window)
	bucket := fmt.Sprintf("%s%s:%d", l.prefix, key, windowStart.Unix())

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, bucket)
	// 过期时间略大于窗口，避免边界上的键提前消失
	pipe.Expire(ctx, bucket, l.window+time.Second)
	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{}, fmt.Errorf("rate limit check failed: %w", err)
	}

	count := int(incr.Val())
	if count > l.limit {
		return Decision{
			Allowed:    false,
			Remaining:  0,
			RetryAfter: windowStart.Add(l.window).Sub(now),
		}, nil
	}
	return Decision{Allowed: true, Remaining: l.limit - count}, nil
}

// NopLimiter 放行一切（限流禁用时使用）
type NopLimiter struct{}

func (NopLimiter) Allow(context.Context, string) (Decision, error) {
	return Decision{Allowed: true, Remaining: 1}, nil
}
