// Package ratelimit 提供基于 Redis GCRA 的限流器
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
)

// RateLimiter 限流接口
type RateLimiter interface {
	// Allow 检查 key 在给定规则下是否放行
	Allow(ctx context.Context, key string, limit Limit) (*Result, error)
}

// Limit 限流规则
type Limit struct {
	Rate   int
	Period time.Duration
	Burst  int
}

// PerMinute 每分钟 rate 次，突发上限 burst
func PerMinute(rate, burst int) Limit {
	if burst <= 0 {
		burst = rate
	}
	return Limit{Rate: rate, Period: time.Minute, Burst: burst}
}

// Result 限流检查结果
type Result struct {
	Allowed    bool
	Remaining  int
	ResetAfter time.Duration
	RetryAfter time.Duration
}

// RedisRateLimiter 基于 redis_rate 的实现
type RedisRateLimiter struct {
	limiter *redis_rate.Limiter
	prefix  string
}

// NewRedisRateLimiter 创建限流器，prefix 用于隔离不同用途的 key
func NewRedisRateLimiter(rdb *redis.Client, prefix string) *RedisRateLimiter {
	return &RedisRateLimiter{
		limiter: redis_rate.NewLimiter(rdb),
		prefix:  prefix,
	}
}

func (r *RedisRateLimiter) Allow(ctx context.Context, key string, limit Limit) (*Result, error) {
	res, err := r.limiter.Allow(ctx, r.prefix+key, redis_rate.Limit{
		Rate:   limit.Rate,
		Period: limit.Period,
		Burst:  limit.Burst,
	})
	if err != nil {
		return nil, fmt.Errorf("rate limit check failed: %w", err)
	}

	return &Result{
		Allowed:    res.Allowed > 0,
		Remaining:  res.Remaining,
		ResetAfter: res.ResetAfter,
		RetryAfter: res.RetryAfter,
	}, nil
}

// Unlimited 始终放行，用于关闭限流的场景
type Unlimited struct{}

func (Unlimited) Allow(ctx context.Context, key string, limit Limit) (*Result, error) {
	return &Result{Allowed: true, Remaining: limit.Burst}, nil
}
