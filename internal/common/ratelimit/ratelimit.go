// Package ratelimit throttles submissions per client key.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"renaissance-story/internal/common/config"
	"renaissance-story/internal/common/database"

	"golang.org/x/time/rate"
)

// Limiter decides whether one more request from key is allowed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// New builds the limiter selected by cfg. redis may be nil for the memory backend.
func New(cfg config.RateLimitConfig, redis *database.RedisClient) (Limiter, error) {
	window := config.GetDuration(cfg.Window)
	switch cfg.Backend {
	case config.RateLimitBackendRedis:
		if redis == nil {
			return nil, fmt.Errorf("redis rate limit backend requires a redis client")
		}
		return NewRedisLimiter(redis, cfg.Requests, window), nil
	default:
		return NewMemoryLimiter(cfg.Requests, window), nil
	}
}

// MemoryLimiter keeps one token bucket per key in process memory.
type MemoryLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
	maxKeys  int
}

// NewMemoryLimiter refills requests tokens evenly over window.
func NewMemoryLimiter(requests int, window time.Duration) *MemoryLimiter {
	if requests < 1 {
		requests = 1
	}
	return &MemoryLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Every(window / time.Duration(requests)),
		burst:    requests,
		maxKeys:  10000,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	return l.limiter(key).Allow(), nil
}

func (l *MemoryLimiter) limiter(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.limiters[key]
	if !ok {
		// Reset the table once it grows past maxKeys.
		if len(l.limiters) >= l.maxKeys {
			l.limiters = make(map[string]*rate.Limiter)
		}
		lim = rate.NewLimiter(l.rate, l.burst)
		l.limiters[key] = lim
	}
	return lim
}

// RedisLimiter counts requests per key in a fixed Redis window, shared by
// every replica.
type RedisLimiter struct {
	client   *database.RedisClient
	requests int64
	window   time.Duration
	prefix   string
}

func NewRedisLimiter(client *database.RedisClient, requests int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client:   client,
		requests: int64(requests),
		window:   window,
		prefix:   "ratelimit:apply:",
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	count, err := l.client.IncrWindow(ctx, l.prefix+key, l.window)
	if err != nil {
		return false, err
	}
	return count <= l.requests, nil
}
