package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/quimipool/quimipool/internal/ports"
)

// Config controls the Redis-backed rate limiter.
type Config struct {
	Enabled  bool
	RedisURL string
}

type redisRateLimiter struct {
	client *redis.Client
	logger *logrus.Logger
}

// New creates a Redis-backed rate limiter, or a noop limiter when
// disabled.
func New(config Config, logger *logrus.Logger) (ports.RateLimiter, error) {
	if !config.Enabled {
		logger.Info("Rate limiting disabled")
		return &noopRateLimiter{}, nil
	}

	opt, err := redis.ParseURL(config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Rate limiting service initialized")
	return &redisRateLimiter{client: client, logger: logger}, nil
}

// Allow increments the counter for key and reports whether the caller is
// still under limit attempts within window. Each attempt refreshes the
// window expiry.
func (s *redisRateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	redisKey := "ratelimit:" + key

	pipe := s.client.TxPipeline()
	count := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}

	attempts := count.Val()
	allowed := attempts <= int64(limit)
	if !allowed {
		s.logger.WithFields(logrus.Fields{
			"key":      key,
			"attempts": attempts,
			"limit":    limit,
		}).Warn("Rate limit exceeded")
	}
	return allowed, nil
}

type noopRateLimiter struct{}

func (n *noopRateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	return true, nil
}
