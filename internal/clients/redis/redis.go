package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/CristianCureu/fitness-app-api/internal/apierr"
	"github.com/CristianCureu/fitness-app-api/internal/logger"
)

type Client struct {
	rdb *redis.Client
	log *logger.Logger
}

// NewClient connects to Redis at addr. Returns nil when addr is empty so
// rate limiting degrades to a no-op in environments without Redis.
func NewClient(ctx context.Context, addr, password string, db int, baseLog *logger.Logger) (*Client, error) {
	if addr == "" {
		return nil, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("Failed to connect to redis: %w", err)
	}
	return &Client{rdb: rdb, log: baseLog.With("client", "redis")}, nil
}

func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}

// RateLimiter is a sliding-window counter keyed per caller and action.
type RateLimiter struct {
	client *Client
	limit  int
	window time.Duration
}

func NewRateLimiter(client *Client, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{client: client, limit: limit, window: window}
}

// Allow records one hit for key and errors with TooManyRequests once the
// window limit is exceeded. A nil client always allows.
func (rl *RateLimiter) Allow(ctx context.Context, key string) error {
	if rl == nil || rl.client == nil {
		return nil
	}

	now := time.Now()
	windowStart := now.Add(-rl.window)
	redisKey := "ratelimit:" + key

	pipe := rl.client.rdb.TxPipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", fmt.Sprintf("%d", windowStart.UnixNano()))
	count := pipe.ZCard(ctx, redisKey)
	pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(now.UnixNano()), Member: now.UnixNano()})
	pipe.Expire(ctx, redisKey, rl.window)
	if _, err := pipe.Exec(ctx); err != nil {
		// Redis trouble should not take the endpoint down.
		rl.client.log.Warn("Rate limiter unavailable, allowing request", "error", err)
		return nil
	}

	if int(count.Val()) >= rl.limit {
		return apierr.TooManyRequests("Too many requests, try again later")
	}
	return nil
}
