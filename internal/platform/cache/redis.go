// Package cache holds the Redis-backed slot grid cache.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/cancha_booking_app/internal/core/domain"
	"github.com/SscSPs/cancha_booking_app/internal/core/ports"
	"github.com/SscSPs/cancha_booking_app/internal/middleware"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "cancha:slots"

// NewRedisClient parses a redis:// URL and pings the server.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	if url == "" {
		return nil, fmt.Errorf("redis url is empty")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// RedisSlotCache stores computed slot grids as JSON under a TTL.
// Errors are logged and reported as misses.
type RedisSlotCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ports.SlotCache = (*RedisSlotCache)(nil)

func NewRedisSlotCache(client *redis.Client, ttl time.Duration) *RedisSlotCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RedisSlotCache{client: client, ttl: ttl}
}

func gridKey(fieldID string, date domain.Date) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, fieldID, date)
}

func fieldPattern(fieldID string) string {
	return fmt.Sprintf("%s:%s:*", keyPrefix, fieldID)
}

func (c *RedisSlotCache) GetGrid(ctx context.Context, fieldID string, date domain.Date) ([]domain.Slot, bool) {
	raw, err := c.client.Get(ctx, gridKey(fieldID, date)).Bytes()
	if err != nil {
		if err != redis.Nil {
			middleware.GetLoggerFromCtx(ctx).Warn("Slot cache read failed", slog.String("error", err.Error()))
		}
		return nil, false
	}
	var grid []domain.Slot
	if err := json.Unmarshal(raw, &grid); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Slot cache entry unreadable", slog.String("error", err.Error()))
		return nil, false
	}
	return grid, true
}

func (c *RedisSlotCache) SetGrid(ctx context.Context, fieldID string, date domain.Date, grid []domain.Slot) {
	raw, err := json.Marshal(grid)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, gridKey(fieldID, date), raw, c.ttl).Err(); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Slot cache write failed", slog.String("error", err.Error()))
	}
}

func (c *RedisSlotCache) Invalidate(ctx context.Context, fieldID string, date domain.Date) {
	if err := c.client.Del(ctx, gridKey(fieldID, date)).Err(); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Slot cache invalidation failed",
			slog.String("field_id", fieldID),
			slog.String("date", date.String()),
			slog.String("error", err.Error()))
	}
}

// InvalidateField scans for the field's keys and deletes them in batches.
func (c *RedisSlotCache) InvalidateField(ctx context.Context, fieldID string) {
	iter := c.client.Scan(ctx, 0, fieldPattern(fieldID), 100).Iterator()
	batch := make([]string, 0, 100)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		err := c.client.Del(ctx, batch...).Err()
		batch = batch[:0]
		return err
	}
	var err error
	for iter.Next(ctx) && err == nil {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			err = flush()
		}
	}
	if err == nil {
		err = iter.Err()
	}
	if err == nil {
		err = flush()
	}
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Slot cache field invalidation failed",
			slog.String("field_id", fieldID),
			slog.String("error", err.Error()))
	}
}
