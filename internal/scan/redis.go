package scan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisMarker stores pending cards in Redis so several API replicas share them.
type RedisMarker struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewRedisMarker(client *redis.Client, ttl time.Duration) *RedisMarker {
	return &RedisMarker{redis: client, ttl: ttl}
}

func (m *RedisMarker) Set(ctx context.Context, deviceID, cardID string) error {
	if err := m.redis.Set(ctx, redisKey(deviceID), cardID, m.ttl).Err(); err != nil {
		return fmt.Errorf("set pending card: %w", err)
	}
	return nil
}

func (m *RedisMarker) Get(ctx context.Context, deviceID string) (string, error) {
	cardID, err := m.redis.Get(ctx, redisKey(deviceID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNoPendingCard
	}
	if err != nil {
		return "", fmt.Errorf("get pending card: %w", err)
	}
	return cardID, nil
}

func (m *RedisMarker) Clear(ctx context.Context, deviceID string) error {
	if err := m.redis.Del(ctx, redisKey(deviceID)).Err(); err != nil {
		return fmt.Errorf("clear pending card: %w", err)
	}
	return nil
}

func redisKey(deviceID string) string {
	return "kiosk:scan:" + deviceID
}
