package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const lockTTL = 10 * time.Second

// RedisLocker implements SlotLocker with a short-lived SETNX key per slot,
// so bookings for the same slot serialize across API instances.
type RedisLocker struct {
	client *redis.Client
}

func NewRedisLocker(url string) (*RedisLocker, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisLocker{client: client}, nil
}

func (l *RedisLocker) Acquire(ctx context.Context, doctorID uuid.UUID, at time.Time) (func(), error) {
	key := slotKey(doctorID, at)

	ok, err := l.client.SetNX(ctx, key, "1", lockTTL).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire slot lock: %w", err)
	}
	if !ok {
		return nil, ErrNotAcquired
	}

	return func() {
		if err := l.client.Del(context.Background(), key).Err(); err != nil {
			// TTL expires the key anyway
			log.Warn().Err(err).Str("key", key).Msg("failed to release slot lock")
		}
	}, nil
}

func (l *RedisLocker) Close() error {
	return l.client.Close()
}
