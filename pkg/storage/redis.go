package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"bidwizer-be/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// RedisAdapter shares one store between host instances. Changes fan out over Pub/Sub so
// views connected to another instance resynchronise as well.
type RedisAdapter struct {
	rdb     *redis.Client
	prefix  string
	channel string
	logger  logger.ILogger
}

func NewRedisAdapter(rdb *redis.Client, prefix string, log logger.ILogger) *RedisAdapter {
	return &RedisAdapter{
		rdb:     rdb,
		prefix:  prefix + ":",
		channel: prefix + ":storage_events",
		logger:  log,
	}
}

func (a *RedisAdapter) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := a.rdb.Get(ctx, a.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, true, nil
}

func (a *RedisAdapter) Set(ctx context.Context, key, value string) error {
	if err := a.rdb.Set(ctx, a.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return a.notify(ctx, Change{Key: key})
}

func (a *RedisAdapter) Remove(ctx context.Context, key string) error {
	if err := a.rdb.Del(ctx, a.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return a.notify(ctx, Change{Key: key, Removed: true})
}

func (a *RedisAdapter) notify(ctx context.Context, change Change) error {
	payload, err := json.Marshal(change)
	if err != nil {
		return err
	}
	return a.rdb.Publish(ctx, a.channel, payload).Err()
}

func (a *RedisAdapter) Subscribe(onChange func(Change)) func() {
	pubsub := a.rdb.Subscribe(context.Background(), a.channel)

	go func() {
		for msg := range pubsub.Channel() {
			var change Change
			if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
				a.logger.Warn("Storage", "Dropping malformed change event", map[string]interface{}{"error": err.Error()})
				continue
			}
			onChange(change)
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			if err := pubsub.Close(); err != nil {
				a.logger.Warn("Storage", "Failed to close change subscription", map[string]interface{}{"error": err.Error()})
			}
		})
	}
}
