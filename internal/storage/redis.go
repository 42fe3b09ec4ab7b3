package storage

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	savePrefix      = "save:"
	thumbnailPrefix = "thumb:"
)

// RedisStorage mirrors encoded save payloads into Redis, so a session
// list survives local file loss and saves can be inspected out of
// process. Payloads stay opaque; the integrity wrapper travels with them.
type RedisStorage struct {
	client *redis.Client
	logger *slog.Logger
	ttl    time.Duration
}

var _ Storage = (*RedisStorage)(nil)

// NewRedisStorage creates a new Redis storage instance. A zero ttl keeps
// saves indefinitely.
func NewRedisStorage(redisURL string, ttl time.Duration, logger *slog.Logger) *RedisStorage {
	rdb := redis.NewClient(&redis.Options{
		Addr: redisURL,
	})
	return &RedisStorage{client: rdb, logger: logger, ttl: ttl}
}

func (r *RedisStorage) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStorage) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available (used during startup)
func (r *RedisStorage) WaitForConnection(ctx context.Context) error {
	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

func (r *RedisStorage) WriteSave(ctx context.Context, name string, data []byte) error {
	if err := r.client.Set(ctx, savePrefix+name, data, r.ttl).Err(); err != nil {
		r.logger.Error("Failed to write save", "name", name, "error", err)
		return fmt.Errorf("failed to write save: %w", err)
	}
	return nil
}

func (r *RedisStorage) ReadSave(ctx context.Context, name string) ([]byte, bool, error) {
	data, err := r.client.Get(ctx, savePrefix+name).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		r.logger.Error("Failed to read save", "name", name, "error", err)
		return nil, false, fmt.Errorf("failed to read save: %w", err)
	}
	return data, true, nil
}

func (r *RedisStorage) WriteThumbnail(ctx context.Context, name string, data []byte) error {
	if err := r.client.Set(ctx, thumbnailPrefix+name, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write thumbnail: %w", err)
	}
	return nil
}

func (r *RedisStorage) DeleteSave(ctx context.Context, name string) error {
	if err := r.client.Del(ctx, savePrefix+name, thumbnailPrefix+name).Err(); err != nil {
		r.logger.Error("Failed to delete save", "name", name, "error", err)
		return fmt.Errorf("failed to delete save: %w", err)
	}
	return nil
}

func (r *RedisStorage) ListSaves(ctx context.Context) ([]string, error) {
	keys, err := r.client.Keys(ctx, savePrefix+"*").Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list saves: %w", err)
	}
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, strings.TrimPrefix(k, savePrefix))
	}
	sort.Strings(names)
	return names, nil
}
