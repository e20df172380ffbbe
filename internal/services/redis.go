package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient accepts a redis:// URL or a bare host:port address.
func NewRedisClient(redisURL string) (*redis.Client, error) {
	if !strings.Contains(redisURL, "://") {
		return redis.NewClient(&redis.Options{Addr: redisURL}), nil
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	return redis.NewClient(opts), nil
}

// RedisContextStore keeps each pair's exchanges in a Redis list under a
// per-game namespace. The client belongs to the caller.
type RedisContextStore struct {
	client    *redis.Client
	namespace string
	ttl       time.Duration
	logger    *slog.Logger

	maxRetries int
	retryDelay time.Duration
}

var _ ContextStore = (*RedisContextStore)(nil)

func NewRedisContextStore(client *redis.Client, namespace string, ttl time.Duration, logger *slog.Logger) *RedisContextStore {
	return &RedisContextStore{
		client:     client,
		namespace:  namespace,
		ttl:        ttl,
		logger:     logger,
		maxRetries: 30,
		retryDelay: 2 * time.Second,
	}
}

func (r *RedisContextStore) pairKey(pair string) string {
	return fmt.Sprintf("manor:%s:pair:%s", r.namespace, pair)
}

func (r *RedisContextStore) countKey() string {
	return fmt.Sprintf("manor:%s:count", r.namespace)
}

func (r *RedisContextStore) Ping(ctx context.Context) error {
	cmd := r.client.Ping(ctx)
	if err := cmd.Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	r.logger.Debug("Redis ping successful", "result", cmd.Val())
	return nil
}

func (r *RedisContextStore) WaitForConnection(ctx context.Context) error {
	for i := 0; i < r.maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(r.retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", r.maxRetries)
}

func (r *RedisContextStore) Add(ctx context.Context, doc Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	key := r.pairKey(doc.PairKey())
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, data)
		pipe.Incr(ctx, r.countKey())
		if r.ttl > 0 {
			pipe.Expire(ctx, key, r.ttl)
			pipe.Expire(ctx, r.countKey(), r.ttl)
		}
		return nil
	})
	if err != nil {
		r.logger.Error("Redis add failed", "key", key, "error", err)
		return fmt.Errorf("redis add failed: %w", err)
	}

	r.logger.Debug("Context document stored", "key", key, "turn", doc.Turn)
	return nil
}

func (r *RedisContextStore) Query(ctx context.Context, text string, k int, pairKey string) ([]Document, error) {
	key := r.pairKey(pairKey)
	raw, err := r.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis lrange failed: %w", err)
	}

	docs := make([]Document, 0, len(raw))
	for _, item := range raw {
		var doc Document
		if err := json.Unmarshal([]byte(item), &doc); err != nil {
			r.logger.Warn("Skipping unreadable context document", "key", key, "error", err)
			continue
		}
		docs = append(docs, doc)
	}
	return rank(docs, text, k), nil
}

func (r *RedisContextStore) Count(ctx context.Context) (int, error) {
	n, err := r.client.Get(ctx, r.countKey()).Int()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get failed: %w", err)
	}
	return n, nil
}

// Clear deletes every key in the store's namespace.
func (r *RedisContextStore) Clear(ctx context.Context) error {
	pattern := fmt.Sprintf("manor:%s:*", r.namespace)
	var cursor uint64
	deleted := 0
	for {
		keys, next, err := r.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return fmt.Errorf("redis scan failed: %w", err)
		}
		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("redis del failed: %w", err)
			}
			deleted += len(keys)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	r.logger.Info("Context store cleared", "namespace", r.namespace, "deleted_keys", deleted)
	return nil
}

func (r *RedisContextStore) Close() error {
	return nil
}
