package retrieval

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/Divas-Gupta30/docchat/internal/config"
)

const (
	cacheKeyPrefix = "retrieval:"
	cacheOpTimeout = 2 * time.Second
)

// RedisCache keeps recent search results in redis. The gateway works
// without it when redis is down.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func NewRedisCache(cfg config.CacheConfig, log *zap.Logger) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Warn("failed to connect to redis, retrieval will work without caching",
			zap.String("addr", cfg.Addr), zap.Error(err))
	} else {
		log.Info("connected to redis cache", zap.String("addr", cfg.Addr))
	}

	return &RedisCache{client: client, ttl: cfg.TTL, log: log}
}

func cacheKey(query string, topK int) string {
	return fmt.Sprintf("%s%d:%x", cacheKeyPrefix, topK, sha256.Sum256([]byte(query)))
}

func (c *RedisCache) Get(ctx context.Context, query string, topK int) ([]Passage, bool) {
	ctx, cancel := context.WithTimeout(ctx, cacheOpTimeout)
	defer cancel()

	data, err := c.client.Get(ctx, cacheKey(query, topK)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("retrieval cache read failed", zap.Error(err))
		}
		return nil, false
	}

	var passages []Passage
	if err := json.Unmarshal(data, &passages); err != nil {
		c.log.Warn("discarding corrupt retrieval cache entry", zap.Error(err))
		return nil, false
	}
	return passages, true
}

func (c *RedisCache) Set(ctx context.Context, query string, topK int, passages []Passage) {
	ctx, cancel := context.WithTimeout(ctx, cacheOpTimeout)
	defer cancel()

	data, err := json.Marshal(passages)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, cacheKey(query, topK), data, c.ttl).Err(); err != nil {
		c.log.Warn("retrieval cache write failed", zap.Error(err))
	}
}

// Invalidate drops every cached search result. It runs after a successful
// knowledge base refresh.
func (c *RedisCache) Invalidate(ctx context.Context) (int, error) {
	var keys []string
	iter := c.client.Scan(ctx, 0, cacheKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("scanning cache keys: %w", err)
	}
	if len(keys) == 0 {
		return 0, nil
	}
	n, err := c.client.Del(ctx, keys...).Result()
	if err != nil {
		return 0, fmt.Errorf("deleting cache keys: %w", err)
	}
	return int(n), nil
}

func (c *RedisCache) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, cacheOpTimeout)
	defer cancel()
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
