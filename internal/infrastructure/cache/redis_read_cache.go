package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisReadCache implements ReadCache on Redis. Suitable for distributed
// deployments where multiple instances share cached reference data.
//
// Every operation is best-effort: store failures are logged and surface as
// cache misses so the caller falls through to the underlying read.
type RedisReadCache struct {
	client    *redis.Client
	keyPrefix string
	logger    *zap.Logger
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisReadCache creates a Redis-backed read cache and verifies the
// connection.
func NewRedisReadCache(cfg RedisConfig, logger *zap.Logger) (*RedisReadCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisReadCacheWithClient(client, "", logger), nil
}

// NewRedisReadCacheWithClient creates a cache with an existing Redis client.
// Useful for testing or sharing a client across components.
func NewRedisReadCacheWithClient(client *redis.Client, keyPrefix string, logger *zap.Logger) *RedisReadCache {
	if keyPrefix == "" {
		keyPrefix = "books:read:"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisReadCache{
		client:    client,
		keyPrefix: keyPrefix,
		logger:    logger,
	}
}

// Get returns the cached payload for fp if present and unexpired
func (c *RedisReadCache) Get(ctx context.Context, fp string) ([]byte, bool) {
	payload, err := c.client.Get(ctx, c.keyPrefix+fp).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("read cache get failed", zap.String("fingerprint", fp), zap.Error(err))
		}
		return nil, false
	}
	return payload, true
}

// Set stores payload under fp for ttl. Expiry is enforced by Redis.
func (c *RedisReadCache) Set(ctx context.Context, fp string, payload []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	if err := c.client.Set(ctx, c.keyPrefix+fp, payload, ttl).Err(); err != nil {
		c.logger.Warn("read cache set failed", zap.String("fingerprint", fp), zap.Error(err))
	}
}

// Invalidate evicts fp
func (c *RedisReadCache) Invalidate(ctx context.Context, fp string) {
	if err := c.client.Del(ctx, c.keyPrefix+fp).Err(); err != nil {
		c.logger.Warn("read cache invalidate failed", zap.String("fingerprint", fp), zap.Error(err))
	}
}

// Close closes the underlying Redis client
func (c *RedisReadCache) Close() error {
	return c.client.Close()
}

// Ensure RedisReadCache implements ReadCache
var _ ReadCache = (*RedisReadCache)(nil)
