package config

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/grahmind/careers-waitlist/internal/log"
	pkgredis "github.com/grahmind/careers-waitlist/pkg/redis"
	"github.com/grahmind/careers-waitlist/pkg/utils"
)

// Cache is the key/value store behind Redis-backed admin sessions. A Cache
// that also implements router.RedisClientProvider backs the rate limiters.
type Cache interface {
	// Get returns ("", nil) when a key is not found.
	Get(ctx context.Context, key string) (string, error)
	// Set uses ttl=0 for no expiry.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

var ErrCacheNotConfigured = errors.New("cache: REDIS_HOST is not set")

// CacheConfig is read from REDIS_HOST, REDIS_PORT, REDIS_PASSWORD and REDIS_DB.
type CacheConfig struct {
	Redis pkgredis.Config
}

func NewCacheConfig() *CacheConfig {
	db, err := strconv.Atoi(utils.GetEnvTrimmed("REDIS_DB"))
	if err != nil || db < 0 {
		db = 0
	}
	return &CacheConfig{Redis: pkgredis.Config{
		Host:     utils.GetEnvTrimmed("REDIS_HOST"),
		Port:     utils.GetEnvTrimmedOrDefault("REDIS_PORT", "6379"),
		Password: utils.GetEnvOrDefault("REDIS_PASSWORD", ""),
		DB:       db,
	}}
}

func (cc *CacheConfig) IsConfigured() bool {
	return cc.Redis.Host != ""
}

// NewCache connects to Redis and fails when it is unset or unreachable.
func (cc *CacheConfig) NewCache(logger *log.Logger) (Cache, error) {
	if !cc.IsConfigured() {
		return nil, ErrCacheNotConfigured
	}

	cache, err := pkgredis.NewRedisCache(&cc.Redis)
	if err != nil {
		return nil, err
	}

	logger.Info("Redis connected", "addr", cc.Redis.Addr(), "db", cc.Redis.DB)
	return cache, nil
}

// NewCacheOrNil is NewCache for optional callers: every failure is logged
// and yields nil so that sessions and rate limits stay in memory.
func (cc *CacheConfig) NewCacheOrNil(logger *log.Logger) Cache {
	cache, err := cc.NewCache(logger)
	switch {
	case errors.Is(err, ErrCacheNotConfigured):
		logger.Info("Redis not configured; using in-memory sessions and rate limits")
		return nil
	case err != nil:
		logger.Error("Redis unavailable; using in-memory sessions and rate limits", "error", err)
		return nil
	}
	return cache
}

func CloseCache(cache Cache, logger *log.Logger) {
	if cache == nil {
		return
	}
	if err := cache.Close(); err != nil {
		logger.Error("Failed to close cache", "error", err)
	}
}
