package cache

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Cache fronts hot reads (job status polling). Values are process-local
// for "gocache" and shared for "redis". The gocache backend returns the
// stored value as-is; the redis backend returns JSON bytes.
type Cache interface {
	Get(ctx context.Context, key string) (interface{}, bool)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

type Config struct {
	Type  string `json:"type" env:"CACHE_TYPE" default:"gocache"`
	Redis RedisConfig
	Local LocalConfig
}

type RedisConfig struct {
	Addr     string `json:"addr" env:"REDIS_ADDR" default:"localhost:6379"`
	Password string `json:"password" env:"REDIS_PASSWORD"`
	DB       int    `json:"db" env:"REDIS_DB" default:"0"`
}

type LocalConfig struct {
	DefaultExpiration time.Duration `json:"default_expiration" default:"5m"`
	CleanupInterval   time.Duration `json:"cleanup_interval" default:"10m"`
}

// New creates a cache instance for the configured backend.
func New(config Config) (Cache, error) {
	switch strings.ToLower(config.Type) {
	case "", "gocache", "local":
		return NewGoCache(config.Local), nil
	case "redis":
		return NewRedisCache(config.Redis)
	default:
		return nil, fmt.Errorf("unsupported cache type: %s", config.Type)
	}
}
