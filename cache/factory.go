// Package cache 提供统一的缓存抽象，支持内存(ristretto)和 Redis 两种后端
package cache

import (
	"fmt"
	"log"

	"github.com/anoixa/tryon-server/cache/redis"
	"github.com/anoixa/tryon-server/cache/ristretto"
	"github.com/anoixa/tryon-server/cache/types"
	"github.com/anoixa/tryon-server/config"
)

// NewCache 根据配置创建缓存提供者
// cache_type 为 "redis" 时使用 Redis，否则使用进程内 ristretto 缓存
func NewCache(cfg *config.Config) (types.Cache, error) {
	switch cfg.CacheType {
	case "redis":
		provider, err := redis.NewRedis(cfg.CacheRedisAddr, cfg.CacheRedisPassword, cfg.CacheRedisDB)
		if err != nil {
			return nil, fmt.Errorf("failed to create redis cache: %w", err)
		}
		log.Printf("Successfully initialized 'redis' cache provider: %s", cfg.CacheRedisAddr)
		return provider, nil
	case "", "memory":
		provider, err := ristretto.NewRistretto(ristretto.Config{
			NumCounters: 1000000,
			MaxCost:     1 << 30, // 1GB
			BufferItems: 64,
			Metrics:     false,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create memory cache: %w", err)
		}
		log.Println("Successfully initialized 'memory' cache provider")
		return provider, nil
	default:
		return nil, fmt.Errorf("unsupported cache type: %s", cfg.CacheType)
	}
}
