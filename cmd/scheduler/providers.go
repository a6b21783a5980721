package main

import (
	"fmt"

	"github.com/autoclock/scheduler/pkg/config"
	redis "github.com/go-redis/redis/v8"
)

// ProvideRedisClient 只有 lease.backend=redis 时才创建客户端，否则返回 nil
func ProvideRedisClient(cfg *config.Config) *redis.Client {
	if cfg.Lease.Backend != "redis" {
		return nil
	}
	addr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}
