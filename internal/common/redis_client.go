package common

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"airplane-watch/sleepwatch/internal/config"
	"airplane-watch/sleepwatch/internal/logging"
)

// NewRedisClient builds a client from the cache configuration and pings
// it once. A failed ping is logged; the pool keeps trying to reconnect.
func NewRedisClient(cfg config.CacheConfig) *redis.Client {
	addr := cfg.RedisAddr()
	logging.Info("Initializing Redis client", "addr", addr, "db", cfg.RedisDB)

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logging.Warn("Failed to ping Redis", "addr", addr, "error", err)
		return client
	}

	logging.Info("Connected to Redis", "addr", addr)
	return client
}
