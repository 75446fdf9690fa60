package config

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// NewRedisClient connects to cfg.RedisAddr and pings it.
// It returns nil when the server cannot be reached; callers then run without
// login rate limiting.
func NewRedisClient(ctx context.Context, cfg *Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("Redis unavailable, login rate limiting disabled")
		_ = client.Close()
		return nil
	}

	log.Info().Str("addr", cfg.RedisAddr).Msg("Redis connection established")
	return client
}
