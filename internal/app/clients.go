package app

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/placeshare-backend/internal/platform/logger"
)

// newRedisClient connects the optional geocode cache. A missing address or a
// failed ping degrades to no cache rather than failing startup.
func newRedisClient(ctx context.Context, cfg *Config, log *logger.Logger) *goredis.Client {
	if cfg.RedisAddr == "" {
		log.Info("REDIS_ADDR not set; geocode cache disabled")
		return nil
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warn("redis unreachable; geocode cache disabled", "addr", cfg.RedisAddr, "error", err)
		_ = client.Close()
		return nil
	}
	log.Info("redis connected", "addr", cfg.RedisAddr)
	return client
}
