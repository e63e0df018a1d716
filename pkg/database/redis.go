package database

import (
	"context"
	"fmt"
	"time"

	"hanzi_learn_backend/internal/config"
	"hanzi_learn_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
)

// InitRedis 建立可选的 Redis 连接，用于仪表盘缓存。
func InitRedis(cfg *config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     20,
		MinIdleConns: 2,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return nil, err
	}

	logger.Log.Info("Redis connection established")
	return rdb, nil
}
