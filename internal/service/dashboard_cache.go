package service

import (
	"context"
	"encoding/json"
	"time"

	"hanzi_learn_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const dashboardKeyPrefix = "dashboard:"
const dashboardCacheTTL = 5 * time.Minute

// DashboardCache 仪表盘快照的 Redis 缓存。client 为 nil 时全部操作空转，
// 服务在没有 Redis 的环境里照常工作。
type DashboardCache struct {
	Redis *redis.Client
}

func NewDashboardCache(rdb *redis.Client) *DashboardCache {
	return &DashboardCache{Redis: rdb}
}

func (c *DashboardCache) Get(ctx context.Context, username string) *Dashboard {
	if c == nil || c.Redis == nil {
		return nil
	}
	val, err := c.Redis.Get(ctx, dashboardKeyPrefix+username).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		logger.Log.Warn("dashboard cache read failed", zap.Error(err))
		return nil
	}
	var d Dashboard
	if err := json.Unmarshal([]byte(val), &d); err != nil {
		return nil
	}
	return &d
}

func (c *DashboardCache) Set(ctx context.Context, username string, d *Dashboard) {
	if c == nil || c.Redis == nil {
		return
	}
	data, err := json.Marshal(d)
	if err != nil {
		return
	}
	if err := c.Redis.Set(ctx, dashboardKeyPrefix+username, data, dashboardCacheTTL).Err(); err != nil {
		logger.Log.Warn("dashboard cache write failed", zap.Error(err))
	}
}

// Invalidate 在生字本或进度变化后调用，下一次读取重新计算
func (c *DashboardCache) Invalidate(ctx context.Context, username string) {
	if c == nil || c.Redis == nil {
		return
	}
	if err := c.Redis.Del(ctx, dashboardKeyPrefix+username).Err(); err != nil {
		logger.Log.Warn("dashboard cache invalidate failed", zap.Error(err))
	}
}
