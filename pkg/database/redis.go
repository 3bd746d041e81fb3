package database

import (
	"context"
	"dsa_tutor_web/internal/config"
	"dsa_tutor_web/pkg/logger"
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// InitRedis 会话存储使用的 Redis 连接
func InitRedis(cfg *config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     20,
		MinIdleConns: 2,
	})

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping %s: %w", rdb.Options().Addr, err)
	}

	logger.Log.Info("Redis connection established", zap.String("addr", rdb.Options().Addr))
	return rdb, nil
}
