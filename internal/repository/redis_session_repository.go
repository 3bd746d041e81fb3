package repository

import (
	"context"
	"dsa_tutor_web/internal/model"
	"dsa_tutor_web/internal/util"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisSessionRepository 会话状态存于 Redis，过期由 key TTL 负责
type RedisSessionRepository struct {
	Redis  *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisSessionRepository(rdb *redis.Client, ttl time.Duration) *RedisSessionRepository {
	return &RedisSessionRepository{
		Redis:  rdb,
		prefix: "dsa_tutor:session:",
		ttl:    ttl,
	}
}

func (r *RedisSessionRepository) key(sessionID string) string {
	return r.prefix + sessionID
}

func (r *RedisSessionRepository) Get(ctx context.Context, sessionID string) (*model.ViewState, error) {
	data, err := r.Redis.Get(ctx, r.key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, util.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	var state model.ViewState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrSessionCorrupt, err)
	}
	return &state, nil
}

func (r *RedisSessionRepository) Save(ctx context.Context, state *model.ViewState) error {
	state.UpdatedAt = time.Now()
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return r.Redis.Set(ctx, r.key(state.SessionID), data, r.ttl).Err()
}

func (r *RedisSessionRepository) Delete(ctx context.Context, sessionID string) error {
	return r.Redis.Del(ctx, r.key(sessionID)).Err()
}

// Sweep Redis 依靠 TTL 过期，这里只统计剩余会话数
func (r *RedisSessionRepository) Sweep(ctx context.Context, idle time.Duration) (int, int, error) {
	remaining := 0
	iter := r.Redis.Scan(ctx, 0, r.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		remaining++
	}
	return 0, remaining, iter.Err()
}
