package repository

import (
	"context"
	"dsa_tutor_web/internal/model"
	"dsa_tutor_web/internal/util"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// SessionRepository 保存每个浏览器会话的视图状态
type SessionRepository interface {
	Get(ctx context.Context, sessionID string) (*model.ViewState, error)
	Save(ctx context.Context, state *model.ViewState) error
	Delete(ctx context.Context, sessionID string) error
	// Sweep 清理空闲超过 idle 的会话，返回清理数与剩余数
	Sweep(ctx context.Context, idle time.Duration) (removed int, remaining int, err error)
}

// MemorySessionRepository 进程内存储，保存的是序列化后的副本，避免请求之间共享切片
type MemorySessionRepository struct {
	mu       sync.Mutex
	sessions map[string]memoryEntry
	now      func() time.Time
}

type memoryEntry struct {
	data      []byte
	updatedAt time.Time
}

func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{
		sessions: make(map[string]memoryEntry),
		now:      time.Now,
	}
}

func (r *MemorySessionRepository) Get(ctx context.Context, sessionID string) (*model.ViewState, error) {
	r.mu.Lock()
	entry, ok := r.sessions[sessionID]
	r.mu.Unlock()

	if !ok {
		return nil, util.ErrSessionNotFound
	}

	var state model.ViewState
	if err := json.Unmarshal(entry.data, &state); err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrSessionCorrupt, err)
	}
	return &state, nil
}

func (r *MemorySessionRepository) Save(ctx context.Context, state *model.ViewState) error {
	now := r.now()
	state.UpdatedAt = now

	data, err := json.Marshal(state)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.sessions[state.SessionID] = memoryEntry{data: data, updatedAt: now}
	r.mu.Unlock()
	return nil
}

func (r *MemorySessionRepository) Delete(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	delete(r.sessions, sessionID)
	r.mu.Unlock()
	return nil
}

func (r *MemorySessionRepository) Sweep(ctx context.Context, idle time.Duration) (int, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// 未配置空闲时长时不清理
	if idle <= 0 {
		return 0, len(r.sessions), nil
	}

	cutoff := r.now().Add(-idle)

	removed := 0
	for id, entry := range r.sessions {
		if entry.updatedAt.Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed, len(r.sessions), nil
}
