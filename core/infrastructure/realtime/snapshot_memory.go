package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"mahjong/core/domain/entity"
	"mahjong/core/domain/repository"
)

type memoryEntry struct {
	data     []byte
	expireAt time.Time
}

// MemorySnapshotRepository 未配置 redis 时使用，按 json 保存以隔离调用方的修改
type MemorySnapshotRepository struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemorySnapshotRepository() *MemorySnapshotRepository {
	return &MemorySnapshotRepository{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (r *MemorySnapshotRepository) SaveSnapshot(_ context.Context, snapshot *entity.TableSnapshot, ttl time.Duration) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	entry := memoryEntry{data: data}
	if ttl > 0 {
		entry.expireAt = r.now().Add(ttl)
	}
	r.mu.Lock()
	r.entries[snapshot.GameID] = entry
	r.mu.Unlock()
	return nil
}

func (r *MemorySnapshotRepository) LoadSnapshot(_ context.Context, gameID string) (*entity.TableSnapshot, error) {
	r.mu.Lock()
	entry, ok := r.entries[gameID]
	if ok && !entry.expireAt.IsZero() && r.now().After(entry.expireAt) {
		delete(r.entries, gameID)
		ok = false
	}
	r.mu.Unlock()
	if !ok {
		return nil, repository.ErrSnapshotNotFound
	}

	var snapshot entity.TableSnapshot
	if err := json.Unmarshal(entry.data, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (r *MemorySnapshotRepository) DeleteSnapshot(_ context.Context, gameID string) error {
	r.mu.Lock()
	delete(r.entries, gameID)
	r.mu.Unlock()
	return nil
}
