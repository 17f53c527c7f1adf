package persistence

import (
	"context"
	"sort"
	"sync"

	"mahjong/core/domain/entity"
	"mahjong/core/domain/repository"
)

// MemoryGameRecordRepository 未配置 mongodb 时使用，进程退出即丢失
type MemoryGameRecordRepository struct {
	mu      sync.RWMutex
	records map[string]entity.GameRecord
}

func NewMemoryGameRecordRepository() *MemoryGameRecordRepository {
	return &MemoryGameRecordRepository{records: make(map[string]entity.GameRecord)}
}

func (r *MemoryGameRecordRepository) SaveGameRecord(_ context.Context, record *entity.GameRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[record.GameID] = cloneRecord(record)
	return nil
}

func (r *MemoryGameRecordRepository) FindGameRecord(_ context.Context, gameID string) (*entity.GameRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.records[gameID]
	if !ok {
		return nil, repository.ErrGameRecordNotFound
	}
	out := cloneRecord(&record)
	return &out, nil
}

func (r *MemoryGameRecordRepository) FindGameRecordsByPlayer(_ context.Context, name string, limit, offset int) ([]*entity.GameRecord, error) {
	r.mu.RLock()
	var matched []*entity.GameRecord
	for _, record := range r.records {
		for _, p := range record.Players {
			if p.Name == name {
				out := cloneRecord(&record)
				matched = append(matched, &out)
				break
			}
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].StartTime.After(matched[j].StartTime)
	})
	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func cloneRecord(record *entity.GameRecord) entity.GameRecord {
	out := *record
	out.Players = append([]entity.PlayerInfo(nil), record.Players...)
	if record.Result != nil {
		result := *record.Result
		result.WinningHand = append([]string(nil), record.Result.WinningHand...)
		out.Result = &result
	}
	return out
}
