package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"mahjong/common/database"
	"mahjong/core/domain/entity"
	"mahjong/core/domain/repository"

	"github.com/redis/go-redis/v9"
)

const snapshotKey = "table:snapshot" // table:snapshot:{gameID} -> json

func snapshotKeyOf(gameID string) string {
	return snapshotKey + ":" + gameID
}

// RedisSnapshotRepository Redis 实现的牌桌快照仓储
type RedisSnapshotRepository struct {
	redis *database.RedisManager
}

func NewRedisSnapshotRepository(redis *database.RedisManager) repository.SnapshotRepository {
	return &RedisSnapshotRepository{redis: redis}
}

func (r *RedisSnapshotRepository) SaveSnapshot(ctx context.Context, snapshot *entity.TableSnapshot, ttl time.Duration) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	if err := r.redis.Set(ctx, snapshotKeyOf(snapshot.GameID), string(data), ttl); err != nil {
		return fmt.Errorf("%w: %v", repository.ErrStorage, err)
	}
	return nil
}

func (r *RedisSnapshotRepository) LoadSnapshot(ctx context.Context, gameID string) (*entity.TableSnapshot, error) {
	data, err := r.redis.Get(ctx, snapshotKeyOf(gameID))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("%w: %v", repository.ErrStorage, err)
	}
	var snapshot entity.TableSnapshot
	if err := json.Unmarshal([]byte(data), &snapshot); err != nil {
		return nil, fmt.Errorf("%w: 快照损坏: %v", repository.ErrStorage, err)
	}
	return &snapshot, nil
}

func (r *RedisSnapshotRepository) DeleteSnapshot(ctx context.Context, gameID string) error {
	if err := r.redis.Del(ctx, snapshotKeyOf(gameID)); err != nil {
		return fmt.Errorf("%w: %v", repository.ErrStorage, err)
	}
	return nil
}
