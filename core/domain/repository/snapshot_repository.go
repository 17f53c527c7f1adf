package repository

import (
	"context"
	"time"

	"mahjong/core/domain/entity"
)

// SnapshotRepository 牌桌快照仓储，进程重启后用于恢复进行中的牌桌
type SnapshotRepository interface {
	SaveSnapshot(ctx context.Context, snapshot *entity.TableSnapshot, ttl time.Duration) error
	LoadSnapshot(ctx context.Context, gameID string) (*entity.TableSnapshot, error)
	DeleteSnapshot(ctx context.Context, gameID string) error
}
