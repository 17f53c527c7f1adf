package repository

import (
	"context"

	"mahjong/core/domain/entity"
)

// GameRecordRepository 对局记录仓储接口
type GameRecordRepository interface {
	// SaveGameRecord 按 GameID 覆盖保存
	SaveGameRecord(ctx context.Context, record *entity.GameRecord) error

	FindGameRecord(ctx context.Context, gameID string) (*entity.GameRecord, error)

	// FindGameRecordsByPlayer 按开始时间倒序分页
	FindGameRecordsByPlayer(ctx context.Context, name string, limit, offset int) ([]*entity.GameRecord, error)
}
