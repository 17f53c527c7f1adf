package persistence

import (
	"context"
	"errors"
	"fmt"

	"mahjong/common/database"
	"mahjong/common/log"
	"mahjong/core/domain/entity"
	"mahjong/core/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const gameRecordCollection = "game_records"

type GameRecordRepository struct {
	mongo *database.MongoManager
}

func NewGameRecordRepository(mongo *database.MongoManager) *GameRecordRepository {
	return &GameRecordRepository{mongo: mongo}
}

// EnsureIndexes game_id 唯一，players.name 用于按玩家查询
func (r *GameRecordRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection().Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "game_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "players.name", Value: 1}, {Key: "start_time", Value: -1}}},
	})
	return err
}

func (r *GameRecordRepository) collection() *mongo.Collection {
	return r.mongo.Db.Collection(gameRecordCollection)
}

// SaveGameRecord 按 game_id upsert，_id 只在首次写入时生效
func (r *GameRecordRepository) SaveGameRecord(ctx context.Context, record *entity.GameRecord) error {
	update := bson.M{
		"$set": bson.M{
			"players":    record.Players,
			"start_time": record.StartTime,
			"end_time":   record.EndTime,
			"duration":   record.Duration,
			"turns":      record.Turns,
			"result":     record.Result,
			"status":     record.Status,
		},
		"$setOnInsert": bson.M{
			"_id":        record.ID,
			"created_at": record.CreatedAt,
		},
	}
	_, err := r.collection().UpdateOne(ctx, bson.M{"game_id": record.GameID}, update, options.Update().SetUpsert(true))
	if err != nil {
		log.Error("保存对局记录失败: %v", err)
		return fmt.Errorf("%w: %v", repository.ErrStorage, err)
	}
	return nil
}

// FindGameRecord 根据 GameID 查找对局记录
func (r *GameRecordRepository) FindGameRecord(ctx context.Context, gameID string) (*entity.GameRecord, error) {
	var record entity.GameRecord
	err := r.collection().FindOne(ctx, bson.M{"game_id": gameID}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrGameRecordNotFound
		}
		log.Error("查询对局记录失败: %v", err)
		return nil, fmt.Errorf("%w: %v", repository.ErrStorage, err)
	}
	return &record, nil
}

// FindGameRecordsByPlayer 查找玩家参与的对局记录（分页）
func (r *GameRecordRepository) FindGameRecordsByPlayer(ctx context.Context, name string, limit, offset int) ([]*entity.GameRecord, error) {
	opts := options.Find().
		SetSort(bson.M{"start_time": -1}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	cursor, err := r.collection().Find(ctx, bson.M{"players.name": name}, opts)
	if err != nil {
		log.Error("查询玩家对局记录失败: %v", err)
		return nil, fmt.Errorf("%w: %v", repository.ErrStorage, err)
	}
	defer cursor.Close(ctx)

	var records []*entity.GameRecord
	if err := cursor.All(ctx, &records); err != nil {
		log.Error("解析对局记录失败: %v", err)
		return nil, fmt.Errorf("%w: %v", repository.ErrStorage, err)
	}
	return records, nil
}
