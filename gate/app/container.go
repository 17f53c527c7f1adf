package app

import (
	"context"
	"fmt"

	"mahjong/common/cache"
	"mahjong/common/config"
	"mahjong/common/database"
	"mahjong/common/log"
	"mahjong/core/domain/repository"
	"mahjong/core/infrastructure/persistence"
	"mahjong/core/infrastructure/realtime"
	"mahjong/framework/conn"
	"mahjong/framework/game"
	"mahjong/framework/game/engines/mahjong"
	"mahjong/framework/node"
	"mahjong/gate/api"

	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Container gate 依赖的组件。未配置的外部服务退化为内存实现
type Container struct {
	Cache    *cache.GeneralCache
	Searcher *mahjong.Searcher
	Redis    *database.RedisManager
	Mongo    *database.MongoManager
	Nats     *node.NatsPublisher
	Hub      *conn.Manager
	Rooms    *game.RoomManager
}

func NewContainer(ctx context.Context, conf *config.Config) (*Container, error) {
	c := &Container{Hub: conn.NewManager()}

	var err error
	c.Cache, err = cache.NewGeneralCache(conf.CacheConf.MaxCost, conf.CacheConf.TTLDuration())
	if err != nil {
		return nil, err
	}
	c.Searcher = mahjong.NewSearcher(c.Cache)

	var snapshots repository.SnapshotRepository = realtime.NewMemorySnapshotRepository()
	if database.Enabled(conf.DatabaseConf.RedisConf) {
		if c.Redis, err = database.NewRedis(ctx, conf.DatabaseConf.RedisConf); err != nil {
			c.Close()
			return nil, err
		}
		snapshots = realtime.NewRedisSnapshotRepository(c.Redis)
		log.Info("牌桌快照使用 redis")
	}

	var records repository.GameRecordRepository = persistence.NewMemoryGameRecordRepository()
	if conf.DatabaseConf.MongoConf.Url != "" {
		if c.Mongo, err = database.NewMongo(ctx, conf.DatabaseConf.MongoConf); err != nil {
			c.Close()
			return nil, err
		}
		repo := persistence.NewGameRecordRepository(c.Mongo)
		if err := repo.EnsureIndexes(ctx); err != nil {
			log.Warn("创建 game_records 索引失败: %v", err)
		}
		records = repo
		log.Info("对局记录使用 mongodb")
	}

	publishers := game.Publishers{c.Hub}
	if conf.NatsConf.URL != "" {
		if c.Nats, err = node.Connect(conf.NatsConf.URL, conf.NatsConf.Subject); err != nil {
			c.Close()
			return nil, fmt.Errorf("连接 nats 失败: %w", err)
		}
		publishers = append(publishers, c.Nats)
	}

	c.Rooms = game.NewRoomManager(
		game.WithTableSearcher(c.Searcher),
		game.WithSnapshotRepository(snapshots, conf.GameConf.SnapshotExpire()),
		game.WithGameRecordRepository(records),
		game.WithPublisher(publishers),
		game.WithTokenSecret(conf.JwtConf.Secret, conf.JwtConf.ExpireDuration()),
	)
	return c, nil
}

// HealthChecks 已启用的外部服务
func (c *Container) HealthChecks() map[string]api.HealthCheck {
	checks := make(map[string]api.HealthCheck)
	if c.Redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			cli, err := c.Redis.GetClient()
			if err != nil {
				return err
			}
			return cli.Ping(ctx).Err()
		}
	}
	if c.Mongo != nil {
		checks["mongo"] = func(ctx context.Context) error {
			return c.Mongo.Cli.Ping(ctx, readpref.Primary())
		}
	}
	if c.Nats != nil {
		checks["nats"] = func(context.Context) error {
			if cli, ok := c.Nats.Client().(*node.NatsClient); ok && !cli.IsConnected() {
				return node.ErrNotConnected
			}
			return nil
		}
	}
	return checks
}

func (c *Container) Close() {
	if c.Hub != nil {
		c.Hub.Close()
	}
	if c.Nats != nil {
		_ = c.Nats.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.Mongo != nil {
		_ = c.Mongo.Close()
	}
	if c.Cache != nil {
		c.Cache.Close()
	}
}
