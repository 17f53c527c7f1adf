package database

import (
	"context"
	"fmt"
	"time"

	"mahjong/common/config"
	"mahjong/common/log"

	"github.com/redis/go-redis/v9"
)

// RedisManager 单机或集群客户端，二者只会初始化一个
type RedisManager struct {
	Cli        *redis.Client
	ClusterCli *redis.ClusterClient
}

// Enabled 是否配置了 redis
func Enabled(redisConf config.RedisConf) bool {
	return redisConf.Addr != "" || len(redisConf.ClusterAddrs) > 0
}

func NewRedis(ctx context.Context, redisConf config.RedisConf) (*RedisManager, error) {
	if !Enabled(redisConf) {
		return nil, fmt.Errorf("redis 配置出错: addr 与 clusterAddrs 均为空")
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	m := &RedisManager{}
	if len(redisConf.ClusterAddrs) == 0 {
		m.Cli = redis.NewClient(&redis.Options{
			Addr:         redisConf.Addr,
			Password:     redisConf.Password,
			PoolSize:     redisConf.PoolSize,
			MinIdleConns: redisConf.MinIdleConns,
		})
	} else {
		m.ClusterCli = redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:        redisConf.ClusterAddrs,
			Password:     redisConf.Password,
			PoolSize:     redisConf.PoolSize,
			MinIdleConns: redisConf.MinIdleConns,
		})
	}

	cli, _ := m.GetClient()
	if err := cli.Ping(ctx).Err(); err != nil {
		_ = m.Close()
		return nil, fmt.Errorf("redis 连接错误: %w", err)
	}
	return m, nil
}

// NewRedisFromClient 包装已有客户端
func NewRedisFromClient(cli *redis.Client) *RedisManager {
	return &RedisManager{Cli: cli}
}

func (r *RedisManager) GetClient() (redis.Cmdable, error) {
	if r.Cli != nil {
		return r.Cli, nil
	}
	if r.ClusterCli != nil {
		return r.ClusterCli, nil
	}
	return nil, fmt.Errorf("redis 客户端未初始化")
}

func (r *RedisManager) Set(ctx context.Context, key, value string, expiration time.Duration) error {
	cli, err := r.GetClient()
	if err != nil {
		return err
	}
	return cli.Set(ctx, key, value, expiration).Err()
}

// Get key 不存在时返回 redis.Nil
func (r *RedisManager) Get(ctx context.Context, key string) (string, error) {
	cli, err := r.GetClient()
	if err != nil {
		return "", err
	}
	return cli.Get(ctx, key).Result()
}

func (r *RedisManager) Del(ctx context.Context, keys ...string) error {
	cli, err := r.GetClient()
	if err != nil {
		return err
	}
	return cli.Del(ctx, keys...).Err()
}

func (r *RedisManager) Close() error {
	if r.Cli != nil {
		if err := r.Cli.Close(); err != nil {
			log.Error("redis 关闭出错: %v", err)
			return err
		}
	}
	if r.ClusterCli != nil {
		if err := r.ClusterCli.Close(); err != nil {
			log.Error("redisCluster 关闭出错: %v", err)
			return err
		}
	}
	return nil
}
