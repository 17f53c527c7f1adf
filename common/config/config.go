package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Conf 当前生效的配置，由 InitConfig 设置
var Conf *Config

type Config struct {
	AppName      string       `mapstructure:"appName"`
	Log          LogConf      `mapstructure:"log"`
	HttpPort     int          `mapstructure:"httpPort"`
	MetricPort   int          `mapstructure:"metricPort"`
	GrpcConf     GrpcConf     `mapstructure:"grpc"`
	EtcdConf     EtcdConf     `mapstructure:"etcd"`
	JwtConf      JwtConf      `mapstructure:"jwt"`
	DatabaseConf DatabaseConf `mapstructure:"database"`
	NatsConf     NatsConf     `mapstructure:"nats"`
	CacheConf    CacheConf    `mapstructure:"cache"`
	GameConf     GameConf     `mapstructure:"game"`
	RateLimit    RateLimit    `mapstructure:"rateLimit"`
}

type LogConf struct {
	Level string `mapstructure:"level"`
}

type GrpcConf struct {
	Addr string `mapstructure:"addr"`
}

// EtcdConf Addrs 为空时不注册服务
type EtcdConf struct {
	Addrs       []string       `mapstructure:"addrs"`
	DialTimeout int            `mapstructure:"dialTimeout"`
	Register    RegisterServer `mapstructure:"register"`
}

type RegisterServer struct {
	Addr    string `mapstructure:"addr"`
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
	Weight  int    `mapstructure:"weight"`
	Ttl     int64  `mapstructure:"ttl"`
}

type JwtConf struct {
	Secret string `mapstructure:"secret"`
	Expire int    `mapstructure:"expire"` // 秒
}

type DatabaseConf struct {
	MongoConf MongoConf `mapstructure:"mongo"`
	RedisConf RedisConf `mapstructure:"redis"`
}

// MongoConf Url 为空时对局记录只保存在内存
type MongoConf struct {
	Url         string `mapstructure:"url"`
	Db          string `mapstructure:"db"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	MinPoolSize int    `mapstructure:"minPoolSize"`
	MaxPoolSize int    `mapstructure:"maxPoolSize"`
}

// RedisConf Addr 与 ClusterAddrs 都为空时牌桌快照只保存在内存
type RedisConf struct {
	Addr         string   `mapstructure:"addr"`
	ClusterAddrs []string `mapstructure:"clusterAddrs"`
	Password     string   `mapstructure:"password"`
	PoolSize     int      `mapstructure:"poolSize"`
	MinIdleConns int      `mapstructure:"minIdleConns"`
}

// NatsConf URL 为空时不发布事件
type NatsConf struct {
	URL     string `mapstructure:"url"`
	Subject string `mapstructure:"subject"`
}

type CacheConf struct {
	MaxCost int64 `mapstructure:"maxCost"`
	TTL     int   `mapstructure:"ttl"` // 秒，<= 0 不过期
}

type GameConf struct {
	MonitorInterval int `mapstructure:"monitorInterval"` // 秒
	SnapshotTTL     int `mapstructure:"snapshotTTL"`     // 秒
}

// RateLimit 每个客户端 IP 的令牌桶，Rate <= 0 不限流
type RateLimit struct {
	Rate  int `mapstructure:"rate"`
	Burst int `mapstructure:"burst"`
}

func (c CacheConf) TTLDuration() time.Duration {
	return time.Duration(c.TTL) * time.Second
}

func (c GameConf) MonitorPeriod() time.Duration {
	return time.Duration(c.MonitorInterval) * time.Second
}

func (c GameConf) SnapshotExpire() time.Duration {
	return time.Duration(c.SnapshotTTL) * time.Second
}

func (c JwtConf) ExpireDuration() time.Duration {
	return time.Duration(c.Expire) * time.Second
}

// setDefaults 每个键都要有默认值，AutomaticEnv 才能在 Unmarshal 时覆盖
func setDefaults(v *viper.Viper) {
	v.SetDefault("appName", "mahjong-gate")
	v.SetDefault("log.level", "info")
	v.SetDefault("httpPort", 8080)
	v.SetDefault("metricPort", 0)
	v.SetDefault("grpc.addr", "")
	v.SetDefault("etcd.addrs", []string{})
	v.SetDefault("etcd.dialTimeout", 3)
	v.SetDefault("etcd.register.addr", "")
	v.SetDefault("etcd.register.name", "gate")
	v.SetDefault("etcd.register.version", "v1")
	v.SetDefault("etcd.register.weight", 10)
	v.SetDefault("etcd.register.ttl", 10)
	v.SetDefault("jwt.secret", "mahjong-dev-secret")
	v.SetDefault("jwt.expire", 24*3600)
	v.SetDefault("database.mongo.url", "")
	v.SetDefault("database.mongo.db", "mahjong")
	v.SetDefault("database.mongo.username", "")
	v.SetDefault("database.mongo.password", "")
	v.SetDefault("database.mongo.minPoolSize", 2)
	v.SetDefault("database.mongo.maxPoolSize", 20)
	v.SetDefault("database.redis.addr", "")
	v.SetDefault("database.redis.password", "")
	v.SetDefault("database.redis.poolSize", 20)
	v.SetDefault("database.redis.minIdleConns", 2)
	v.SetDefault("nats.url", "")
	v.SetDefault("nats.subject", "mahjong.table")
	v.SetDefault("cache.maxCost", 1<<16)
	v.SetDefault("cache.ttl", 600)
	v.SetDefault("game.monitorInterval", 30)
	v.SetDefault("game.snapshotTTL", 24*3600)
	v.SetDefault("rateLimit.rate", 50)
	v.SetDefault("rateLimit.burst", 100)
}

func newViper(configFile string) *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if configFile != "" {
		v.SetConfigFile(configFile)
	}
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件出错: %w", err)
	}
	return cfg, nil
}

// Load 读取配置文件；configFile 为空时只使用默认值与环境变量
func Load(configFile string) (*Config, error) {
	v := newViper(configFile)
	if configFile != "" {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("读取配置文件出错: %w", err)
		}
	}
	return decode(v)
}

// InitConfig 加载配置并设置 Conf。指定了文件时监听变更，
// 重新解析成功后更新 Conf 并回调 onChange
func InitConfig(configFile string, onChange func(*Config)) error {
	v := newViper(configFile)
	if configFile != "" {
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("读取配置文件出错: %w", err)
		}
	}
	cfg, err := decode(v)
	if err != nil {
		return err
	}
	Conf = cfg

	if configFile != "" {
		v.OnConfigChange(func(in fsnotify.Event) {
			if !in.Has(fsnotify.Write) && !in.Has(fsnotify.Create) {
				return
			}
			next, err := decode(v)
			if err != nil {
				return
			}
			Conf = next
			if onChange != nil {
				onChange(next)
			}
		})
		v.WatchConfig()
	}
	return nil
}
