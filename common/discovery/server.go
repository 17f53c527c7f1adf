package discovery

import (
	"fmt"
	"strings"

	"mahjong/common/config"
)

const keyPrefix = "/mahjong/services"

// Server 注册到 etcd 的节点信息
type Server struct {
	Name    string `json:"name"`
	Addr    string `json:"addr"`
	Version string `json:"version"`
	Weight  int    `json:"weight"`
	Ttl     int64  `json:"ttl"`
}

func ServerFromConf(conf config.RegisterServer) Server {
	return Server{
		Name:    conf.Name,
		Addr:    conf.Addr,
		Version: conf.Version,
		Weight:  conf.Weight,
		Ttl:     conf.Ttl,
	}
}

func (s Server) Validate() error {
	if s.Name == "" || s.Addr == "" {
		return fmt.Errorf("服务注册信息不完整: name=%q addr=%q", s.Name, s.Addr)
	}
	if s.Ttl <= 0 {
		return fmt.Errorf("服务租约 ttl 必须大于 0, got %d", s.Ttl)
	}
	return nil
}

// buildKey /mahjong/services/{name}/{version}/{addr}
func (s Server) buildKey() string {
	if s.Version == "" {
		return strings.Join([]string{keyPrefix, s.Name, s.Addr}, "/")
	}
	return strings.Join([]string{keyPrefix, s.Name, s.Version, s.Addr}, "/")
}
