package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mahjong/common/config"
	"mahjong/common/log"

	clientv3 "go.etcd.io/etcd/client/v3"
)

// Register 带租约的服务注册，续约通道断开时重新注册
type Register struct {
	etcdCli     *clientv3.Client
	leaseID     clientv3.LeaseID
	DialTimeout int
	keepAliveCh <-chan *clientv3.LeaseKeepAliveResponse
	info        Server
	closeCh     chan struct{}
	doneCh      chan struct{}
}

func NewRegister() *Register {
	return &Register{
		DialTimeout: 3,
	}
}

func (r *Register) Register(conf config.EtcdConf) error {
	r.info = ServerFromConf(conf.Register)
	if err := r.info.Validate(); err != nil {
		return err
	}
	if conf.DialTimeout > 0 {
		r.DialTimeout = conf.DialTimeout
	}

	var err error
	r.etcdCli, err = clientv3.New(clientv3.Config{
		Endpoints:   conf.Addrs,
		DialTimeout: r.timeout(),
	})
	if err != nil {
		return fmt.Errorf("连接 etcd 失败: %w", err)
	}

	if err = r.register(); err != nil {
		_ = r.etcdCli.Close()
		return err
	}

	r.closeCh = make(chan struct{})
	r.doneCh = make(chan struct{})
	go r.watch()
	log.Info("etcd 注册信息: %s", r.info.buildKey())
	return nil
}

func (r *Register) timeout() time.Duration {
	return time.Duration(r.DialTimeout) * time.Second
}

func (r *Register) register() error {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout())
	defer cancel()

	lease, err := r.etcdCli.Grant(ctx, r.info.Ttl)
	if err != nil {
		return fmt.Errorf("申请租约失败: %w", err)
	}
	r.leaseID = lease.ID

	// 续约的生命周期不能跟随上面的超时 ctx
	r.keepAliveCh, err = r.etcdCli.KeepAlive(context.Background(), r.leaseID)
	if err != nil {
		return fmt.Errorf("租约续期失败: %w", err)
	}

	data, err := json.Marshal(r.info)
	if err != nil {
		return err
	}
	if _, err = r.etcdCli.Put(ctx, r.info.buildKey(), string(data), clientv3.WithLease(r.leaseID)); err != nil {
		return fmt.Errorf("租约绑定失败: %w", err)
	}
	return nil
}

func (r *Register) watch() {
	defer close(r.doneCh)
	for {
		select {
		case _, ok := <-r.keepAliveCh:
			if ok {
				continue
			}
			log.Warn("etcd 续约通道关闭，重新注册 %s", r.info.buildKey())
			if err := r.register(); err != nil {
				log.Error("重新注册失败: %v", err)
				select {
				case <-time.After(r.timeout()):
				case <-r.closeCh:
					r.unregister()
					return
				}
			}
		case <-r.closeCh:
			r.unregister()
			return
		}
	}
}

func (r *Register) unregister() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout())
	defer cancel()

	if _, err := r.etcdCli.Delete(ctx, r.info.buildKey()); err != nil {
		log.Error("注销服务失败: %v", err)
	}
	if _, err := r.etcdCli.Revoke(ctx, r.leaseID); err != nil {
		log.Error("撤销租约失败: %v", err)
	}
	log.Info("关闭租约续期")
}

// Close 注销服务并关闭 etcd 连接
func (r *Register) Close() {
	if r.closeCh == nil {
		return
	}
	close(r.closeCh)
	<-r.doneCh
	_ = r.etcdCli.Close()
}
