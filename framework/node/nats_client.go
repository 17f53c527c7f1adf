package node

import (
	"sync"

	"mahjong/common/log"

	"github.com/nats-io/nats.go"
)

type Client interface {
	Run(string) error
	SendMessage(string, []byte) error
	Close() error
}

// NatsClient 不能及时发现 nats 服务关闭
type NatsClient struct {
	conn *nats.Conn

	mu   sync.Mutex
	subs []*nats.Subscription
}

func NewNatsClient() *NatsClient {
	return &NatsClient{}
}

func (nc *NatsClient) IsConnected() bool {
	return nc.conn != nil && nc.conn.IsConnected()
}

func (nc *NatsClient) Run(url string) error {
	log.Info("nats 服务正在连接, url:%s", url)
	var err error
	nc.conn, err = nats.Connect(url, nats.Name("mahjong"), nats.MaxReconnects(-1))
	if err != nil {
		log.Error("nats 连接错误,err:%v", err)
		return err
	}
	log.Info("nats 连接成功, url:%s", url)
	return nil
}

// Subscribe subject 支持通配符，回调在 nats 的分发协程里执行
func (nc *NatsClient) Subscribe(subject string, fn func(subject string, data []byte)) error {
	if !nc.IsConnected() {
		return ErrNotConnected
	}
	sub, err := nc.conn.Subscribe(subject, func(msg *nats.Msg) {
		fn(msg.Subject, msg.Data)
	})
	if err != nil {
		log.Error("nats sub err:%v", err)
		return err
	}
	nc.mu.Lock()
	nc.subs = append(nc.subs, sub)
	nc.mu.Unlock()
	return nil
}

func (nc *NatsClient) Close() error {
	if nc.conn == nil {
		return nil
	}

	nc.mu.Lock()
	for _, sub := range nc.subs {
		_ = sub.Unsubscribe()
	}
	nc.subs = nil
	nc.mu.Unlock()

	if err := nc.conn.Drain(); err != nil {
		nc.conn.Close()
	}
	log.Info("NATS 连接已关闭")
	return nil
}

func (nc *NatsClient) SendMessage(subject string, data []byte) error {
	if !nc.IsConnected() {
		return ErrNotConnected
	}

	return nc.conn.Publish(subject, data)
}
