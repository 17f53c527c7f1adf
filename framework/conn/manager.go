package conn

import (
	"context"
	"hash/fnv"
	"net/http"
	"sync"

	"mahjong/common/log"
	"mahjong/framework/game"
	"mahjong/framework/stream"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var websocketUpgrade = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

// ClientBucket 按牌桌分组的连接
type ClientBucket struct {
	sync.RWMutex
	games map[string]map[string]*LongConnection
}

func NewClientBucket() *ClientBucket {
	return &ClientBucket{games: make(map[string]map[string]*LongConnection)}
}

// Manager 牌桌事件的 websocket 推送，实现 game.Publisher
type Manager struct {
	clientBuckets []*ClientBucket
	bucketMask    uint32
}

func NewManager() *Manager {
	bucketCount := 32
	m := &Manager{
		clientBuckets: make([]*ClientBucket, bucketCount),
		bucketMask:    uint32(bucketCount - 1),
	}
	for i := 0; i < bucketCount; i++ {
		m.clientBuckets[i] = NewClientBucket()
	}
	return m
}

func (m *Manager) bucket(gameID string) *ClientBucket {
	return m.clientBuckets[fnv32(gameID)&m.bucketMask]
}

// ServeWS 升级连接并订阅 gameID 的事件
func (m *Manager) ServeWS(w http.ResponseWriter, r *http.Request, gameID string) error {
	ws, err := websocketUpgrade.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	con := NewLongConnection(uuid.NewString(), gameID, ws, m)
	m.addClient(con)
	con.Run()
	log.Info("客户端[%s] 订阅牌桌 %s", con.ConnID, gameID)
	return nil
}

func (m *Manager) addClient(con *LongConnection) {
	b := m.bucket(con.GameID)
	b.Lock()
	defer b.Unlock()
	clients, ok := b.games[con.GameID]
	if !ok {
		clients = make(map[string]*LongConnection)
		b.games[con.GameID] = clients
	}
	clients[con.ConnID] = con
}

func (m *Manager) removeClient(con *LongConnection) {
	b := m.bucket(con.GameID)
	b.Lock()
	defer b.Unlock()
	clients := b.games[con.GameID]
	delete(clients, con.ConnID)
	if len(clients) == 0 {
		delete(b.games, con.GameID)
	}
}

func (m *Manager) clients(gameID string) []*LongConnection {
	b := m.bucket(gameID)
	b.RLock()
	defer b.RUnlock()
	out := make([]*LongConnection, 0, len(b.games[gameID]))
	for _, con := range b.games[gameID] {
		out = append(out, con)
	}
	return out
}

// Count 订阅 gameID 的连接数
func (m *Manager) Count(gameID string) int {
	b := m.bucket(gameID)
	b.RLock()
	defer b.RUnlock()
	return len(b.games[gameID])
}

// Publish 慢连接会被断开，不影响其他订阅者
func (m *Manager) Publish(_ context.Context, e game.Event) error {
	targets := m.clients(e.GameID)
	if len(targets) == 0 {
		return nil
	}
	msg, err := stream.NewMessage(string(e.Type), e.GameID, e)
	if err != nil {
		return err
	}
	buf, err := msg.Encode()
	if err != nil {
		return err
	}
	for _, con := range targets {
		_ = con.SendMessage(buf)
	}
	return nil
}

func (m *Manager) Close() {
	var all []*LongConnection
	for _, b := range m.clientBuckets {
		b.RLock()
		for _, clients := range b.games {
			for _, con := range clients {
				all = append(all, con)
			}
		}
		b.RUnlock()
	}
	for _, con := range all {
		con.Close()
	}
	log.Info("websocket manager 已关闭 %d 个连接", len(all))
}

func fnv32(key string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(key))
	return h.Sum32()
}
