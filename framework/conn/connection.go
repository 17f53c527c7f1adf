package conn

import (
	"errors"
	"sync"
	"time"

	"mahjong/common/log"

	"github.com/gorilla/websocket"
)

var (
	ErrConnectionClosed = errors.New("连接已关闭")
	ErrSlowConsumer     = errors.New("发送队列已满")
)

var (
	pongWait             = 60 * time.Second
	writeWait            = 10 * time.Second
	pingInterval         = (pongWait * 9) / 10
	maxMessageSize int64 = 1024
	writeQueueSize       = 64
)

// LongConnection 观战连接，只推送，客户端发来的消息被丢弃
type LongConnection struct {
	ConnID    string
	GameID    string
	Conn      *websocket.Conn
	manager   *Manager
	WriteChan chan []byte
	closeChan chan struct{}
	closeOnce sync.Once
}

func NewLongConnection(id, gameID string, conn *websocket.Conn, manager *Manager) *LongConnection {
	return &LongConnection{
		ConnID:    id,
		GameID:    gameID,
		Conn:      conn,
		manager:   manager,
		WriteChan: make(chan []byte, writeQueueSize),
		closeChan: make(chan struct{}),
	}
}

func (con *LongConnection) Run() {
	con.Conn.SetPongHandler(con.PongHandler)
	go con.readMessage()
	go con.writeMessage()
}

func (con *LongConnection) writeMessage() {
	pingTicker := time.NewTicker(pingInterval)
	defer pingTicker.Stop()

	for {
		select {
		case message := <-con.WriteChan:
			_ = con.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := con.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Error("客户端[%s] write err :%+v", con.ConnID, err)
				con.Close()
				return
			}
		case <-pingTicker.C:
			_ = con.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := con.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Error("客户端[%s] ping err :%+v", con.ConnID, err)
				con.Close()
				return
			}
		case <-con.closeChan:
			_ = con.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = con.Conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			_ = con.Conn.Close()
			return
		}
	}
}

func (con *LongConnection) readMessage() {
	defer con.Close()
	con.Conn.SetReadLimit(maxMessageSize)
	if err := con.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Error("SetReadDeadline err:%v", err)
		return
	}
	for {
		if _, _, err := con.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Error("客户端[%s] 异常错误: %v", con.ConnID, err)
			}
			return
		}
	}
}

func (con *LongConnection) PongHandler(string) error {
	return con.Conn.SetReadDeadline(time.Now().Add(pongWait))
}

// SendMessage 不阻塞，队列满时断开
func (con *LongConnection) SendMessage(buf []byte) error {
	select {
	case <-con.closeChan:
		return ErrConnectionClosed
	default:
	}
	select {
	case con.WriteChan <- buf:
		return nil
	default:
		log.Warn("客户端[%s] 发送队列已满，断开连接", con.ConnID)
		con.Close()
		return ErrSlowConsumer
	}
}

func (con *LongConnection) Close() {
	//确保只执行一次
	con.closeOnce.Do(func() {
		close(con.closeChan)
		if con.manager != nil {
			con.manager.removeClient(con)
		}
		log.Info("客户端[%s] 连接关闭", con.ConnID)
	})
}
