package stream

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrInvalidMessage = errors.New("无效的消息")

// Message 推送给订阅者的消息，websocket 与 nats 共用
type Message struct {
	Route  string          `json:"route"`
	GameID string          `json:"gameId"`
	Data   json.RawMessage `json:"data"`
}

func NewMessage(route, gameID string, data any) (*Message, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	return &Message{Route: route, GameID: gameID, Data: raw}, nil
}

func (m *Message) Encode() ([]byte, error) {
	return json.Marshal(m)
}

func Decode(buf []byte) (*Message, error) {
	var m Message
	if err := json.Unmarshal(buf, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	if m.Route == "" {
		return nil, fmt.Errorf("%w: 缺少 route", ErrInvalidMessage)
	}
	return &m, nil
}
