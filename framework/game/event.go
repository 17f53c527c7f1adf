package game

import (
	"context"
	"errors"
	"time"

	"mahjong/framework/game/engines/mahjong"
)

type EventType string

const (
	EventGameStarted   EventType = "game.started"
	EventTileDrawn     EventType = "tile.drawn" // 不公开摸到的牌
	EventTileDiscarded EventType = "tile.discarded"
	EventGameWon       EventType = "game.won"
	EventWallExhausted EventType = "game.exhausted"
)

// Event 牌桌事件，推送给观战的 websocket 与 nats 订阅方
type Event struct {
	Type   EventType     `json:"type"`
	GameID string        `json:"gameId"`
	Seat   int           `json:"seat"`
	Player string        `json:"player,omitempty"`
	Tile   *mahjong.Tile `json:"tile,omitempty"`
	State  State         `json:"state"`
	At     time.Time     `json:"at"`
}

func newEvent(t *Table, typ EventType, seat int, tile *mahjong.Tile) Event {
	e := Event{
		Type:   typ,
		GameID: t.ID,
		Seat:   seat,
		Tile:   tile,
		State:  t.State(),
		At:     time.Now(),
	}
	if p, err := t.Player(seat); err == nil {
		e.Player = p.Name
	}
	return e
}

// Publisher 事件发布方
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Publishers 依次发布给所有下游，汇总错误
type Publishers []Publisher

func (ps Publishers) Publish(ctx context.Context, e Event) error {
	var errs []error
	for _, p := range ps {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
