package game

import "errors"

// 牌桌流程错误
var (
	ErrPlayerCount   = errors.New("mahjong requires exactly 4 players")
	ErrGameNotStart  = errors.New("game not started")
	ErrGameOver      = errors.New("game is over")
	ErrWrongPhase    = errors.New("action not allowed in current phase")
	ErrNotYourTurn   = errors.New("not your turn")
	ErrTileNotInHand = errors.New("tile not in hand")
	ErrInvalidSeat   = errors.New("invalid seat")
)

// 房间管理错误
var (
	ErrGameNotFound = errors.New("game not found")
	ErrBadSnapshot  = errors.New("bad table snapshot")
)
