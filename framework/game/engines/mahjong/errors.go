package mahjong

import "errors"

// 牌与手牌相关错误
var (
	ErrInvalidTileSpec = errors.New("invalid tile spec")
	ErrInvalidNotation = errors.New("invalid tile notation")
	ErrWrongHandSize   = errors.New("wrong hand size")
)

// 牌山相关错误
var (
	ErrWallExhausted  = errors.New("wall exhausted")
	ErrNotEnoughTiles = errors.New("not enough tiles in wall")
)
