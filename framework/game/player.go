package game

import "mahjong/framework/game/engines/mahjong"

// StartingScore 标准规则的起始点数
const StartingScore = 25000

// Player 牌桌上的玩家
type Player struct {
	Name     string
	Hand     *mahjong.Hand
	Discards []mahjong.Tile
	Score    int
}

func NewPlayer(name string) *Player {
	return &Player{
		Name:  name,
		Hand:  mahjong.NewHand(),
		Score: StartingScore,
	}
}

func (p *Player) Draw(t mahjong.Tile) {
	p.Hand.Add(t)
}

// Discard 打出一张并记入牌河，手中没有返回 false
func (p *Player) Discard(t mahjong.Tile) bool {
	if !p.Hand.Discard(t) {
		return false
	}
	p.Discards = append(p.Discards, t)
	return true
}

func (p *Player) reset() {
	p.Hand = mahjong.NewHand()
	p.Discards = nil
}
