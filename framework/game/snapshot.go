package game

import (
	"fmt"
	"time"

	"mahjong/core/domain/entity"
	"mahjong/framework/game/engines/mahjong"
)

func tilesToStrings(tiles []mahjong.Tile) []string {
	out := make([]string, len(tiles))
	for i, t := range tiles {
		out[i] = t.String()
	}
	return out
}

func stringsToTiles(ss []string) ([]mahjong.Tile, error) {
	out := make([]mahjong.Tile, 0, len(ss))
	for _, s := range ss {
		t, err := mahjong.ParseTile(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadSnapshot, err)
		}
		out = append(out, t)
	}
	return out, nil
}

// Snapshot 导出完整状态（含手牌与牌山顺序）
func (t *Table) Snapshot() *entity.TableSnapshot {
	snap := &entity.TableSnapshot{
		GameID:      t.ID,
		Round:       t.Round,
		RoundWind:   t.RoundWind.String(),
		CurrentSeat: t.current,
		Phase:       t.phase.String(),
		Winner:      t.winner,
		Turns:       t.turns,
		Players:     make([]entity.PlayerSnapshot, 0, len(t.Players)),
		StartedAt:   t.startedAt,
		UpdatedAt:   time.Now(),
	}
	if t.wall != nil {
		snap.Wall = tilesToStrings(t.wall.Tiles())
	}
	for _, p := range t.Players {
		snap.Players = append(snap.Players, entity.PlayerSnapshot{
			Name:     p.Name,
			Score:    p.Score,
			Hand:     tilesToStrings(p.Hand.Tiles()),
			Discards: tilesToStrings(p.Discards),
		})
	}
	return snap
}

// RestoreTable 从快照恢复牌桌；牌的总数必须守恒
func RestoreTable(snap *entity.TableSnapshot, opts ...TableOption) (*Table, error) {
	if snap == nil {
		return nil, fmt.Errorf("%w: nil", ErrBadSnapshot)
	}
	names := make([]string, len(snap.Players))
	for i, p := range snap.Players {
		names[i] = p.Name
	}
	t, err := NewTable(snap.GameID, names, opts...)
	if err != nil {
		return nil, err
	}
	if snap.CurrentSeat < 0 || snap.CurrentSeat > maxSeatIndex {
		return nil, fmt.Errorf("%w: current seat %d", ErrBadSnapshot, snap.CurrentSeat)
	}
	if snap.Winner != NoWinner && (snap.Winner < 0 || snap.Winner > maxSeatIndex) {
		return nil, fmt.Errorf("%w: winner %d", ErrBadSnapshot, snap.Winner)
	}
	if t.phase, err = parsePhase(snap.Phase); err != nil {
		return nil, err
	}
	if t.RoundWind, err = mahjong.ParseTile(snap.RoundWind); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSnapshot, err)
	}

	wall, err := stringsToTiles(snap.Wall)
	if err != nil {
		return nil, err
	}
	all := append([]mahjong.Tile{}, wall...)
	for i, ps := range snap.Players {
		hand, err := stringsToTiles(ps.Hand)
		if err != nil {
			return nil, err
		}
		discards, err := stringsToTiles(ps.Discards)
		if err != nil {
			return nil, err
		}
		p := t.Players[i]
		p.Score = ps.Score
		p.Hand.AddAll(hand)
		p.Discards = discards
		all = append(all, hand...)
		all = append(all, discards...)
	}
	if t.phase != PhaseWaiting {
		if err := checkConservation(all); err != nil {
			return nil, err
		}
		t.wall = mahjong.RestoreWall(wall)
	}

	t.Round = snap.Round
	t.current = snap.CurrentSeat
	t.winner = snap.Winner
	t.turns = snap.Turns
	t.startedAt = snap.StartedAt
	return t, nil
}

func checkConservation(all []mahjong.Tile) error {
	if len(all) != mahjong.TileLimit {
		return fmt.Errorf("%w: %d tiles in play", ErrBadSnapshot, len(all))
	}
	for i, c := range mahjong.Hand34FromTiles(all) {
		if c != mahjong.CopiesLimit {
			return fmt.Errorf("%w: kind %s has %d copies", ErrBadSnapshot, mahjong.AllTileKinds()[i], c)
		}
	}
	return nil
}
