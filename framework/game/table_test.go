package game

import (
	"errors"
	"math/rand"
	"testing"

	"mahjong/core/domain/entity"
	"mahjong/framework/game/engines/mahjong"
)

var names = []string{"alice", "bob", "carol", "dave"}

var riggedHands = [PlayerCount]string{
	"111m222m333m456p7s",
	"444m555m666m777m8m",
	"123p789p123s456s9s",
	"EEESSSWWWNNNP",
}

func tiles(s string) []mahjong.Tile {
	return mahjong.MustParseHand(s)
}

// riggedSnapshot 构造一张正在等待座位 0 摸牌的牌桌：draws 按顺序被摸到，
// 牌山只保留 wallSize 张，多余的牌记入座位 0 的牌河
func riggedSnapshot(t *testing.T, draws string, wallSize int) *entity.TableSnapshot {
	t.Helper()
	counts := mahjong.Hand34FromTiles(nil)
	for i := range counts {
		counts[i] = mahjong.CopiesLimit
	}
	take := func(ts []mahjong.Tile) {
		for _, tile := range ts {
			counts[tile.Index()]--
			if counts[tile.Index()] < 0 {
				t.Fatalf("rigged fixture uses too many %s", tile)
			}
		}
	}

	snap := &entity.TableSnapshot{GameID: "rigged", Round: 1, RoundWind: "E", Phase: "draw", Winner: NoWinner}
	for i, h := range riggedHands {
		hand := tiles(h)
		take(hand)
		snap.Players = append(snap.Players, entity.PlayerSnapshot{Name: names[i], Score: StartingScore, Hand: tilesToStrings(hand)})
	}
	next := tiles(draws)
	take(next)

	var rest []mahjong.Tile
	for i, c := range counts {
		for n := 0; n < c; n++ {
			rest = append(rest, mahjong.AllTileKinds()[i])
		}
	}
	keep := wallSize - len(next)
	if keep < 0 || keep > len(rest) {
		t.Fatalf("bad wall size %d", wallSize)
	}
	wall := append([]mahjong.Tile{}, rest[:keep]...)
	for i := len(next) - 1; i >= 0; i-- {
		wall = append(wall, next[i])
	}
	snap.Wall = tilesToStrings(wall)
	snap.Players[0].Discards = tilesToStrings(rest[keep:])
	return snap
}

func riggedTable(t *testing.T, draws string, wallSize int) *Table {
	t.Helper()
	table, err := RestoreTable(riggedSnapshot(t, draws, wallSize))
	if err != nil {
		t.Fatalf("RestoreTable: %v", err)
	}
	return table
}

func TestNewTable_RequiresFourPlayers(t *testing.T) {
	for _, n := range []int{0, 3, 5} {
		if _, err := NewTable("x", make([]string, n)); !errors.Is(err, ErrPlayerCount) {
			t.Fatalf("%d players: expected ErrPlayerCount, got %v", n, err)
		}
	}
	table, err := NewTable("x", names)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	if table.Round != 1 || table.RoundWind.String() != "E" || table.Phase() != PhaseWaiting {
		t.Fatalf("unexpected initial table %+v", table.State())
	}
	for _, p := range table.Players {
		if p.Score != StartingScore {
			t.Fatalf("starting score expected %d, got %d", StartingScore, p.Score)
		}
	}
	if _, err := table.DrawPhase(); !errors.Is(err, ErrGameNotStart) {
		t.Fatalf("draw before start: expected ErrGameNotStart, got %v", err)
	}
}

func TestTable_StartDeals(t *testing.T) {
	table, _ := NewTable("x", names, WithRand(rand.New(rand.NewSource(1))))
	if err := table.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if table.WallRemaining() != mahjong.TileLimit-PlayerCount*InitialHand {
		t.Fatalf("wall remaining %d", table.WallRemaining())
	}
	state := table.State()
	if state.CurrentSeat != 0 || state.CurrentPlayer != "alice" || state.Phase != "draw" {
		t.Fatalf("unexpected state %+v", state)
	}
	for _, p := range state.Players {
		if p.HandSize != InitialHand || len(p.Discards) != 0 {
			t.Fatalf("unexpected player state %+v", p)
		}
	}
}

func TestTable_TurnFlow(t *testing.T) {
	table := riggedTable(t, "C", 40)

	if err := table.DiscardPhase(tiles("7s")[0]); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("discard before draw: expected ErrWrongPhase, got %v", err)
	}
	tile, err := table.DrawPhase()
	if err != nil || tile.String() != "C" {
		t.Fatalf("draw: %v %v", tile, err)
	}
	if table.Phase() != PhaseDiscard || table.Turns() != 1 {
		t.Fatalf("unexpected phase %s", table.Phase())
	}
	if ok, _ := table.CheckTenpai(0); ok {
		t.Fatalf("14 tiles are never tenpai")
	}
	if err := table.DiscardPhase(tiles("9s")[0]); !errors.Is(err, ErrTileNotInHand) {
		t.Fatalf("expected ErrTileNotInHand, got %v", err)
	}
	if err := table.DiscardPhase(tiles("C")[0]); err != nil {
		t.Fatalf("discard: %v", err)
	}
	if table.CurrentSeat() != 1 || table.Phase() != PhaseDraw {
		t.Fatalf("turn should pass to seat 1, got %d %s", table.CurrentSeat(), table.Phase())
	}
	ok, err := table.CheckTenpai(0)
	if err != nil || !ok {
		t.Fatalf("seat 0 should be tenpai again")
	}
	waits, _ := table.Waits(0)
	if len(waits) != 1 || waits[0].String() != "7s" {
		t.Fatalf("waits expected [7s], got %v", waits)
	}
	if got := table.State().Players[0].Discards; len(got) == 0 || got[len(got)-1].String() != "C" {
		t.Fatalf("discard should be recorded, got %v", got)
	}
	if _, err := table.Waits(4); !errors.Is(err, ErrInvalidSeat) {
		t.Fatalf("expected ErrInvalidSeat, got %v", err)
	}
}

func TestTable_DrawWins(t *testing.T) {
	table := riggedTable(t, "7s", 40)
	tile, err := table.DrawPhase()
	if err != nil || tile.String() != "7s" {
		t.Fatalf("draw: %v %v", tile, err)
	}
	if !table.IsOver() || table.Winner() != 0 {
		t.Fatalf("seat 0 should win, winner=%d phase=%s", table.Winner(), table.Phase())
	}
	if ok, _ := table.CheckWin(0); !ok {
		t.Fatalf("CheckWin(0) should be true")
	}
	if _, err := table.DrawPhase(); !errors.Is(err, ErrGameOver) {
		t.Fatalf("expected ErrGameOver, got %v", err)
	}
}

func TestTable_WallExhausted(t *testing.T) {
	table := riggedTable(t, "", 0)
	if _, err := table.DrawPhase(); !errors.Is(err, mahjong.ErrWallExhausted) {
		t.Fatalf("expected ErrWallExhausted, got %v", err)
	}
	if !table.IsOver() || table.Winner() != NoWinner {
		t.Fatalf("exhausted wall ends the game without winner")
	}
}

func TestTable_PlayoutConservesTiles(t *testing.T) {
	for seed := int64(0); seed < 5; seed++ {
		table, _ := NewTable("x", names, WithRand(rand.New(rand.NewSource(seed))))
		if err := table.Start(); err != nil {
			t.Fatalf("Start: %v", err)
		}
		for !table.IsOver() {
			if _, err := table.DrawPhase(); err != nil {
				if !errors.Is(err, mahjong.ErrWallExhausted) {
					t.Fatalf("draw: %v", err)
				}
				break
			}
			if table.IsOver() {
				break
			}
			first, _ := table.CurrentPlayer().Hand.At(0)
			if err := table.DiscardPhase(first); err != nil {
				t.Fatalf("discard: %v", err)
			}
			if err := checkConservation(allTiles(table)); err != nil {
				t.Fatalf("seed %d: %v", seed, err)
			}
		}
		if table.Winner() == NoWinner && table.WallRemaining() != 0 {
			t.Fatalf("seed %d: game ended with tiles left and no winner", seed)
		}
	}
}

func allTiles(table *Table) []mahjong.Tile {
	all := table.wall.Tiles()
	for _, p := range table.Players {
		all = append(all, p.Hand.Tiles()...)
		all = append(all, p.Discards...)
	}
	return all
}
