package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"mahjong/framework/game"
	"mahjong/framework/game/engines/mahjong"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

const defaultMaxTurns = 200

var errQuit = errors.New("玩家退出")

var playFlags struct {
	players  []string
	seed     int64
	auto     bool
	maxTurns int
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "四人文字版对局，每回合选择要打出的牌",
	RunE: func(cmd *cobra.Command, args []string) error {
		seed := playFlags.seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		table, err := game.NewTable(uuid.NewString(), playFlags.players, game.WithRand(rand.New(rand.NewSource(seed))))
		if err != nil {
			return err
		}
		s := newSession(table, cmd.InOrStdin(), cmd.OutOrStdout())
		s.auto = playFlags.auto
		s.maxTurns = playFlags.maxTurns
		return s.run()
	},
}

func init() {
	playCmd.Flags().StringSliceVar(&playFlags.players, "players", []string{"东家", "南家", "西家", "北家"}, "四位玩家的名字")
	playCmd.Flags().Int64Var(&playFlags.seed, "seed", 0, "洗牌种子，0 表示随机")
	playCmd.Flags().BoolVar(&playFlags.auto, "auto", false, "自动打牌")
	playCmd.Flags().IntVar(&playFlags.maxTurns, "maxTurns", defaultMaxTurns, "最多进行的回合数")
}

type session struct {
	table    *game.Table
	in       *bufio.Scanner
	out      io.Writer
	auto     bool
	maxTurns int
}

func newSession(table *game.Table, in io.Reader, out io.Writer) *session {
	return &session{
		table:    table,
		in:       bufio.NewScanner(in),
		out:      out,
		maxTurns: defaultMaxTurns,
	}
}

func (s *session) separator() {
	fmt.Fprintln(s.out, strings.Repeat("=", 60))
}

func (s *session) run() error {
	if err := s.table.Start(); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "游戏开始！")
	s.printState()

	for turn := 1; !s.table.IsOver() && turn <= s.maxTurns; turn++ {
		more, err := s.playTurn()
		if errors.Is(err, errQuit) {
			fmt.Fprintln(s.out, "\n退出游戏")
			break
		}
		if err != nil {
			return err
		}
		if !more {
			break
		}
		if turn%game.PlayerCount == 0 {
			s.printState()
		}
	}

	s.separator()
	fmt.Fprintln(s.out, "游戏结束")
	s.separator()
	fmt.Fprintln(s.out, "最终点数:")
	for _, p := range s.table.Players {
		fmt.Fprintf(s.out, "  %s: %d 点\n", p.Name, p.Score)
	}
	return nil
}

func (s *session) printState() {
	state := s.table.State()
	s.separator()
	fmt.Fprintf(s.out, "【%s %d 局】牌山剩余: %d 张\n", state.RoundWind.DisplayName(), state.Round, state.WallRemaining)
	fmt.Fprintf(s.out, "当前玩家: %s\n", state.CurrentPlayer)
	s.separator()
	for _, p := range state.Players {
		fmt.Fprintf(s.out, "%s: %d 点 (手牌 %d 张，牌河 %d 张)\n", p.Name, p.Score, p.HandSize, len(p.Discards))
	}
	s.separator()
}

// playTurn 摸一张、打一张；返回 false 表示对局结束
func (s *session) playTurn() (bool, error) {
	t := s.table
	seat := t.CurrentSeat()
	p := t.CurrentPlayer()
	fmt.Fprintf(s.out, "\n%s 的回合\n", p.Name)

	tile, err := t.DrawPhase()
	if errors.Is(err, mahjong.ErrWallExhausted) {
		fmt.Fprintln(s.out, "牌山已摸完，流局")
		return false, nil
	}
	if err != nil {
		return false, err
	}
	fmt.Fprintf(s.out, "摸到: %s\n", tile)
	fmt.Fprintf(s.out, "%s 的手牌: %s (%d 张)\n", p.Name, p.Hand, p.Hand.Count())

	if t.Winner() == seat {
		fmt.Fprintf(s.out, "\n%s 自摸和了！\n", p.Name)
		return false, nil
	}

	discard, err := s.chooseDiscard(p, tile)
	if err != nil {
		return false, err
	}
	if err := t.DiscardPhase(discard); err != nil {
		return false, err
	}
	fmt.Fprintf(s.out, "打出: %s\n", discard)
	fmt.Fprintf(s.out, "牌河: %s\n", mahjong.FormatTiles(p.Discards))

	if waits, _ := t.Waits(seat); len(waits) > 0 {
		fmt.Fprintf(s.out, "【听牌】待: %s\n", mahjong.FormatTiles(waits))
	}
	return true, nil
}

func (s *session) chooseDiscard(p *game.Player, drawn mahjong.Tile) (mahjong.Tile, error) {
	if s.auto {
		return autoDiscard(p.Hand, drawn), nil
	}

	tiles := p.Hand.Tiles()
	fmt.Fprintln(s.out, "请选择要打出的牌:")
	for i, tile := range tiles {
		fmt.Fprintf(s.out, "  %d: %s\n", i+1, tile)
	}
	for {
		fmt.Fprintf(s.out, "输入编号 (1-%d): ", len(tiles))
		if !s.in.Scan() {
			return mahjong.Tile{}, errQuit
		}
		line := strings.TrimSpace(s.in.Text())
		if line == "" {
			continue
		}
		index, err := strconv.Atoi(line)
		if err != nil {
			fmt.Fprintln(s.out, "请输入数字")
			continue
		}
		if tile, ok := p.Hand.At(index - 1); ok {
			return tile, nil
		}
		fmt.Fprintf(s.out, "请输入 1 到 %d 之间的数字\n", len(tiles))
	}
}

// autoDiscard 优先打出后仍能听牌、待牌最多的那张，否则打出摸到的牌
func autoDiscard(h *mahjong.Hand, drawn mahjong.Tile) mahjong.Tile {
	tiles := h.Tiles()
	best, bestWaits := drawn, 0
	for i, candidate := range tiles {
		if i > 0 && tiles[i-1] == candidate {
			continue
		}
		rest := make([]mahjong.Tile, 0, len(tiles)-1)
		rest = append(rest, tiles[:i]...)
		rest = append(rest, tiles[i+1:]...)
		if n := mahjong.WaitingTiles(rest).Len(); n > bestWaits {
			best, bestWaits = candidate, n
		}
	}
	return best
}
